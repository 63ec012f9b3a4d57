package game

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/Faltri/imposter-word-game/domain"
	"github.com/stretchr/testify/mock"
)

// --- WebsocketConnection ---

type MockWebsocketConnection struct {
	mock.Mock
}

func (m *MockWebsocketConnection) Close(errCode string) {
	m.Called(errCode)
}

func (m *MockWebsocketConnection) Write(data []byte) error {
	args := m.Called(data)
	return args.Error(0)
}

func (m *MockWebsocketConnection) Read() (bool, []byte, error) {
	args := m.Called()
	return args.Bool(0), args.Get(1).([]byte), args.Error(2)
}

func (m *MockWebsocketConnection) Ping() error {
	args := m.Called()
	return args.Error(0)
}

// --- UniqueIdGenerator ---

type MockUniqueIdGenerator struct {
	mock.Mock
}

func (m *MockUniqueIdGenerator) Generate() string {
	args := m.Called()
	return args.String(0)
}

func (m *MockUniqueIdGenerator) Dispose(id string) {
	m.Called(id)
}

// --- PeriodicTickerChannelCreator ---

type MockPeriodicTickerChannelCreator struct {
	mock.Mock
}

func (m *MockPeriodicTickerChannelCreator) Create(duration time.Duration) <-chan time.Time {
	args := m.Called(duration)
	return args.Get(0).(chan time.Time)
}

// --- Assistant ---

type MockAssistant struct {
	mock.Mock
}

func (m *MockAssistant) GenerateCategory(ctx context.Context, theme string, lang domain.Language) (domain.Category, error) {
	args := m.Called(ctx, theme, lang)
	return args.Get(0).(domain.Category), args.Error(1)
}

func (m *MockAssistant) GenerateClue(ctx context.Context, req domain.ClueRequest) (string, error) {
	args := m.Called(ctx, req)
	return args.String(0), args.Error(1)
}

func (m *MockAssistant) GenerateGuess(ctx context.Context, req domain.GuessRequest) (string, error) {
	args := m.Called(ctx, req)
	return args.String(0), args.Error(1)
}

// --- parentLobby ---

type MockLobby struct {
	mock.Mock
}

func (m *MockLobby) RemoveRoom(roomId string) {
	m.Called(roomId)
}

// --- Scheduler ---

type fakeTimer struct {
	delay   time.Duration
	f       func()
	stopped atomic.Bool
}

func (ft *fakeTimer) Stop() bool {
	return !ft.stopped.Swap(true)
}

// Fire runs the callback the way time.AfterFunc would, unless the timer was stopped.
func (ft *fakeTimer) Fire() bool {
	if ft.stopped.Load() {
		return false
	}
	go ft.f()
	return true
}

// fakeScheduler records every timer instead of running it.
type fakeScheduler struct {
	mu     sync.Mutex
	timers []*fakeTimer
}

func (fs *fakeScheduler) AfterFunc(d time.Duration, f func()) Timer {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	ft := &fakeTimer{delay: d, f: f}
	fs.timers = append(fs.timers, ft)
	return ft
}

func (fs *fakeScheduler) Count() int {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	return len(fs.timers)
}

func (fs *fakeScheduler) Last() *fakeTimer {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	if len(fs.timers) == 0 {
		return nil
	}
	return fs.timers[len(fs.timers)-1]
}
