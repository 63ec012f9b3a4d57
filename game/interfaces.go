package game

import (
	"context"
	"time"

	"github.com/Faltri/imposter-word-game/domain"
)

type UniqueIdGenerator interface {
	Generate() string
	Dispose(id string)
}

type PeriodicTickerChannelCreator interface {
	Create(duration time.Duration) <-chan time.Time
}

// Assistant is the optional text generation service. Every error is recovered locally.
type Assistant interface {
	GenerateCategory(ctx context.Context, theme string, lang domain.Language) (domain.Category, error)
	GenerateClue(ctx context.Context, req domain.ClueRequest) (string, error)
	GenerateGuess(ctx context.Context, req domain.GuessRequest) (string, error)
}

type Timer interface {
	Stop() bool
}

// Scheduler runs f once after d.
type Scheduler interface {
	AfterFunc(d time.Duration, f func()) Timer
}

type WebsocketConnection interface {
	Close(errCode string)
	Write(data []byte) error
	Read() (binary bool, data []byte, err error)
	Ping() error
}

type parentLobby interface {
	RemoveRoom(roomId string)
}
