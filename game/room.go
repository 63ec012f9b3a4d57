package game

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/Faltri/imposter-word-game/domain"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

type RoomConfigs struct {
	AITimeout   time.Duration
	IdleTimeout time.Duration
}

type roomRequest struct {
	action *domain.Action
	reply  chan roomReply
}

type roomReply struct {
	snapshot Snapshot
	err      error
}

// roomEvent is a task coming due, or, with completed set, the AI service's answer to it.
type roomEvent struct {
	task      Task
	completed bool
	category  domain.Category
	text      string
	err       error
}

// Room owns one Session and serializes every access to it on the GameLoop goroutine.
type Room struct {
	id        string
	session   *Session
	assistant Assistant
	scheduler Scheduler
	configs   RoomConfigs
	lobby     parentLobby
	logger    zerolog.Logger
	now       func() time.Time

	clients      map[*Client]struct{}
	timer        Timer
	lastActivity time.Time
	reaping      bool

	requests  chan roomRequest
	events    chan roomEvent
	ticks     chan time.Time
	pings     chan struct{}
	joins     chan *Client
	leaves    chan *Client
	closeReq  chan struct{}
	done      chan struct{}
	closeOnce sync.Once

	ctx    context.Context
	cancel context.CancelFunc
}

func NewRoom(session *Session, assistant Assistant, scheduler Scheduler, configs RoomConfigs) *Room {
	ctx, cancel := context.WithCancel(context.Background())
	return &Room{
		session:      session,
		assistant:    assistant,
		scheduler:    scheduler,
		configs:      configs,
		logger:       log.Logger,
		now:          time.Now,
		clients:      make(map[*Client]struct{}),
		lastActivity: time.Now(),
		requests:     make(chan roomRequest, 64),
		events:       make(chan roomEvent, 16),
		ticks:        make(chan time.Time, 8),
		pings:        make(chan struct{}, 1),
		joins:        make(chan *Client, 16),
		leaves:       make(chan *Client, 16),
		closeReq:     make(chan struct{}),
		done:         make(chan struct{}),
		ctx:          ctx,
		cancel:       cancel,
	}
}

func (r *Room) SetId(id string) {
	r.id = id
	r.logger = log.With().Str("room", id).Logger()
}

func (r *Room) Id() string { return r.id }

func (r *Room) SetParentLobby(l parentLobby) {
	r.lobby = l
}

// Dispatch applies a human action and returns the resulting snapshot. The snapshot is
// returned even when the action is rejected.
func (r *Room) Dispatch(ctx context.Context, a domain.Action) (Snapshot, error) {
	return r.request(ctx, &a)
}

func (r *Room) Snapshot(ctx context.Context) (Snapshot, error) {
	return r.request(ctx, nil)
}

func (r *Room) request(ctx context.Context, a *domain.Action) (Snapshot, error) {
	req := roomRequest{action: a, reply: make(chan roomReply, 1)}
	select {
	case r.requests <- req:
	case <-ctx.Done():
		return Snapshot{}, ctx.Err()
	case <-r.done:
		return Snapshot{}, ErrSessionClosed
	}
	select {
	case rep := <-req.reply:
		return rep.snapshot, rep.err
	case <-ctx.Done():
		return Snapshot{}, ctx.Err()
	case <-r.done:
		return Snapshot{}, ErrSessionClosed
	}
}

func (r *Room) Tick(now time.Time) {
	select {
	case r.ticks <- now:
	default:
	}
}

func (r *Room) PingClients() {
	select {
	case r.pings <- struct{}{}:
	default:
	}
}

func (r *Room) Join(ctx context.Context, c *Client) error {
	select {
	case <-r.done:
		return ErrSessionClosed
	default:
	}
	select {
	case r.joins <- c:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	case <-r.done:
		return ErrSessionClosed
	}
}

func (r *Room) Leave(c *Client) {
	select {
	case r.leaves <- c:
	case <-r.done:
	}
}

// CloseAndRelease stops the GameLoop. It does not wait for it.
func (r *Room) CloseAndRelease() {
	r.closeOnce.Do(func() { close(r.closeReq) })
}

// Done is closed once the GameLoop has released everything.
func (r *Room) Done() <-chan struct{} { return r.done }

func (r *Room) GameLoop() {
	defer r.release()
	r.logger.Info().Msg("room started")

	for {
		select {
		case req := <-r.requests:
			r.handleRequest(req)
		case ev := <-r.events:
			r.handleEvent(ev)
		case now := <-r.ticks:
			r.handleTick(now)
		case <-r.pings:
			r.handlePing()
		case c := <-r.joins:
			r.handleJoin(c)
		case c := <-r.leaves:
			r.handleLeave(c)
		case <-r.closeReq:
			return
		}
	}
}

func (r *Room) release() {
	r.cancel()
	if r.timer != nil {
		r.timer.Stop()
	}
	for c := range r.clients {
		delete(r.clients, c)
		close(c.send)
	}
	close(r.done)
	r.logger.Info().Msg("room released")
}

func (r *Room) snapshot() Snapshot {
	snap := r.session.Snapshot()
	snap.ID = r.id
	return snap
}

func (r *Room) handleRequest(req roomRequest) {
	var err error
	if req.action != nil {
		r.lastActivity = r.now()
		before := r.session.Epoch()
		err = r.session.Apply(*req.action)
		if err != nil {
			r.logger.Debug().Err(err).Str("kind", string(req.action.Kind)).Msg("action rejected")
		}
		if r.session.Epoch() != before {
			r.changed()
		}
	}
	req.reply <- roomReply{snapshot: r.snapshot(), err: err}
}

func (r *Room) handleTick(now time.Time) {
	if r.session.Tick(now) {
		r.logger.Debug().Msg("clue timer expired")
		r.changed()
	}
	if r.reaping || r.lobby == nil || r.configs.IdleTimeout <= 0 || len(r.clients) > 0 {
		return
	}
	if now.Sub(r.lastActivity) > r.configs.IdleTimeout {
		r.reaping = true
		r.logger.Info().Dur("idle", now.Sub(r.lastActivity)).Msg("reaping idle room")
		r.lobby.RemoveRoom(r.id)
	}
}

func (r *Room) handlePing() {
	for c := range r.clients {
		select {
		case c.pings <- struct{}{}:
		default:
		}
	}
}

func (r *Room) handleJoin(c *Client) {
	r.clients[c] = struct{}{}
	r.lastActivity = r.now()
	r.send(c, r.encodeSnapshot())
}

func (r *Room) handleLeave(c *Client) {
	if _, ok := r.clients[c]; !ok {
		return
	}
	delete(r.clients, c)
	close(c.send)
	r.lastActivity = r.now()
}

// changed runs after every accepted mutation: pending timers belong to the previous epoch
// and are dropped, the next automatic move is scheduled and every client gets the snapshot.
func (r *Room) changed() {
	if r.timer != nil {
		r.timer.Stop()
		r.timer = nil
	}
	if task, ok := r.session.PendingTask(); ok {
		r.timer = r.scheduler.AfterFunc(task.Delay, func() { r.post(roomEvent{task: task}) })
	}
	r.logger.Debug().Uint64("epoch", r.session.Epoch()).Str("phase", string(r.session.Phase())).Msg("state changed")

	data := r.encodeSnapshot()
	for c := range r.clients {
		r.send(c, data)
	}
}

func (r *Room) encodeSnapshot() []byte {
	data, err := json.Marshal(serverFrame{Type: frameSnapshot, Snapshot: ptr(r.snapshot())})
	if err != nil {
		r.logger.Error().Err(err).Msg("encoding snapshot")
		return nil
	}
	return data
}

func (r *Room) send(c *Client, data []byte) {
	if data == nil {
		return
	}
	select {
	case c.send <- data:
	default:
		r.logger.Warn().Err(ErrSendBufferFull).Msg("dropping slow client")
		delete(r.clients, c)
		close(c.send)
	}
}

func (r *Room) post(ev roomEvent) {
	select {
	case r.events <- ev:
	case <-r.done:
	}
}

func (r *Room) handleEvent(ev roomEvent) {
	if ev.task.Epoch != r.session.Epoch() {
		r.logger.Debug().Str("task", string(ev.task.Kind)).Bool("completed", ev.completed).Msg("discarding stale task")
		return
	}

	before := r.session.Epoch()
	var err error
	switch {
	case !ev.completed && needsAssistant(ev.task.Kind):
		r.callAssistant(ev.task)
		return
	case !ev.completed:
		err = r.session.RunTask(ev.task)
	case ev.task.Kind == TaskCategory:
		if ev.err != nil {
			r.logger.Warn().Err(ev.err).Msg("ai category failed, falling back")
		}
		err = r.session.CompleteCategoryGeneration(ev.category, ev.err)
	case ev.task.Kind == TaskClue:
		var fallback bool
		fallback, err = r.session.CompleteAIClue(ev.task.PlayerID, ev.text, ev.err)
		if fallback {
			r.logger.Info().AnErr("cause", ev.err).Str("player", ev.task.PlayerID).Msg("using local clue")
		}
	case ev.task.Kind == TaskGuess:
		if ev.err != nil {
			r.logger.Info().Err(ev.err).Msg("ai guess failed, guessing at random")
		}
		err = r.session.CompleteAIGuess(ev.task.PlayerID, ev.text, ev.err)
	}
	if err != nil {
		r.logger.Warn().Err(err).Str("task", string(ev.task.Kind)).Msg("automatic move rejected")
	}
	if r.session.Epoch() != before {
		r.changed()
	}
}

func needsAssistant(kind TaskKind) bool {
	return kind == TaskCategory || kind == TaskClue || kind == TaskGuess
}

// callAssistant runs the AI call off the GameLoop. Inputs are read here, while the session
// is still owned by this goroutine.
func (r *Room) callAssistant(task Task) {
	var call func(ctx context.Context) roomEvent
	switch task.Kind {
	case TaskCategory:
		theme, lang := r.session.CategoryTheme()
		call = func(ctx context.Context) roomEvent {
			c, err := r.assistant.GenerateCategory(ctx, theme, lang)
			return roomEvent{category: c, err: err}
		}
	case TaskClue:
		req := r.session.ClueRequest()
		call = func(ctx context.Context) roomEvent {
			text, err := r.assistant.GenerateClue(ctx, req)
			return roomEvent{text: text, err: err}
		}
	case TaskGuess:
		req := r.session.GuessRequest()
		call = func(ctx context.Context) roomEvent {
			text, err := r.assistant.GenerateGuess(ctx, req)
			return roomEvent{text: text, err: err}
		}
	}

	go func() {
		ctx := r.ctx
		if r.configs.AITimeout > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, r.configs.AITimeout)
			defer cancel()
		}
		start := time.Now()
		ev := call(ctx)
		r.logger.Debug().Str("task", string(task.Kind)).Dur("latency", time.Since(start)).Err(ev.err).Msg("assistant answered")
		ev.task = task
		ev.completed = true
		r.post(ev)
	}()
}

func ptr[T any](v T) *T { return &v }
