package game

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
)

type addRoomRequest struct {
	room  *Room
	reply chan string
}

type roomLookup struct {
	id    string
	reply chan *Room
}

// Lobby owns the registry of live rooms. Rooms are only added, found and removed on the
// LobbyActor goroutine.
type Lobby struct {
	rooms          map[string]*Room
	addRoomChan    chan addRoomRequest
	removeRoomChan chan string
	lookups        chan roomLookup
	stop           chan struct{}
	stopOnce       sync.Once
	idGenerator    UniqueIdGenerator
	tickerCreator  PeriodicTickerChannelCreator
	wg             *sync.WaitGroup
}

func NewLobby(idgen UniqueIdGenerator, tickerCreator PeriodicTickerChannelCreator, wg *sync.WaitGroup) *Lobby {
	return &Lobby{
		rooms:          map[string]*Room{},
		addRoomChan:    make(chan addRoomRequest, 32),
		removeRoomChan: make(chan string, 32),
		lookups:        make(chan roomLookup, 256),
		stop:           make(chan struct{}),
		idGenerator:    idgen,
		tickerCreator:  tickerCreator,
		wg:             wg,
	}
}

// AddAndRunRoom registers r under a fresh id and starts its GameLoop.
func (l *Lobby) AddAndRunRoom(ctx context.Context, r *Room) (string, error) {
	req := addRoomRequest{room: r, reply: make(chan string, 1)}
	select {
	case l.addRoomChan <- req:
	case <-ctx.Done():
		return "", ctx.Err()
	}
	select {
	case id := <-req.reply:
		return id, nil
	case <-ctx.Done():
		return "", ctx.Err()
	}
}

func (l *Lobby) GetRoom(ctx context.Context, id string) (*Room, error) {
	req := roomLookup{id: id, reply: make(chan *Room, 1)}
	select {
	case l.lookups <- req:
	case <-ctx.Done():
		return nil, ctx.Err()
	}
	select {
	case r := <-req.reply:
		if r == nil {
			return nil, ErrSessionNotFound
		}
		return r, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (l *Lobby) RemoveRoom(roomId string) {
	select {
	case l.removeRoomChan <- roomId:
	case <-l.stop:
	}
}

// Stop closes every room and ends the LobbyActor.
func (l *Lobby) Stop() {
	l.stopOnce.Do(func() { close(l.stop) })
}

func (l *Lobby) LobbyActor(started chan struct{}) {
	ticker := l.tickerCreator.Create(time.Second)
	pingTicker := l.tickerCreator.Create(time.Second * 30)

	close(started)

	for {
		select {
		case now := <-ticker:
			for _, r := range l.rooms {
				r.Tick(now)
			}
		case <-pingTicker:
			for _, r := range l.rooms {
				r.PingClients()
			}

		case req := <-l.addRoomChan:
			l.handleAddAndRunRoom(req)

		case id := <-l.removeRoomChan:
			l.handleRemoveRoom(id)

		case req := <-l.lookups:
			req.reply <- l.rooms[req.id]

		case <-l.stop:
			for id := range l.rooms {
				l.handleRemoveRoom(id)
			}
			return
		}
	}
}

func (l *Lobby) handleAddAndRunRoom(req addRoomRequest) {
	id := l.idGenerator.Generate()
	r := req.room
	r.SetParentLobby(l)
	r.SetId(id)
	l.rooms[id] = r

	l.wg.Add(1)
	go func() {
		defer l.wg.Done()
		r.GameLoop()
	}()
	req.reply <- id
}

func (l *Lobby) handleRemoveRoom(id string) {
	room, ok := l.rooms[id]
	if !ok {
		return
	}
	delete(l.rooms, id)
	room.CloseAndRelease()
	l.idGenerator.Dispose(id)
	log.Info().Str("room", id).Int("rooms", len(l.rooms)).Msg("room removed")
}
