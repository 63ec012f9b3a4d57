package game

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/Faltri/imposter-word-game/domain"
	"github.com/Faltri/imposter-word-game/i18n"
	"github.com/Faltri/imposter-word-game/wire"
	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"
)

const (
	frameSnapshot = "snapshot"
	frameError    = "error"
)

type serverFrame struct {
	Type     string    `json:"type"`
	Snapshot *Snapshot `json:"snapshot,omitempty"`
	Error    string    `json:"error,omitempty"`
	Message  string    `json:"message,omitempty"`
}

// Client is one socket watching a room. The room owns send and closes it when the client
// leaves or is dropped.
type Client struct {
	room        *Room
	rateLimiter *rate.Limiter
	send        chan []byte
	replies     chan []byte
	pings       chan struct{}
	ctx         context.Context
	cancelCtx   context.CancelFunc
}

func NewClient(room *Room) *Client {
	ctx, cancel := context.WithCancel(context.Background())
	return &Client{
		room:        room,
		rateLimiter: rate.NewLimiter(1, 5),
		send:        make(chan []byte, 64),
		replies:     make(chan []byte, 8),
		pings:       make(chan struct{}, 1),
		ctx:         ctx,
		cancelCtx:   cancel,
	}
}

// ReadPump turns socket frames into actions until the socket fails. Text frames are JSON
// actions, binary frames are wire-encoded actions.
func (c *Client) ReadPump(socket WebsocketConnection) {
	defer func() {
		c.cancelCtx()
		c.room.Leave(c)
	}()

	for {
		binary, data, err := socket.Read()
		if err != nil {
			return
		}
		if !c.rateLimiter.Allow() {
			c.reply(errorFrame("rate-limited", domain.LanguageEnglish))
			continue
		}

		action, err := decodeFrame(binary, data)
		if err != nil {
			c.reply(errorFrame("bad-request-format", domain.LanguageEnglish))
			continue
		}

		snap, err := c.room.Dispatch(c.ctx, action)
		if errors.Is(err, ErrSessionClosed) || errors.Is(err, context.Canceled) {
			return
		}
		if err != nil {
			c.reply(errorFrame(ErrorCode(err), snap.Rules.Language))
		}
	}
}

func decodeFrame(binary bool, data []byte) (domain.Action, error) {
	if binary {
		return wire.DecodeAction(data)
	}
	var a domain.Action
	if err := json.Unmarshal(data, &a); err != nil {
		return domain.Action{}, err
	}
	return a, nil
}

func (c *Client) reply(data []byte) {
	select {
	case c.replies <- data:
	default:
	}
}

// WritePump writes snapshots, error replies and pings until the room closes send, the read
// side gives up, or a write fails. It is the only goroutine that closes the socket.
func (c *Client) WritePump(socket WebsocketConnection) {
	closeCode := "bye"
	defer func() {
		c.cancelCtx()
		socket.Close(closeCode)
	}()
	for {
		select {
		case data, ok := <-c.send:
			if !ok {
				closeCode = ErrSessionClosed.Error()
				return
			}
			if err := socket.Write(data); err != nil {
				return
			}
		case data := <-c.replies:
			if err := socket.Write(data); err != nil {
				return
			}
		case <-c.pings:
			if err := socket.Ping(); err != nil {
				return
			}
		case <-c.ctx.Done():
			return
		}
	}
}

func errorFrame(code string, lang domain.Language) []byte {
	data, err := json.Marshal(serverFrame{Type: frameError, Error: code, Message: i18n.T(lang, code)})
	if err != nil {
		log.Error().Err(err).Msg("encoding error frame")
	}
	return data
}
