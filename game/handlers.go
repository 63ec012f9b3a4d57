package game

import (
	"context"
	"errors"
	"io"
	"math/rand"
	"net/http"
	"strings"
	"time"

	"github.com/Faltri/imposter-word-game/category"
	"github.com/Faltri/imposter-word-game/domain"
	"github.com/Faltri/imposter-word-game/i18n"
	"github.com/Faltri/imposter-word-game/wire"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
	"github.com/skip2/go-qrcode"
)

const (
	ErrInvalidRequestFormatStr = "bad-request-format"
	ErrServerTimeoutStr        = "server-timeout"
	ErrUnknownStr              = "unknown-error"
)

type RoomRegistry interface {
	AddAndRunRoom(ctx context.Context, r *Room) (string, error)
	GetRoom(ctx context.Context, id string) (*Room, error)
	RemoveRoom(roomId string)
}

type GameHandler struct {
	lobby     RoomRegistry
	store     *category.Store
	assistant Assistant
	scheduler Scheduler
	configs   RoomConfigs
	publicURL string
	upgrader  websocket.Upgrader
}

func NewGameHandler(lobby RoomRegistry, store *category.Store, assistant Assistant, scheduler Scheduler, configs RoomConfigs, publicURL string) *GameHandler {
	return &GameHandler{
		lobby:     lobby,
		store:     store,
		assistant: assistant,
		scheduler: scheduler,
		configs:   configs,
		publicURL: strings.TrimRight(publicURL, "/"),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// Origins are already filtered by the server middleware.
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}
}

type categoryListing struct {
	ID        string          `json:"id"`
	Name      string          `json:"name"`
	Language  domain.Language `json:"language"`
	WordCount int             `json:"wordCount"`
}

func (h *GameHandler) ListCategoriesHandler(ctx *gin.Context) {
	all := h.store.All()
	out := make([]categoryListing, 0, len(all))
	for _, c := range all {
		out = append(out, categoryListing{ID: c.ID, Name: c.Name, Language: c.Language, WordCount: len(c.Words)})
	}
	ctx.JSON(http.StatusOK, out)
}

func (h *GameHandler) CreateSessionHandler(ctx *gin.Context) {
	var body struct {
		Seed *int64 `json:"seed"`
	}
	// A chunked request reports ContentLength -1 even when the body is empty.
	if ctx.Request.ContentLength != 0 {
		if err := ctx.ShouldBindJSON(&body); err != nil && !errors.Is(err, io.EOF) {
			h.abortWithError(ctx, wrapFormat(err), domain.LanguageEnglish)
			return
		}
	}
	seed := time.Now().UnixNano()
	if body.Seed != nil {
		seed = *body.Seed
	}

	session := NewSession(h.store, rand.New(rand.NewSource(seed)))
	room := NewRoom(session, h.assistant, h.scheduler, h.configs)

	reqCtx := ctx.Request.Context()
	id, err := h.lobby.AddAndRunRoom(reqCtx, room)
	if err != nil {
		h.abortWithError(ctx, err, domain.LanguageEnglish)
		return
	}
	snap, err := room.Snapshot(reqCtx)
	if err != nil {
		h.abortWithError(ctx, err, domain.LanguageEnglish)
		return
	}

	log.Info().Str("room", id).Int64("seed", seed).Msg("session created")
	ctx.JSON(http.StatusCreated, gin.H{"id": id, "snapshot": snap})
}

func (h *GameHandler) room(ctx *gin.Context) (*Room, bool) {
	room, err := h.lobby.GetRoom(ctx.Request.Context(), ctx.Param("id"))
	if err != nil {
		h.abortWithError(ctx, err, domain.LanguageEnglish)
		return nil, false
	}
	return room, true
}

func (h *GameHandler) GetSessionHandler(ctx *gin.Context) {
	room, ok := h.room(ctx)
	if !ok {
		return
	}
	snap, err := room.Snapshot(ctx.Request.Context())
	if err != nil {
		h.abortWithError(ctx, err, domain.LanguageEnglish)
		return
	}
	ctx.JSON(http.StatusOK, snap)
}

func (h *GameHandler) DeleteSessionHandler(ctx *gin.Context) {
	room, ok := h.room(ctx)
	if !ok {
		return
	}
	h.lobby.RemoveRoom(room.Id())
	ctx.Status(http.StatusNoContent)
}

// ActionHandler accepts a JSON action, or a wire-encoded one with
// Content-Type application/x-protobuf.
func (h *GameHandler) ActionHandler(ctx *gin.Context) {
	room, ok := h.room(ctx)
	if !ok {
		return
	}

	var action domain.Action
	if ctx.ContentType() == "application/x-protobuf" {
		data, err := ctx.GetRawData()
		if err == nil {
			action, err = wire.DecodeAction(data)
		}
		if err != nil {
			h.abortWithError(ctx, wrapFormat(err), domain.LanguageEnglish)
			return
		}
	} else if err := ctx.ShouldBindJSON(&action); err != nil {
		h.abortWithError(ctx, wrapFormat(err), domain.LanguageEnglish)
		return
	}

	snap, err := room.Dispatch(ctx.Request.Context(), action)
	if err != nil {
		h.abortWithError(ctx, err, snap.Rules.Language)
		return
	}
	ctx.JSON(http.StatusOK, snap)
}

func (h *GameHandler) WebsocketHandler(ctx *gin.Context) {
	room, ok := h.room(ctx)
	if !ok {
		return
	}

	conn, err := h.upgrader.Upgrade(ctx.Writer, ctx.Request, nil)
	if err != nil {
		log.Warn().Err(err).Str("ip", ctx.ClientIP()).Msg("ws upgrade failed")
		return
	}
	socket := NewWebsocketConnection(conn)

	client := NewClient(room)
	if err := room.Join(ctx.Request.Context(), client); err != nil {
		socket.Close(ErrorCode(err))
		return
	}
	go client.WritePump(socket)
	go client.ReadPump(socket)
}

// QRHandler renders the handoff link of a session as a PNG.
func (h *GameHandler) QRHandler(ctx *gin.Context) {
	room, ok := h.room(ctx)
	if !ok {
		return
	}
	png, err := qrcode.Encode(h.publicURL+"/s/"+room.Id(), qrcode.Medium, 256)
	if err != nil {
		log.Error().Err(err).Str("room", room.Id()).Msg("qr encoding failed")
		h.abortWithError(ctx, err, domain.LanguageEnglish)
		return
	}
	ctx.Data(http.StatusOK, "image/png", png)
}

func (h *GameHandler) abortWithError(ctx *gin.Context, err error, lang domain.Language) {
	if lang == "" {
		lang = domain.LanguageEnglish
	}
	status := ErrorStatus(err)
	if status == 499 {
		ctx.Status(status)
		ctx.Abort()
		return
	}
	code := ErrorCode(err)
	ctx.AbortWithStatusJSON(status, gin.H{"error": code, "message": i18n.T(lang, code)})
}

var errBadFormat = errors.New(ErrInvalidRequestFormatStr)

func wrapFormat(err error) error {
	return errors.Join(errBadFormat, err)
}

var badRequestErrors = []error{
	errBadFormat,
	domain.ErrEmptyName,
	domain.ErrNameTooLong,
	domain.ErrUnknownPlayer,
	domain.ErrEmptyClue,
	domain.ErrClueTooLong,
	domain.ErrInvalidRules,
	domain.ErrInvalidCategory,
	domain.ErrInvalidVote,
	domain.ErrInvalidGuess,
	domain.ErrEmptyTheme,
	domain.ErrUnknownAction,
}

var conflictErrors = []error{
	domain.ErrTooManyPlayers,
	domain.ErrWrongPhase,
	domain.ErrNotYourTurn,
	domain.ErrTooFewPlayers,
	domain.ErrRerollUnavailable,
	domain.ErrStaleAction,
	domain.ErrAlreadyGenerating,
}

// ErrorCode is the kebab-case code sent to the device for err.
func ErrorCode(err error) string {
	for _, group := range [][]error{badRequestErrors, conflictErrors, {domain.ErrNoCategories, ErrSessionNotFound, ErrSessionClosed}} {
		for _, known := range group {
			if errors.Is(err, known) {
				return known.Error()
			}
		}
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return ErrServerTimeoutStr
	}
	return ErrUnknownStr
}

func ErrorStatus(err error) int {
	matches := func(group []error) bool {
		for _, known := range group {
			if errors.Is(err, known) {
				return true
			}
		}
		return false
	}
	switch {
	case matches(badRequestErrors):
		return http.StatusBadRequest
	case matches(conflictErrors):
		return http.StatusConflict
	case errors.Is(err, domain.ErrNoCategories):
		return http.StatusUnprocessableEntity
	case errors.Is(err, ErrSessionNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrSessionClosed):
		return http.StatusGone
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	case errors.Is(err, context.Canceled):
		return 499
	}
	return http.StatusInternalServerError
}
