package assist

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/Faltri/imposter-word-game/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeGemini answers every generateContent call with text, or with status when it is not 200.
func fakeGemini(t *testing.T, status int, text string, prompts chan<- string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/v1beta/models/test-model:generateContent", r.URL.Path)
		assert.Equal(t, "secret", r.Header.Get("x-goog-api-key"))
		assert.Empty(t, r.URL.Query().Get("key"))

		var req generateRequest
		body, err := io.ReadAll(r.Body)
		assert.NoError(t, err)
		assert.NoError(t, json.Unmarshal(body, &req))
		if prompts != nil && len(req.Contents) > 0 && len(req.Contents[0].Parts) > 0 {
			prompts <- req.Contents[0].Parts[0].Text
		}

		if status != http.StatusOK {
			w.WriteHeader(status)
			return
		}
		resp := generateResponse{}
		resp.Candidates = append(resp.Candidates, struct {
			Content content `json:"content"`
		}{Content: content{Parts: []part{{Text: text}}}})
		assert.NoError(t, json.NewEncoder(w).Encode(resp))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func newTestClient(srv *httptest.Server) *Client {
	return New(Config{APIKey: "secret", Model: "test-model", BaseURL: srv.URL + "/", RatePerSecond: 100, Burst: 10}, srv.Client())
}

func TestGenerateCategory(t *testing.T) {
	t.Parallel()
	prompts := make(chan string, 1)
	srv := fakeGemini(t, http.StatusOK, "```json\n{\"categoryName\":\"Pirates\",\"words\":[\"Parrot\",\"Treasure\",\"Cannon\",\"Anchor\",\"Plank\",\"parrot\"]}\n```", prompts)

	c, err := newTestClient(srv).GenerateCategory(context.Background(), "pirates!!", domain.LanguageJapanese)
	require.NoError(t, err)
	assert.Equal(t, "Pirates", c.Name)
	assert.Equal(t, domain.LanguageJapanese, c.Language)
	assert.Equal(t, []string{"Parrot", "Treasure", "Cannon", "Anchor", "Plank"}, c.Words)

	prompt := <-prompts
	assert.Contains(t, prompt, "Theme: pirates!!")
	assert.Contains(t, prompt, "Japanese")
}

func TestGenerateClue(t *testing.T) {
	t.Parallel()

	t.Run("civilian", func(t *testing.T) {
		t.Parallel()
		prompts := make(chan string, 1)
		srv := fakeGemini(t, http.StatusOK, `{"clue": " stripes "}`, prompts)

		clue, err := newTestClient(srv).GenerateClue(context.Background(), domain.ClueRequest{
			Role:         domain.RoleCivilian,
			SecretWord:   "Tiger",
			CategoryName: "Animals",
			Clues:        []domain.Clue{{Text: "fur"}, {Text: "jungle"}},
			Difficulty:   domain.DifficultyHard,
		})
		require.NoError(t, err)
		assert.Equal(t, "stripes", clue)

		prompt := <-prompts
		assert.Contains(t, prompt, `Secret Word: "Tiger"`)
		assert.Contains(t, prompt, "[fur, jungle]")
		assert.Contains(t, prompt, "subtle")
	})

	t.Run("imposter never sees the word", func(t *testing.T) {
		t.Parallel()
		prompts := make(chan string, 1)
		srv := fakeGemini(t, http.StatusOK, `{"clue":"wild"}`, prompts)

		_, err := newTestClient(srv).GenerateClue(context.Background(), domain.ClueRequest{
			Role:  domain.RoleImposter,
			Words: []string{"Lion", "Tiger"},
		})
		require.NoError(t, err)

		prompt := <-prompts
		assert.Contains(t, prompt, "You are the Imposter")
		assert.Contains(t, prompt, `Category: "unknown"`)
		assert.NotContains(t, prompt, "Secret Word")
	})
}

func TestGenerateGuess(t *testing.T) {
	t.Parallel()
	prompts := make(chan string, 1)
	srv := fakeGemini(t, http.StatusOK, `{"guess":"Tiger"}`, prompts)

	guess, err := newTestClient(srv).GenerateGuess(context.Background(), domain.GuessRequest{
		CategoryName: "Animals",
		Words:        []string{"Lion", "Tiger", "Bear"},
	})
	require.NoError(t, err)
	assert.Equal(t, "Tiger", guess)
	assert.Contains(t, <-prompts, "List: [Lion, Tiger, Bear]")
}

func TestGenerateErrors(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name   string
		status int
		text   string
		want   error
	}{
		{"bad status", http.StatusTooManyRequests, "", domain.ErrAssistStatus},
		{"not json", http.StatusOK, "here is a clue: fur", domain.ErrAssistMalformed},
		{"wrong key", http.StatusOK, `{"hint":"fur"}`, domain.ErrAssistSchema},
		{"multi line", http.StatusOK, `{"clue":"fur\nand more"}`, domain.ErrAssistSchema},
		{"blank", http.StatusOK, "   ", domain.ErrAssistMalformed},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			srv := fakeGemini(t, tc.status, tc.text, nil)
			_, err := newTestClient(srv).GenerateClue(context.Background(), domain.ClueRequest{Role: domain.RoleCivilian, SecretWord: "Tiger"})
			assert.ErrorIs(t, err, tc.want)
		})
	}
}

func TestGenerateRateLimited(t *testing.T) {
	t.Parallel()
	srv := fakeGemini(t, http.StatusOK, `{"guess":"Tiger"}`, nil)
	c := New(Config{APIKey: "secret", Model: "test-model", BaseURL: srv.URL, RatePerSecond: 0.001, Burst: 1}, srv.Client())

	_, err := c.GenerateGuess(context.Background(), domain.GuessRequest{})
	require.NoError(t, err)
	_, err = c.GenerateGuess(context.Background(), domain.GuessRequest{})
	assert.ErrorIs(t, err, domain.ErrAssistRateLimited)
}

func TestGenerateHonorsContext(t *testing.T) {
	t.Parallel()
	block := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-block:
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()
	defer close(block)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	_, err := New(Config{APIKey: "secret", BaseURL: srv.URL}, srv.Client()).GenerateGuess(ctx, domain.GuessRequest{})
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestDisabled(t *testing.T) {
	t.Parallel()
	var d Disabled
	_, err := d.GenerateCategory(context.Background(), "x", domain.LanguageEnglish)
	assert.ErrorIs(t, err, domain.ErrAssistDisabled)
	_, err = d.GenerateClue(context.Background(), domain.ClueRequest{})
	assert.ErrorIs(t, err, domain.ErrAssistDisabled)
	_, err = d.GenerateGuess(context.Background(), domain.GuessRequest{})
	assert.ErrorIs(t, err, domain.ErrAssistDisabled)
}

func TestParseCategory(t *testing.T) {
	t.Parallel()
	c, err := parseCategory(`{"name":"  Space ","words":["Moon","Mars","Comet","Nebula","Rocket"]}`, domain.LanguageEnglish)
	require.NoError(t, err)
	assert.Equal(t, "Space", c.Name)

	_, err = parseCategory(`{"categoryName":"Space","words":["Moon","Mars"]}`, domain.LanguageEnglish)
	assert.ErrorIs(t, err, domain.ErrAssistSchema)

	_, err = parseCategory(`["Moon"]`, domain.LanguageEnglish)
	assert.ErrorIs(t, err, domain.ErrAssistMalformed)
}

func TestStripFences(t *testing.T) {
	t.Parallel()
	assert.Equal(t, `{"a":1}`, stripFences("```json\n{\"a\":1}\n```"))
	assert.Equal(t, `{"a":1}`, stripFences(" {\"a\":1} "))
	assert.False(t, strings.Contains(stripFences("```x```"), "`"))
}
