package game

import (
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIdgen(t *testing.T) {
	t.Parallel()
	idgen := NewIdGen()

	ids := make(chan string, 200)
	wg := sync.WaitGroup{}
	for range 4 {
		wg.Go(func() {
			for range 50 {
				ids <- idgen.Generate()
			}
		})
	}
	wg.Wait()
	close(ids)

	seen := map[string]struct{}{}
	for id := range ids {
		assert.Len(t, id, roomCodeLength)
		for _, r := range id {
			assert.True(t, strings.ContainsRune(roomCodeChars, r), "unexpected rune %q in %s", r, id)
		}
		_, dup := seen[id]
		assert.False(t, dup, "duplicate id %s", id)
		seen[id] = struct{}{}
	}
	assert.Len(t, seen, 200)

	for id := range seen {
		idgen.Dispose(id)
	}
	assert.Empty(t, idgen.ids)
}
