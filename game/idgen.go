package game

import (
	"crypto/rand"
	"math/big"
	"sync"
)

const (
	roomCodeChars  = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"
	roomCodeLength = 6
)

// Idgen hands out short room codes that are unique among live sessions.
type Idgen struct {
	ids    map[string]struct{}
	locker sync.Mutex
}

func NewIdGen() Idgen {
	return Idgen{ids: make(map[string]struct{})}
}

func (idgen *Idgen) Generate() string {
	idgen.locker.Lock()
	defer idgen.locker.Unlock()

	for {
		code := randomCode()
		if _, taken := idgen.ids[code]; !taken {
			idgen.ids[code] = struct{}{}
			return code
		}
	}
}

func (idgen *Idgen) Dispose(id string) {
	idgen.locker.Lock()
	delete(idgen.ids, id)
	idgen.locker.Unlock()
}

func randomCode() string {
	code := make([]byte, roomCodeLength)
	limit := big.NewInt(int64(len(roomCodeChars)))
	for i := range code {
		n, err := rand.Int(rand.Reader, limit)
		if err != nil {
			panic(err)
		}
		code[i] = roomCodeChars[n.Int64()]
	}
	return string(code)
}
