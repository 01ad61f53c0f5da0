// Package ids genera identificadores ordenables por tiempo para registros de solo inserción.
package ids

import (
	mathrand "math/rand"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
)

var (
	entropyMu sync.Mutex
	entropy   = ulid.Monotonic(mathrand.New(mathrand.NewSource(time.Now().UnixNano())), 0)
)

// New devuelve un ULID; dentro del mismo milisegundo los valores son crecientes.
func New() string {
	return NewAt(time.Now())
}

// NewAt como New pero con la marca de tiempo indicada.
func NewAt(t time.Time) string {
	entropyMu.Lock()
	defer entropyMu.Unlock()
	return ulid.MustNew(ulid.Timestamp(t), entropy).String()
}
