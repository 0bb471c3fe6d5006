package spanz

import (
	cryptorand "crypto/rand"
	"math"
	"math/big"
	"math/rand"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
)

// IDGenerator produces the 64-bit values used as trace and span
// identifiers. Implementations must be safe for concurrent use; the same
// generator is shared by every request a tracer handles. Collisions are
// not handled anywhere downstream, so values should be drawn uniformly
// from the full 63-bit non-negative range.
type IDGenerator interface {
	NextID() int64
}

// IDGeneratorFunc adapts a function to the IDGenerator interface. Useful
// for deterministic tests.
type IDGeneratorFunc func() int64

// NextID calls f.
func (f IDGeneratorFunc) NextID() int64 { return f() }

// pooledIDGenerator keeps a pool of math/rand generators, each seeded
// from crypto/rand, so concurrent requests don't contend on one source.
type pooledIDGenerator struct {
	pool     sync.Pool
	logger   *zap.Logger
	warnOnce sync.Once
	seedSeq  atomic.Int64
}

// NewIDGenerator returns the default identifier source. A nil logger
// disables the warning emitted when crypto-based seeding fails and the
// generator falls back to time-based seeds.
func NewIDGenerator(logger *zap.Logger) IDGenerator {
	if logger == nil {
		logger = zap.NewNop()
	}
	g := &pooledIDGenerator{logger: logger}
	g.pool.New = func() interface{} {
		var seed int64
		n, err := cryptorand.Int(cryptorand.Reader, big.NewInt(math.MaxInt64))
		if err == nil {
			seed = n.Int64()
		} else {
			g.warnOnce.Do(func() {
				g.logger.Warn("cannot generate random seed, using current time", zap.Error(err))
			})
			seed = time.Now().UnixNano()
		}
		// seedSeq makes sure two generators created in the same
		// instant never share a seed.
		return rand.New(rand.NewSource(seed + g.seedSeq.Add(1)))
	}
	return g
}

func (g *pooledIDGenerator) NextID() int64 {
	r := g.pool.Get().(*rand.Rand)
	v := r.Int63()
	g.pool.Put(r)
	return v
}
