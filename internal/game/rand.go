package game

import "github.com/valyala/fastrand"

// Rand is the random source used for shuffles and opponent simulation.
// *math/rand.Rand satisfies it, which keeps tests deterministic.
type Rand interface {
	Intn(n int) int
	Float64() float64
}

type fastRand struct{}

// FastRand returns a goroutine-safe Rand backed by fastrand.
func FastRand() Rand {
	return fastRand{}
}

func (fastRand) Intn(n int) int {
	return int(fastrand.Uint32n(uint32(n)))
}

func (fastRand) Float64() float64 {
	return float64(fastrand.Uint32n(1<<24)) / (1 << 24)
}

// Shuffle permutes items in place with Fisher-Yates.
func Shuffle[T any](rnd Rand, items []T) {
	for i := len(items) - 1; i > 0; i-- {
		j := rnd.Intn(i + 1)
		items[i], items[j] = items[j], items[i]
	}
}
