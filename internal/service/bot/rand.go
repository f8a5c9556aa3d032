package bot

import "lukechampine.com/frand"

// Rand is the randomness the players need. *math/rand.Rand and *frand.RNG both satisfy it.
type Rand interface {
	Intn(n int) int
}

func defaultRand() Rand {
	return frand.New()
}
