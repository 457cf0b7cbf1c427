package sim

import (
	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/stat/distuv"
)

// stream is one ordered random sequence. Every draw for a path comes from
// its own stream, so paths are independent of scheduling order.
type stream struct {
	src rand.Source
	*rand.Rand
}

func newStream(seed uint64) *stream {
	src := rand.NewSource(seed)
	return &stream{src: src, Rand: rand.New(src)}
}

// normal draws from N(mean, sd) on the stream.
func (s *stream) normal(mean, sd float64) float64 {
	return distuv.Normal{Mu: mean, Sigma: sd, Src: s.src}.Rand()
}

// splitmix64 finalizer; spreads adjacent seeds across the state space.
func mix(x uint64) uint64 {
	x += 0x9e3779b97f4a7c15
	x = (x ^ (x >> 30)) * 0xbf58476d1ce4e5b9
	x = (x ^ (x >> 27)) * 0x94d049bb133111eb
	return x ^ (x >> 31)
}

// pathSeed derives the seed of path i's stream from the run seed.
func pathSeed(seed uint64, path int) uint64 {
	return mix(seed ^ mix(uint64(path)+1))
}

// noiseSeed is reserved for the scenario noise draw; it never collides
// with a path stream because path indices are non-negative.
func noiseSeed(seed uint64) uint64 {
	return mix(seed ^ mix(0))
}

// DrawNoise samples the scenario-lifetime noise term from N(0, sd).
// The same seed always yields the same value.
func DrawNoise(seed uint64, sd float64) float64 {
	return newStream(noiseSeed(seed)).normal(0, sd)
}
