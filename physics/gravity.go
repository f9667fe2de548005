package physics

import (
	"math"
	"sync"

	"github.com/lixenwraith/particles/particle"
	"github.com/lixenwraith/particles/vmath"
)

// ForceParams is the per-tick read-only view of the force constants
type ForceParams struct {
	G        float64
	MinSepSq float64 // Pairs closer than this are skipped
	MaxSepSq float64 // Pairs farther than this are skipped, <= 0 or +Inf disables
}

// inBand reports whether a pair at sepSq contributes force
// Band is inclusive on both ends; coincident pairs never contribute
func (fp *ForceParams) inBand(sepSq float64) bool {
	if sepSq == 0 || sepSq < fp.MinSepSq {
		return false
	}
	if fp.MaxSepSq > 0 && sepSq > fp.MaxSepSq {
		return false
	}
	return true
}

// ForceModel computes net per-particle gravitational acceleration
// Workers > 1 stripes store rows over goroutines with private accumulators
type ForceModel struct {
	Workers int

	partials [][]vmath.Vec3F
}

// NewForceModel creates a force model with the given worker count, values below 1 mean serial
func NewForceModel(workers int) *ForceModel {
	if workers < 1 {
		workers = 1
	}
	return &ForceModel{Workers: workers}
}

// Accumulate returns net acceleration per particle in store order
// out is reused when its capacity covers the store; the store is not mutated
func (fm *ForceModel) Accumulate(store *particle.Store, fp ForceParams, out []vmath.Vec3F) []vmath.Vec3F {
	n := store.Count()
	out = resize(out, n)

	workers := fm.Workers
	if workers > n/2 {
		// Rows near the end hold few pairs, not worth a goroutine below this
		workers = n / 2
	}
	if workers <= 1 {
		store.ForEachPair(pairVisitor(&fp, out))
		return out
	}

	fm.accumulateStriped(store, &fp, out, workers)
	return out
}

// accumulateStriped assigns row i to worker i%workers and reduces partials in worker order
// Fixed worker count gives a fixed summation order, results are reproducible run to run
func (fm *ForceModel) accumulateStriped(store *particle.Store, fp *ForceParams, out []vmath.Vec3F, workers int) {
	n := len(out)
	if len(fm.partials) < workers {
		fm.partials = append(fm.partials, make([][]vmath.Vec3F, workers-len(fm.partials))...)
	}

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		fm.partials[w] = resize(fm.partials[w], n)
		acc := fm.partials[w]
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			visit := pairVisitor(fp, acc)
			for i := w; i < n; i += workers {
				store.ForEachPairInRow(i, visit)
			}
		}(w)
	}
	wg.Wait()

	for w := 0; w < workers; w++ {
		for i, a := range fm.partials[w] {
			out[i] = vmath.V3FAdd(out[i], a)
		}
	}
}

// pairVisitor returns the symmetric pair kernel writing into acc
func pairVisitor(fp *ForceParams, acc []vmath.Vec3F) func(i, j int, a, b *particle.Particle) {
	return func(i, j int, a, b *particle.Particle) {
		sepSq := vmath.V3FDistSq(a.Position, b.Position)
		if !fp.inBand(sepSq) {
			return
		}

		// sep = sepSq^1.5, delta/sep is the inverse-square term along delta
		sep := sepSq * math.Sqrt(sepSq)
		k := fp.G / sep
		delta := vmath.V3FSub(b.Position, a.Position)

		acc[i] = vmath.V3FAddScaled(acc[i], delta, k*b.EffectiveMass())
		acc[j] = vmath.V3FAddScaled(acc[j], delta, -k*a.EffectiveMass())
	}
}

// resize returns a zeroed slice of length n, reusing buf when possible
func resize(buf []vmath.Vec3F, n int) []vmath.Vec3F {
	if cap(buf) < n {
		return make([]vmath.Vec3F, n)
	}
	buf = buf[:n]
	clear(buf)
	return buf
}
