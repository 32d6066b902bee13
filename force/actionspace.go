package force

import "github.com/traverse-xyz/go-traverse/grid"

// SamplesPerComponent is the number of evenly spaced realizations drawn
// from each component's error interval.
const SamplesPerComponent = 10

// ActionSpace is the discretized set of simultaneous force realizations
// the adversary may pick at one cell. Action i pairs UActions[i] with
// VActions[i]: one u and one v realization per source, in source order.
type ActionSpace struct {
	UActions [][]float64
	VActions [][]float64
}

// Num returns the number of adversary actions. It grows as
// SamplesPerComponent^numSources.
func (a *ActionSpace) Num() int { return len(a.UActions) }

// ActionSpaceAt discretizes the field's uncertainty at c. Each source
// contributes SamplesPerComponent evenly spaced samples across
// [component-error, component+error] for u and for v; the per-source
// sample ranges are expanded into aligned Cartesian products, so the
// i-th u-tuple and i-th v-tuple name one joint realization across all
// sources.
func (f *Field) ActionSpaceAt(c grid.Cell) *ActionSpace {
	uranges := make([][]float64, len(f.Sources))
	vranges := make([][]float64, len(f.Sources))
	for i, s := range f.Sources {
		e := s.Error[c.Row][c.Col]
		uranges[i] = linspace(s.U[c.Row][c.Col]-e, s.U[c.Row][c.Col]+e, SamplesPerComponent)
		vranges[i] = linspace(s.V[c.Row][c.Col]-e, s.V[c.Row][c.Col]+e, SamplesPerComponent)
	}
	return &ActionSpace{
		UActions: product(uranges),
		VActions: product(vranges),
	}
}

// linspace returns n evenly spaced points from lo to hi inclusive. With
// a zero-width interval every point equals lo.
func linspace(lo, hi float64, n int) []float64 {
	pts := make([]float64, n)
	if n == 1 {
		pts[0] = lo
		return pts
	}
	step := (hi - lo) / float64(n-1)
	for i := range pts {
		pts[i] = lo + float64(i)*step
	}
	pts[n-1] = hi
	return pts
}

// product expands per-source sample ranges into their Cartesian
// product, last source varying fastest.
func product(ranges [][]float64) [][]float64 {
	total := 1
	for _, r := range ranges {
		total *= len(r)
	}
	out := make([][]float64, 0, total)
	tuple := make([]float64, len(ranges))

	var expand func(depth int)
	expand = func(depth int) {
		if depth == len(ranges) {
			out = append(out, append([]float64(nil), tuple...))
			return
		}
		for _, v := range ranges[depth] {
			tuple[depth] = v
			expand(depth + 1)
		}
	}
	expand(0)
	return out
}
