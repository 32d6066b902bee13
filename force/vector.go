package force

import "math"

// WeightedSum combines per-source (u, v) components into a single
// resultant vector under the given weights.
func WeightedSum(us, vs, weights []float64) (u, v float64) {
	for i := range us {
		u += weights[i] * us[i]
		v += weights[i] * vs[i]
	}
	return u, v
}

// WeightedDiff is WeightedSum with the sign negated: the vector that
// exactly cancels the weighted combination of the inputs.
func WeightedDiff(us, vs, weights []float64) (u, v float64) {
	for i := range us {
		u -= weights[i] * us[i]
		v -= weights[i] * vs[i]
	}
	return u, v
}

// MagDir converts a (u, v) vector to magnitude and direction. The
// direction is the four-quadrant angle in radians.
func MagDir(u, v float64) (mag, dir float64) {
	return math.Sqrt(u*u + v*v), math.Atan2(v, u)
}

// UV decomposes a magnitude and direction into (u, v) components.
func UV(mag, dir float64) (u, v float64) {
	return mag * math.Cos(dir), mag * math.Sin(dir)
}
