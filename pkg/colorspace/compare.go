package colorspace

import "math"

// MachineEpsilon is the relative spacing of float64 values around 1 (2^-52)
const MachineEpsilon = 2.220446049250313e-16

// ApproximatelyEqual reports whether a and b differ by at most eps relative
// to the larger magnitude (Knuth, TAOCP vol. 2, 4.2.2)
func ApproximatelyEqual(a, b, eps float64) bool {
	return math.Abs(a-b) <= math.Max(math.Abs(a), math.Abs(b))*eps
}

// EssentiallyEqual is the stricter variant of ApproximatelyEqual: the
// tolerance is relative to the smaller magnitude
func EssentiallyEqual(a, b, eps float64) bool {
	return math.Abs(a-b) <= math.Min(math.Abs(a), math.Abs(b))*eps
}
