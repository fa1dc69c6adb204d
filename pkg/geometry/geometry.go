package geometry

import "math"

// unitizeThreshold is the length below which a vector is collapsed to zero
const unitizeThreshold = 1e-6

// Vec3 is a 3-component vector
type Vec3 struct {
	X, Y, Z float64
}

// Length returns the Euclidean length of v
func (v Vec3) Length() float64 {
	return math.Sqrt(v.X*v.X + v.Y*v.Y + v.Z*v.Z)
}

// Unitize normalises v and returns it with its length before normalising.
// Vectors shorter than 1e-6 become the zero vector with length 0.
func (v Vec3) Unitize() (Vec3, float64) {
	length := v.Length()
	if length > unitizeThreshold {
		recip := 1 / length
		return Vec3{X: v.X * recip, Y: v.Y * recip, Z: v.Z * recip}, length
	}
	return Vec3{}, 0
}

// Matrix33 is a row-major 3x3 rotation matrix
type Matrix33 [3][3]float64

// Identity returns the identity matrix
func Identity() Matrix33 {
	return Matrix33{
		{1, 0, 0},
		{0, 1, 0},
		{0, 0, 1},
	}
}

// ZRotation returns a rotation of angle radians about the Z axis
func ZRotation(angle float64) Matrix33 {
	sin, cos := math.Sincos(angle)
	return Matrix33{
		{cos, sin, 0},
		{-sin, cos, 0},
		{0, 0, 1},
	}
}

// Column returns column i as a vector
func (m Matrix33) Column(i int) Vec3 {
	return Vec3{X: m[0][i], Y: m[1][i], Z: m[2][i]}
}
