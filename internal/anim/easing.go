package anim

import "math"

// EaseOutCubic decelerates towards the end: fast start, soft landing.
func EaseOutCubic(t float64) float64 {
	t = math.Max(0, math.Min(1, t))
	return 1 - math.Pow(1-t, 3)
}

// Lerp interpolates between a and b, returning exactly a at 0 and b at 1.
func Lerp(a, b, t float64) float64 {
	return a*(1-t) + b*t
}
