package emulator

import "math"

// LegendreBasis fills dst[0..lmax] with orthonormalised Legendre polynomials
// sqrt(2l+1) P_l(x), using the three-term recurrence.
func LegendreBasis(x float64, lmax int, dst []float64) []float64 {
	if cap(dst) < lmax+1 {
		dst = make([]float64, lmax+1)
	}
	dst = dst[:lmax+1]

	pPrev, p := 1.0, x
	dst[0] = 1
	if lmax >= 1 {
		dst[1] = x
	}
	for l := 1; l < lmax; l++ {
		next := (float64(2*l+1)*x*p - float64(l)*pPrev) / float64(l+1)
		pPrev, p = p, next
		dst[l+1] = next
	}
	for l := range dst {
		dst[l] *= math.Sqrt(float64(2*l + 1))
	}
	return dst
}
