package sim

// OUParams parameterizes one mean-reverting cost component
// dX = Speed·(Mean−X)·dt + Vol·dW.
type OUParams struct {
	Mean     float64
	Vol      float64
	Speed    float64
	Timestep float64
}

// Integrate runs the Euler-Maruyama recurrence with a floor at
// zero, starting from x0:
//
//	dst[0] = x0
//	dst[i] = max(0, dst[i-1] + Speed·(Mean−dst[i-1])·Timestep + Vol·dW[i])
//
// dW[0] is never read. dst must have len(dW). It returns the number of
// steps where the floor was applied.
func Integrate(dst []float64, p OUParams, x0 float64, dW []float64) (floors int) {
	if len(dst) == 0 {
		return 0
	}
	dst[0] = x0
	for i := 1; i < len(dst); i++ {
		prev := dst[i-1]
		v := prev + p.Speed*(p.Mean-prev)*p.Timestep + p.Vol*dW[i]
		if v < 0 {
			v = 0
			floors++
		}
		dst[i] = v
	}
	return floors
}

// initialValue draws X0 ~ N(mean, vol), floored at zero when floor is set.
func initialValue(s *stream, mean, vol float64, floor bool) float64 {
	x0 := s.normal(mean, vol)
	if floor && x0 < 0 {
		return 0
	}
	return x0
}
