package sim

// Aggregate writes the day-by-day sum of the components plus noise into dst.
// Components are added in the order given, then the noise scalar. No floor
// is applied, so a total can be negative.
func Aggregate(dst []float64, components [][]float64, noise float64) []float64 {
	for i := range dst {
		var sum float64
		for _, c := range components {
			sum += c[i]
		}
		dst[i] = sum + noise
	}
	return dst
}
