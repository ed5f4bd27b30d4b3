package analytics

import (
	"sort"
)

// Mean возвращает среднее арифметическое выборки
func Mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

// Median возвращает медиану выборки
func Median(values []float64) float64 {
	return Quantile(values, 0.5)
}

// Quantile возвращает квантиль выборки с линейной интерполяцией.
// Исходный срез не изменяется.
func Quantile(values []float64, q float64) float64 {
	if len(values) == 0 {
		return 0
	}

	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	return QuantileSorted(sorted, q)
}

// QuantileSorted возвращает квантиль уже отсортированной выборки
func QuantileSorted(sorted []float64, q float64) float64 {
	if len(sorted) == 0 {
		return 0
	}
	if len(sorted) == 1 {
		return sorted[0]
	}

	pos := q * float64(len(sorted)-1)
	lower := int(pos)
	if lower >= len(sorted)-1 {
		return sorted[len(sorted)-1]
	}
	frac := pos - float64(lower)
	return sorted[lower] + frac*(sorted[lower+1]-sorted[lower])
}

// minMax возвращает минимум и максимум выборки
func minMax(values []float64) (float64, float64) {
	if len(values) == 0 {
		return 0, 0
	}
	min, max := values[0], values[0]
	for _, v := range values[1:] {
		if v < min {
			min = v
		}
		if v > max {
			max = v
		}
	}
	return min, max
}
