package analytics

import (
	"testing"
)

func TestQuantile(t *testing.T) {
	values := []float64{10, 20, 30, 40}

	tests := []struct {
		q    float64
		want float64
	}{
		{0, 10},
		{0.25, 17.5},
		{0.5, 25},
		{0.75, 32.5},
		{1, 40},
	}
	for _, tt := range tests {
		if got := Quantile(values, tt.q); got != tt.want {
			t.Errorf("Quantile(%v) = %v, ожидалось %v", tt.q, got, tt.want)
		}
	}

	// Исходный срез не сортируется
	unsorted := []float64{30, 10, 20}
	if got := Quantile(unsorted, 0.5); got != 20 {
		t.Errorf("Quantile несортированного среза = %v, ожидалось 20", got)
	}
	if unsorted[0] != 30 {
		t.Error("Quantile не должен изменять исходный срез")
	}
}

func TestQuantileEdgeCases(t *testing.T) {
	if got := Quantile(nil, 0.5); got != 0 {
		t.Errorf("Quantile(nil) = %v, ожидалось 0", got)
	}
	if got := Quantile([]float64{42}, 0.9); got != 42 {
		t.Errorf("Quantile одного значения = %v, ожидалось 42", got)
	}
}

func TestMeanAndMedian(t *testing.T) {
	values := []float64{10, 20, 60}
	if got := Mean(values); got != 30 {
		t.Errorf("Mean = %v, ожидалось 30", got)
	}
	if got := Median(values); got != 20 {
		t.Errorf("Median = %v, ожидалось 20", got)
	}

	if Mean(nil) != 0 || Median(nil) != 0 {
		t.Error("пустая выборка должна давать 0")
	}
}
