package calculator

import (
	"math"
	"testing"
)

func TestSMASeries_WarmupUndefined(t *testing.T) {
	prices := []float64{10, 11, 12, 13, 14}
	ma, err := SMASeries(prices, 3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(ma) != len(prices) {
		t.Fatalf("expected %d entries, got %d", len(prices), len(ma))
	}
	for i := 0; i < 2; i++ {
		if Defined(ma[i]) {
			t.Errorf("index %d: expected undefined, got %v", i, ma[i])
		}
	}
	want := []float64{11, 12, 13}
	for i, w := range want {
		if math.Abs(ma[i+2]-w) > 1e-12 {
			t.Errorf("index %d: expected %v, got %v", i+2, w, ma[i+2])
		}
	}
}

func TestSMASeries_ShorterThanWindow(t *testing.T) {
	prices := []float64{10, 11, 12}
	ma, err := SMASeries(prices, 5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for i, v := range ma {
		if Defined(v) {
			t.Errorf("index %d: expected undefined for series shorter than window, got %v", i, v)
		}
	}
}

func TestSMASeries_InvalidWindow(t *testing.T) {
	if _, err := SMASeries([]float64{1, 2, 3}, 0); err == nil {
		t.Error("expected error for zero window")
	}
	if _, err := SMASeries([]float64{1, 2, 3}, -1); err == nil {
		t.Error("expected error for negative window")
	}
}

func TestSMASeries_Deterministic(t *testing.T) {
	prices := []float64{5, 9, 4, 7, 8, 6, 10, 3}
	a, err := SMASeries(prices, 4)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	b, err := SMASeries(prices, 4)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for i := range a {
		if Defined(a[i]) != Defined(b[i]) {
			t.Fatalf("index %d: definedness differs", i)
		}
		if Defined(a[i]) && a[i] != b[i] {
			t.Fatalf("index %d: %v != %v", i, a[i], b[i])
		}
	}
}

func TestSMASeries_ExactWindowLength(t *testing.T) {
	prices := []float64{2, 4, 6, 8}
	ma, err := SMASeries(prices, 4)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for i := 0; i < 3; i++ {
		if Defined(ma[i]) {
			t.Errorf("index %d: expected undefined", i)
		}
	}
	if !Defined(ma[3]) || ma[3] != 5 {
		t.Errorf("expected single MA value 5 at last index, got %v", ma[3])
	}
}
