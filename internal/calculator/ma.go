package calculator

import (
	"errors"
	"math"
)

// SMASeries computes the trailing simple moving average of prices over the
// given window, aligned to the input by index. The first window-1 entries
// are undefined (NaN): there is not enough history, which is neither zero
// nor an error. The result is a pure function of the inputs.
func SMASeries(prices []float64, window int) ([]float64, error) {
	if window <= 0 {
		return nil, errors.New("window must be positive")
	}
	ma := make([]float64, len(prices))
	sum := 0.0
	for i, p := range prices {
		sum += p
		if i >= window {
			sum -= prices[i-window]
		}
		if i >= window-1 {
			ma[i] = sum / float64(window)
		} else {
			ma[i] = math.NaN()
		}
	}
	return ma, nil
}

// Defined reports whether a moving-average entry carries a value.
func Defined(v float64) bool { return !math.IsNaN(v) }
