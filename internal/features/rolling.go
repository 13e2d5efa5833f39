package features

import "math"

// trailingMean returns the mean of the last window values of prior. The
// boolean is false until the window is fully populated; partial windows are
// missing, never padded.
func trailingMean(prior []float64, window int) (float64, bool) {
	if len(prior) < window {
		return 0, false
	}
	sum := 0.0
	for _, v := range prior[len(prior)-window:] {
		sum += v
	}
	return sum / float64(window), true
}

// trailingStdDev returns the sample standard deviation of the last window
// values of prior. Sample (n-1) is used uniformly across categories so the
// dispersion feeding the edge calculation is one estimator everywhere.
func trailingStdDev(prior []float64, window int) (float64, bool) {
	if window < 2 || len(prior) < window {
		return 0, false
	}
	tail := prior[len(prior)-window:]
	sum := 0.0
	for _, v := range tail {
		sum += v
	}
	mean := sum / float64(window)
	ss := 0.0
	for _, v := range tail {
		d := v - mean
		ss += d * d
	}
	return math.Sqrt(ss / float64(window-1)), true
}

// trailingRatioOfSums returns sum(num)/sum(den) over the last window entries.
// This is the per-minute rate definition: the ratio of summed totals, not the
// mean of per-game ratios. Undefined when the window is short or the
// denominator sums to zero.
func trailingRatioOfSums(num, den []float64, window int) (float64, bool) {
	if len(num) < window || len(den) < window {
		return 0, false
	}
	var numSum, denSum float64
	for _, v := range num[len(num)-window:] {
		numSum += v
	}
	for _, v := range den[len(den)-window:] {
		denSum += v
	}
	if denSum == 0 {
		return 0, false
	}
	return numSum / denSum, true
}
