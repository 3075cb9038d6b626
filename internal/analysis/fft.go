package analysis

import (
	"fmt"
	"math/cmplx"

	"github.com/mjibson/go-dsp/window"
	"gonum.org/v1/gonum/dsp/fourier"
	"gonum.org/v1/gonum/stat"
)

// FFT returns the n/2+1 non-negative frequency coefficients of a real signal.
func FFT(data []float64) []complex128 {
	if len(data) == 0 {
		return nil
	}
	return fourier.NewFFT(len(data)).Coefficients(nil, data)
}

// PowerSpectrum returns |X_k| for the non-negative frequencies of data.
func PowerSpectrum(data []float64) []float64 {
	coeffs := FFT(data)
	ps := make([]float64, len(coeffs))
	for i, c := range coeffs {
		ps[i] = cmplx.Abs(c)
	}
	return ps
}

// WindowedPowerSpectrum applies a Hann window before PowerSpectrum, which
// reduces leakage around peaks when the record is not a whole number of
// periods.
func WindowedPowerSpectrum(data []float64) []float64 {
	if len(data) == 0 {
		return nil
	}
	w := window.Hann(len(data))
	windowed := make([]float64, len(data))
	for i, v := range data {
		windowed[i] = v * w[i]
	}
	return PowerSpectrum(windowed)
}

// DominantFrequency returns the strongest non-zero frequency, in cycles per
// unit time, of a signal sampled every dt. The mean is removed first.
func DominantFrequency(data []float64, dt float64) (float64, error) {
	if len(data) < 4 {
		return 0, fmt.Errorf("need at least 4 samples, got %d", len(data))
	}
	if !(dt > 0) {
		return 0, fmt.Errorf("sample interval must be positive, got %g", dt)
	}

	mean := stat.Mean(data, nil)
	centered := make([]float64, len(data))
	for i, v := range data {
		centered[i] = v - mean
	}

	fft := fourier.NewFFT(len(centered))
	ps := PowerSpectrum(centered)

	peak := 1
	for k := 2; k < len(ps); k++ {
		if ps[k] > ps[peak] {
			peak = k
		}
	}

	return fft.Freq(peak) / dt, nil
}

// Column extracts component idx from every state.
func Column[S ~[]float64](states []S, idx int) []float64 {
	out := make([]float64, 0, len(states))
	for _, x := range states {
		if idx < len(x) {
			out = append(out, x[idx])
		}
	}
	return out
}
