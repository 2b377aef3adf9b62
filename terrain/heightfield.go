package terrain

import "math"

// HeightField is a 1-D terrain profile: N elevation samples at integer
// positions, queried at any real position through interpolation.
//
// A HeightField is not safe for concurrent writers. Sessions that need to
// edit a field someone else reads take a Clone first.
type HeightField struct {
	samples []float64

	// padded repeats the edge samples so the 4-point kernel never has to
	// clamp: padded[i+1] == samples[i].
	padded []float64

	min, max float64
	smooth   bool
}

// Rect is an axis-aligned box in terrain units.
type Rect struct {
	X, Y          float64
	Width, Height float64
}

// New returns a field of n zero samples with linear interpolation.
func New(n int) *HeightField {
	if n < 0 {
		n = 0
	}
	h := &HeightField{samples: make([]float64, n)}
	h.rebuild()
	return h
}

// FromSamples returns a field holding a copy of samples.
func FromSamples(samples []float64) *HeightField {
	h := New(len(samples))
	h.SetAll(func(i int) float64 { return samples[i] })
	return h
}

// Count returns the number of samples.
func (h *HeightField) Count() int {
	return len(h.samples)
}

// At returns the raw sample at index i, clamping i into range.
func (h *HeightField) At(i int) float64 {
	n := len(h.samples)
	if n == 0 {
		return 0
	}
	return h.samples[min(max(i, 0), n-1)]
}

// Get returns the interpolated height at x. x is clamped to [0, N-1] so
// the result is always defined.
func (h *HeightField) Get(x float64) float64 {
	return h.interpolate(x, h.smooth)
}

func (h *HeightField) interpolate(x float64, smooth bool) float64 {
	n := len(h.samples)
	if n == 0 {
		return 0
	}
	if math.IsNaN(x) || x < 0 {
		x = 0
	}
	if last := float64(n - 1); x > last {
		x = last
	}

	x1 := int(math.Floor(x))
	frac := x - float64(x1)
	p := h.padded[x1 : x1+4]

	if smooth {
		return cubic(1-frac)*p[0] +
			cubic(2-frac)*p[1] +
			cubic(1+frac)*p[2] +
			cubic(frac)*p[3]
	}
	return p[1] + (p[2]-p[1])*frac
}

// cubic is the smoothing kernel weight. The four weights are a blur and
// are not meant to reproduce the samples exactly.
func cubic(t float64) float64 {
	return (3*t*t - t*t*t) / 8
}

// SetAll overwrites every sample with valueFromIndex(i) and refreshes the
// cached bounds.
func (h *HeightField) SetAll(valueFromIndex func(i int) float64) {
	for i := range h.samples {
		h.samples[i] = valueFromIndex(i)
	}
	h.rebuild()
}

func (h *HeightField) rebuild() {
	n := len(h.samples)
	h.min, h.max = 0, 0
	if n == 0 {
		h.padded = nil
		return
	}

	h.min, h.max = h.samples[0], h.samples[0]
	for _, v := range h.samples[1:] {
		h.min = math.Min(h.min, v)
		h.max = math.Max(h.max, v)
	}

	if cap(h.padded) < n+3 {
		h.padded = make([]float64, n+3)
	}
	h.padded = h.padded[:n+3]
	h.padded[0] = h.samples[0]
	copy(h.padded[1:], h.samples)
	h.padded[n+1] = h.samples[n-1]
	h.padded[n+2] = h.samples[n-1]
}

// Bounds returns the box spanned by the samples.
func (h *HeightField) Bounds() Rect {
	return Rect{
		X:      0,
		Y:      h.min,
		Width:  float64(len(h.samples) - 1),
		Height: h.max - h.min,
	}
}

// Smooth reports whether cubic smoothing is enabled.
func (h *HeightField) Smooth() bool {
	return h.smooth
}

// SetSmooth switches between linear and cubic-smoothed interpolation. The
// change applies to the next Get.
func (h *HeightField) SetSmooth(enable bool) {
	h.smooth = enable
}

// Samples returns a copy of the raw samples in index order.
func (h *HeightField) Samples() []float64 {
	out := make([]float64, len(h.samples))
	copy(out, h.samples)
	return out
}

// Clone returns an independent copy, including the smoothing mode.
func (h *HeightField) Clone() *HeightField {
	c := FromSamples(h.samples)
	c.smooth = h.smooth
	return c
}
