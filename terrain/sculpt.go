package terrain

import "math"

// DecayedWeight is the influence of a drag at distance dist (in samples)
// for a given zoom level. It is 1 at the anchor and falls off as a
// gaussian-like bump whose width scales with zoom.
func DecayedWeight(zoom, dist float64) float64 {
	if zoom <= 0 {
		zoom = 1
	}
	d := dist / zoom
	return math.Pow(1.05, -d*d)
}

// Sculpt rewrites dst from base, lifting (dy < 0) or sinking (dy > 0) the
// profile around anchorX.
func Sculpt(dst, base *HeightField, anchorX, dy, zoom float64) {
	dst.SetAll(func(i int) float64 {
		return base.At(i) + dy*DecayedWeight(zoom, float64(i)-anchorX)
	})
}

// IsCloseToPath reports whether (x, y) lies within tolerance of the
// smoothed surface, whatever mode h is drawn in. Positions slightly past
// either end still count.
func IsCloseToPath(h *HeightField, x, y, tolerance float64) bool {
	ix := math.Round(x)
	if ix < -tolerance || ix > float64(h.Count())+tolerance {
		return false
	}
	return math.Abs(h.interpolate(x, true)-y) < tolerance
}

// Drag is an in-progress edit of a height field. The samples at the time
// the drag started are kept so every move is applied from the same base.
type Drag struct {
	field   *HeightField
	base    *HeightField
	anchorX float64
	anchorY float64
	zoom    float64
}

// BeginDrag starts a sculpt at (x, y) if the point is on the surface. The
// hit tolerance is half the zoom level.
func BeginDrag(field *HeightField, x, y, zoom float64) (*Drag, bool) {
	if !IsCloseToPath(field, x, y, zoom/2) {
		return nil, false
	}
	return &Drag{
		field:   field,
		base:    field.Clone(),
		anchorX: x,
		anchorY: y,
		zoom:    zoom,
	}, true
}

// Move applies the drag with the pointer now at height y.
func (d *Drag) Move(y float64) {
	Sculpt(d.field, d.base, d.anchorX, y-d.anchorY, d.zoom)
}

// Cancel restores the samples the drag started from.
func (d *Drag) Cancel() {
	d.field.SetAll(d.base.At)
}
