package terrain

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
)

var ErrEmptySamples = errors.New("terrain: height field has no samples")

// MarshalJSON encodes the raw samples as a flat JSON array. Floats use the
// shortest representation that parses back to the same value.
func (h *HeightField) MarshalJSON() ([]byte, error) {
	b := make([]byte, 0, 2+len(h.samples)*8)
	b = append(b, '[')
	for i, v := range h.samples {
		if i > 0 {
			b = append(b, ',')
		}
		b = strconv.AppendFloat(b, v, 'g', -1, 64)
	}
	return append(b, ']'), nil
}

// UnmarshalJSON replaces the samples with the decoded array. The sample
// count follows the array; the smoothing mode is kept.
func (h *HeightField) UnmarshalJSON(data []byte) error {
	var samples []float64
	if err := json.Unmarshal(data, &samples); err != nil {
		return fmt.Errorf("decoding height field: %w", err)
	}
	h.samples = samples
	h.rebuild()
	return nil
}

// Serialize returns the canonical JSON text of the raw samples.
func (h *HeightField) Serialize() string {
	b, _ := h.MarshalJSON()
	return string(b)
}

// Parse decodes a height field file: a flat JSON array of samples, index
// being the position.
func Parse(data []byte) (*HeightField, error) {
	h := New(0)
	if err := h.UnmarshalJSON(data); err != nil {
		return nil, err
	}
	if h.Count() == 0 {
		return nil, ErrEmptySamples
	}
	return h, nil
}
