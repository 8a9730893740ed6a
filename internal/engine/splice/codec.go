package splice

import (
	"errors"
	"fmt"
)

// ErrInvalidSplice is returned by Decode for malformed input.
var ErrInvalidSplice = errors.New("invalid splice")

// Encode converts s to a generic map. The kind entry is informational.
func Encode(s Splice) map[string]any {
	return map[string]any{
		"kind":   s.Kind(),
		"pos":    s.Pos,
		"delete": s.Delete,
		"insert": s.Insert,
	}
}

// Decode builds a Splice from a generic map such as one produced by Encode.
func Decode(m map[string]any) (Splice, error) {
	var s Splice
	switch pos := m["pos"].(type) {
	case int:
		s.Pos = pos
	case int64:
		s.Pos = int(pos)
	case float64:
		if pos != float64(int(pos)) {
			return Splice{}, fmt.Errorf("decode pos %v: %w", pos, ErrInvalidSplice)
		}
		s.Pos = int(pos)
	default:
		return Splice{}, fmt.Errorf("decode pos %v: %w", m["pos"], ErrInvalidSplice)
	}
	if s.Pos < 0 {
		return Splice{}, fmt.Errorf("decode pos %d: %w", s.Pos, ErrInvalidSplice)
	}
	s.Delete, _ = m["delete"].(string)
	s.Insert, _ = m["insert"].(string)
	return s, nil
}
