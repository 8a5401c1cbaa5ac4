// Package globe builds the parametric surfaces of the globe: the legacy point sphere and the
// tiled sphere whose tiles are uploaded and drawn one by one.
package globe

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// ErrInvalidSegments is returned when a tessellation cannot be built from a SegmentsInfo.
var ErrInvalidSegments = errors.New("invalid segments")

// SegmentsInfo is the tessellation density of a sphere.
type SegmentsInfo struct {
	// UParts is the number of divisions along the polar angle.
	UParts int `yaml:"u" toml:"u"`
	// VParts is the number of divisions around the equator.
	VParts int `yaml:"v" toml:"v"`
}

// Validate checks that both counts are positive and that the (U+1)x(V+1) grid can be addressed by uint16 indices.
//
// Returns:
//   - error: nil, or an error wrapping ErrInvalidSegments
func (s SegmentsInfo) Validate() error {
	if s.UParts <= 0 || s.VParts <= 0 {
		return fmt.Errorf("%w: u=%d v=%d, both must be positive", ErrInvalidSegments, s.UParts, s.VParts)
	}
	if (s.UParts+1)*(s.VParts+1) > math.MaxUint16+1 {
		return fmt.Errorf("%w: u=%d v=%d needs %d vertices, uint16 indices address at most %d",
			ErrInvalidSegments, s.UParts, s.VParts, (s.UParts+1)*(s.VParts+1), math.MaxUint16+1)
	}
	return nil
}

// String returns the segments as "UxV".
func (s SegmentsInfo) String() string {
	return fmt.Sprintf("%dx%d", s.UParts, s.VParts)
}

// ParseSegments parses "UxV" (for example "32x64") into a validated SegmentsInfo.
//
// Parameters:
//   - s: the segments string
//
// Returns:
//   - SegmentsInfo: the parsed segments
//   - error: error wrapping ErrInvalidSegments if s is malformed or out of range
func ParseSegments(s string) (SegmentsInfo, error) {
	var seg SegmentsInfo
	u, v, ok := strings.Cut(strings.ToLower(strings.TrimSpace(s)), "x")
	if !ok {
		return seg, fmt.Errorf("%w: %q is not UxV", ErrInvalidSegments, s)
	}
	var err error
	if seg.UParts, err = strconv.Atoi(u); err != nil {
		return seg, fmt.Errorf("%w: %q: %v", ErrInvalidSegments, s, err)
	}
	if seg.VParts, err = strconv.Atoi(v); err != nil {
		return seg, fmt.Errorf("%w: %q: %v", ErrInvalidSegments, s, err)
	}
	return seg, seg.Validate()
}
