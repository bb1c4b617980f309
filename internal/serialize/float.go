// Copyright (C) 2025 Michael J. Fromberger. All Rights Reserved.

package serialize

import (
	"fmt"
	"math"
	"strconv"
)

// appendFloat appends the shortest decimal representation of f that
// round-trips at the given bit size. Exponent notation is used only for very
// small and very large magnitudes, the same cutoffs JavaScript uses.
func appendFloat(buf []byte, f float64, bits int) ([]byte, error) {
	if math.IsInf(f, 0) || math.IsNaN(f) {
		return buf, fmt.Errorf("%w: %s", ErrUnsupported, strconv.FormatFloat(f, 'g', -1, bits))
	}
	if f == 0 {
		f = 0 // write -0 as 0
	}

	abs := math.Abs(f)
	format := byte('f')
	if abs != 0 {
		if bits == 64 && (abs < 1e-6 || abs >= 1e21) ||
			bits == 32 && (float32(abs) < 1e-6 || float32(abs) >= 1e21) {
			format = 'e'
		}
	}
	buf = strconv.AppendFloat(buf, f, format, -1, bits)
	if format == 'e' {
		// Trim a leading zero from a two-digit negative exponent: 1e-07 becomes 1e-7.
		if n := len(buf); n >= 4 && buf[n-4] == 'e' && buf[n-3] == '-' && buf[n-2] == '0' {
			buf[n-2] = buf[n-1]
			buf = buf[:n-1]
		}
	}
	return buf, nil
}
