// Package convert narrows configuration integers to the widths drivers and
// libraries expect.
package convert

import (
	"fmt"
	"math"
)

// IntToInt32 converts v, returning an error if it does not fit.
func IntToInt32(v int) (int32, error) {
	if v > math.MaxInt32 || v < math.MinInt32 {
		return 0, fmt.Errorf("integer overflow: %d cannot be converted to int32", v)
	}
	return int32(v), nil
}

// IntToUint32Clamped converts v, clamping negatives to 0 and large values to
// math.MaxUint32.
func IntToUint32Clamped(v int) uint32 {
	if v < 0 {
		return 0
	}
	if uint64(v) > math.MaxUint32 {
		return math.MaxUint32
	}
	return uint32(v)
}
