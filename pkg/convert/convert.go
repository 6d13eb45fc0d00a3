// Package convert provides small value and struct conversion helpers.
package convert

import (
	"math"

	"github.com/jinzhu/copier"
)

// Bool2Int converts a boolean to its database integer form.
func Bool2Int(b bool) int64 {
	if b {
		return 1
	}
	return 0
}

// Int2Bool converts a database integer flag back to a boolean.
func Int2Bool(i int64) bool {
	return i != 0
}

// Round rounds a float to the given number of decimal places.
func Round(v float64, places int) float64 {
	factor := math.Pow10(places)
	return math.Round(v*factor) / factor
}

// StructAssign copies same-named fields from src into dst and returns dst.
// dst must be a pointer to a struct.
func StructAssign(src any, dst any) any {
	_ = copier.Copy(dst, src)
	return dst
}
