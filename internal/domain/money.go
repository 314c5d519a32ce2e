package domain

import (
	"fmt"
	"math"
)

// All money in this package is int64 paise. Rupee floats exist only at
// the wire boundary: requests carry rupees for readability (prices move
// in half-rupee steps), and these two functions are the sole crossing
// points.

// RupeesToPaise converts a rupee amount from the wire into paise.
// Anything finer than one paisa is rejected rather than rounded away.
func RupeesToPaise(rupees float64) (int64, error) {
	// Scale by 1000 and check the last digit to detect a third decimal
	// place; rounding first absorbs float artifacts like 1.10*1000 =
	// 1099.999....
	milli := math.Round(rupees * 1000)
	if math.Mod(milli, 10) != 0 {
		return 0, fmt.Errorf("amount %v is finer than one paisa", rupees)
	}
	return int64(math.Round(rupees * 100)), nil
}

// PaiseToRupees converts paise back to rupees for the wire.
func PaiseToRupees(paise int64) float64 {
	return float64(paise) / 100.0
}
