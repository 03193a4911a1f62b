package utils

import (
	"math"
	"strconv"
)

// FormatUSD formats a dollar amount with thousands separators and no cents.
// Example: 2450.75 -> "$2,451"
func FormatUSD(amount float64) string {
	rounded := int64(math.Round(amount))

	negative := rounded < 0
	if negative {
		rounded = -rounded
	}

	var result []byte
	str := strconv.FormatInt(rounded, 10)

	count := 0
	for i := len(str) - 1; i >= 0; i-- {
		result = append([]byte{str[i]}, result...)
		count++
		if count%3 == 0 && i != 0 {
			result = append([]byte{','}, result...)
		}
	}

	if negative {
		return "-$" + string(result)
	}
	return "$" + string(result)
}
