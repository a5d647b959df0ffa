package utils

import (
	"math"
	"strconv"
)

// ParseInt converts string to int with default value
func ParseInt(value string, defaultValue int) int {
	if value == "" {
		return defaultValue
	}

	result, err := strconv.Atoi(value)
	if err != nil {
		return defaultValue
	}

	if result < 1 {
		return defaultValue
	}

	return result
}

// ToMinorUnits converts a decimal amount into minor currency units (cents).
func ToMinorUnits(amount float64) int64 {
	return int64(math.Round(amount * 100))
}
