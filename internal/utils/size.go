package utils

import (
	"fmt"
	"strings"
)

// sizeUnitSuffixes holds the lower-case suffixes used by FormatFileSize,
// ordered by ascending magnitude.
var sizeUnitSuffixes = []string{"b", "kb", "mb", "gb", "tb", "pb"}

// FormatFileSize renders a byte count with a compact lower-case unit suffix,
// e.g. 1536 -> "1.5kb". Negative counts render as "0b". Values under ten
// units keep one decimal place; larger values are rounded to whole units.
func FormatFileSize(sizeInBytes int64) string {
	if sizeInBytes < 0 {
		return "0b"
	}

	scaledValue := float64(sizeInBytes)
	suffixIndex := 0
	for scaledValue >= 1024 && suffixIndex < len(sizeUnitSuffixes)-1 {
		scaledValue /= 1024
		suffixIndex++
	}
	if suffixIndex == 0 {
		return fmt.Sprintf("%db", sizeInBytes)
	}
	if scaledValue < 10 {
		trimmedValue := strings.TrimSuffix(fmt.Sprintf("%.1f", scaledValue), ".0")
		return trimmedValue + sizeUnitSuffixes[suffixIndex]
	}
	return fmt.Sprintf("%.0f%s", scaledValue, sizeUnitSuffixes[suffixIndex])
}
