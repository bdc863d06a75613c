package model

import (
	"fmt"
	"strconv"
	"time"

	"github.com/dustin/go-humanize"
)

// FormatBytes formats a size in IEC units, negative sizes are printed as is
func FormatBytes(size int64) string {
	if size < 0 {
		return strconv.FormatInt(size, 10)
	}
	return humanize.IBytes(uint64(size))
}

// FormatRatio formats a compressed/uncompressed ratio as a percentage
func FormatRatio(ratio float64) string {
	if ratio == 0 {
		return "N/A"
	}
	return fmt.Sprintf("%.1f%%", ratio*100)
}

// FormatStatText renders a min/max value as text, nil stays nil
func FormatStatText(value any) *string {
	if value == nil {
		return nil
	}
	var text string
	switch v := value.(type) {
	case string:
		text = v
	case []byte:
		// raw bytes that did not decode as UTF-8
		text = fmt.Sprintf("0x%X", v)
	case float64:
		text = strconv.FormatFloat(v, 'g', -1, 64)
	case float32:
		text = strconv.FormatFloat(float64(v), 'g', -1, 32)
	case time.Time:
		text = v.Format(time.DateTime)
	default:
		text = fmt.Sprintf("%v", v)
	}
	return &text
}

// FormatOptional renders an optional label, "-" when absent
func FormatOptional(value *string) string {
	if value == nil || *value == "" {
		return "-"
	}
	return *value
}

// FormatOptionalInt renders an optional count, "-" when absent
func FormatOptionalInt(value *int64) string {
	if value == nil {
		return "-"
	}
	return strconv.FormatInt(*value, 10)
}
