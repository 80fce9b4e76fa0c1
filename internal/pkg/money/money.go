package money

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Parse converts a loosely typed metric value into a decimal.
// The boolean reports whether the value was usable: nil and blank strings
// yield (0, true), anything that cannot be read as a number yields (0, false).
func Parse(value interface{}) (decimal.Decimal, bool) {
	switch v := value.(type) {
	case nil:
		return decimal.Zero, true
	case decimal.Decimal:
		return v, true
	case *decimal.Decimal:
		if v == nil {
			return decimal.Zero, true
		}
		return *v, true
	case float64:
		return decimal.NewFromFloat(v), true
	case float32:
		return decimal.NewFromFloat32(v), true
	case int:
		return decimal.NewFromInt(int64(v)), true
	case int32:
		return decimal.NewFromInt32(v), true
	case int64:
		return decimal.NewFromInt(v), true
	case json.Number:
		return parseString(v.String())
	case string:
		return parseString(v)
	case *string:
		if v == nil {
			return decimal.Zero, true
		}
		return parseString(*v)
	default:
		return decimal.Zero, false
	}
}

func parseString(s string) (decimal.Decimal, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero, true
	}

	// "1 234,50" style input from manual report forms
	s = strings.ReplaceAll(s, " ", "")
	s = strings.ReplaceAll(s, "\u00a0", "")
	if strings.Contains(s, ",") {
		if strings.Contains(s, ".") {
			s = strings.ReplaceAll(s, ",", "")
		} else {
			if ambiguousComma(s) {
				return decimal.Zero, false
			}
			s = strings.ReplaceAll(s, ",", ".")
		}
	}

	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, false
	}
	return d, true
}

// ambiguousComma reports input like "1,500" where the comma may be either a
// decimal or a thousands separator. A zero integer part ("0,125") is read as
// a decimal.
func ambiguousComma(s string) bool {
	i := strings.LastIndex(s, ",")
	if strings.Count(s, ",") > 1 {
		return true
	}
	whole := strings.TrimLeft(s[:i], "+-")
	if whole == "" || strings.Trim(whole, "0") == "" {
		return false
	}
	return len(s)-i-1 == 3
}

// Round2 rounds to cents.
func Round2(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}

// Describe renders a raw value for logs and data issue reports.
func Describe(value interface{}) string {
	if value == nil {
		return ""
	}
	return fmt.Sprintf("%v", value)
}
