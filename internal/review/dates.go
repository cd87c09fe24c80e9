package review

import (
	"encoding/json"
	"math"
	"strings"
	"time"

	"github.com/araddon/dateparse"
)

// excelEpochOffset is the serial of 1970-01-01 in the 1900 date system.
const excelEpochOffset = 25569

// DisplayDateLayout renders dates as "05 Mar 24".
const DisplayDateLayout = "02 Jan 06"

// ParseDate coerces a raw cell value into an instant. Spreadsheet serials use
// the 1900 date system; text goes through a general date parser. Anything
// unparseable yields nil.
func ParseDate(v any) *time.Time {
	switch val := v.(type) {
	case nil:
		return nil
	case time.Time:
		if val.IsZero() {
			return nil
		}
		return &val
	case *time.Time:
		return val
	case float64:
		return fromSerial(val)
	case float32:
		return fromSerial(float64(val))
	case int:
		return fromSerial(float64(val))
	case int64:
		return fromSerial(float64(val))
	case json.Number:
		f, err := val.Float64()
		if err != nil {
			return parseDateText(val.String())
		}
		return fromSerial(f)
	case string:
		return parseDateText(val)
	default:
		return parseDateText(Clean(val))
	}
}

// SerialToTime converts a spreadsheet serial to UTC:
// round((serial - 25569) * 86400) seconds since the Unix epoch.
func SerialToTime(serial float64) time.Time {
	secs := math.Round((serial - excelEpochOffset) * 86400)
	return time.Unix(int64(secs), 0).UTC()
}

func fromSerial(serial float64) *time.Time {
	if math.IsNaN(serial) || math.IsInf(serial, 0) {
		return nil
	}
	secs := math.Round((serial - excelEpochOffset) * 86400)
	if secs > math.MaxInt64/2 || secs < math.MinInt64/2 {
		return nil
	}
	t := SerialToTime(serial)
	return &t
}

func parseDateText(s string) (out *time.Time) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	// dateparse has panicked on pathological input in the past
	defer func() {
		if recover() != nil {
			out = nil
		}
	}()
	t, err := dateparse.ParseIn(s, time.UTC)
	if err != nil {
		return nil
	}
	return &t
}

// FormatDate renders a date for display; nil renders as "".
func FormatDate(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.UTC().Format(DisplayDateLayout)
}
