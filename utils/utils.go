package utils

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// TimestampLayout is the naive UTC ISO-8601 form with microseconds that the
// record sets store.
const TimestampLayout = "2006-01-02T15:04:05.000000"

// Timestamp formats t in UTC using TimestampLayout.
func Timestamp(t time.Time) string {
	return t.UTC().Format(TimestampLayout)
}

// BulkEmail synthesizes the placeholder email of a bulk submission from the
// fractional unix time and the current size of the submission set.
func BulkEmail(t time.Time, setSize int) string {
	seconds := strconv.FormatFloat(float64(t.UnixMicro())/1e6, 'f', -1, 64)
	if !strings.Contains(seconds, ".") {
		seconds += ".0"
	}
	return fmt.Sprintf("bulk_%s_%d", seconds, setSize)
}

// BulkName is the display name given to the bulk submission appended to a set
// of setSize records.
func BulkName(setSize int) string {
	return fmt.Sprintf("Bulk Submission %d", setSize+1)
}

// ContainsString checks if a string slice contains a specific string.
func ContainsString(slice []string, item string) bool {
	for _, a := range slice {
		if a == item {
			return true
		}
	}
	return false
}

// ParseRideSequence parses a pipe-separated list of ride answers ("1|0|1").
// An empty string is an empty sequence. Only 0 and 1 are accepted.
func ParseRideSequence(s string) ([]int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return []int{}, nil
	}
	parts := strings.Split(s, "|")
	seq := make([]int, 0, len(parts))
	for _, part := range parts {
		v, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil {
			return nil, fmt.Errorf("invalid ride answer '%s'", part)
		}
		if v != 0 && v != 1 {
			return nil, fmt.Errorf("ride answer must be 0 or 1, got %d", v)
		}
		seq = append(seq, v)
	}
	return seq, nil
}

// IsTruthyJSON reports whether raw holds a JSON value that is present and not
// falsy: null, false, 0, "", [] and {} are all falsy.
func IsTruthyJSON(raw json.RawMessage) bool {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return false
	}
	var v interface{}
	if err := json.Unmarshal(trimmed, &v); err != nil {
		return false
	}
	switch val := v.(type) {
	case nil:
		return false
	case bool:
		return val
	case float64:
		return val != 0
	case string:
		return val != ""
	case []interface{}:
		return len(val) > 0
	case map[string]interface{}:
		return len(val) > 0
	default:
		return true
	}
}
