package query

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

var (
	fieldPattern  = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*(\.[A-Za-z0-9_]+)*(\[[A-Za-z0-9_]*\])?$`)
	numberPattern = regexp.MustCompile(`^-?(\d+\.?\d*|\.\d+)([eE][-+]?\d+)?$`)
)

// parseKey splits "duration[gte]" into ("duration", OpGte). A key without a
// recognised bracket operator is returned whole as an equality field.
func parseKey(key string) (string, Op) {
	open := strings.IndexByte(key, '[')
	if open <= 0 || !strings.HasSuffix(key, "]") {
		return key, OpEq
	}
	if op, ok := bracketOps[key[open+1:len(key)-1]]; ok {
		return key[:open], op
	}
	return key, OpEq
}

func validField(f string) bool {
	return fieldPattern.MatchString(f)
}

// Coerce converts a query string value to the type a document field most
// likely has: numbers, booleans and ISO dates are recognised, anything else
// stays a string.
func Coerce(v string) any {
	if numberPattern.MatchString(v) {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	switch v {
	case "true":
		return true
	case "false":
		return false
	}
	if len(v) >= len("2006-01-02") && v[4] == '-' {
		for _, layout := range []string{time.RFC3339Nano, "2006-01-02T15:04:05", "2006-01-02"} {
			if t, err := time.Parse(layout, v); err == nil {
				return t.UTC()
			}
		}
	}
	return v
}

func splitList(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" && part != "-" && part != "+" {
			out = append(out, part)
		}
	}
	return out
}

func nonEmpty(values []string) []string {
	out := values[:0:0]
	for _, v := range values {
		if v != "" {
			out = append(out, v)
		}
	}
	return out
}

func positiveInt(v string, def int) int {
	n, err := strconv.Atoi(v)
	if err != nil || n < 1 {
		return def
	}
	return n
}
