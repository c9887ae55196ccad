package normalize

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"unicode"
)

// Value cleaners are total functions: malformed input degrades to nil (or
// passes through unchanged for identifiers), it never aborts a batch.

// CleanPrice converts a raw price value to a numeric price. Numeric input
// passes through unchanged. A "From" range marker ("From $450,000" means
// "starting at") is unusable as a point price and becomes nil. Any other
// text is stripped to its digits and parsed; nothing left means nil.
func CleanPrice(raw any) *float64 {
	switch v := raw.(type) {
	case nil:
		return nil
	case float64:
		return &v
	case int:
		f := float64(v)
		return &f
	case int64:
		f := float64(v)
		return &f
	case json.Number:
		if f, err := v.Float64(); err == nil {
			return &f
		}
		return nil
	case string:
		if strings.Contains(v, "From") {
			return nil
		}
		var b strings.Builder
		for _, r := range v {
			if r >= '0' && r <= '9' {
				b.WriteRune(r)
			}
		}
		if b.Len() == 0 {
			return nil
		}
		f, err := strconv.ParseFloat(b.String(), 64)
		if err != nil {
			return nil
		}
		return &f
	default:
		return nil
	}
}

// CanonicalID converts a numeric-looking identifier (zpid, zip code) to
// canonical text, preserving the exact digit sequence: no scientific
// notation, no lost leading zeros. Values that cannot be interpreted as an
// integer pass through unchanged.
func CanonicalID(raw any) string {
	switch v := raw.(type) {
	case nil:
		return ""
	case string:
		s := strings.TrimSpace(v)
		if s == "" {
			return s
		}
		if isDigits(s) {
			return s
		}
		// "2078133107.0" style: collapse an integral float to its digits.
		if f, err := strconv.ParseFloat(s, 64); err == nil && f == float64(int64(f)) {
			return strconv.FormatInt(int64(f), 10)
		}
		return s
	case json.Number:
		s := v.String()
		if isDigits(s) {
			return s
		}
		if i, err := v.Int64(); err == nil {
			return strconv.FormatInt(i, 10)
		}
		if f, err := v.Float64(); err == nil && f == float64(int64(f)) {
			return strconv.FormatInt(int64(f), 10)
		}
		return s
	case float64:
		if v == float64(int64(v)) {
			return strconv.FormatInt(int64(v), 10)
		}
		return strconv.FormatFloat(v, 'f', -1, 64)
	case int:
		return strconv.Itoa(v)
	case int64:
		return strconv.FormatInt(v, 10)
	default:
		return fmt.Sprint(v)
	}
}

func isDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return len(s) > 0
}

// RepairQuasiJSON canonicalizes a Python-repr-like history string
// ("[{'time': 2023, 'taxPaid': 8500}]") into strict JSON: single quotes
// become double quotes, and bare identifier tokens sitting between a
// `{ , :` on the left and a `, : } ]` on the right get quoted. Numbers and
// the JSON literals true/false/null stay bare. Nested objects and arrays
// are handled; if the result still fails to parse downstream, that failure
// is the caller's to report.
func RepairQuasiJSON(s string) string {
	s = strings.ReplaceAll(s, "'", `"`)

	var b strings.Builder
	b.Grow(len(s) + 16)

	runes := []rune(s)
	inString := false
	prevSig := rune(0) // last significant char emitted outside strings

	for i := 0; i < len(runes); i++ {
		r := runes[i]

		if inString {
			b.WriteRune(r)
			if r == '"' {
				inString = false
				prevSig = r
			}
			continue
		}

		switch {
		case r == '"':
			inString = true
			b.WriteRune(r)
		case isWordRune(r):
			j := i
			for j < len(runes) && isWordRune(runes[j]) {
				j++
			}
			token := string(runes[i:j])
			if needsQuoting(token, prevSig, nextSignificant(runes, j)) {
				b.WriteByte('"')
				b.WriteString(token)
				b.WriteByte('"')
			} else {
				b.WriteString(token)
			}
			prevSig = runes[j-1]
			i = j - 1
		default:
			b.WriteRune(r)
			if !unicode.IsSpace(r) {
				prevSig = r
			}
		}
	}

	return b.String()
}

func isWordRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
}

func nextSignificant(runes []rune, from int) rune {
	for i := from; i < len(runes); i++ {
		if !unicode.IsSpace(runes[i]) {
			return runes[i]
		}
	}
	return 0
}

func needsQuoting(token string, prev, next rune) bool {
	switch prev {
	case '{', ',', ':':
	default:
		return false
	}
	switch next {
	case ',', ':', '}', ']':
	default:
		return false
	}
	switch token {
	case "true", "false", "null":
		return false
	}
	if _, err := strconv.ParseFloat(token, 64); err == nil {
		return false
	}
	return true
}
