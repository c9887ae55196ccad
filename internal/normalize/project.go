package normalize

import "strings"

// Record is one flattened raw search record: nested JSON collapsed into
// dotted-path keys.
type Record map[string]any

// homeInfoPrefix is the structural wrapper the provider puts around the
// per-listing home info object; its fields are promoted to top level.
const homeInfoPrefix = "hdpData.homeInfo."

// Flatten collapses a nested JSON object into a flat Record with dotted
// keys ("hdpData.homeInfo.price"). Arrays are kept as values, not expanded.
func Flatten(raw map[string]any) Record {
	out := make(Record, len(raw))
	flattenInto(out, "", raw)
	return out
}

func flattenInto(out Record, prefix string, raw map[string]any) {
	for k, v := range raw {
		key := k
		if prefix != "" {
			key = prefix + "." + k
		}
		if nested, ok := v.(map[string]any); ok {
			flattenInto(out, key, nested)
			continue
		}
		out[key] = v
	}
}

// StripHomeInfoPrefix promotes "hdpData.homeInfo.*" keys to top level.
// When the promoted name collides with a key that already exists at top
// level, the existing column wins (first occurrence is kept).
func StripHomeInfoPrefix(rec Record) Record {
	out := make(Record, len(rec))
	for k, v := range rec {
		if !strings.HasPrefix(k, homeInfoPrefix) {
			out[k] = v
		}
	}
	for k, v := range rec {
		if !strings.HasPrefix(k, homeInfoPrefix) {
			continue
		}
		stripped := strings.TrimPrefix(k, homeInfoPrefix)
		if _, exists := out[stripped]; !exists {
			out[stripped] = v
		}
	}
	return out
}

// Project selects the requested fields out of a variably-shaped record set.
// The returned column list preserves the requested order and contains
// exactly the fields that exist in at least one record; fields absent from
// the whole source are silently omitted (different API response shapes must
// not crash the pipeline). Duplicate requests for the same field collapse
// to the first occurrence.
func Project(records []Record, fields []string) ([]Record, []string) {
	seen := make(map[string]struct{}, len(fields))
	var present []string
	for _, f := range fields {
		if _, dup := seen[f]; dup {
			continue
		}
		seen[f] = struct{}{}
		for _, rec := range records {
			if _, ok := rec[f]; ok {
				present = append(present, f)
				break
			}
		}
	}

	out := make([]Record, len(records))
	for i, rec := range records {
		projected := make(Record, len(present))
		for _, f := range present {
			if v, ok := rec[f]; ok {
				projected[f] = v
			}
		}
		out[i] = projected
	}
	return out, present
}
