package rsc

import (
	"encoding/json"
	"fmt"
	"math"
	"time"

	"github.com/joshuastenhouse/rscreporting-go/internal/core/domain"
)

// FieldKind selects the conversion applied to a source value.
type FieldKind int

const (
	// KindString passes strings through unchanged.
	KindString FieldKind = iota

	// KindNumber passes JSON numbers through as float64.
	KindNumber

	// KindBool passes booleans through unchanged.
	KindBool

	// KindTime normalizes ISO-8601 strings and UNIX epoch-millisecond
	// numbers to a UTC instant.
	KindTime

	// KindBytesGB converts a byte count to decimal gigabytes (1e9 bytes
	// per GB) rounded to 2 decimal places.
	KindBytesGB

	// KindAgeHours converts a timestamp to hours elapsed at flatten time.
	KindAgeHours

	// KindAgeDays converts a timestamp to days elapsed at flatten time.
	KindAgeDays
)

// Field maps one column to a path through the raw JSON node. Inline
// fragment fields arrive merged into the node object, so fragment branches
// need no special handling here.
type Field struct {
	// Column is the output column name.
	Column string

	// Path walks nested objects to the leaf value.
	Path []string

	// Kind selects the conversion.
	Kind FieldKind
}

// FanOut emits one record per element of a repeated sub-structure (tag
// lists and similar), cross-product with the parent fields. An empty list
// yields no records for that node.
type FanOut struct {
	// Path locates the array within the node.
	Path []string

	// Fields are resolved against each array element.
	Fields []Field
}

// Mapping is the declarative field table for one resource kind. Whether a
// type fans out over a repeated sub-structure is an explicit property of
// its mapping, not an accident of the calling function.
type Mapping struct {
	// Type names the resource kind and the sink table.
	Type string

	// Connection is the GraphQL connection field under "data".
	Connection string

	// Operation builds the paginated operation for this type.
	Name  string
	Query string

	// Keys are the natural-key columns used for upserts. RSCInstance is
	// always part of the key.
	Keys []string

	// Fields are resolved against the node.
	Fields []Field

	// FanOut, when set, multiplies records per repeated element.
	FanOut *FanOut
}

// instanceColumn tags every record with the RSC instance it came from.
const instanceColumn = "RSCInstance"

// Columns returns the ordered output column list.
func (m *Mapping) Columns() []string {
	cols := make([]string, 0, len(m.Fields)+4)
	cols = append(cols, instanceColumn)
	for _, f := range m.Fields {
		cols = append(cols, f.Column)
	}
	if m.FanOut != nil {
		for _, f := range m.FanOut.Fields {
			cols = append(cols, f.Column)
		}
	}
	return cols
}

// Flatten converts one raw node into flat records per the mapping. Null and
// absent leaves become nil values, never errors.
func Flatten(node json.RawMessage, m Mapping, instance string, now time.Time) ([]domain.Record, error) {
	var obj map[string]any
	if err := json.Unmarshal(node, &obj); err != nil {
		return nil, fmt.Errorf("flatten %s: %w", m.Type, err)
	}

	base := make(map[string]any, len(m.Fields)+1)
	base[instanceColumn] = instance
	for _, f := range m.Fields {
		base[f.Column] = convert(lookup(obj, f.Path), f.Kind, now)
	}

	columns := m.Columns()
	keys := append([]string{instanceColumn}, m.Keys...)

	if m.FanOut == nil {
		return []domain.Record{{
			Type:    m.Type,
			Columns: columns,
			Values:  base,
			Keys:    keys,
		}}, nil
	}

	elements, _ := lookup(obj, m.FanOut.Path).([]any)
	records := make([]domain.Record, 0, len(elements))
	for _, el := range elements {
		elObj, ok := el.(map[string]any)
		if !ok {
			continue
		}
		values := make(map[string]any, len(base)+len(m.FanOut.Fields))
		for k, v := range base {
			values[k] = v
		}
		for _, f := range m.FanOut.Fields {
			values[f.Column] = convert(lookup(elObj, f.Path), f.Kind, now)
		}
		records = append(records, domain.Record{
			Type:    m.Type,
			Columns: columns,
			Values:  values,
			Keys:    keys,
		})
	}
	return records, nil
}

// FlattenAll flattens a node list, concatenating per-node records in order.
func FlattenAll(nodes []json.RawMessage, m Mapping, instance string, now time.Time) ([]domain.Record, error) {
	records := make([]domain.Record, 0, len(nodes))
	for _, node := range nodes {
		recs, err := Flatten(node, m, instance, now)
		if err != nil {
			return records, err
		}
		records = append(records, recs...)
	}
	return records, nil
}

// lookup walks a path through nested objects, nil-safe at every level.
func lookup(obj map[string]any, path []string) any {
	var current any = obj
	for _, key := range path {
		m, ok := current.(map[string]any)
		if !ok {
			return nil
		}
		current, ok = m[key]
		if !ok {
			return nil
		}
	}
	return current
}

// convert applies the field kind conversion. Nil in, nil out.
func convert(v any, kind FieldKind, now time.Time) any {
	if v == nil {
		return nil
	}
	switch kind {
	case KindString:
		s, ok := v.(string)
		if !ok {
			return nil
		}
		return s
	case KindNumber:
		f, ok := v.(float64)
		if !ok {
			return nil
		}
		return f
	case KindBool:
		b, ok := v.(bool)
		if !ok {
			return nil
		}
		return b
	case KindTime:
		return ToTime(v)
	case KindBytesGB:
		return BytesToGB(v)
	case KindAgeHours:
		t := ToTime(v)
		if t == nil {
			return nil
		}
		return round2(now.Sub(*t).Hours())
	case KindAgeDays:
		t := ToTime(v)
		if t == nil {
			return nil
		}
		return round2(now.Sub(*t).Hours() / 24)
	default:
		return nil
	}
}

// ToTime normalizes a timestamp leaf to a UTC instant. Accepts ISO-8601
// strings (with or without fractional seconds) and UNIX epoch-millisecond
// numbers. Null, absent or unparseable input yields nil, never an error.
func ToTime(v any) *time.Time {
	switch val := v.(type) {
	case nil:
		return nil
	case float64:
		t := time.UnixMilli(int64(val)).UTC()
		return &t
	case string:
		if val == "" {
			return nil
		}
		if t, err := time.Parse(time.RFC3339Nano, val); err == nil {
			t = t.UTC()
			return &t
		}
		return nil
	case time.Time:
		t := val.UTC()
		return &t
	default:
		return nil
	}
}

// BytesToGB converts a byte count to decimal gigabytes rounded to 2
// decimal places. Null input yields nil.
func BytesToGB(v any) any {
	f, ok := v.(float64)
	if !ok {
		return nil
	}
	return round2(f / 1e9)
}

func round2(f float64) float64 {
	return math.Round(f*100) / 100
}
