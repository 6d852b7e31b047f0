package metadata

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/viant/digestius/proposal"
)

// RequiresField lists identifiers of proposals a document depends on.
const RequiresField = "requires"

// Metadata is an ordered mapping of header fields.
type Metadata struct {
	keys   []string
	values map[string]any
}

// New creates an empty Metadata.
func New() *Metadata {
	return &Metadata{values: map[string]any{}}
}

// Set stores a value; an existing key keeps its position.
func (m *Metadata) Set(key string, value any) {
	if _, ok := m.values[key]; !ok {
		m.keys = append(m.keys, key)
	}
	m.values[key] = value
}

// Get returns the raw decoded value.
func (m *Metadata) Get(key string) (any, bool) {
	v, ok := m.values[key]
	return v, ok
}

// Has reports whether key is present, including when its value is null.
func (m *Metadata) Has(key string) bool {
	_, ok := m.values[key]
	return ok
}

// Len returns the number of fields.
func (m *Metadata) Len() int {
	return len(m.keys)
}

// Text renders a field for display, or returns fallback when it is absent.
func (m *Metadata) Text(key, fallback string) string {
	v, ok := m.values[key]
	if !ok {
		return fallback
	}
	return Format(v)
}

// Requires returns the requires field coerced to a sequence.
func (m *Metadata) Requires() []any {
	return coerceList(m.values[RequiresField])
}

// Normalize coerces the requires field into a sequence, adding an empty one when absent.
func (m *Metadata) Normalize() {
	m.Set(RequiresField, m.Requires())
}

// ResolveAlias copies the fallback identifier into the kind specific
// identifier field when only the fallback is present.
func (m *Metadata) ResolveAlias(kind proposal.Kind) {
	fallback := kind.FallbackIDField()
	if fallback == "" || m.Has(kind.IDField()) {
		return
	}
	if v, ok := m.values[fallback]; ok {
		m.Set(kind.IDField(), v)
	}
}

func coerceList(v any) []any {
	switch actual := v.(type) {
	case nil:
		return []any{}
	case []any:
		return actual
	default:
		return []any{actual}
	}
}

// Mapping is a nested header mapping kept in document order.
type Mapping struct {
	Keys   []any
	Values []any
}

// Format renders a decoded header value the way digests print it, following
// Python str() so digests stay byte compatible with existing artifacts.
func Format(v any) string {
	switch actual := v.(type) {
	case nil:
		return "None"
	case string:
		return actual
	case bool:
		if actual {
			return "True"
		}
		return "False"
	case int:
		return strconv.Itoa(actual)
	case int64:
		return strconv.FormatInt(actual, 10)
	case uint64:
		return strconv.FormatUint(actual, 10)
	case float64:
		return formatFloat(actual)
	case time.Time:
		if isDate(actual) {
			return actual.Format("2006-01-02")
		}
		return actual.Format("2006-01-02 15:04:05")
	case []any:
		items := make([]string, 0, len(actual))
		for _, item := range actual {
			items = append(items, repr(item))
		}
		return "[" + strings.Join(items, ", ") + "]"
	case *Mapping:
		items := make([]string, 0, len(actual.Keys))
		for i, key := range actual.Keys {
			items = append(items, repr(key)+": "+repr(actual.Values[i]))
		}
		return "{" + strings.Join(items, ", ") + "}"
	case map[string]any:
		keys := make([]string, 0, len(actual))
		for key := range actual {
			keys = append(keys, key)
		}
		sort.Strings(keys)
		mapping := &Mapping{}
		for _, key := range keys {
			mapping.Keys = append(mapping.Keys, key)
			mapping.Values = append(mapping.Values, actual[key])
		}
		return Format(mapping)
	}
	return fmt.Sprint(v)
}

// repr renders a value nested in a sequence or mapping.
func repr(v any) string {
	switch actual := v.(type) {
	case string:
		return quote(actual)
	case time.Time:
		if isDate(actual) {
			return fmt.Sprintf("datetime.date(%d, %d, %d)", actual.Year(), actual.Month(), actual.Day())
		}
		ret := fmt.Sprintf("datetime.datetime(%d, %d, %d, %d, %d", actual.Year(), actual.Month(), actual.Day(), actual.Hour(), actual.Minute())
		micro := actual.Nanosecond() / 1000
		if actual.Second() != 0 || micro != 0 {
			ret += fmt.Sprintf(", %d", actual.Second())
		}
		if micro != 0 {
			ret += fmt.Sprintf(", %d", micro)
		}
		return ret + ")"
	}
	return Format(v)
}

// quote prefers single quotes, switching to double quotes when only single quotes occur.
func quote(s string) string {
	q := byte('\'')
	if strings.ContainsRune(s, '\'') && !strings.ContainsRune(s, '"') {
		q = '"'
	}
	var b strings.Builder
	b.WriteByte(q)
	for _, r := range s {
		switch {
		case r == '\\':
			b.WriteString(`\\`)
		case r == '\n':
			b.WriteString(`\n`)
		case r == '\r':
			b.WriteString(`\r`)
		case r == '\t':
			b.WriteString(`\t`)
		case r == rune(q):
			b.WriteByte('\\')
			b.WriteRune(r)
		case r < 0x20 || r == 0x7f:
			fmt.Fprintf(&b, `\x%02x`, r)
		default:
			b.WriteRune(r)
		}
	}
	b.WriteByte(q)
	return b.String()
}

// formatFloat uses positional notation for decimal exponents in [-4, 16), scientific otherwise.
func formatFloat(f float64) string {
	switch {
	case math.IsNaN(f):
		return "nan"
	case math.IsInf(f, 1):
		return "inf"
	case math.IsInf(f, -1):
		return "-inf"
	}
	scientific := strconv.FormatFloat(f, 'e', -1, 64)
	exp, _ := strconv.Atoi(scientific[strings.IndexByte(scientific, 'e')+1:])
	if exp < -4 || exp >= 16 {
		return scientific
	}
	s := strconv.FormatFloat(f, 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}

func isDate(t time.Time) bool {
	return t.Hour() == 0 && t.Minute() == 0 && t.Second() == 0 && t.Nanosecond() == 0
}

// Join renders a sequence as comma separated values.
func Join(values []any) string {
	items := make([]string, 0, len(values))
	for _, v := range values {
		items = append(items, Format(v))
	}
	return strings.Join(items, ", ")
}
