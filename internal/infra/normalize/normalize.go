// Package normalize turns the loosely shaped SIG Integração payloads into the
// portal's domain types. Upstream field names vary between endpoints and ERP
// versions, so every field is resolved through an ordered list of candidate
// keys where the first non-empty value wins.
package normalize

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// envelopeKeys are the wrapper fields that may hold a list of records.
var envelopeKeys = []string{"itens", "items", "data", "result"}

// Items extracts the record list from a payload: a bare array, or the first
// array found under itens, items, data or result. Anything else is empty.
func Items(raw any) []map[string]any {
	switch v := raw.(type) {
	case []any:
		return objects(v)
	case map[string]any:
		for _, k := range envelopeKeys {
			if arr, ok := v[k].([]any); ok {
				return objects(arr)
			}
		}
	}
	return []map[string]any{}
}

// Object extracts a single record: an object as-is (unwrapping a "dados"
// object or a list envelope), or the first element of a list.
func Object(raw any) map[string]any {
	switch v := raw.(type) {
	case map[string]any:
		if inner, ok := v["dados"].(map[string]any); ok {
			return inner
		}
		for _, k := range envelopeKeys {
			if arr, ok := v[k].([]any); ok {
				if items := objects(arr); len(items) > 0 {
					return items[0]
				}
				return nil
			}
		}
		return v
	case []any:
		if items := objects(v); len(items) > 0 {
			return items[0]
		}
	}
	return nil
}

func objects(arr []any) []map[string]any {
	out := make([]map[string]any, 0, len(arr))
	for _, e := range arr {
		if m, ok := e.(map[string]any); ok {
			out = append(out, m)
		}
	}
	return out
}

// HasMore decides whether another page should be requested. The envelope's
// quantidadeRestante wins when numeric; otherwise a truthy total is compared
// with the pages read so far; otherwise a full page suggests more data.
func HasMore(envelope any, pageItems, pageSize, page int) bool {
	if m, ok := envelope.(map[string]any); ok {
		if remaining, ok := number(m["quantidadeRestante"]); ok {
			return remaining > 0
		}
		if total, ok := number(m["total"]); ok && total != 0 && pageSize > 0 && page > 0 {
			return float64(page*pageSize) < total
		}
	}
	return pageItems == pageSize
}

// number reports v as a float when it is a JSON number.
func number(v any) (float64, bool) {
	switch n := v.(type) {
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	case float64:
		return n, true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	}
	return 0, false
}

// Lookup resolves a dotted path ("dadosCadastrais.areaLote") in rec.
func Lookup(rec map[string]any, path string) any {
	var cur any = rec
	for _, part := range strings.Split(path, ".") {
		obj, ok := cur.(map[string]any)
		if !ok {
			return nil
		}
		cur = obj[part]
	}
	return cur
}

// IsEmpty mirrors the upstream's notion of an absent value:
// nil, "", numeric zero and false.
func IsEmpty(v any) bool {
	switch x := v.(type) {
	case nil:
		return true
	case string:
		return x == ""
	case bool:
		return !x
	case json.Number, float64, int, int64:
		f, _ := number(x)
		return f == 0 || math.IsNaN(f)
	}
	return false
}

// First returns the first non-empty value among keys.
func First(rec map[string]any, keys ...string) any {
	for _, k := range keys {
		if v := Lookup(rec, k); !IsEmpty(v) {
			return v
		}
	}
	return nil
}

// String returns the first key whose value renders as a non-empty string.
// Objects and arrays never render, so a nested proprietario object falls
// through to the next candidate.
func String(rec map[string]any, keys ...string) string {
	for _, k := range keys {
		if s := asString(Lookup(rec, k)); s != "" {
			return s
		}
	}
	return ""
}

func asString(v any) string {
	switch x := v.(type) {
	case string:
		return strings.TrimSpace(x)
	case json.Number:
		if IsEmpty(x) {
			return ""
		}
		return x.String()
	case float64:
		if x == 0 {
			return ""
		}
		return strconv.FormatFloat(x, 'f', -1, 64)
	case int:
		if x == 0 {
			return ""
		}
		return strconv.Itoa(x)
	case bool:
		if x {
			return "true"
		}
	}
	return ""
}

// Decimal coerces the first non-empty value among keys. It never fails:
// unparsable values are zero.
func Decimal(rec map[string]any, keys ...string) decimal.Decimal {
	return ToDecimal(First(rec, keys...))
}

// Int coerces the first non-empty value among keys to an int.
func Int(rec map[string]any, keys ...string) int {
	return int(Decimal(rec, keys...).IntPart())
}

// ToDecimal converts JSON numbers, floats, ints and numeric strings (either
// "1234.56" or the Brazilian "1.234,56") into a decimal. Anything else is zero.
func ToDecimal(v any) decimal.Decimal {
	switch x := v.(type) {
	case json.Number:
		if d, err := decimal.NewFromString(x.String()); err == nil {
			return d
		}
	case float64:
		if !math.IsNaN(x) && !math.IsInf(x, 0) {
			return decimal.NewFromFloat(x)
		}
	case int:
		return decimal.NewFromInt(int64(x))
	case int64:
		return decimal.NewFromInt(x)
	case string:
		s := strings.TrimSpace(x)
		s = strings.TrimPrefix(s, "R$")
		s = strings.TrimSpace(s)
		if strings.Contains(s, ",") {
			s = strings.ReplaceAll(s, ".", "")
			s = strings.ReplaceAll(s, ",", ".")
		}
		if d, err := decimal.NewFromString(s); err == nil {
			return d
		}
	}
	return decimal.Zero
}
