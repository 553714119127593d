package memstore

import (
	"cmp"
	"strings"
	"time"

	"github.com/Maheshwaran-fullstackdeveloper/Natours-Full-Stack-App/internal/query"
)

func matchAll(doc map[string]any, preds []query.Predicate) bool {
	for _, p := range preds {
		if !match(doc, p) {
			return false
		}
	}
	return true
}

// match follows document-database semantics: a predicate on an array field
// matches when any element matches, $ne matches missing fields, and values of
// different types never compare.
func match(doc map[string]any, p query.Predicate) bool {
	v, ok := lookup(doc, p.Field)

	switch p.Op {
	case query.OpNe:
		return !ok || !matchElem(v, func(e any) bool { return equal(e, p.Value) })
	case query.OpIn:
		if !ok {
			return false
		}
		values, _ := p.Value.([]any)
		for _, want := range values {
			if matchElem(v, func(e any) bool { return equal(e, want) }) {
				return true
			}
		}
		return false
	}

	if !ok {
		return false
	}
	return matchElem(v, func(e any) bool {
		if p.Op == query.OpEq {
			return equal(e, p.Value)
		}
		c, comparable := compare(e, p.Value)
		if !comparable {
			return false
		}
		switch p.Op {
		case query.OpGt:
			return c > 0
		case query.OpGte:
			return c >= 0
		case query.OpLt:
			return c < 0
		case query.OpLte:
			return c <= 0
		}
		return false
	})
}

func matchElem(v any, fn func(any) bool) bool {
	if arr, ok := v.([]any); ok {
		for _, e := range arr {
			if fn(e) {
				return true
			}
		}
		return false
	}
	return fn(v)
}

func equal(docVal, want any) bool {
	c, ok := compare(docVal, want)
	return ok && c == 0
}

// compare orders a stored JSON value against a predicate value. Times are
// stored as RFC 3339 strings.
func compare(docVal, want any) (int, bool) {
	switch w := want.(type) {
	case float64:
		d, ok := docVal.(float64)
		return cmp.Compare(d, w), ok
	case int:
		d, ok := docVal.(float64)
		return cmp.Compare(d, float64(w)), ok
	case string:
		d, ok := docVal.(string)
		return strings.Compare(d, w), ok
	case bool:
		d, ok := docVal.(bool)
		if !ok {
			return 0, false
		}
		return boolInt(d) - boolInt(w), true
	case time.Time:
		d, ok := asTime(docVal)
		return d.Compare(w), ok
	case nil:
		return 0, docVal == nil
	}
	return 0, false
}

func asTime(v any) (time.Time, bool) {
	s, ok := v.(string)
	if !ok {
		return time.Time{}, false
	}
	t, err := time.Parse(time.RFC3339Nano, s)
	return t, err == nil
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

// less orders two documents by sort keys. Missing values sort first in
// ascending order.
func less(a, b map[string]any, keys []query.SortKey) bool {
	for _, k := range keys {
		av, aok := lookup(a, k.Field)
		bv, bok := lookup(b, k.Field)
		c := compareSort(av, aok, bv, bok)
		if c == 0 {
			continue
		}
		if k.Desc {
			return c > 0
		}
		return c < 0
	}
	return false
}

func compareSort(a any, aok bool, b any, bok bool) int {
	switch {
	case !aok && !bok:
		return 0
	case !aok:
		return -1
	case !bok:
		return 1
	}
	if at, ok := asTime(a); ok {
		if bt, ok := asTime(b); ok {
			return at.Compare(bt)
		}
	}
	if c, ok := compare(a, b); ok {
		return c
	}
	return cmp.Compare(typeRank(a), typeRank(b))
}

// typeRank orders values of different types: null, numbers, strings,
// objects, arrays, booleans.
func typeRank(v any) int {
	switch v.(type) {
	case nil:
		return 0
	case float64:
		return 1
	case string:
		return 2
	case map[string]any:
		return 3
	case []any:
		return 4
	case bool:
		return 5
	}
	return 6
}

// lookup resolves a dotted path.
func lookup(doc map[string]any, path string) (any, bool) {
	var cur any = doc
	for _, part := range strings.Split(path, ".") {
		m, ok := cur.(map[string]any)
		if !ok {
			return nil, false
		}
		if cur, ok = m[part]; !ok {
			return nil, false
		}
	}
	return cur, true
}
