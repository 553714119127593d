package query

import (
	"encoding/json"
	"fmt"
	"slices"
	"strings"
)

// Projection selects the fields returned for each record. With Exclude the
// listed fields are removed; otherwise only they (and _id) are kept.
type Projection struct {
	Fields  []string
	Exclude bool
}

// IsZero reports whether the projection returns every field.
func (p Projection) IsZero() bool { return len(p.Fields) == 0 }

func (p Projection) clone() Projection {
	return Projection{Fields: slices.Clone(p.Fields), Exclude: p.Exclude}
}

// Apply projects a single JSON document. Dotted fields address nested
// objects. The input is not modified.
func (p Projection) Apply(doc map[string]any) map[string]any {
	if p.IsZero() {
		return doc
	}
	if p.Exclude {
		out := cloneMap(doc)
		for _, f := range p.Fields {
			deletePath(out, strings.Split(f, "."))
		}
		return out
	}

	out := make(map[string]any, len(p.Fields)+1)
	if id, ok := doc["_id"]; ok {
		out["_id"] = id
	}
	for _, f := range p.Fields {
		copyPath(out, doc, strings.Split(f, "."))
	}
	return out
}

// Render marshals v (a struct or slice of structs) to JSON and projects each
// resulting object. It returns a map for a single value and a slice of maps
// for a slice.
func (p Projection) Render(v any) (any, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("marshal for projection: %w", err)
	}

	trimmed := strings.TrimSpace(string(raw))
	if strings.HasPrefix(trimmed, "[") {
		var docs []map[string]any
		if err := json.Unmarshal(raw, &docs); err != nil {
			return nil, fmt.Errorf("unmarshal for projection: %w", err)
		}
		out := make([]map[string]any, 0, len(docs))
		for _, d := range docs {
			out = append(out, p.Apply(d))
		}
		return out, nil
	}

	var doc map[string]any
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("unmarshal for projection: %w", err)
	}
	return p.Apply(doc), nil
}

func cloneMap(m map[string]any) map[string]any {
	out := make(map[string]any, len(m))
	for k, v := range m {
		if nested, ok := v.(map[string]any); ok {
			v = cloneMap(nested)
		}
		out[k] = v
	}
	return out
}

func deletePath(m map[string]any, path []string) {
	if len(path) == 1 {
		delete(m, path[0])
		return
	}
	if nested, ok := m[path[0]].(map[string]any); ok {
		deletePath(nested, path[1:])
	}
}

func copyPath(dst, src map[string]any, path []string) {
	v, ok := src[path[0]]
	if !ok {
		return
	}
	if len(path) == 1 {
		dst[path[0]] = v
		return
	}
	nested, ok := v.(map[string]any)
	if !ok {
		return
	}
	sub, ok := dst[path[0]].(map[string]any)
	if !ok {
		sub = make(map[string]any)
		dst[path[0]] = sub
	}
	copyPath(sub, nested, path[1:])
}
