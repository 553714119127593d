package pgstore

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/Maheshwaran-fullstackdeveloper/Natours-Full-Stack-App/internal/query"
)

var comparators = map[query.Op]string{
	query.OpEq:  "=",
	query.OpGt:  ">",
	query.OpGte: ">=",
	query.OpLt:  "<",
	query.OpLte: "<=",
}

// builder accumulates positional arguments while rendering SQL fragments.
type builder struct {
	args []any
}

func (b *builder) arg(v any) string {
	b.args = append(b.args, v)
	return "$" + strconv.Itoa(len(b.args))
}

// where renders the WHERE clause for a collection and its predicates.
func (b *builder) where(collection string, preds []query.Predicate) (string, error) {
	parts := []string{"collection = " + b.arg(collection)}
	for _, p := range preds {
		cond, err := b.predicate(p)
		if err != nil {
			return "", err
		}
		parts = append(parts, cond)
	}
	return strings.Join(parts, " AND "), nil
}

// predicate renders one predicate. A field holding an array matches when any
// element matches; a missing field only matches OpNe.
func (b *builder) predicate(p query.Predicate) (string, error) {
	if p.Field == "_id" && p.Op == query.OpEq {
		if id, ok := p.Value.(string); ok {
			return "id = " + b.arg(id), nil
		}
	}

	path := b.arg(strings.Split(p.Field, "."))
	field := fmt.Sprintf("body #> %s::text[]", path)
	elems := fmt.Sprintf(
		"jsonb_array_elements(CASE WHEN jsonb_typeof(%[1]s) = 'array' THEN %[1]s ELSE jsonb_build_array(%[1]s) END) AS e(v)",
		field,
	)
	exists := func(cond string) string {
		return fmt.Sprintf("EXISTS (SELECT 1 FROM %s WHERE %s)", elems, cond)
	}

	switch p.Op {
	case query.OpNe:
		cond, err := b.compare("=", p.Value)
		if err != nil {
			return "", err
		}
		return "NOT " + exists(cond), nil
	case query.OpIn:
		values, _ := p.Value.([]any)
		if len(values) == 0 {
			return "FALSE", nil
		}
		conds := make([]string, 0, len(values))
		for _, v := range values {
			cond, err := b.compare("=", v)
			if err != nil {
				return "", err
			}
			conds = append(conds, cond)
		}
		return exists("(" + strings.Join(conds, " OR ") + ")"), nil
	}

	op, ok := comparators[p.Op]
	if !ok {
		return "", fmt.Errorf("pgstore: unsupported operator %s", p.Op)
	}
	cond, err := b.compare(op, p.Value)
	if err != nil {
		return "", err
	}
	return exists(cond), nil
}

// compare renders a condition on the element e.v. Values of a different JSON
// type never match; times compare as timestamps.
func (b *builder) compare(op string, value any) (string, error) {
	if t, ok := value.(time.Time); ok {
		return fmt.Sprintf(
			`CASE WHEN jsonb_typeof(e.v) = 'string' AND (e.v #>> '{}') ~ '^\d{4}-\d{2}-\d{2}T' THEN (e.v #>> '{}')::timestamptz %s %s::timestamptz ELSE FALSE END`,
			op, b.arg(t),
		), nil
	}

	raw, err := json.Marshal(value)
	if err != nil {
		return "", fmt.Errorf("pgstore: encode predicate value: %w", err)
	}
	v := b.arg(json.RawMessage(raw))
	if op == "=" {
		return fmt.Sprintf("e.v = %s::jsonb", v), nil
	}
	return fmt.Sprintf("(jsonb_typeof(e.v) = jsonb_typeof(%[1]s::jsonb) AND e.v %[2]s %[1]s::jsonb)", v, op), nil
}

// orderBy renders ORDER BY; missing values sort first ascending. seq keeps
// insertion order as the final tie-break.
func (b *builder) orderBy(keys []query.SortKey) string {
	parts := make([]string, 0, len(keys)+1)
	for _, k := range keys {
		dir := "ASC NULLS FIRST"
		if k.Desc {
			dir = "DESC NULLS LAST"
		}
		parts = append(parts, fmt.Sprintf("body #> %s::text[] %s", b.arg(strings.Split(k.Field, ".")), dir))
	}
	parts = append(parts, "seq ASC")
	return "ORDER BY " + strings.Join(parts, ", ")
}

// selectSQL renders the SELECT for a spec.
func (b *builder) selectSQL(collection string, spec query.Spec) (string, error) {
	where, err := b.where(collection, spec.Predicates())
	if err != nil {
		return "", err
	}
	sql := "SELECT body FROM documents WHERE " + where + " " + b.orderBy(spec.SortKeys())
	if skip := spec.Skip(); skip > 0 {
		sql += " OFFSET " + b.arg(skip)
	}
	if limit := spec.Limit(); limit > 0 {
		sql += " LIMIT " + b.arg(limit)
	}
	return sql, nil
}
