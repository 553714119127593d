// Package query turns request query strings into immutable store queries.
//
// A Spec is built in stages. Filter, Sort, LimitFields and Paginate each read
// their own parameters and fill their own slot of a copy of the receiver, so
// the stages commute and a Spec value never changes once built:
//
//	spec := query.New(r.URL.Query()).Filter().Sort().LimitFields().Paginate()
//	err := query.Execute(ctx, tours, spec, &out)
package query

import (
	"math"
	"net/url"
	"slices"
	"sort"
	"strconv"
	"strings"
)

// Op is a predicate operator.
type Op int

const (
	OpEq Op = iota
	OpNe
	OpGt
	OpGte
	OpLt
	OpLte
	OpIn
)

var opNames = map[Op]string{
	OpEq:  "eq",
	OpNe:  "ne",
	OpGt:  "gt",
	OpGte: "gte",
	OpLt:  "lt",
	OpLte: "lte",
	OpIn:  "in",
}

func (o Op) String() string {
	if s, ok := opNames[o]; ok {
		return s
	}
	return "op(" + strconv.Itoa(int(o)) + ")"
}

// bracketOps are the operators a client may write as field[op]=value.
var bracketOps = map[string]Op{
	"gt":  OpGt,
	"gte": OpGte,
	"lt":  OpLt,
	"lte": OpLte,
}

// Predicate narrows a query to documents whose Field compares to Value.
// For OpIn, Value is a []any.
type Predicate struct {
	Field string
	Op    Op
	Value any
}

func Eq(field string, value any) Predicate { return Predicate{Field: field, Op: OpEq, Value: value} }
func Ne(field string, value any) Predicate { return Predicate{Field: field, Op: OpNe, Value: value} }

func In(field string, values ...any) Predicate {
	return Predicate{Field: field, Op: OpIn, Value: values}
}

// SortKey orders results by one field.
type SortKey struct {
	Field string
	Desc  bool
}

// Pagination is the 1-based page window. Explicit is set when the client
// supplied a page number.
type Pagination struct {
	Page     int
	Limit    int
	Explicit bool
}

// Skip returns the number of records before the page. A window too far out
// to count saturates at math.MaxInt, past any collection.
func (p Pagination) Skip() int {
	if p.Page < 1 || p.Limit < 1 {
		return 0
	}
	if p.Page-1 > math.MaxInt/p.Limit {
		return math.MaxInt
	}
	return (p.Page - 1) * p.Limit
}

// Control parameters never become predicates.
var controlKeys = []string{"page", "sort", "limit", "fields"}

// DefaultWhitelist lists the fields that may repeat in a query string. A
// repeated whitelisted field matches any of its values; any other repeated
// parameter keeps its last value.
var DefaultWhitelist = []string{
	"duration",
	"ratingsQuantity",
	"ratingsAverage",
	"maxGroupSize",
	"difficulty",
	"price",
}

var defaultSort = []SortKey{{Field: "createdAt", Desc: true}, {Field: "name"}}

const (
	defaultPage  = 1
	defaultLimit = 10
)

// Spec is an immutable query specification.
type Spec struct {
	params    url.Values
	whitelist []string

	where      []Predicate
	filters    []Predicate
	sort       []SortKey
	projection Projection
	page       Pagination
	paginated  bool
}

// New starts a spec from query parameters. The parameters are copied.
func New(params url.Values) Spec {
	cp := make(url.Values, len(params))
	for k, v := range params {
		cp[k] = slices.Clone(v)
	}
	return Spec{params: cp, whitelist: DefaultWhitelist}
}

// WithWhitelist replaces the repeatable-field whitelist used by Filter.
func (s Spec) WithWhitelist(fields ...string) Spec {
	s.whitelist = slices.Clone(fields)
	return s
}

// Where adds predicates chosen by the application rather than the client,
// such as scoping reviews to one tour.
func (s Spec) Where(preds ...Predicate) Spec {
	s.where = append(slices.Clip(s.where), preds...)
	return s
}

// Filter turns every non-control parameter into a predicate. field[op]=v
// becomes a comparison, field=v an equality. Keys with an unknown bracket
// operator are kept verbatim as field names for the store to judge. Keys
// naming store operators ($...) are dropped.
func (s Spec) Filter() Spec {
	keys := make([]string, 0, len(s.params))
	for k := range s.params {
		if !slices.Contains(controlKeys, k) {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)

	filters := make([]Predicate, 0, len(keys))
	for _, k := range keys {
		values := nonEmpty(s.params[k])
		if len(values) == 0 {
			continue
		}
		field, op := parseKey(k)
		if !validField(field) {
			continue
		}
		if op == OpEq && len(values) > 1 && slices.Contains(s.whitelist, field) {
			in := make([]any, 0, len(values))
			for _, v := range values {
				in = append(in, Coerce(v))
			}
			filters = append(filters, Predicate{Field: field, Op: OpIn, Value: in})
			continue
		}
		filters = append(filters, Predicate{Field: field, Op: op, Value: Coerce(values[len(values)-1])})
	}
	s.filters = filters
	return s
}

// Sort reads the comma separated "sort" parameter; a leading "-" sorts
// descending. Without one the spec sorts newest first, then by name.
func (s Spec) Sort() Spec {
	var keys []SortKey
	for _, f := range splitList(s.last("sort")) {
		desc := false
		switch f[0] {
		case '-':
			desc, f = true, f[1:]
		case '+':
			f = f[1:]
		}
		if validField(f) {
			keys = append(keys, SortKey{Field: f, Desc: desc})
		}
	}
	if len(keys) == 0 {
		keys = slices.Clone(defaultSort)
	}
	s.sort = keys
	return s
}

// LimitFields reads the comma separated "fields" parameter. A list of only
// "-field" entries excludes those fields; otherwise the listed fields are the
// only ones returned. Without one the internal version field is hidden.
func (s Spec) LimitFields() Spec {
	var include, exclude []string
	for _, f := range splitList(s.last("fields")) {
		if name, ok := strings.CutPrefix(f, "-"); ok {
			if validField(name) {
				exclude = append(exclude, name)
			}
			continue
		}
		if validField(f) {
			include = append(include, f)
		}
	}

	switch {
	case len(include) > 0:
		s.projection = Projection{Fields: include}
	case len(exclude) > 0:
		s.projection = Projection{Fields: exclude, Exclude: true}
	default:
		s.projection = Projection{Fields: []string{"__v"}, Exclude: true}
	}
	return s
}

// Paginate reads "page" and "limit", defaulting to page 1 of 10. Values that
// are not positive integers fall back to the defaults.
func (s Spec) Paginate() Spec {
	rawPage := s.last("page")
	s.page = Pagination{
		Page:     positiveInt(rawPage, defaultPage),
		Limit:    positiveInt(s.last("limit"), defaultLimit),
		Explicit: rawPage != "",
	}
	s.paginated = true
	return s
}

// Predicates returns the application predicates followed by the client ones.
func (s Spec) Predicates() []Predicate {
	out := make([]Predicate, 0, len(s.where)+len(s.filters))
	out = append(out, s.where...)
	return append(out, s.filters...)
}

// SortKeys returns the sort order; empty means store order.
func (s Spec) SortKeys() []SortKey { return slices.Clone(s.sort) }

// Projection returns the field projection; the zero value returns every field.
func (s Spec) Projection() Projection { return s.projection.clone() }

// Pagination returns the page window and whether one was applied.
func (s Spec) Pagination() (Pagination, bool) { return s.page, s.paginated }

// Skip returns the number of records to skip, zero when not paginated.
func (s Spec) Skip() int {
	if !s.paginated {
		return 0
	}
	return s.page.Skip()
}

// Limit returns the page size, zero when not paginated.
func (s Spec) Limit() int {
	if !s.paginated {
		return 0
	}
	return s.page.Limit
}

func (s Spec) last(key string) string {
	values := nonEmpty(s.params[key])
	if len(values) == 0 {
		return ""
	}
	return values[len(values)-1]
}
