package mongostore

import (
	"go.mongodb.org/mongo-driver/v2/bson"

	"github.com/Maheshwaran-fullstackdeveloper/Natours-Full-Stack-App/internal/query"
)

var operators = map[query.Op]string{
	query.OpNe:  "$ne",
	query.OpGt:  "$gt",
	query.OpGte: "$gte",
	query.OpLt:  "$lt",
	query.OpLte: "$lte",
	query.OpIn:  "$in",
}

// Filter builds a bson filter; several predicates are joined with $and so
// repeated fields keep every condition.
func Filter(preds []query.Predicate) bson.D {
	switch len(preds) {
	case 0:
		return bson.D{}
	case 1:
		return clause(preds[0])
	}
	all := make(bson.A, 0, len(preds))
	for _, p := range preds {
		all = append(all, clause(p))
	}
	return bson.D{{Key: "$and", Value: all}}
}

func clause(p query.Predicate) bson.D {
	if p.Op == query.OpEq {
		return bson.D{{Key: p.Field, Value: p.Value}}
	}
	value := p.Value
	if p.Op == query.OpIn {
		values, _ := p.Value.([]any)
		value = bson.A(values)
	}
	return bson.D{{Key: p.Field, Value: bson.D{{Key: operators[p.Op], Value: value}}}}
}

// Sort converts sort keys to a bson sort document.
func Sort(keys []query.SortKey) bson.D {
	out := make(bson.D, 0, len(keys))
	for _, k := range keys {
		dir := 1
		if k.Desc {
			dir = -1
		}
		out = append(out, bson.E{Key: k.Field, Value: dir})
	}
	return out
}

// Projection converts a projection to a bson projection document.
func Projection(p query.Projection) bson.D {
	flag := 1
	if p.Exclude {
		flag = 0
	}
	out := make(bson.D, 0, len(p.Fields))
	for _, f := range p.Fields {
		out = append(out, bson.E{Key: f, Value: flag})
	}
	return out
}
