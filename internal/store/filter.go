package store

import (
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// Op is a filter predicate operator.
type Op string

const (
	OpEq       Op = "eq"
	OpNe       Op = "ne"
	OpGt       Op = "gt"
	OpGte      Op = "gte"
	OpLt       Op = "lt"
	OpLte      Op = "lte"
	OpIn       Op = "in"
	OpContains Op = "contains"
)

// IsValidOp checks if an operator is supported.
func IsValidOp(op Op) bool {
	switch op {
	case OpEq, OpNe, OpGt, OpGte, OpLt, OpLte, OpIn, OpContains:
		return true
	}
	return false
}

// Predicate is a single field/operator/value condition.
type Predicate struct {
	Field string
	Op    Op
	Value interface{}
}

// Sort names a sort field and direction.
type Sort struct {
	Field string
	Desc  bool
}

// Filter is a caller-supplied filter specification: ordered predicates plus
// optional sort and pagination. A nil *Filter translates to an empty pipeline.
type Filter struct {
	Predicates []Predicate
	Sort       *Sort
	Limit      int64
	Offset     int64
}

// Pipeline translates the filter into an ordered sequence of aggregation
// stages: one $match per predicate (in predicate order), then the caller's
// scope stages, then $sort, $skip and $limit. Scope stages must run before
// pagination, otherwise a limit would truncate the collection before the
// scope narrows it.
func (f *Filter) Pipeline(scope ...bson.D) mongo.Pipeline {
	pipeline := mongo.Pipeline{}
	if f != nil {
		for _, p := range f.Predicates {
			pipeline = append(pipeline, Match(p.Field, p.condition()))
		}
	}

	pipeline = append(pipeline, scope...)

	if f == nil {
		return pipeline
	}

	if f.Sort != nil && f.Sort.Field != "" {
		dir := 1
		if f.Sort.Desc {
			dir = -1
		}
		pipeline = append(pipeline, bson.D{{Key: "$sort", Value: bson.D{{Key: f.Sort.Field, Value: dir}}}})
	}

	if f.Offset > 0 {
		pipeline = append(pipeline, bson.D{{Key: "$skip", Value: f.Offset}})
	}
	if f.Limit > 0 {
		pipeline = append(pipeline, bson.D{{Key: "$limit", Value: f.Limit}})
	}

	return pipeline
}

// condition maps a predicate to its store-native match condition.
func (p Predicate) condition() interface{} {
	switch p.Op {
	case OpEq:
		return p.Value
	case OpContains:
		return bson.D{{Key: "$regex", Value: fmt.Sprintf("%v", p.Value)}, {Key: "$options", Value: "i"}}
	default:
		return bson.D{{Key: "$" + string(p.Op), Value: p.Value}}
	}
}

// Match builds a single-field $match stage. Used by executors as the scope
// argument to Pipeline.
func Match(field string, condition interface{}) bson.D {
	return bson.D{{Key: "$match", Value: bson.D{{Key: field, Value: condition}}}}
}

// MatchAny builds a $match stage that passes documents satisfying any of
// the given field conditions ($or).
func MatchAny(conditions ...bson.D) bson.D {
	or := bson.A{}
	for _, c := range conditions {
		or = append(or, c)
	}
	return bson.D{{Key: "$match", Value: bson.D{{Key: "$or", Value: or}}}}
}
