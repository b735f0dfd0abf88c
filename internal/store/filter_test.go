package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
)

func TestFilterPipeline(t *testing.T) {
	tests := []struct {
		name     string
		filter   *Filter
		expected []bson.D
	}{
		{
			name:     "nil filter yields empty pipeline",
			filter:   nil,
			expected: []bson.D{},
		},
		{
			name:     "empty filter yields empty pipeline",
			filter:   &Filter{},
			expected: []bson.D{},
		},
		{
			name: "eq predicate",
			filter: &Filter{
				Predicates: []Predicate{{Field: "category", Op: OpEq, Value: "art"}},
			},
			expected: []bson.D{
				{{Key: "$match", Value: bson.D{{Key: "category", Value: "art"}}}},
			},
		},
		{
			name: "range predicates keep order",
			filter: &Filter{
				Predicates: []Predicate{
					{Field: "price", Op: OpGte, Value: 1.0},
					{Field: "price", Op: OpLt, Value: 5.0},
				},
			},
			expected: []bson.D{
				{{Key: "$match", Value: bson.D{{Key: "price", Value: bson.D{{Key: "$gte", Value: 1.0}}}}}},
				{{Key: "$match", Value: bson.D{{Key: "price", Value: bson.D{{Key: "$lt", Value: 5.0}}}}}},
			},
		},
		{
			name: "contains predicate is a case-insensitive regex",
			filter: &Filter{
				Predicates: []Predicate{{Field: "name", Op: OpContains, Value: "punk"}},
			},
			expected: []bson.D{
				{{Key: "$match", Value: bson.D{{Key: "name", Value: bson.D{
					{Key: "$regex", Value: "punk"},
					{Key: "$options", Value: "i"},
				}}}}},
			},
		},
		{
			name: "sort descending with pagination",
			filter: &Filter{
				Sort:   &Sort{Field: "price", Desc: true},
				Limit:  20,
				Offset: 40,
			},
			expected: []bson.D{
				{{Key: "$sort", Value: bson.D{{Key: "price", Value: -1}}}},
				{{Key: "$skip", Value: int64(40)}},
				{{Key: "$limit", Value: int64(20)}},
			},
		},
		{
			name: "predicates precede sort and pagination",
			filter: &Filter{
				Predicates: []Predicate{{Field: "blockchain", Op: OpEq, Value: "ethereum"}},
				Sort:       &Sort{Field: "createdAt"},
				Limit:      10,
			},
			expected: []bson.D{
				{{Key: "$match", Value: bson.D{{Key: "blockchain", Value: "ethereum"}}}},
				{{Key: "$sort", Value: bson.D{{Key: "createdAt", Value: 1}}}},
				{{Key: "$limit", Value: int64(10)}},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pipeline := tt.filter.Pipeline()
			require.Len(t, pipeline, len(tt.expected))
			for i, stage := range tt.expected {
				assert.Equal(t, stage, pipeline[i])
			}
		})
	}
}

func TestFilterPipelineScopeBeforePagination(t *testing.T) {
	filter := &Filter{
		Predicates: []Predicate{{Field: "price", Op: OpGt, Value: 0.0}},
		Sort:       &Sort{Field: "price", Desc: true},
		Limit:      20,
		Offset:     40,
	}

	pipeline := filter.Pipeline(Match("owner", "0xabc"))

	require.Len(t, pipeline, 5)
	assert.Equal(t, Match("price", bson.D{{Key: "$gt", Value: 0.0}}), pipeline[0])
	assert.Equal(t, Match("owner", "0xabc"), pipeline[1])
	assert.Equal(t, bson.D{{Key: "$sort", Value: bson.D{{Key: "price", Value: -1}}}}, pipeline[2])
	assert.Equal(t, bson.D{{Key: "$skip", Value: int64(40)}}, pipeline[3])
	assert.Equal(t, bson.D{{Key: "$limit", Value: int64(20)}}, pipeline[4])
}

func TestFilterPipelineScopeOnNilFilter(t *testing.T) {
	var filter *Filter

	pipeline := filter.Pipeline(Match("collection", "0xcat"))

	require.Len(t, pipeline, 1)
	assert.Equal(t, Match("collection", "0xcat"), pipeline[0])
}

func TestMatchAny(t *testing.T) {
	stage := MatchAny(
		bson.D{{Key: "from", Value: "0xabc"}},
		bson.D{{Key: "to", Value: "0xabc"}},
	)

	assert.Equal(t, bson.D{{Key: "$match", Value: bson.D{{Key: "$or", Value: bson.A{
		bson.D{{Key: "from", Value: "0xabc"}},
		bson.D{{Key: "to", Value: "0xabc"}},
	}}}}}, stage)
}

func TestIsValidOp(t *testing.T) {
	for _, op := range []Op{OpEq, OpNe, OpGt, OpGte, OpLt, OpLte, OpIn, OpContains} {
		assert.True(t, IsValidOp(op), string(op))
	}
	assert.False(t, IsValidOp(Op("between")))
	assert.False(t, IsValidOp(Op("")))
}
