package rest

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/feral-file/marketplace-api/internal/store"
)

const MAX_PAGE_SIZE = 100

// ListQueryParams holds the generic listing parameters shared by every
// collection-valued endpoint.
//
//	filter=<field>:<op>:<value>   repeatable, applied in order
//	sort=<field> | sort=-<field>  leading dash sorts descending
//	limit, offset                 pagination
type ListQueryParams struct {
	Filter []string `form:"filter"`
	Sort   string   `form:"sort"`
	Limit  int64    `form:"limit,default=20"`
	Offset int64    `form:"offset,default=0"`
}

// ParseListQuery parses and validates the listing parameters of a request.
func ParseListQuery(c *gin.Context) (*ListQueryParams, error) {
	var params ListQueryParams
	if err := c.ShouldBindQuery(&params); err != nil {
		return nil, err
	}

	if params.Limit < 0 || params.Offset < 0 {
		return nil, fmt.Errorf("limit and offset must be non-negative")
	}
	if params.Limit > MAX_PAGE_SIZE {
		params.Limit = MAX_PAGE_SIZE
	}

	return &params, nil
}

// BuildFilter converts the raw query parameters into a store filter.
func (p *ListQueryParams) BuildFilter() (*store.Filter, error) {
	filter := &store.Filter{
		Limit:  p.Limit,
		Offset: p.Offset,
	}

	for _, raw := range p.Filter {
		predicate, err := parsePredicate(raw)
		if err != nil {
			return nil, err
		}
		filter.Predicates = append(filter.Predicates, predicate)
	}

	if p.Sort != "" {
		field, desc := strings.TrimPrefix(p.Sort, "-"), strings.HasPrefix(p.Sort, "-")
		if field == "" {
			return nil, fmt.Errorf("sort field is required")
		}
		filter.Sort = &store.Sort{Field: field, Desc: desc}
	}

	return filter, nil
}

// parsePredicate parses a single filter expression of the form
// field:op:value. The value keeps everything after the second colon so
// values may themselves contain colons.
func parsePredicate(raw string) (store.Predicate, error) {
	parts := strings.SplitN(raw, ":", 3)
	if len(parts) != 3 || parts[0] == "" {
		return store.Predicate{}, fmt.Errorf("invalid filter expression %q, expected field:op:value", raw)
	}

	op := store.Op(parts[1])
	if !store.IsValidOp(op) {
		return store.Predicate{}, fmt.Errorf("unsupported filter operator %q", parts[1])
	}

	return store.Predicate{
		Field: parts[0],
		Op:    op,
		Value: coerceValue(op, parts[2]),
	}, nil
}

// coerceValue turns the textual filter value into the type the store
// compares against: integers and floats become numbers, true/false become
// booleans, "in" values split on commas, everything else stays a string.
func coerceValue(op store.Op, raw string) interface{} {
	if op == store.OpIn {
		parts := strings.Split(raw, ",")
		values := make([]interface{}, len(parts))
		for i, part := range parts {
			values[i] = coerceScalar(part)
		}
		return values
	}
	return coerceScalar(raw)
}

func coerceScalar(raw string) interface{} {
	if n, err := strconv.ParseInt(raw, 10, 64); err == nil {
		return n
	}
	if f, err := strconv.ParseFloat(raw, 64); err == nil {
		return f
	}
	if b, err := strconv.ParseBool(raw); err == nil {
		return b
	}
	return raw
}
