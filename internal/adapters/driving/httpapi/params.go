package httpapi

import (
	"fmt"
	"net/url"
	"strconv"

	"github.com/custodia-labs/digest/internal/core/domain"
)

// query reads typed parameters and keeps the first parse failure.
type query struct {
	values url.Values
	err    error
}

func newQuery(v url.Values) *query {
	return &query{values: v}
}

func (q *query) fail(name, raw string, err error) {
	if q.err == nil {
		q.err = fmt.Errorf("%w: parameter %s=%q: %v", domain.ErrInvalidInput, name, raw, err)
	}
}

func (q *query) str(name, def string) string {
	if v := q.values.Get(name); v != "" {
		return v
	}
	return def
}

func (q *query) float(name string, def float64) float64 {
	raw := q.values.Get(name)
	if raw == "" {
		return def
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		q.fail(name, raw, err)
		return def
	}
	return v
}

func (q *query) int(name string, def int) int {
	raw := q.values.Get(name)
	if raw == "" {
		return def
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		q.fail(name, raw, err)
		return def
	}
	return v
}

func (q *query) bool(name string, def bool) bool {
	raw := q.values.Get(name)
	if raw == "" {
		return def
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		q.fail(name, raw, err)
		return def
	}
	return v
}
