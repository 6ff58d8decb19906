package easytrans

import (
	"fmt"
	"maps"
	"net/url"
	"slices"
	"strconv"
)

// Filter selects records on a REST list endpoint. A value is either a plain
// scalar, rendered as filter[field]=value, or an operator map such as
// Filter{"date": Filter{"gte": "2024-01-01"}}, rendered as
// filter[date][gte]=2024-01-01.
type Filter map[string]any

// buildQuery renders filter, sort, page and include flags into URL query
// parameters. Fields and operators are emitted in sorted order so a given
// input always produces the same query string. Include flags are rendered
// as the literal string "true" and only when enabled.
func buildQuery(filter Filter, sort string, page int, includes map[string]bool) url.Values {
	q := url.Values{}

	for _, field := range slices.Sorted(maps.Keys(filter)) {
		switch value := filter[field].(type) {
		case Filter:
			setFilterOps(q, field, value)
		case map[string]any:
			setFilterOps(q, field, value)
		default:
			q.Set(fmt.Sprintf("filter[%s]", field), fmt.Sprint(value))
		}
	}

	if sort != "" {
		q.Set("sort", sort)
	}
	if page > 0 {
		q.Set("page", strconv.Itoa(page))
	}

	for _, name := range slices.Sorted(maps.Keys(includes)) {
		if includes[name] {
			q.Set(name, "true")
		}
	}
	return q
}

func setFilterOps(q url.Values, field string, ops map[string]any) {
	for _, op := range slices.Sorted(maps.Keys(ops)) {
		q.Set(fmt.Sprintf("filter[%s][%s]", field, op), fmt.Sprint(ops[op]))
	}
}
