// Package query builds parameterized SQL filters from request query
// parameters. It encapsulates the list/search pattern shared by all domain
// repositories.
package query

import (
	"fmt"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
)

// Prefix is a comparison prefix for ordered filter values.
type Prefix string

const (
	PrefixEq Prefix = "eq"
	PrefixNe Prefix = "ne"
	PrefixGt Prefix = "gt"
	PrefixLt Prefix = "lt"
	PrefixGe Prefix = "ge"
	PrefixLe Prefix = "le"
)

// ParamType defines how a filter parameter maps to SQL.
type ParamType int

const (
	ParamExact  ParamType = iota // exact match: statuses, codes, UUID columns
	ParamDate                    // date with prefix support (gt, lt, ge, le, ne)
	ParamString                  // case-insensitive substring match
	ParamNumber                  // numeric with prefix support
)

// ParamConfig maps a filter parameter to its database column.
type ParamConfig struct {
	Type   ParamType
	Column string
}

// ParsedValue holds a filter value with its comparison prefix.
type ParsedValue struct {
	Prefix Prefix
	Value  string
}

// ParseValue extracts the comparison prefix from a filter value.
// Examples: "ge2026-01-01" -> (ge, "2026-01-01"), "100" -> (eq, "100").
func ParseValue(raw string) ParsedValue {
	if len(raw) >= 2 {
		prefix := Prefix(strings.ToLower(raw[:2]))
		switch prefix {
		case PrefixEq, PrefixNe, PrefixGt, PrefixLt, PrefixGe, PrefixLe:
			return ParsedValue{Prefix: prefix, Value: raw[2:]}
		}
	}
	return ParsedValue{Prefix: PrefixEq, Value: raw}
}

func comparator(p Prefix) string {
	switch p {
	case PrefixGt:
		return ">"
	case PrefixLt:
		return "<"
	case PrefixGe:
		return ">="
	case PrefixLe:
		return "<="
	case PrefixNe:
		return "!="
	default:
		return "="
	}
}

// parseFlexDate parses a date string in the formats callers commonly send.
func parseFlexDate(s string) (time.Time, error) {
	formats := []string{
		time.RFC3339,
		"2006-01-02T15:04:05",
		"2006-01-02",
		"2006-01",
		"2006",
	}
	for _, f := range formats {
		if t, err := time.Parse(f, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unable to parse date: %s", s)
}

// Builder assembles SQL WHERE clauses from filter parameters.
type Builder struct {
	table   string
	cols    string
	where   string
	args    []interface{}
	idx     int
	orderBy string
}

// NewBuilder creates a Builder for the given table and column list.
func NewBuilder(table, cols string) *Builder {
	return &Builder{
		table: table,
		cols:  cols,
		idx:   1,
	}
}

// Add appends a raw WHERE clause fragment (without leading "AND").
func (b *Builder) Add(clause string, args ...interface{}) {
	b.where += " AND " + clause
	b.args = append(b.args, args...)
	b.idx += len(args)
}

// AddExact adds an exact-match clause.
func (b *Builder) AddExact(column, value string) {
	b.where += fmt.Sprintf(" AND %s = $%d", column, b.idx)
	b.args = append(b.args, value)
	b.idx++
}

// AddDate adds a date clause with prefix support. A date-only equality value
// matches the entire day.
func (b *Builder) AddDate(column, value string) {
	parsed := ParseValue(value)
	t, err := parseFlexDate(parsed.Value)
	if err != nil {
		b.where += fmt.Sprintf(" AND %s::text = $%d", column, b.idx)
		b.args = append(b.args, parsed.Value)
		b.idx++
		return
	}
	if parsed.Prefix == PrefixEq && len(parsed.Value) == 10 {
		endOfDay := t.Add(24*time.Hour - time.Nanosecond)
		b.where += fmt.Sprintf(" AND (%s >= $%d AND %s <= $%d)", column, b.idx, column, b.idx+1)
		b.args = append(b.args, t, endOfDay)
		b.idx += 2
		return
	}
	b.where += fmt.Sprintf(" AND %s %s $%d", column, comparator(parsed.Prefix), b.idx)
	b.args = append(b.args, t)
	b.idx++
}

// AddString adds a case-insensitive substring clause.
func (b *Builder) AddString(column, value string) {
	b.where += fmt.Sprintf(" AND %s ILIKE $%d", column, b.idx)
	b.args = append(b.args, "%"+value+"%")
	b.idx++
}

// AddNumber adds a numeric clause with prefix support.
func (b *Builder) AddNumber(column, value string) {
	parsed := ParseValue(value)
	b.where += fmt.Sprintf(" AND %s %s $%d", column, comparator(parsed.Prefix), b.idx)
	b.args = append(b.args, parsed.Value)
	b.idx++
}

// ApplyParam applies a single filter parameter using the config.
func (b *Builder) ApplyParam(config ParamConfig, value string) {
	switch config.Type {
	case ParamDate:
		b.AddDate(config.Column, value)
	case ParamString:
		b.AddString(config.Column, value)
	case ParamNumber:
		b.AddNumber(config.Column, value)
	default:
		b.AddExact(config.Column, value)
	}
}

// ApplyParams applies all matching filter parameters from the given map.
// Parameters without a config entry are ignored.
func (b *Builder) ApplyParams(params map[string]string, configs map[string]ParamConfig) {
	for name, value := range params {
		if config, ok := configs[name]; ok {
			b.ApplyParam(config, value)
		}
	}
}

// OrderBy sets the ORDER BY clause (without the "ORDER BY" keyword).
func (b *Builder) OrderBy(orderBy string) {
	b.orderBy = orderBy
}

// ApplySort processes a sort parameter and sets ORDER BY using config column
// mappings. The value is a comma-separated list of param names, optionally
// prefixed with - for DESC. Falls back to defaultOrder when empty.
func (b *Builder) ApplySort(sortParam, defaultOrder string, configs map[string]ParamConfig) {
	if sortParam == "" {
		b.orderBy = defaultOrder
		return
	}
	var parts []string
	for _, field := range strings.Split(sortParam, ",") {
		field = strings.TrimSpace(field)
		desc := false
		if strings.HasPrefix(field, "-") {
			desc = true
			field = field[1:]
		}
		if config, ok := configs[field]; ok {
			if desc {
				parts = append(parts, config.Column+" DESC")
			} else {
				parts = append(parts, config.Column+" ASC")
			}
		}
	}
	if len(parts) > 0 {
		b.orderBy = strings.Join(parts, ", ")
	} else {
		b.orderBy = defaultOrder
	}
}

// CountSQL returns the count query SQL.
func (b *Builder) CountSQL() string {
	return fmt.Sprintf("SELECT COUNT(*) FROM %s WHERE 1=1%s", b.table, b.where)
}

// CountArgs returns the arguments for the count query.
func (b *Builder) CountArgs() []interface{} {
	return b.args
}

// DataSQL returns the data query SQL with ORDER BY and LIMIT/OFFSET.
func (b *Builder) DataSQL(limit, offset int) string {
	sql := fmt.Sprintf("SELECT %s FROM %s WHERE 1=1%s", b.cols, b.table, b.where)
	if b.orderBy != "" {
		sql += " ORDER BY " + b.orderBy
	}
	sql += fmt.Sprintf(" LIMIT $%d OFFSET $%d", b.idx, b.idx+1)
	return sql
}

// DataArgs returns the arguments for the data query (filter args + limit + offset).
func (b *Builder) DataArgs(limit, offset int) []interface{} {
	result := make([]interface{}, len(b.args)+2)
	copy(result, b.args)
	result[len(b.args)] = limit
	result[len(b.args)+1] = offset
	return result
}

// reserved query parameters that never map to filter columns.
var controlParams = map[string]bool{
	"limit": true, "offset": true, "sort": true, "clinic_id": true,
}

// FromRequest extracts filter parameters from the query string, excluding
// pagination and sort controls. Repos ignore params not in their configs.
func FromRequest(c echo.Context) map[string]string {
	params := map[string]string{}
	for k, v := range c.QueryParams() {
		if len(v) == 0 || controlParams[k] {
			continue
		}
		params[k] = v[0]
	}
	return params
}
