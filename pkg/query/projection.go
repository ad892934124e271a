// Package query provides SQL query construction utilities with
// view-name to column-name projection mapping.
package query

import (
	"fmt"
	"strings"
)

// ProjectionMap translates view field names to aliased table columns.
type ProjectionMap struct {
	schema string
	table  string
	alias  string
	fields []string
	byName map[string]string
}

// NewProjectionMap creates a ProjectionMap for the given schema, table, and alias.
func NewProjectionMap(schema, table, alias string) *ProjectionMap {
	return &ProjectionMap{
		schema: schema,
		table:  table,
		alias:  alias,
		byName: make(map[string]string),
	}
}

// Project registers a column under a view field name. Returns the map for chaining.
func (p *ProjectionMap) Project(column, viewName string) *ProjectionMap {
	col := fmt.Sprintf("%s.%s", p.alias, column)
	p.fields = append(p.fields, col)
	p.byName[viewName] = col
	return p
}

// Table returns the schema-qualified aliased table reference.
func (p *ProjectionMap) Table() string {
	return fmt.Sprintf("%s.%s %s", p.schema, p.table, p.alias)
}

// Column returns the aliased column for a view field name.
// Unknown names are returned unchanged.
func (p *ProjectionMap) Column(viewName string) string {
	if col, ok := p.byName[viewName]; ok {
		return col
	}
	return viewName
}

// Columns returns the projected columns as a comma-separated list.
func (p *ProjectionMap) Columns() string {
	return strings.Join(p.fields, ", ")
}
