package storage

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
)

// ColumnInfo mirrors one row of SQLite's `PRAGMA table_info`.
type ColumnInfo struct {
	CID          int
	Name         string
	Type         string
	NotNull      bool
	DefaultValue sql.NullString
	PrimaryKey   int
}

// TableInfo is the reflected structure of one table.
type TableInfo struct {
	Name    string
	Columns []ColumnInfo
}

// InspectSchema reflects every table in the database: names from
// sqlite_master, column metadata from PRAGMA table_info. It never writes.
func (r *Repository) InspectSchema(ctx context.Context) ([]TableInfo, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT name FROM sqlite_master WHERE type = 'table' ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("select table names: %w", err)
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("scan table name: %w", err)
		}
		names = append(names, name)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	tables := make([]TableInfo, 0, len(names))
	for _, name := range names {
		columns, err := r.tableColumns(ctx, name)
		if err != nil {
			return nil, err
		}
		tables = append(tables, TableInfo{Name: name, Columns: columns})
	}
	return tables, nil
}

func (r *Repository) tableColumns(ctx context.Context, table string) ([]ColumnInfo, error) {
	// PRAGMA arguments cannot be bound; the name comes from sqlite_master,
	// but quote it anyway.
	quoted := `"` + strings.ReplaceAll(table, `"`, `""`) + `"`
	rows, err := r.db.QueryContext(ctx, `PRAGMA table_info(`+quoted+`)`)
	if err != nil {
		return nil, fmt.Errorf("table_info %s: %w", table, err)
	}
	defer rows.Close()

	var columns []ColumnInfo
	for rows.Next() {
		var (
			c       ColumnInfo
			notNull int
		)
		if err := rows.Scan(&c.CID, &c.Name, &c.Type, &notNull, &c.DefaultValue, &c.PrimaryKey); err != nil {
			return nil, fmt.Errorf("scan table_info %s: %w", table, err)
		}
		c.NotNull = notNull != 0
		columns = append(columns, c)
	}
	return columns, rows.Err()
}
