package resolver

import (
	"context"
	"fmt"

	"assettracker/internal/repository"

	"github.com/doug-martin/goqu/v9"
)

// PostgresCatalog reads asset tables through one goqu database, typically bound
// to a single connection for the duration of a request.
type PostgresCatalog struct {
	db *goqu.Database
}

func NewPostgresCatalog(db *goqu.Database) *PostgresCatalog {
	return &PostgresCatalog{db: db}
}

func (c *PostgresCatalog) ListColumns(ctx context.Context, table string) ([]repository.Column, error) {
	return repository.ListColumns(ctx, c.db, table)
}

// FindKey compares the column as text so identifiers match regardless of the column type.
func (c *PostgresCatalog) FindKey(ctx context.Context, table, column, value string) (int64, bool, error) {
	var id int64

	found, err := c.db.From(table).
		Select("id").
		Where(goqu.Cast(goqu.I(column), "TEXT").Eq(value)).
		ScanValContext(ctx, &id)
	if err != nil {
		return 0, false, fmt.Errorf("error executing SQL statement: %w", err)
	}

	return id, found, nil
}
