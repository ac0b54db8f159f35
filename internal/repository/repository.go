package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/postgres"
)

const Dialect = "postgres"

type Repository struct {
	DB            *sql.DB
	GoquDBWrapper *goqu.Database
}

func NewRepository(db *sql.DB) *Repository {
	return &Repository{
		DB:            db,
		GoquDBWrapper: goqu.New(Dialect, db),
	}
}

// connDatabase lets a single pooled connection back a goqu.Database.
type connDatabase struct {
	*sql.Conn
}

func (c connDatabase) Begin() (*sql.Tx, error) {
	return c.Conn.BeginTx(context.Background(), nil)
}

// Conn reserves one connection from the pool for the caller. The returned
// release func must be called on every path.
func (r *Repository) Conn(ctx context.Context) (*goqu.Database, func() error, error) {
	conn, err := r.DB.Conn(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to acquire connection: %w", err)
	}

	return goqu.New(Dialect, connDatabase{conn}), conn.Close, nil
}

func WithTransaction(ctx context.Context, db *goqu.Database, fn func(tx *goqu.TxDatabase) error) (err error) {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to start transaction: %w", err)
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		} else if err != nil {
			_ = tx.Rollback()
		} else {
			err = tx.Commit()
		}
	}()

	err = fn(tx)
	return
}
