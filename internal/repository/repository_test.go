package repository

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/doug-martin/goqu/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMockRepository(t *testing.T) (*Repository, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	return NewRepository(db), mock
}

func TestWithTransactionCommits(t *testing.T) {
	r, mock := newMockRepository(t)

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE "wifi"`).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err := WithTransaction(context.Background(), r.GoquDBWrapper, func(tx *goqu.TxDatabase) error {
		_, err := tx.Update("wifi").Set(goqu.Record{"status": "Assigned"}).Where(goqu.Ex{"id": 1}).Executor().Exec()
		return err
	})

	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestWithTransactionRollsBackOnError(t *testing.T) {
	r, mock := newMockRepository(t)

	mock.ExpectBegin()
	mock.ExpectRollback()

	err := WithTransaction(context.Background(), r.GoquDBWrapper, func(tx *goqu.TxDatabase) error {
		return errors.New("boom")
	})

	assert.EqualError(t, err, "boom")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListColumns(t *testing.T) {
	r, mock := newMockRepository(t)

	mock.ExpectQuery(`SELECT "column_name", "data_type" FROM "information_schema"."columns"`).
		WillReturnRows(sqlmock.NewRows([]string{"column_name", "data_type"}).
			AddRow("id", "integer").
			AddRow("ip", "text"))

	columns, err := ListColumns(context.Background(), r.GoquDBWrapper, "wifi")

	require.NoError(t, err)
	assert.Equal(t, []string{"id", "ip"}, ColumnNames(columns))
	assert.True(t, columns[0].IsInteger())
	assert.False(t, columns[1].IsInteger())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestConnReleasesConnection(t *testing.T) {
	r, mock := newMockRepository(t)

	mock.ExpectQuery(`SELECT "id" FROM "wifi"`).WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(7))

	db, release, err := r.Conn(context.Background())
	require.NoError(t, err)

	var id int64
	found, err := db.From("wifi").Select("id").Where(goqu.Ex{"ip": "10.0.0.7"}).ScanValContext(context.Background(), &id)

	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, int64(7), id)
	assert.NoError(t, release())
	assert.NoError(t, mock.ExpectationsWereMet())
}
