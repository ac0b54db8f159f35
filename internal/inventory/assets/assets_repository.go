package assets

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"time"

	"assettracker/internal/inventory/category"
	"assettracker/internal/inventory/resolver"
	"assettracker/internal/repository"
	custom_error "assettracker/pkg/errors"
	"assettracker/pkg/metadata"
	"assettracker/pkg/models"

	"github.com/doug-martin/goqu/v9"
)

// Row is one database row keyed by column name.
type Row map[string]interface{}

type InsertResult struct {
	Inserted Row       `json:"inserted"`
	Warnings []Warning `json:"warnings,omitempty"`
}

type AssetsRepository struct {
	repository *repository.Repository
}

func NewAssetsRepository(r *repository.Repository) *AssetsRepository {
	return &AssetsRepository{repository: r}
}

// FetchAll returns every row of every asset table, newest first.
func (r *AssetsRepository) FetchAll(ctx context.Context) (map[metadata.Category][]Row, error) {
	all := make(map[metadata.Category][]Row, len(metadata.Categories))

	for _, c := range metadata.Categories {
		rows, err := r.repository.GoquDBWrapper.From(c.TableName()).
			Order(goqu.C("id").Desc()).
			Executor().
			QueryContext(ctx)
		if err != nil {
			return nil, fmt.Errorf("error executing SQL statement: %w", err)
		}

		result, err := scanRows(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", c, err)
		}
		all[c] = result
	}

	return all, nil
}

// Insert writes payload into the category table after mapping its keys onto live columns.
func (r *AssetsRepository) Insert(ctx context.Context, c metadata.Category, payload map[string]interface{}) (*InsertResult, error) {
	columns, err := repository.ListColumns(ctx, r.repository.GoquDBWrapper, c.TableName())
	if err != nil {
		return nil, err
	}

	plan, err := PlanInsert(c.TableName(), payload, columns)
	if err != nil {
		return nil, err
	}
	if len(plan.Values) == 0 {
		return nil, custom_error.ErrMissingFields
	}

	rows, err := r.repository.GoquDBWrapper.Insert(c.TableName()).
		Rows(goqu.Record(plan.Values)).
		Returning(goqu.Star()).
		Executor().
		QueryContext(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to insert asset: %w", custom_error.FromPQ(err))
	}

	inserted, err := scanRows(rows)
	if err != nil {
		return nil, err
	}
	if len(inserted) == 0 {
		return nil, fmt.Errorf("insert into %s returned no row", c)
	}

	return &InsertResult{Inserted: inserted[0], Warnings: plan.Warnings}, nil
}

// FetchRecords loads every asset table as workspace records. Columns are matched
// to the schema headers through the same mapping used on insert.
func (r *AssetsRepository) FetchRecords(ctx context.Context, registry *category.Registry) (map[metadata.Category][]models.AssetRecord, error) {
	all, err := r.FetchAll(ctx)
	if err != nil {
		return nil, err
	}

	records := make(map[metadata.Category][]models.AssetRecord, len(all))
	for c, rows := range all {
		schema, ok := registry.ByCategory(c)
		if !ok {
			continue
		}
		converted := make([]models.AssetRecord, 0, len(rows))
		for _, row := range rows {
			converted = append(converted, RowToRecord(schema, row))
		}
		records[c] = converted
	}

	return records, nil
}

// RowToRecord maps a database row onto the schema headers. The record id is the
// external identifier when present, the primary key otherwise.
func RowToRecord(schema category.Schema, row Row) models.AssetRecord {
	live := make(map[string]bool, len(row))
	for col := range row {
		live[col] = true
	}

	fields := make(map[string]string, len(schema.Columns)+1)
	headers := schema.Columns
	if !schema.HasColumn(schema.StatusField()) {
		headers = append(append([]string{}, headers...), schema.StatusField())
	}
	for _, header := range headers {
		if col, _, ok := ResolveColumn(header, live); ok {
			fields[header] = stringify(row[col])
		} else {
			fields[header] = ""
		}
	}

	id := stringify(row[resolver.SecondaryIdentifierColumn])
	if id == "" {
		id = stringify(row["id"])
	}

	return models.NewAssetRecord(id, schema.Key, fields)
}

// rowKey returns the integer primary key of row, 0 when it has none.
func rowKey(row Row) int64 {
	switch v := row["id"].(type) {
	case int64:
		return v
	case int:
		return int64(v)
	case float64:
		return int64(v)
	default:
		key, _ := strconv.ParseInt(stringify(v), 10, 64)
		return key
	}
}

func stringify(value interface{}) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	case []byte:
		return string(v)
	case int64:
		return strconv.FormatInt(v, 10)
	case time.Time:
		return v.Format(time.RFC3339)
	default:
		return fmt.Sprint(v)
	}
}

func scanRows(rows *sql.Rows) ([]Row, error) {
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return nil, err
	}

	result := []Row{}
	for rows.Next() {
		values := make([]interface{}, len(columns))
		pointers := make([]interface{}, len(columns))
		for i := range values {
			pointers[i] = &values[i]
		}
		if err := rows.Scan(pointers...); err != nil {
			return nil, err
		}

		row := make(Row, len(columns))
		for i, col := range columns {
			if b, ok := values[i].([]byte); ok {
				row[col] = string(b)
			} else {
				row[col] = values[i]
			}
		}
		result = append(result, row)
	}

	return result, rows.Err()
}
