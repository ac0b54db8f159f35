package resolver

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"assettracker/internal/repository"
	custom_error "assettracker/pkg/errors"
	"assettracker/pkg/metadata"

	"go.uber.org/zap"
)

type Strategy string

const (
	StrategyNumeric   Strategy = "numeric"
	StrategySecondary Strategy = "secondary_identifier"
	StrategyCandidate Strategy = "candidate_column"
)

// Resolution is the primary key found for a client supplied identifier and how it was found.
type Resolution struct {
	Key      int64    `json:"key"`
	Strategy Strategy `json:"strategy"`
	Column   string   `json:"column,omitempty"`
	Tried    []string `json:"tried,omitempty"`
}

// Catalog is the read-only view of the asset tables the resolver needs.
type Catalog interface {
	ListColumns(ctx context.Context, table string) ([]repository.Column, error)
	FindKey(ctx context.Context, table, column, value string) (int64, bool, error)
}

type Options struct {
	MaxLookups int
	Timeout    time.Duration
}

type Resolver struct {
	maxLookups int
	timeout    time.Duration
	logger     *zap.Logger
}

const DefaultMaxLookups = 8

func NewResolver(opts Options, logger *zap.Logger) *Resolver {
	if opts.MaxLookups <= 0 {
		opts.MaxLookups = DefaultMaxLookups
	}
	return &Resolver{
		maxLookups: opts.MaxLookups,
		timeout:    opts.Timeout,
		logger:     logger,
	}
}

// Resolve maps rawID onto the integer primary key of a row in the category table.
// It tries, in order: rawID as the key itself, the secondary identifier column,
// then the ranked candidate columns present in the live schema. Column metadata
// is read once per call. Nothing is written.
func (r *Resolver) Resolve(ctx context.Context, catalog Catalog, categoryName, rawID string) (Resolution, error) {
	category, err := metadata.NewCategory(categoryName)
	if err != nil {
		return Resolution{}, &custom_error.InvalidCategoryError{Value: categoryName}
	}

	// Only an exact run of digits is taken as the key itself.
	if metadata.IsNumericKey(rawID) {
		if key, err := strconv.ParseInt(rawID, 10, 64); err == nil {
			return Resolution{Key: key, Strategy: StrategyNumeric}, nil
		}
	}

	rawID = strings.TrimSpace(rawID)

	unresolved := &custom_error.UnresolvedIdentifierError{Category: category.String(), Identifier: rawID}
	if rawID == "" {
		return Resolution{}, unresolved
	}

	if r.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.timeout)
		defer cancel()
	}

	table := category.TableName()
	columns, err := catalog.ListColumns(ctx, table)
	if err != nil {
		return Resolution{}, fmt.Errorf("failed to inspect %s: %w", table, err)
	}

	type step struct {
		column   string
		strategy Strategy
	}
	var plan []step
	if hasColumn(columns, SecondaryIdentifierColumn) {
		plan = append(plan, step{SecondaryIdentifierColumn, StrategySecondary})
	}
	for _, column := range Candidates(columns) {
		plan = append(plan, step{column, StrategyCandidate})
	}

	var tried []string
	for _, s := range plan {
		if len(tried) >= r.maxLookups {
			r.logger.Warn("identifier lookup budget exhausted",
				zap.String("category", table), zap.Int("max_lookups", r.maxLookups))
			break
		}
		tried = append(tried, s.column)

		key, found, err := catalog.FindKey(ctx, table, s.column, rawID)
		if err != nil {
			return Resolution{}, fmt.Errorf("failed to look up %s.%s: %w", table, s.column, err)
		}
		if found {
			r.logger.Debug("identifier resolved",
				zap.String("category", table),
				zap.String("column", s.column),
				zap.String("strategy", string(s.strategy)),
				zap.Int64("key", key),
			)
			return Resolution{Key: key, Strategy: s.strategy, Column: s.column, Tried: tried}, nil
		}
	}

	unresolved.Tried = tried
	return Resolution{}, unresolved
}
