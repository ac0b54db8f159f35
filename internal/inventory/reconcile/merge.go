package reconcile

import (
	"fmt"
	"strings"

	"assettracker/internal/inventory/category"
	"assettracker/pkg/models"
)

type ConflictPolicy string

const (
	// ConflictSkip discards the incoming record and leaves the match untouched.
	ConflictSkip ConflictPolicy = "skip"
	// ConflictPreferIncoming overwrites the match, key fields included.
	ConflictPreferIncoming ConflictPolicy = "prefer-incoming"
)

func NewConflictPolicy(value string) (ConflictPolicy, error) {
	switch p := ConflictPolicy(strings.ToLower(strings.TrimSpace(value))); p {
	case "", ConflictSkip:
		return ConflictSkip, nil
	case ConflictPreferIncoming:
		return p, nil
	default:
		return "", fmt.Errorf("unknown conflict policy %q, expected %s or %s", value, ConflictSkip, ConflictPreferIncoming)
	}
}

type Options struct {
	Policy ConflictPolicy
}

type Result struct {
	Merged    []models.AssetRecord
	Outcome   Outcome
	Conflicts []Conflict
}

// Merge folds incoming into existing for a single category.
//
// An incoming record matches the first merged record sharing any non-empty key
// field. If another key field is non-empty on both sides but differs, the pair
// is a conflict. Otherwise non-empty incoming values overwrite the match, which
// keeps its own ID. Records without a match are appended.
//
// existing is never modified; every record in Merged is a copy.
func Merge(existing, incoming []models.AssetRecord, schema category.Schema, opts Options) Result {
	merged := models.CloneRecords(existing)
	if merged == nil {
		merged = []models.AssetRecord{}
	}

	result := Result{Outcome: Outcome{TotalImported: len(incoming)}}

	for _, in := range incoming {
		idx := findMatch(merged, in, schema.KeyFields)
		if idx < 0 {
			merged = append(merged, in.Clone())
			result.Outcome.NewAssets++
			continue
		}

		match := &merged[idx]
		if conflict, ok := keyConflict(*match, in, schema.KeyFields); ok {
			result.Outcome.Conflicts++
			result.Conflicts = append(result.Conflicts, conflict)

			if opts.Policy != ConflictPreferIncoming {
				result.Outcome.SkippedAssets++
				continue
			}
			overwrite(match, in, schema, true)
			result.Outcome.UpdatedAssets++
			continue
		}

		overwrite(match, in, schema, false)
		result.Outcome.UpdatedAssets++
	}

	result.Merged = merged
	return result
}

func normalize(value string) string {
	return strings.ToLower(strings.TrimSpace(value))
}

func findMatch(merged []models.AssetRecord, in models.AssetRecord, keyFields []string) int {
	for i, candidate := range merged {
		for _, field := range keyFields {
			a, b := normalize(candidate.Fields[field]), normalize(in.Fields[field])
			if a != "" && a == b {
				return i
			}
		}
	}
	return -1
}

func keyConflict(existing, in models.AssetRecord, keyFields []string) (Conflict, bool) {
	for _, field := range keyFields {
		a, b := normalize(existing.Fields[field]), normalize(in.Fields[field])
		if a != "" && b != "" && a != b {
			return Conflict{
				IncomingID:    in.ID,
				ExistingID:    existing.ID,
				Field:         field,
				IncomingValue: in.Get(field),
				ExistingValue: existing.Get(field),
			}, true
		}
	}
	return Conflict{}, false
}

// overwrite copies non-empty incoming values onto match. Key fields are only
// touched when withKeys is set.
func overwrite(match *models.AssetRecord, in models.AssetRecord, schema category.Schema, withKeys bool) {
	for field, value := range in.Fields {
		if strings.TrimSpace(value) == "" {
			continue
		}
		if schema.IsKeyField(field) && !withKeys {
			continue
		}
		match.Set(field, value)
	}
}
