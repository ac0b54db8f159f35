package reconcile

import (
	"fmt"
	"testing"

	"assettracker/internal/inventory/category"
	"assettracker/pkg/metadata"
	"assettracker/pkg/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func laptopsSchema(t *testing.T) category.Schema {
	s, ok := category.DefaultRegistry().ByCategory(metadata.CategoryLaptops)
	require.True(t, ok)
	return s
}

func laptop(id string, fields map[string]string) models.AssetRecord {
	return models.NewAssetRecord(id, metadata.CategoryLaptops, fields)
}

func TestMergeDisjointSetsAppendEverything(t *testing.T) {
	schema := laptopsSchema(t)
	existing := []models.AssetRecord{
		laptop("E1", map[string]string{"Assets Tag/No.": "TAG-A", "Serial No": "SN-A"}),
		laptop("E2", map[string]string{"Assets Tag/No.": "TAG-B", "Serial No": "SN-B"}),
	}
	var incoming []models.AssetRecord
	for i := 0; i < 3; i++ {
		incoming = append(incoming, laptop(fmt.Sprintf("N%d", i), map[string]string{
			"Assets Tag/No.": fmt.Sprintf("NEW-%d", i),
			"Serial No":      fmt.Sprintf("NSN-%d", i),
		}))
	}

	result := Merge(existing, incoming, schema, Options{})

	assert.Equal(t, Outcome{TotalImported: 3, NewAssets: 3}, result.Outcome)
	assert.Len(t, result.Merged, len(existing)+len(incoming))
	assert.Empty(t, result.Conflicts)
}

func TestMergeUpdatesMatchedRecord(t *testing.T) {
	schema := laptopsSchema(t)
	existing := []models.AssetRecord{
		laptop("E1", map[string]string{"Assets Tag/No.": "TAG-A", "Serial No": "SN-A", "Model": "T480", "User Name": "Ali"}),
	}
	incoming := []models.AssetRecord{
		laptop("N1", map[string]string{"Assets Tag/No.": " tag-a ", "Serial No": "", "Model": "T490", "User Name": ""}),
	}

	result := Merge(existing, incoming, schema, Options{})

	assert.Equal(t, Outcome{TotalImported: 1, UpdatedAssets: 1}, result.Outcome)
	require.Len(t, result.Merged, 1)
	updated := result.Merged[0]
	assert.Equal(t, "E1", updated.ID, "matched record keeps its id")
	assert.Equal(t, "T490", updated.Get("Model"))
	assert.Equal(t, "Ali", updated.Get("User Name"), "empty incoming values never overwrite")
	assert.Equal(t, "TAG-A", updated.Get("Assets Tag/No."), "key fields are not rewritten")
	assert.Equal(t, "SN-A", updated.Get("Serial No"))
}

func TestMergeConflictLeavesExistingUntouched(t *testing.T) {
	schema := laptopsSchema(t)
	original := laptop("E1", map[string]string{"Assets Tag/No.": "TAG-A", "Serial No": "SN-A", "Model": "T480"})
	existing := []models.AssetRecord{original.Clone()}
	incoming := []models.AssetRecord{
		laptop("N1", map[string]string{"Assets Tag/No.": "TAG-A", "Serial No": "SN-Z", "Model": "X1"}),
	}

	result := Merge(existing, incoming, schema, Options{})

	assert.Equal(t, Outcome{TotalImported: 1, Conflicts: 1, SkippedAssets: 1}, result.Outcome)
	assert.Equal(t, []models.AssetRecord{original}, result.Merged)
	require.Len(t, result.Conflicts, 1)
	assert.Equal(t, Conflict{
		IncomingID:    "N1",
		ExistingID:    "E1",
		Field:         "Serial No",
		IncomingValue: "SN-Z",
		ExistingValue: "SN-A",
	}, result.Conflicts[0])
}

func TestMergeDoesNotMutateExisting(t *testing.T) {
	schema := laptopsSchema(t)
	existing := []models.AssetRecord{
		laptop("E1", map[string]string{"Assets Tag/No.": "TAG-A", "Model": "T480"}),
	}
	incoming := []models.AssetRecord{
		laptop("N1", map[string]string{"Assets Tag/No.": "TAG-A", "Model": "T490"}),
	}

	result := Merge(existing, incoming, schema, Options{})

	assert.Equal(t, "T480", existing[0].Get("Model"))
	assert.Equal(t, "T490", result.Merged[0].Get("Model"))
}

func TestMergeIsIdempotentForDuplicateReimport(t *testing.T) {
	schema := laptopsSchema(t)
	incoming := []models.AssetRecord{
		laptop("N1", map[string]string{"Assets Tag/No.": "TAG-1", "Serial No": "SN-1"}),
		laptop("N2", map[string]string{"Assets Tag/No.": "TAG-2", "Serial No": "SN-2"}),
	}

	first := Merge(nil, incoming, schema, Options{})
	second := Merge(first.Merged, incoming, schema, Options{})

	assert.Equal(t, 2, first.Outcome.NewAssets)
	assert.Equal(t, 0, second.Outcome.NewAssets)
	assert.Equal(t, 2, second.Outcome.UpdatedAssets)
	assert.Len(t, second.Merged, 2)
}

func TestMergeMatchesRecordsAddedEarlierInBatch(t *testing.T) {
	schema := laptopsSchema(t)
	incoming := []models.AssetRecord{
		laptop("N1", map[string]string{"Assets Tag/No.": "TAG-1", "Model": "A"}),
		laptop("N2", map[string]string{"Assets Tag/No.": "tag-1", "Model": "B"}),
	}

	result := Merge(nil, incoming, schema, Options{})

	assert.Equal(t, Outcome{TotalImported: 2, NewAssets: 1, UpdatedAssets: 1}, result.Outcome)
	require.Len(t, result.Merged, 1)
	assert.Equal(t, "B", result.Merged[0].Get("Model"))
}

func TestMergeLaptopImportScenario(t *testing.T) {
	schema := laptopsSchema(t)
	existing := []models.AssetRecord{
		laptop("E1", map[string]string{"Assets Tag/No.": "TAG2", "Serial No": "SN100", "Model": "old"}),
		laptop("E2", map[string]string{"Assets Tag/No.": "TAG3", "Serial No": "SN300"}),
	}
	incoming := []models.AssetRecord{
		laptop("N1", map[string]string{"Assets Tag/No.": "TAG1", "Serial No": "SN001"}),
		laptop("N2", map[string]string{"Serial No": "SN100", "Model": "new"}),
		laptop("N3", map[string]string{"Assets Tag/No.": "TAG3", "Serial No": "SN999"}),
	}

	result := Merge(existing, incoming, schema, Options{})

	assert.Equal(t, Outcome{
		TotalImported: 3,
		NewAssets:     1,
		UpdatedAssets: 1,
		Conflicts:     1,
		SkippedAssets: 1,
	}, result.Outcome)
	assert.Len(t, result.Merged, 3)
	assert.Equal(t, "new", result.Merged[0].Get("Model"))
	assert.Equal(t, "SN300", result.Merged[1].Get("Serial No"))
}

func TestMergePreferIncomingPolicy(t *testing.T) {
	schema := laptopsSchema(t)
	existing := []models.AssetRecord{
		laptop("E1", map[string]string{"Assets Tag/No.": "TAG-A", "Serial No": "SN-A"}),
	}
	incoming := []models.AssetRecord{
		laptop("N1", map[string]string{"Assets Tag/No.": "TAG-A", "Serial No": "SN-Z"}),
	}

	result := Merge(existing, incoming, schema, Options{Policy: ConflictPreferIncoming})

	assert.Equal(t, Outcome{TotalImported: 1, UpdatedAssets: 1, Conflicts: 1}, result.Outcome)
	assert.Equal(t, "SN-Z", result.Merged[0].Get("Serial No"))
	assert.Equal(t, "E1", result.Merged[0].ID)
}

func TestNewConflictPolicy(t *testing.T) {
	tests := []struct {
		input   string
		want    ConflictPolicy
		wantErr bool
	}{
		{"", ConflictSkip, false},
		{"skip", ConflictSkip, false},
		{" Prefer-Incoming ", ConflictPreferIncoming, false},
		{"manual", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := NewConflictPolicy(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestOutcomeAdd(t *testing.T) {
	total := Outcome{TotalImported: 2, NewAssets: 2}
	total.Add(Outcome{TotalImported: 3, UpdatedAssets: 1, Conflicts: 2, SkippedAssets: 2})

	assert.Equal(t, Outcome{TotalImported: 5, NewAssets: 2, UpdatedAssets: 1, Conflicts: 2, SkippedAssets: 2}, total)
}
