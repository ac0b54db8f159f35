package metadata

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNewCategory(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    Category
		wantErr bool
	}{
		{"laptops", "laptops", CategoryLaptops, false},
		{"uppercase wifi", "WIFI", CategoryWifi, false},
		{"padded cameras", "  cameras ", CategoryCameras, false},
		{"unknown table", "users", "", true},
		{"injection attempt", "laptops; DROP TABLE assignments", "", true},
		{"empty", "", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NewCategory(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCategoriesAreValid(t *testing.T) {
	assert.Len(t, Categories, 5)
	for _, c := range Categories {
		assert.True(t, c.IsValid(), c)
		assert.Equal(t, string(c), c.TableName())
	}
}

func TestStatus(t *testing.T) {
	tests := []struct {
		input     string
		wantErr   bool
		available bool
	}{
		{"Available", false, true},
		{" In Stock ", false, true},
		{"OK", false, true},
		{"Assigned", false, false},
		{"Under Maintenance", false, false},
		{"lost", true, false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			status, err := NewStatus(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.available, status.IsAvailable())
		})
	}
}

func TestIsUserPlaceholder(t *testing.T) {
	assert.True(t, IsUserPlaceholder(""))
	assert.True(t, IsUserPlaceholder(" IN STOCK "))
	assert.True(t, IsUserPlaceholder("N/A"))
	assert.False(t, IsUserPlaceholder("Ayesha Khan"))
}

func TestNewRecordID(t *testing.T) {
	at := time.UnixMilli(1700000000000)

	id := NewRecordID(CategoryWifi, at, 3)

	assert.Equal(t, "WIFI17000000000003", id.String())
}

func TestIsNumericKey(t *testing.T) {
	assert.True(t, IsNumericKey("42"))
	assert.True(t, IsNumericKey("007"))
	assert.False(t, IsNumericKey(""))
	assert.False(t, IsNumericKey("-1"))
	assert.False(t, IsNumericKey("10.0.0.1"))
	assert.False(t, IsNumericKey("LAPTOPS1700000000000"))
}
