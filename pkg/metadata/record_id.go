package metadata

import (
	"strconv"
	"strings"
	"time"
)

// RecordID is the synthetic identifier given to a record parsed from a spreadsheet row.
// It is unrelated to any database primary key.
type RecordID struct {
	prefix string
	stamp  string
	index  string
}

func NewRecordID(category Category, at time.Time, index int) RecordID {
	var id RecordID

	id.prefix = strings.ToUpper(category.String())
	id.stamp = strconv.FormatInt(at.UnixMilli(), 10)
	id.index = strconv.Itoa(index)

	return id
}

func (id RecordID) String() string {
	return id.prefix + id.stamp + id.index
}

// IsNumericKey reports whether value looks like a database primary key.
func IsNumericKey(value string) bool {
	if value == "" {
		return false
	}
	for _, r := range value {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
