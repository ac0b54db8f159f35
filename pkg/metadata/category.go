package metadata

import (
	"fmt"
	"strings"
)

// Category is one of the fixed asset kinds. Its value doubles as the database table name,
// so only whitelisted values may ever reach SQL.
type Category string

const (
	CategoryLaptops  Category = "laptops"
	CategoryMonitors Category = "monitors"
	CategoryPrinters Category = "printers"
	CategoryCameras  Category = "cameras"
	CategoryWifi     Category = "wifi"
)

// Categories lists the whitelist in display order.
var Categories = []Category{
	CategoryLaptops,
	CategoryMonitors,
	CategoryPrinters,
	CategoryCameras,
	CategoryWifi,
}

func (c Category) IsValid() bool {
	switch c {
	case CategoryLaptops, CategoryMonitors, CategoryPrinters, CategoryCameras, CategoryWifi:
		return true
	default:
		return false
	}
}

// NewCategory trims and lower-cases the value before checking it against the whitelist.
func NewCategory(value string) (Category, error) {
	category := Category(strings.ToLower(strings.TrimSpace(value)))
	if !category.IsValid() {
		return category, fmt.Errorf(
			"value not valid, only valid values are: %s, %s, %s, %s, %s",
			CategoryLaptops, CategoryMonitors, CategoryPrinters, CategoryCameras, CategoryWifi,
		)
	}

	return category, nil
}

func (c Category) String() string {
	return string(c)
}

// TableName returns the table backing the category.
func (c Category) TableName() string {
	return string(c)
}
