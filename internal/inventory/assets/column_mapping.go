package assets

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"assettracker/internal/inventory/resolver"
	"assettracker/internal/repository"
	"assettracker/pkg/metadata"
)

// headerMapping lists the database columns a workbook header may land in, best first.
var headerMapping = map[string][]string{
	"ip":             {"ip", "ip_address", "ipaddr", "ipaddress"},
	"ip address":     {"ip_address", "ip", "ipaddress"},
	"company name":   {"company_name", "company", "companyname"},
	"no. of cctv":    {"no_of_cctv", "no_of_cameras", "cctv_count"},
	"no. of cctv(s)": {"no_of_cctv", "no_of_cameras", "cctv_count"},
	"assets tag/no.": {"assets_tag_no", "assets_tag"},
	"assets tag":     {"assets_tag", "assets_tag_no"},
	"device name":    {"device_name", "device"},
	"serial no.":     {"serial_no", "serial_number", "serial"},
	"serial no":      {"serial_no", "serial_number", "serial"},
	"make":           {"make", "manufacturer"},
	"model":          {"model"},
	"location":       {"location", "site", "location_name"},
	"user name":      {"user_name", "username", "user"},
	"users":          {"user_name", "username", "users"},
}

var (
	nonWord     = regexp.MustCompile(`[^0-9a-zA-Z_]+`)
	underscores = regexp.MustCompile(`__+`)
)

// NormalizeColumn turns a human header into snake_case: "Assets Tag/No." becomes "assets_tag_no".
func NormalizeColumn(header string) string {
	col := nonWord.ReplaceAllString(strings.TrimSpace(header), "_")
	col = underscores.ReplaceAllString(col, "_")
	return strings.ToLower(strings.Trim(col, "_"))
}

// columnCandidates returns the columns tried for header, the normalized form last.
func columnCandidates(header string) []string {
	key := strings.ToLower(strings.TrimSpace(header))
	candidates := append([]string{}, headerMapping[key]...)
	return append(candidates, NormalizeColumn(header))
}

// ResolveColumn picks the first candidate for header present in live.
func ResolveColumn(header string, live map[string]bool) (string, []string, bool) {
	candidates := columnCandidates(header)
	for _, c := range candidates {
		if live[c] {
			return c, candidates, true
		}
	}
	return NormalizeColumn(header), candidates, false
}

type Warning struct {
	Action   string `json:"action"`
	Provided string `json:"provided"`
	Value    string `json:"value,omitempty"`
	Reason   string `json:"reason,omitempty"`
}

type MissingColumn struct {
	Provided       string   `json:"provided"`
	ExpectedColumn string   `json:"expected_column"`
	Tried          []string `json:"tried"`
}

type MissingColumnsError struct {
	Table   string
	Columns []MissingColumn
}

func (e *MissingColumnsError) Error() string {
	names := make([]string, len(e.Columns))
	for i, c := range e.Columns {
		names[i] = c.ExpectedColumn
	}
	return fmt.Sprintf("missing columns in %s: %s", e.Table, strings.Join(names, ", "))
}

// InsertPlan is the set of database columns an incoming payload maps onto.
type InsertPlan struct {
	Values   map[string]interface{}
	Warnings []Warning
}

// PlanInsert maps payload keys onto the live columns of a table. A non integer-like
// id aimed at an integer id column moves to external_id when the table has one and
// is dropped otherwise.
func PlanInsert(table string, payload map[string]interface{}, columns []repository.Column) (InsertPlan, error) {
	live := make(map[string]bool, len(columns))
	types := make(map[string]repository.Column, len(columns))
	for _, c := range columns {
		live[c.Name] = true
		types[c.Name] = c
	}

	keys := make([]string, 0, len(payload))
	for k := range payload {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	plan := InsertPlan{Values: map[string]interface{}{}}
	var missing []MissingColumn

	for _, key := range keys {
		value := payload[key]
		column, tried, ok := ResolveColumn(key, live)

		if column == "id" && types["id"].IsInteger() {
			raw := ""
			if value != nil {
				raw = strings.TrimSpace(fmt.Sprint(value))
			}
			if !metadata.IsNumericKey(raw) {
				if live[resolver.SecondaryIdentifierColumn] {
					column = resolver.SecondaryIdentifierColumn
					plan.Warnings = append(plan.Warnings, Warning{Action: "mapped_id_to_external_id", Provided: key, Value: raw})
				} else {
					plan.Warnings = append(plan.Warnings, Warning{
						Action:   "dropped_id",
						Provided: key,
						Reason:   "DB id is integer and incoming value not integer-like",
					})
					continue
				}
			}
		}

		if !ok {
			missing = append(missing, MissingColumn{Provided: key, ExpectedColumn: column, Tried: tried})
			continue
		}
		plan.Values[column] = value
	}

	if len(missing) > 0 {
		return InsertPlan{}, &MissingColumnsError{Table: table, Columns: missing}
	}

	return plan, nil
}

