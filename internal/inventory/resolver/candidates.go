package resolver

import (
	"strings"

	"assettracker/internal/repository"
)

// SecondaryIdentifierColumn holds the stable identifier of a row imported from a
// workbook, when the table has one.
const SecondaryIdentifierColumn = "external_id"

// CandidateColumns are identifier-like column names in rank order. Spelling
// variants collapse to one token under Normalize.
var CandidateColumns = []string{
	"ip",
	"ip_address",
	"ipaddress",
	"device_name",
	"assets_tag",
	"asset_tag",
	"assets_code",
	"assets_tag_no",
}

// Normalize lower-cases name and strips everything outside [a-z0-9], so
// "IP Address", "ip_address" and "IPAddress" compare equal.
func Normalize(name string) string {
	var b strings.Builder
	b.Grow(len(name))
	for _, r := range strings.ToLower(name) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// Candidates intersects the ranked list with the live columns and returns the
// actual column names in rank order, each at most once.
func Candidates(columns []repository.Column) []string {
	live := make(map[string]string, len(columns))
	for _, c := range columns {
		token := Normalize(c.Name)
		if _, seen := live[token]; !seen {
			live[token] = c.Name
		}
	}

	var out []string
	used := map[string]bool{}
	for _, candidate := range CandidateColumns {
		token := Normalize(candidate)
		name, ok := live[token]
		if !ok || used[token] {
			continue
		}
		used[token] = true
		out = append(out, name)
	}
	return out
}

func hasColumn(columns []repository.Column, name string) bool {
	for _, c := range columns {
		if c.Name == name {
			return true
		}
	}
	return false
}
