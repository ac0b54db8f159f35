package store

import (
	"time"

	"assettracker/internal/inventory/reconcile"
)

const (
	MaxImportHistory = 10
	MaxChangeHistory = 50
)

// ImportEntry records one workbook import together with the state before it.
type ImportEntry struct {
	Timestamp    time.Time         `json:"timestamp"`
	FileName     string            `json:"fileName"`
	RecordCounts map[string]int    `json:"recordCounts"`
	MergeResults reconcile.Outcome `json:"mergeResults"`
	Backup       State             `json:"backup"`
}

// ChangeEntry records one workspace mutation together with the state before it.
type ChangeEntry struct {
	Timestamp time.Time `json:"timestamp"`
	Action    string    `json:"action"`
	Details   string    `json:"details"`
	Backup    State     `json:"backup"`
}

type ImportSummary struct {
	Index        int               `json:"index"`
	Timestamp    time.Time         `json:"timestamp"`
	FileName     string            `json:"fileName"`
	RecordCounts map[string]int    `json:"recordCounts"`
	MergeResults reconcile.Outcome `json:"mergeResults"`
}

type ChangeSummary struct {
	Index     int       `json:"index"`
	Timestamp time.Time `json:"timestamp"`
	Action    string    `json:"action"`
	Details   string    `json:"details"`
}

func (e ImportEntry) summary(index int) ImportSummary {
	return ImportSummary{
		Index:        index,
		Timestamp:    e.Timestamp,
		FileName:     e.FileName,
		RecordCounts: e.RecordCounts,
		MergeResults: e.MergeResults,
	}
}

func (e ChangeEntry) summary(index int) ChangeSummary {
	return ChangeSummary{Index: index, Timestamp: e.Timestamp, Action: e.Action, Details: e.Details}
}

// prepend puts entry first and drops the oldest entries beyond limit.
func prepend[T any](entries []T, entry T, limit int) []T {
	out := make([]T, 0, len(entries)+1)
	out = append(out, entry)
	out = append(out, entries...)
	if len(out) > limit {
		out = out[:limit]
	}
	return out
}

func remove[T any](entries []T, index int) []T {
	out := make([]T, 0, len(entries)-1)
	out = append(out, entries[:index]...)
	return append(out, entries[index+1:]...)
}
