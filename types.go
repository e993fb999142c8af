package main

import (
	"github.com/banshee-data/emg.report/internal/db"
	"github.com/banshee-data/emg.report/internal/emg"
)

// BatchReport is the JSON bundle written by -json: the run record, the
// batch summary, and one entry per dataset. Datasets without ground
// truth carry null metrics, failed datasets carry an error string; a
// missing score is never rendered as 0.
type BatchReport struct {
	Run     db.Run           `json:"run"`
	Summary emg.BatchSummary `json:"summary"`
	Results []db.ResultAPI   `json:"results"`
}
