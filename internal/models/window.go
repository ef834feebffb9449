package models

import "time"

// Window is one candidate rental period, date precision only.
type Window struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// Label renders the window as "2026-08-29..2026-08-30".
func (w Window) Label() string {
	return w.Start.Format("2006-01-02") + ".." + w.End.Format("2006-01-02")
}

// StartUS and EndUS render dates the way the marketplace API expects them.
func (w Window) StartUS() string {
	return w.Start.Format("01/02/2006")
}

func (w Window) EndUS() string {
	return w.End.Format("01/02/2006")
}

// TableName renders the window start as a BigQuery-safe table name.
func (w Window) TableName() string {
	return w.Start.Format("01_02_2006")
}

func (w Window) IsZero() bool {
	return w.Start.IsZero() && w.End.IsZero()
}
