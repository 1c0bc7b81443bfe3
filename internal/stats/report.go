// Package stats contains statistics calculations and reporting.
package stats

import (
	"context"
	"fmt"
	"io"

	"github.com/dustin/go-humanize"

	"github.com/ultrasecure/typeahead/internal/model"
	"github.com/ultrasecure/typeahead/internal/store"
)

// topWordsEventWindow bounds how many archived events feed the word ranking.
const topWordsEventWindow = 5000

// sessionTableRows bounds how many sessions the table section shows.
const sessionTableRows = 15

// Report contains precomputed data for stats rendering.
type Report struct {
	Sessions    []model.SessionAggregate
	TopWords    []model.WordCount
	TotalEvents int64
}

// BuildReport loads and prepares data for stats rendering.
func BuildReport(ctx context.Context, st *store.Store, cfg model.StatsConfig) (Report, error) {
	sessions, err := st.ListSessions(ctx, cfg)
	if err != nil {
		return Report{}, err
	}
	if cfg.Last > 0 && len(sessions) > cfg.Last {
		sessions = sessions[len(sessions)-cfg.Last:]
	}

	events, err := st.ListEvents(ctx, cfg.UserID, topWordsEventWindow)
	if err != nil {
		return Report{}, err
	}
	total, err := st.CountEvents(ctx)
	if err != nil {
		return Report{}, err
	}

	topN := cfg.TopWords
	if topN <= 0 {
		topN = 10
	}
	return Report{
		Sessions:    sessions,
		TopWords:    TopWords(events, topN),
		TotalEvents: total,
	}, nil
}

// RenderReport writes the full stats report.
func RenderReport(w io.Writer, report Report, window, totalWidth int, useColor bool) error {
	if _, err := fmt.Fprintf(w, "Archived events: %s\n\n", humanize.Comma(report.TotalEvents)); err != nil {
		return err
	}
	if err := RenderSummary(w, report.Sessions); err != nil {
		return err
	}
	tabled := report.Sessions
	if len(tabled) > sessionTableRows {
		tabled = tabled[len(tabled)-sessionTableRows:]
	}
	if err := RenderSessions(w, tabled); err != nil {
		return err
	}
	if err := RenderTopWords(w, report.TopWords); err != nil {
		return err
	}
	return RenderCurvesWithSize(w, report.Sessions, window, totalWidth, 10, useColor)
}
