// Package stats contains statistics calculations and reporting.
package stats

import (
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/dustin/go-humanize"

	"github.com/ultrasecure/typeahead/internal/model"
)

const sparkChars = " .:-=+*#%@"

// charsPerWord is the conventional word length used for WPM conversion.
const charsPerWord = 5.0

// SessionSpeed computes characters per second and words per minute for a session.
func SessionSpeed(chars int, durationMs int64) (charsPerSec, wpm float64) {
	if durationMs <= 0 {
		return 0, 0
	}
	seconds := float64(durationMs) / 1000.0
	charsPerSec = float64(chars) / seconds
	wpm = charsPerSec * 60.0 / charsPerWord
	return charsPerSec, wpm
}

// WPM converts a chars-per-second rate to words per minute.
func WPM(charsPerSec float64) float64 {
	return charsPerSec * 60.0 / charsPerWord
}

// MovingAverage computes a rolling mean over the provided window size.
func MovingAverage(values []float64, window int) []float64 {
	if window <= 1 || len(values) == 0 {
		out := make([]float64, len(values))
		copy(out, values)
		return out
	}
	out := make([]float64, len(values))
	var sum float64
	for i := 0; i < len(values); i++ {
		sum += values[i]
		if i >= window {
			sum -= values[i-window]
		}
		den := float64(i + 1)
		if i >= window {
			den = float64(window)
		}
		out[i] = sum / den
	}
	return out
}

// Sparkline renders a single-line ASCII sparkline for the values.
func Sparkline(values []float64) string {
	if len(values) == 0 {
		return ""
	}
	minVal := values[0]
	maxVal := values[0]
	for _, v := range values[1:] {
		if v < minVal {
			minVal = v
		}
		if v > maxVal {
			maxVal = v
		}
	}
	if math.Abs(maxVal-minVal) < 1e-9 {
		return strings.Repeat(string(sparkChars[len(sparkChars)/2]), len(values))
	}
	var b strings.Builder
	for _, v := range values {
		pos := (v - minVal) / (maxVal - minVal)
		idx := int(math.Round(pos * float64(len(sparkChars)-1)))
		if idx < 0 {
			idx = 0
		}
		if idx >= len(sparkChars) {
			idx = len(sparkChars) - 1
		}
		b.WriteByte(sparkChars[idx])
	}
	return b.String()
}

// RenderSummary prints aggregate totals across sessions.
func RenderSummary(w io.Writer, sessions []model.SessionAggregate) error {
	if len(sessions) == 0 {
		_, err := fmt.Fprintln(w, "No sessions found.")
		return err
	}
	var messages, words, chars int
	var totalSpeed float64
	bestSpeed := 0.0
	speeds := make([]float64, len(sessions))
	for i, s := range sessions {
		messages += s.Messages
		words += s.Words
		chars += s.Chars
		totalSpeed += s.CharsPerSec
		if s.CharsPerSec > bestSpeed {
			bestSpeed = s.CharsPerSec
		}
		speeds[i] = s.CharsPerSec
	}
	count := float64(len(sessions))
	avgSpeed := totalSpeed / count
	if _, err := fmt.Fprintln(w, "Summary"); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "Sessions: %d\n", len(sessions)); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "Messages: %s\n", humanize.Comma(int64(messages))); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "Words: %s\n", humanize.Comma(int64(words))); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "Chars: %s\n", humanize.Comma(int64(chars))); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "Avg speed: %.2f chars/s (%.1f WPM)\n", avgSpeed, WPM(avgSpeed)); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "Best speed: %.2f chars/s\n", bestSpeed); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "Trend: %s\n", Sparkline(speeds)); err != nil {
		return err
	}
	if _, err := fmt.Fprintln(w, ""); err != nil {
		return err
	}
	return nil
}

// RenderSessions prints a table of recent sessions, newest last.
func RenderSessions(w io.Writer, sessions []model.SessionAggregate) error {
	if len(sessions) == 0 {
		return nil
	}
	cols := []Column{
		{Title: "When"},
		{Title: "User"},
		{Title: "Msgs", Right: true},
		{Title: "Words", Right: true},
		{Title: "Chars/s", Right: true},
		{Title: "WPM", Right: true},
	}
	rows := make([][]string, 0, len(sessions))
	for _, s := range sessions {
		rows = append(rows, []string{
			s.EndedAt.Local().Format("2006-01-02 15:04"),
			s.UserID,
			fmt.Sprintf("%d", s.Messages),
			fmt.Sprintf("%d", s.Words),
			fmt.Sprintf("%.2f", s.CharsPerSec),
			fmt.Sprintf("%.1f", WPM(s.CharsPerSec)),
		})
	}
	if _, err := fmt.Fprintln(w, "Recent Sessions"); err != nil {
		return err
	}
	for _, line := range formatTable(cols, rows) {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintln(w, "")
	return err
}

// RenderCurves prints the typing speed curve across sessions.
func RenderCurves(w io.Writer, sessions []model.SessionAggregate, window int) error {
	return RenderCurvesWithSize(w, sessions, window, 0, 10, false)
}

// RenderCurvesWithSize prints the typing speed curve sized to a given total width.
func RenderCurvesWithSize(w io.Writer, sessions []model.SessionAggregate, window, totalWidth, height int, useColor bool) error {
	if len(sessions) == 0 {
		return nil
	}
	speeds := make([]float64, len(sessions))
	for i, s := range sessions {
		speeds[i] = s.CharsPerSec
	}
	trend := MovingAverage(speeds, window)

	width := 0
	if totalWidth > 0 {
		width = PlotWidthFor(totalWidth)
	}
	return PlotSeriesWithColor(w, "Typing Speed", []Series{
		{Name: "chars/s", Values: speeds},
		{Name: "trend", Values: trend},
	}, width, height, useColor)
}
