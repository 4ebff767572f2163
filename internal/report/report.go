// Package report renders expense data into downloadable documents.
//
// Report generation never fails a request: when rendering goes wrong, a
// fallback document describing the problem is produced instead so the
// client always receives a file of the promised type.
package report

import (
	"fmt"
	"time"
)

// Period is the calendar range a report covers. A nil Year means all
// recorded data, a nil Month widens the report to the whole year.
type Period struct {
	Year  *int
	Month *int
}

// Label returns the period as shown inside a report.
func (p Period) Label() string {
	if p.Year == nil {
		return "All Time"
	}

	if p.Month == nil {
		return fmt.Sprintf("Year %d", *p.Year)
	}

	return fmt.Sprintf("%s %d", time.Month(*p.Month).String(), *p.Year)
}

// slug returns the period part of a report filename.
func (p Period) slug() string {
	if p.Year == nil {
		return "all"
	}

	if p.Month == nil {
		return fmt.Sprintf("%d", *p.Year)
	}

	return fmt.Sprintf("%d_%02d", *p.Year, *p.Month)
}

// Filename returns the download filename for a report generated now.
// The extension is passed without the dot, e.g. "csv".
func Filename(extension string, period Period, now time.Time) string {
	return fmt.Sprintf("expense_report_%s_%s.%s", period.slug(), now.Format("20060102_150405"), extension)
}
