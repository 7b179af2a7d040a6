package domain

// ReportKind is the calendar granularity a report covers.
type ReportKind string

const (
	ReportDaily   ReportKind = "daily"
	ReportMonthly ReportKind = "monthly"
	ReportYearly  ReportKind = "yearly"
)

// Report is a fully rendered report. Lines[0] is the title.
// Callers must treat Lines as read-only.
type Report struct {
	Kind    ReportKind
	Range   TimeRange
	Summary PeriodSummary
	Lines   []string
}

func (r Report) Title() string {
	if len(r.Lines) == 0 {
		return ""
	}
	return r.Lines[0]
}
