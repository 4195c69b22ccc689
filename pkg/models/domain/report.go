package domain

// Report represents a rendered analysis of one pipeline run
type Report struct {
	Title       string
	Period      TimePeriod
	Sections    []ReportSection
	TotalAmount string
	Currency    string
}

// TimePeriod represents the months covered by the report
type TimePeriod struct {
	Start    MonthBucket
	End      MonthBucket
	Duration int // in months
}

// ReportSection represents a logical section in the report
type ReportSection struct {
	Title   string
	Summary map[string]any
	Details []ReportDetail
}

// ReportDetail represents one table row within a section
type ReportDetail struct {
	Name        string
	Value       any
	Unit        string
	Description string
}
