package rules

import (
	"github.com/leapstack-labs/feedlint/pkg/gtfs"
	"github.com/leapstack-labs/feedlint/pkg/notice"
	"github.com/leapstack-labs/feedlint/pkg/table"
	"github.com/leapstack-labs/feedlint/pkg/validator"
)

// MissingCalendarAndCalendarDateFiles is raised when the dataset defines no
// service days at all.
var MissingCalendarAndCalendarDateFiles = notice.Define(notice.Descriptor{
	Name:        "MissingCalendarAndCalendarDateFilesNotice",
	Severity:    notice.SeverityError,
	Description: "Both `calendar.txt` and `calendar_dates.txt` are missing. At least one of them is required.",
	Files:       []string{gtfs.CalendarFile, gtfs.CalendarDatesFile},
	Sections:    []string{notice.SectionDatasetFiles},
})

func init() {
	validator.RegisterDef(validator.RuleDef{
		Name:        "calendar_presence",
		Description: "At least one of calendar.txt and calendar_dates.txt is present",
		Tables:      []string{gtfs.CalendarFile, gtfs.CalendarDatesFile},
		Notices:     []*notice.Kind{MissingCalendarAndCalendarDateFiles},
		Check: func(feed *table.Feed, sink notice.Sink) {
			if feed.Missing(gtfs.CalendarFile) && feed.Missing(gtfs.CalendarDatesFile) {
				sink.Add(MissingCalendarAndCalendarDateFiles.New())
			}
		},
	})
}
