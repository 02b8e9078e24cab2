package rules

import (
	"slices"

	"github.com/leapstack-labs/feedlint/pkg/gtfs"
	"github.com/leapstack-labs/feedlint/pkg/notice"
	"github.com/leapstack-labs/feedlint/pkg/table"
	"github.com/leapstack-labs/feedlint/pkg/validator"
)

var (
	// MissingConditionallyRequiredField is raised when a stop lacks a field
	// its location type makes mandatory.
	MissingConditionallyRequiredField = notice.Define(notice.Descriptor{
		Name:        "MissingConditionallyRequiredFieldNotice",
		Severity:    notice.SeverityError,
		Description: "A conditionally required field is missing for the record's `location_type`.",
		Fields: []notice.FieldDoc{
			{Name: "filename", Description: "The name of the faulty file."},
			{Name: "csvRowNumber", Description: "The row number of the faulty record."},
			{Name: "fieldName", Description: "The name of the missing field."},
			{Name: "locationType", Description: "The record's `location_type`, 0 when not given."},
		},
		Files: []string{gtfs.StopsFile},
	})

	// ForbiddenParentStation is raised when a station names a parent.
	ForbiddenParentStation = notice.Define(notice.Descriptor{
		Name:        "ForbiddenParentStationNotice",
		Severity:    notice.SeverityError,
		Description: "A station (`location_type` 1) must not have a `parent_station`.",
		Fields: []notice.FieldDoc{
			{Name: "csvRowNumber", Description: "The row number of the faulty record."},
			{Name: "stopId", Description: "The faulty record's `stops.stop_id`."},
			{Name: "parentStation", Description: "The faulty record's `stops.parent_station`."},
		},
		Files: []string{gtfs.StopsFile},
	})
)

var locationRequirements = []struct {
	field string
	types []int
}{
	{"stop_name", []int{gtfs.LocationStop, gtfs.LocationStation, gtfs.LocationEntrance}},
	{"stop_lat", []int{gtfs.LocationStop, gtfs.LocationStation, gtfs.LocationEntrance}},
	{"stop_lon", []int{gtfs.LocationStop, gtfs.LocationStation, gtfs.LocationEntrance}},
	{"parent_station", []int{gtfs.LocationEntrance, gtfs.LocationGenericNode, gtfs.LocationBoardingArea}},
}

func init() {
	validator.RegisterDef(validator.RuleDef{
		Name:        "stop_location_conditional_requirements",
		Description: "Stop fields required or forbidden depending on location_type",
		Tables:      []string{gtfs.StopsFile},
		Notices:     []*notice.Kind{MissingConditionallyRequiredField, ForbiddenParentStation},
		Check:       checkStopLocations,
	})
}

func checkStopLocations(feed *table.Feed, sink notice.Sink) {
	stops := feed.Table(gtfs.StopsFile)
	if stops == nil {
		return
	}

	for _, stop := range stops.All() {
		locType, ok := stop.Int("location_type")
		if !ok {
			locType = gtfs.LocationStop
		}

		for _, req := range locationRequirements {
			if slices.Contains(req.types, locType) && !stop.Has(req.field) {
				sink.Add(MissingConditionallyRequiredField.New(
					notice.F("filename", gtfs.StopsFile),
					notice.F("csvRowNumber", stop.Row()),
					notice.F("fieldName", req.field),
					notice.F("locationType", locType)))
			}
		}

		if locType == gtfs.LocationStation && stop.Has("parent_station") {
			sink.Add(ForbiddenParentStation.New(
				notice.F("csvRowNumber", stop.Row()),
				notice.F("stopId", stop.String("stop_id")),
				notice.F("parentStation", stop.String("parent_station"))))
		}
	}
}
