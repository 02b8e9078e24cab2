// Package gtfs declares the schemas of the supported transit dataset files.
package gtfs

import (
	"sync"

	"github.com/leapstack-labs/feedlint/pkg/fieldtype"
	"github.com/leapstack-labs/feedlint/pkg/schema"
)

// File names.
const (
	AgencyFile        = "agency.txt"
	StopsFile         = "stops.txt"
	LevelsFile        = "levels.txt"
	RoutesFile        = "routes.txt"
	TripsFile         = "trips.txt"
	StopTimesFile     = "stop_times.txt"
	CalendarFile      = "calendar.txt"
	CalendarDatesFile = "calendar_dates.txt"
)

// Location types of stops.txt.
const (
	LocationStop = iota
	LocationStation
	LocationEntrance
	LocationGenericNode
	LocationBoardingArea
)

func ref(table, field string) *schema.Reference {
	return &schema.Reference{Table: table, Field: field}
}

// Agency is agency.txt.
var Agency = schema.TableSchema{
	FileName: AgencyFile,
	Required: true,
	Fields: []schema.FieldSpec{
		{Name: "agency_id", Type: fieldtype.ID, PrimaryKey: true},
		{Name: "agency_name", Type: fieldtype.Text, Required: true, MixedCase: true},
		{Name: "agency_url", Type: fieldtype.URL, Required: true},
		{Name: "agency_timezone", Type: fieldtype.Timezone, Required: true},
		{Name: "agency_lang", Type: fieldtype.Language},
		{Name: "agency_phone", Type: fieldtype.Phone},
		{Name: "agency_fare_url", Type: fieldtype.URL},
		{Name: "agency_email", Type: fieldtype.Email},
	},
}

// Stops is stops.txt.
var Stops = schema.TableSchema{
	FileName: StopsFile,
	Required: true,
	Fields: []schema.FieldSpec{
		{Name: "stop_id", Type: fieldtype.ID, PrimaryKey: true},
		{Name: "stop_code", Type: fieldtype.Text},
		{Name: "stop_name", Type: fieldtype.Text, ConditionallyRequired: true, MixedCase: true},
		{Name: "tts_stop_name", Type: fieldtype.Text},
		{Name: "stop_desc", Type: fieldtype.Text, MixedCase: true},
		{Name: "stop_lat", Type: fieldtype.Latitude, ConditionallyRequired: true},
		{Name: "stop_lon", Type: fieldtype.Longitude, ConditionallyRequired: true},
		{Name: "zone_id", Type: fieldtype.ID, Indexed: true, ConditionallyRequired: true},
		{Name: "stop_url", Type: fieldtype.URL},
		{Name: "location_type", Type: fieldtype.Enum, EnumValues: []int{
			LocationStop, LocationStation, LocationEntrance, LocationGenericNode, LocationBoardingArea,
		}},
		{Name: "parent_station", Type: fieldtype.ID, Indexed: true, ConditionallyRequired: true, ForeignKey: ref(StopsFile, "stop_id")},
		{Name: "stop_timezone", Type: fieldtype.Timezone},
		{Name: "wheelchair_boarding", Type: fieldtype.Enum, EnumValues: []int{0, 1, 2}},
		{Name: "level_id", Type: fieldtype.ID, ForeignKey: ref(LevelsFile, "level_id")},
		{Name: "platform_code", Type: fieldtype.Text},
	},
}

// Levels is levels.txt.
var Levels = schema.TableSchema{
	FileName: LevelsFile,
	Fields: []schema.FieldSpec{
		{Name: "level_id", Type: fieldtype.ID, PrimaryKey: true},
		{Name: "level_index", Type: fieldtype.Float, Required: true},
		{Name: "level_name", Type: fieldtype.Text},
	},
}

// Routes is routes.txt.
var Routes = schema.TableSchema{
	FileName: RoutesFile,
	Required: true,
	Fields: []schema.FieldSpec{
		{Name: "route_id", Type: fieldtype.ID, PrimaryKey: true},
		{Name: "agency_id", Type: fieldtype.ID, ConditionallyRequired: true, ForeignKey: ref(AgencyFile, "agency_id")},
		{Name: "route_short_name", Type: fieldtype.Text, ConditionallyRequired: true},
		{Name: "route_long_name", Type: fieldtype.Text, ConditionallyRequired: true, MixedCase: true},
		{Name: "route_desc", Type: fieldtype.Text},
		{Name: "route_type", Type: fieldtype.Enum, Required: true},
		{Name: "route_url", Type: fieldtype.URL},
		{Name: "route_color", Type: fieldtype.Color},
		{Name: "route_text_color", Type: fieldtype.Color},
		{Name: "route_sort_order", Type: fieldtype.Integer},
	},
}

// Trips is trips.txt.
var Trips = schema.TableSchema{
	FileName: TripsFile,
	Required: true,
	Fields: []schema.FieldSpec{
		{Name: "route_id", Type: fieldtype.ID, Required: true, Indexed: true, ForeignKey: ref(RoutesFile, "route_id")},
		{Name: "service_id", Type: fieldtype.ID, Required: true, Indexed: true},
		{Name: "trip_id", Type: fieldtype.ID, PrimaryKey: true},
		{Name: "trip_headsign", Type: fieldtype.Text},
		{Name: "trip_short_name", Type: fieldtype.Text},
		{Name: "direction_id", Type: fieldtype.Enum, EnumValues: []int{0, 1}},
		{Name: "block_id", Type: fieldtype.ID, Indexed: true},
		{Name: "shape_id", Type: fieldtype.ID, Indexed: true},
		{Name: "wheelchair_accessible", Type: fieldtype.Enum, EnumValues: []int{0, 1, 2}},
		{Name: "bikes_allowed", Type: fieldtype.Enum, EnumValues: []int{0, 1, 2}},
	},
}

// StopTimes is stop_times.txt. Rows are not assumed to be ordered by
// stop_sequence.
var StopTimes = schema.TableSchema{
	FileName: StopTimesFile,
	Required: true,
	Fields: []schema.FieldSpec{
		{Name: "trip_id", Type: fieldtype.ID, Required: true, Indexed: true, ForeignKey: ref(TripsFile, "trip_id")},
		{Name: "arrival_time", Type: fieldtype.Time, ConditionallyRequired: true},
		{Name: "departure_time", Type: fieldtype.Time, ConditionallyRequired: true},
		{Name: "stop_id", Type: fieldtype.ID, Required: true, Indexed: true, ForeignKey: ref(StopsFile, "stop_id")},
		{Name: "stop_sequence", Type: fieldtype.Integer, Required: true},
		{Name: "stop_headsign", Type: fieldtype.Text},
		{Name: "pickup_type", Type: fieldtype.Enum, EnumValues: []int{0, 1, 2, 3}},
		{Name: "drop_off_type", Type: fieldtype.Enum, EnumValues: []int{0, 1, 2, 3}},
		{Name: "shape_dist_traveled", Type: fieldtype.Float},
		{Name: "timepoint", Type: fieldtype.Enum, EnumValues: []int{0, 1}},
	},
}

// Calendar is calendar.txt.
var Calendar = schema.TableSchema{
	FileName: CalendarFile,
	Fields: []schema.FieldSpec{
		{Name: "service_id", Type: fieldtype.ID, PrimaryKey: true},
		{Name: "monday", Type: fieldtype.Enum, Required: true, EnumValues: []int{0, 1}},
		{Name: "tuesday", Type: fieldtype.Enum, Required: true, EnumValues: []int{0, 1}},
		{Name: "wednesday", Type: fieldtype.Enum, Required: true, EnumValues: []int{0, 1}},
		{Name: "thursday", Type: fieldtype.Enum, Required: true, EnumValues: []int{0, 1}},
		{Name: "friday", Type: fieldtype.Enum, Required: true, EnumValues: []int{0, 1}},
		{Name: "saturday", Type: fieldtype.Enum, Required: true, EnumValues: []int{0, 1}},
		{Name: "sunday", Type: fieldtype.Enum, Required: true, EnumValues: []int{0, 1}},
		{Name: "start_date", Type: fieldtype.Date, Required: true},
		{Name: "end_date", Type: fieldtype.Date, Required: true},
	},
}

// CalendarDates is calendar_dates.txt.
var CalendarDates = schema.TableSchema{
	FileName: CalendarDatesFile,
	Fields: []schema.FieldSpec{
		{Name: "service_id", Type: fieldtype.ID, Required: true, Indexed: true},
		{Name: "date", Type: fieldtype.Date, Required: true},
		{Name: "exception_type", Type: fieldtype.Enum, Required: true, EnumValues: []int{1, 2}},
	},
}

// Schemas returns every declared schema.
func Schemas() []schema.TableSchema {
	return []schema.TableSchema{Agency, Stops, Levels, Routes, Trips, StopTimes, Calendar, CalendarDates}
}

var registry = sync.OnceValues(func() (*schema.Registry, error) {
	return schema.NewRegistry(Schemas()...)
})

// Registry returns the registry of all declared schemas, built once.
func Registry() (*schema.Registry, error) {
	return registry()
}
