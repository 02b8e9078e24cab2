package rules

import (
	"github.com/leapstack-labs/feedlint/pkg/fieldtype"
	"github.com/leapstack-labs/feedlint/pkg/gtfs"
	"github.com/leapstack-labs/feedlint/pkg/notice"
	"github.com/leapstack-labs/feedlint/pkg/table"
	"github.com/leapstack-labs/feedlint/pkg/validator"
)

const (
	arrivalTime   = "arrival_time"
	departureTime = "departure_time"
	stopSequence  = "stop_sequence"
	tripID        = "trip_id"
)

var (
	// StopTimeWithOnlyArrivalOrDepartureTime is raised when a stop time
	// specifies one of the two times but not the other.
	StopTimeWithOnlyArrivalOrDepartureTime = notice.Define(notice.Descriptor{
		Name:        "StopTimeWithOnlyArrivalOrDepartureTimeNotice",
		Severity:    notice.SeverityError,
		Description: "Missing `stop_times.arrival_time` or `stop_times.departure_time`. Either both or neither must be given.",
		Fields: []notice.FieldDoc{
			{Name: "csvRowNumber", Description: "The row number of the faulty record."},
			{Name: "tripId", Description: "The faulty record's `stop_times.trip_id`."},
			{Name: "stopSequence", Description: "The faulty record's `stop_times.stop_sequence`."},
			{Name: "specifiedField", Description: "Either `arrival_time` or `departure_time`, whichever is given."},
			{Name: "missingField", Description: "Either `arrival_time` or `departure_time`, whichever is missing."},
		},
		Files: []string{gtfs.StopTimesFile},
	})

	// StopTimeWithArrivalBeforePreviousDepartureTime is raised when a trip
	// arrives at a stop before it left the previous timed stop.
	StopTimeWithArrivalBeforePreviousDepartureTime = notice.Define(notice.Descriptor{
		Name:        "StopTimeWithArrivalBeforePreviousDepartureTimeNotice",
		Severity:    notice.SeverityError,
		Description: "Backwards time travel between stops in `stop_times.txt`: the arrival time is earlier than the departure time at the previous stop of the same trip.",
		Fields: []notice.FieldDoc{
			{Name: "csvRowNumber", Description: "The row number of the faulty record."},
			{Name: "prevCsvRowNumber", Description: "The row of the previous stop time with a departure time."},
			{Name: "tripId", Description: "The `stop_times.trip_id` of both records."},
			{Name: "arrivalTime", Description: "The arrival time of the faulty record."},
			{Name: "departureTime", Description: "The departure time of the previous stop time."},
		},
		Files: []string{gtfs.StopTimesFile},
		URLs: []notice.URLRef{{
			Label: "Original Python validator implementation",
			URL:   "https://github.com/google/transitfeed",
		}},
	})
)

func init() {
	validator.RegisterDef(validator.RuleDef{
		Name:        "stop_time_arrival_and_departure_time",
		Description: "Stop times give both or neither time, and never arrive before the previous departure",
		Tables:      []string{gtfs.StopTimesFile},
		Notices: []*notice.Kind{
			StopTimeWithOnlyArrivalOrDepartureTime,
			StopTimeWithArrivalBeforePreviousDepartureTime,
		},
		Check: checkStopTimeArrivalAndDeparture,
	})
}

// checkStopTimeArrivalAndDeparture visits each trip's stop times in
// stop_sequence order. The previous departure only advances on rows that
// have a departure time, so untimed stops between two timed stops are
// transparent and each offending row yields at most one ordering notice.
func checkStopTimeArrivalAndDeparture(feed *table.Feed, sink notice.Sink) {
	stopTimes := feed.Table(gtfs.StopTimesFile)
	if stopTimes == nil {
		return
	}
	groups := stopTimes.SortedGroups(tripID, stopSequence)

	groups.Each(func(trip fieldtype.Value, rows []*table.Entity) {
		var prev *table.Entity
		var prevDeparture fieldtype.ServiceTime

		for _, st := range rows {
			arrival, hasArrival := st.Time(arrivalTime)
			departure, hasDeparture := st.Time(departureTime)

			if hasArrival != hasDeparture {
				specified, missing := arrivalTime, departureTime
				if hasDeparture {
					specified, missing = departureTime, arrivalTime
				}
				seq, _ := st.Int(stopSequence)
				sink.Add(StopTimeWithOnlyArrivalOrDepartureTime.New(
					notice.F("csvRowNumber", st.Row()),
					notice.F("tripId", fieldtype.Format(trip)),
					notice.F("stopSequence", seq),
					notice.F("specifiedField", specified),
					notice.F("missingField", missing)))
			}

			if hasArrival && prev != nil && arrival.Before(prevDeparture) {
				sink.Add(StopTimeWithArrivalBeforePreviousDepartureTime.New(
					notice.F("csvRowNumber", st.Row()),
					notice.F("prevCsvRowNumber", prev.Row()),
					notice.F("tripId", fieldtype.Format(trip)),
					notice.F("arrivalTime", arrival),
					notice.F("departureTime", prevDeparture)))
			}

			if hasDeparture {
				prev = st
				prevDeparture = departure
			}
		}
	})
}
