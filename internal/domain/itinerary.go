package domain

import "cloud.google.com/go/civil"

// ItineraryDay is one emitted entry of a trip's day-by-day itinerary. Days
// with nothing to show are not emitted; they are folded into the most recent
// entry and surface only through CollapsedDays between adjacent entries.
//
// ItineraryDay values are derived fresh on every request and never persisted.
type ItineraryDay struct {
	Day civil.Date

	// Transportation holds the items relevant to this day: for flights and
	// trains, items with at least one leg departing this day (legs belong to
	// their departure day, even overnight ones); for generic items, items
	// whose inclusive date span contains this day.
	Transportation []Transportation

	// Activities holds the activities dated exactly on this day.
	Activities []Activity

	// Accommodation is the stay covering this day, or nil. A stay covers
	// arrival day through the day before departure.
	Accommodation *Accommodation
}

// HasOvernightTransportation reports whether any of the day's transportation
// items crosses into a later calendar day. Renderers draw such items as a
// transition into the next entry and suppress the accommodation separator.
func (d ItineraryDay) HasOvernightTransportation() bool {
	for _, t := range d.Transportation {
		if t.OvernightOn(d.Day) {
			return true
		}
	}
	return false
}

// CollapsedDays returns the number of uneventful days hidden between two
// adjacent emitted entries, zero when the entries are on consecutive days.
func CollapsedDays(prev, next civil.Date) int {
	n := next.DaysSince(prev) - 2
	if n < 0 {
		return 0
	}
	return n
}

// BuildItinerary folds the trip's calendar-day range over its activities,
// accommodation stays and transportation into an ordered sequence of
// ItineraryDay entries.
//
// A day is emitted when any of the following holds; otherwise it is collapsed
// into the previously emitted entry:
//   - it is the first or last day of the trip
//   - it has transportation or activities
//   - its covering accommodation differs from the previous entry's
//   - a transportation item that departed on an earlier day arrives today
//
// The last rule keeps an overnight arrival visible even when the arrival day
// is otherwise uneventful, and it considers every item in scope rather than
// only the previous entry's, so arrivals are not lost when the departure day
// itself was collapsed.
//
// The fold is pure and single-pass: inputs are read-only, the result is
// independently owned, and an inverted date range yields no entries.
func BuildItinerary(trip Trip, activities []Activity, stays []Accommodation, transportation []Transportation) []ItineraryDay {
	if trip.EndDate.Before(trip.StartDate) {
		return nil
	}

	var out []ItineraryDay
	for d := trip.StartDate; !d.After(trip.EndDate); d = d.AddDays(1) {
		dayTransportation := transportationOn(transportation, d)
		dayActivities := activitiesOn(activities, d)
		stay := coveringStay(stays, d)

		emit := d == trip.EndDate ||
			len(out) == 0 ||
			len(dayTransportation) > 0 ||
			len(dayActivities) > 0 ||
			!sameStay(stay, out[len(out)-1].Accommodation) ||
			overnightArrivalOn(transportation, d)

		if emit {
			out = append(out, ItineraryDay{
				Day:            d,
				Transportation: dayTransportation,
				Activities:     dayActivities,
				Accommodation:  stay,
			})
		}
	}
	return out
}

func activitiesOn(activities []Activity, d civil.Date) []Activity {
	var out []Activity
	for _, a := range activities {
		if a.Date == d {
			out = append(out, a)
		}
	}
	return out
}

func transportationOn(items []Transportation, d civil.Date) []Transportation {
	var out []Transportation
	for _, t := range items {
		if t.RelevantOn(d) {
			out = append(out, t)
		}
	}
	return out
}

// coveringStay returns the first stay covering d. Overlapping stays are a
// data-quality issue prevented upstream; with sorted input the earliest
// arrival wins deterministically.
func coveringStay(stays []Accommodation, d civil.Date) *Accommodation {
	for i := range stays {
		if stays[i].Covers(d) {
			return &stays[i]
		}
	}
	return nil
}

func sameStay(a, b *Accommodation) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.ID == b.ID
}

// overnightArrivalOn reports whether any item that departed before d arrives
// exactly on d. Items departing on d are already relevant to d and need no
// extra trigger.
func overnightArrivalOn(items []Transportation, d civil.Date) bool {
	for _, t := range items {
		dep, ok := t.DepartureTime()
		if !ok {
			continue
		}
		if dep.Date.Before(d) && t.ArrivesOn(d) {
			return true
		}
	}
	return false
}
