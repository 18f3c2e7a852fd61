package domain

import (
	"cloud.google.com/go/civil"

	"github.com/guregu/null/v6"
)

// Trip is a journey with an inclusive calendar date range.
// Invariant: StartDate <= EndDate (enforced at the application layer).
type Trip struct {
	ID      TripID
	OwnerID UserID

	Name      string
	StartDate civil.Date
	EndDate   civil.Date

	Description null.String
	ImageURL    null.String
}

// Days returns the number of calendar days the trip spans, inclusive of both
// endpoints. Zero if the range is inverted.
func (t Trip) Days() int {
	if t.EndDate.Before(t.StartDate) {
		return 0
	}
	return t.EndDate.DaysSince(t.StartDate) + 1
}

// ContainsDate reports whether d falls within [StartDate, EndDate].
func (t Trip) ContainsDate(d civil.Date) bool {
	return !d.Before(t.StartDate) && !d.After(t.EndDate)
}
