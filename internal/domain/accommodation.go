package domain

import (
	"cloud.google.com/go/civil"

	"github.com/guregu/null/v6"
)

// Accommodation is a stay spanning a contiguous date range.
// Invariant: DepartureDate > ArrivalDate (enforced at the application layer).
type Accommodation struct {
	ID     AccommodationID
	TripID TripID

	Name          string
	ArrivalDate   civil.Date
	DepartureDate civil.Date

	CheckInTime  *civil.Time
	CheckOutTime *civil.Time

	Description null.String
	Address     null.String
	Coordinates *Coordinates
	Price       null.Int32
}

// Covers reports whether the stay covers calendar day d. The departure day
// itself is not covered: the traveler checks out that morning.
func (a Accommodation) Covers(d civil.Date) bool {
	return !d.Before(a.ArrivalDate) && d.Before(a.DepartureDate)
}
