package domain

import (
	"cloud.google.com/go/civil"

	"github.com/guregu/null/v6"
)

// Activity is a point-in-time event on a single trip day.
type Activity struct {
	ID     ActivityID
	TripID TripID

	Name string
	Date civil.Date
	// Time is the optional time of day; nil means "sometime that day".
	Time *civil.Time

	Description null.String
	Address     null.String
	Coordinates *Coordinates
	Price       null.Int32
}
