package domain

import (
	"cloud.google.com/go/civil"

	"github.com/guregu/null/v6"
)

// TransportationKind discriminates the closed set of transportation variants.
// A Transportation value carries exactly one detail payload matching its kind.
type TransportationKind string

const (
	KindFlight  TransportationKind = "FLIGHT"
	KindTrain   TransportationKind = "TRAIN"
	KindGeneric TransportationKind = "GENERIC"
)

// GenericMode tags a generic transportation item with its means of travel.
type GenericMode string

const (
	ModeBus   GenericMode = "BUS"
	ModeFerry GenericMode = "FERRY"
	ModeBoat  GenericMode = "BOAT"
	ModeBike  GenericMode = "BIKE"
	ModeCar   GenericMode = "CAR"
	ModeHike  GenericMode = "HIKE"
	ModeOther GenericMode = "OTHER"
)

type Airport struct {
	IATA         string
	Name         string
	Municipality string
	Coordinates  *Coordinates
}

type FlightLeg struct {
	Origin       Airport
	Destination  Airport
	Airline      string
	FlightNumber string

	Departure       civil.DateTime
	Arrival         civil.DateTime
	DurationMinutes int32

	Aircraft null.String
}

// BookingRef is an airline booking reference (PNR).
type BookingRef struct {
	Airline   string
	Reference string
}

type FlightDetail struct {
	Legs        []FlightLeg
	BookingRefs []BookingRef
}

type TrainStation struct {
	ID          string
	Name        string
	Coordinates *Coordinates
}

type TrainLeg struct {
	Origin      TrainStation
	Destination TrainStation

	Departure       civil.DateTime
	Arrival         civil.DateTime
	DurationMinutes int32

	LineName     string
	OperatorName string
}

type TrainDetail struct {
	Legs []TrainLeg
}

// GenericDetail is a single-segment journey by bus, ferry, boat, bike, car,
// hike or other means.
type GenericDetail struct {
	Name string
	Mode GenericMode

	Departure civil.DateTime
	Arrival   civil.DateTime

	OriginAddress      null.String
	DestinationAddress null.String
	Origin             *Coordinates
	Destination        *Coordinates
}

// Transportation is a tagged sum over flight, train and generic journeys.
// Exactly the detail field matching Kind is non-nil; call sites switch on
// Kind exhaustively instead of inspecting the payload pointers.
type Transportation struct {
	ID     TransportationID
	TripID TripID

	Kind  TransportationKind
	Price null.Int32

	Flight  *FlightDetail
	Train   *TrainDetail
	Generic *GenericDetail
}

// DepartureTime returns the overall departure instant (first leg for
// multi-leg kinds). ok is false for a malformed item with no legs.
func (t Transportation) DepartureTime() (civil.DateTime, bool) {
	switch t.Kind {
	case KindFlight:
		if t.Flight == nil || len(t.Flight.Legs) == 0 {
			return civil.DateTime{}, false
		}
		return t.Flight.Legs[0].Departure, true
	case KindTrain:
		if t.Train == nil || len(t.Train.Legs) == 0 {
			return civil.DateTime{}, false
		}
		return t.Train.Legs[0].Departure, true
	case KindGeneric:
		if t.Generic == nil {
			return civil.DateTime{}, false
		}
		return t.Generic.Departure, true
	}
	return civil.DateTime{}, false
}

// ArrivalTime returns the overall arrival instant (last leg for multi-leg
// kinds). ok is false for a malformed item with no legs.
func (t Transportation) ArrivalTime() (civil.DateTime, bool) {
	switch t.Kind {
	case KindFlight:
		if t.Flight == nil || len(t.Flight.Legs) == 0 {
			return civil.DateTime{}, false
		}
		return t.Flight.Legs[len(t.Flight.Legs)-1].Arrival, true
	case KindTrain:
		if t.Train == nil || len(t.Train.Legs) == 0 {
			return civil.DateTime{}, false
		}
		return t.Train.Legs[len(t.Train.Legs)-1].Arrival, true
	case KindGeneric:
		if t.Generic == nil {
			return civil.DateTime{}, false
		}
		return t.Generic.Arrival, true
	}
	return civil.DateTime{}, false
}

// RelevantOn reports whether the item belongs on day d's itinerary entry.
// Multi-leg kinds are attributed to the departure day of each leg, never the
// arrival day. Generic items cover every day of their inclusive span.
func (t Transportation) RelevantOn(d civil.Date) bool {
	switch t.Kind {
	case KindFlight:
		if t.Flight == nil {
			return false
		}
		for _, leg := range t.Flight.Legs {
			if leg.Departure.Date == d {
				return true
			}
		}
		return false
	case KindTrain:
		if t.Train == nil {
			return false
		}
		for _, leg := range t.Train.Legs {
			if leg.Departure.Date == d {
				return true
			}
		}
		return false
	case KindGeneric:
		if t.Generic == nil {
			return false
		}
		return !d.Before(t.Generic.Departure.Date) && !d.After(t.Generic.Arrival.Date)
	}
	return false
}

// ArrivesOn reports whether the item's overall arrival falls on day d.
func (t Transportation) ArrivesOn(d civil.Date) bool {
	arr, ok := t.ArrivalTime()
	return ok && arr.Date == d
}

// OvernightOn reports whether the item departs on day d but arrives on a
// different calendar day, i.e. it is rendered as a transition into the next
// day rather than a same-day entry.
func (t Transportation) OvernightOn(d civil.Date) bool {
	switch t.Kind {
	case KindFlight:
		if t.Flight == nil {
			return false
		}
		for _, leg := range t.Flight.Legs {
			if leg.Departure.Date == d && leg.Arrival.Date != d {
				return true
			}
		}
		return false
	case KindTrain:
		if t.Train == nil {
			return false
		}
		for _, leg := range t.Train.Legs {
			if leg.Departure.Date == d && leg.Arrival.Date != d {
				return true
			}
		}
		return false
	case KindGeneric:
		if t.Generic == nil {
			return false
		}
		return t.Generic.Arrival.Date != d
	}
	return false
}
