package httpapi

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"cloud.google.com/go/civil"
	"github.com/guregu/null/v6"
	"github.com/oapi-codegen/nullable"
	openapi_types "github.com/oapi-codegen/runtime/types"

	"github.com/wayfarer-travel/wayfarer-api/internal/app/patch"
	"github.com/wayfarer-travel/wayfarer-api/internal/domain"
)

// Wire shapes. Plain calendar dates travel as openapi_types.Date
// ("2006-01-02"); wall-clock timestamps and times of day use the civil types,
// which marshal to RFC 3339 shapes without a zone. PATCH bodies use
// nullable.Nullable so omitted and null fields stay distinguishable.

type coordinatesDTO struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

type userDTO struct {
	ID          string    `json:"id"`
	Subject     string    `json:"subject"`
	DisplayName string    `json:"displayName,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
}

type tripDTO struct {
	ID          string             `json:"id"`
	Name        string             `json:"name"`
	StartDate   openapi_types.Date `json:"startDate"`
	EndDate     openapi_types.Date `json:"endDate"`
	Days        int                `json:"days"`
	Description *string            `json:"description,omitempty"`
	ImageURL    *string            `json:"imageUrl,omitempty"`
}

type createTripRequest struct {
	Name        string                    `json:"name"`
	StartDate   openapi_types.Date        `json:"startDate"`
	EndDate     openapi_types.Date        `json:"endDate"`
	Description nullable.Nullable[string] `json:"description,omitempty"`
	ImageURL    nullable.Nullable[string] `json:"imageUrl,omitempty"`
}

type updateTripRequest struct {
	Name        nullable.Nullable[string]             `json:"name,omitempty"`
	StartDate   nullable.Nullable[openapi_types.Date] `json:"startDate,omitempty"`
	EndDate     nullable.Nullable[openapi_types.Date] `json:"endDate,omitempty"`
	Description nullable.Nullable[string]             `json:"description,omitempty"`
	ImageURL    nullable.Nullable[string]             `json:"imageUrl,omitempty"`
}

type activityDTO struct {
	ID          string             `json:"id"`
	TripID      string             `json:"tripId"`
	Name        string             `json:"name"`
	Date        openapi_types.Date `json:"date"`
	Time        *civil.Time        `json:"time,omitempty"`
	Description *string            `json:"description,omitempty"`
	Address     *string            `json:"address,omitempty"`
	Coordinates *coordinatesDTO    `json:"coordinates,omitempty"`
	Price       *int32             `json:"price,omitempty"`
}

type createActivityRequest struct {
	Name        string                            `json:"name"`
	Date        openapi_types.Date                `json:"date"`
	Time        nullable.Nullable[civil.Time]     `json:"time,omitempty"`
	Description nullable.Nullable[string]         `json:"description,omitempty"`
	Address     nullable.Nullable[string]         `json:"address,omitempty"`
	Coordinates nullable.Nullable[coordinatesDTO] `json:"coordinates,omitempty"`
	Price       nullable.Nullable[int32]          `json:"price,omitempty"`
}

type updateActivityRequest struct {
	Name        nullable.Nullable[string]             `json:"name,omitempty"`
	Date        nullable.Nullable[openapi_types.Date] `json:"date,omitempty"`
	Time        nullable.Nullable[civil.Time]         `json:"time,omitempty"`
	Description nullable.Nullable[string]             `json:"description,omitempty"`
	Address     nullable.Nullable[string]             `json:"address,omitempty"`
	Coordinates nullable.Nullable[coordinatesDTO]     `json:"coordinates,omitempty"`
	Price       nullable.Nullable[int32]              `json:"price,omitempty"`
}

type accommodationDTO struct {
	ID            string             `json:"id"`
	TripID        string             `json:"tripId"`
	Name          string             `json:"name"`
	ArrivalDate   openapi_types.Date `json:"arrivalDate"`
	DepartureDate openapi_types.Date `json:"departureDate"`
	CheckInTime   *civil.Time        `json:"checkInTime,omitempty"`
	CheckOutTime  *civil.Time        `json:"checkOutTime,omitempty"`
	Description   *string            `json:"description,omitempty"`
	Address       *string            `json:"address,omitempty"`
	Coordinates   *coordinatesDTO    `json:"coordinates,omitempty"`
	Price         *int32             `json:"price,omitempty"`
}

type createAccommodationRequest struct {
	Name          string                            `json:"name"`
	ArrivalDate   openapi_types.Date                `json:"arrivalDate"`
	DepartureDate openapi_types.Date                `json:"departureDate"`
	CheckInTime   nullable.Nullable[civil.Time]     `json:"checkInTime,omitempty"`
	CheckOutTime  nullable.Nullable[civil.Time]     `json:"checkOutTime,omitempty"`
	Description   nullable.Nullable[string]         `json:"description,omitempty"`
	Address       nullable.Nullable[string]         `json:"address,omitempty"`
	Coordinates   nullable.Nullable[coordinatesDTO] `json:"coordinates,omitempty"`
	Price         nullable.Nullable[int32]          `json:"price,omitempty"`
}

type updateAccommodationRequest struct {
	Name          nullable.Nullable[string]             `json:"name,omitempty"`
	ArrivalDate   nullable.Nullable[openapi_types.Date] `json:"arrivalDate,omitempty"`
	DepartureDate nullable.Nullable[openapi_types.Date] `json:"departureDate,omitempty"`
	CheckInTime   nullable.Nullable[civil.Time]         `json:"checkInTime,omitempty"`
	CheckOutTime  nullable.Nullable[civil.Time]         `json:"checkOutTime,omitempty"`
	Description   nullable.Nullable[string]             `json:"description,omitempty"`
	Address       nullable.Nullable[string]             `json:"address,omitempty"`
	Coordinates   nullable.Nullable[coordinatesDTO]     `json:"coordinates,omitempty"`
	Price         nullable.Nullable[int32]              `json:"price,omitempty"`
}

type airportDTO struct {
	IATA         string          `json:"iata"`
	Name         string          `json:"name,omitempty"`
	Municipality string          `json:"municipality,omitempty"`
	Coordinates  *coordinatesDTO `json:"coordinates,omitempty"`
}

type flightLegDTO struct {
	Origin          airportDTO     `json:"origin"`
	Destination     airportDTO     `json:"destination"`
	Airline         string         `json:"airline,omitempty"`
	FlightNumber    string         `json:"flightNumber,omitempty"`
	Departure       civil.DateTime `json:"departure"`
	Arrival         civil.DateTime `json:"arrival"`
	DurationMinutes int32          `json:"durationMinutes,omitempty"`
	Aircraft        *string        `json:"aircraft,omitempty"`
}

type bookingRefDTO struct {
	Airline   string `json:"airline,omitempty"`
	Reference string `json:"reference"`
}

type flightDetailDTO struct {
	Legs        []flightLegDTO  `json:"legs"`
	BookingRefs []bookingRefDTO `json:"bookingRefs,omitempty"`
}

type trainStationDTO struct {
	ID          string          `json:"id,omitempty"`
	Name        string          `json:"name"`
	Coordinates *coordinatesDTO `json:"coordinates,omitempty"`
}

type trainLegDTO struct {
	Origin          trainStationDTO `json:"origin"`
	Destination     trainStationDTO `json:"destination"`
	Departure       civil.DateTime  `json:"departure"`
	Arrival         civil.DateTime  `json:"arrival"`
	DurationMinutes int32           `json:"durationMinutes,omitempty"`
	LineName        string          `json:"lineName,omitempty"`
	OperatorName    string          `json:"operatorName,omitempty"`
}

type trainDetailDTO struct {
	Legs []trainLegDTO `json:"legs"`
}

type genericDetailDTO struct {
	Name               string          `json:"name"`
	Mode               string          `json:"mode"`
	Departure          civil.DateTime  `json:"departure"`
	Arrival            civil.DateTime  `json:"arrival"`
	OriginAddress      *string         `json:"originAddress,omitempty"`
	DestinationAddress *string         `json:"destinationAddress,omitempty"`
	Origin             *coordinatesDTO `json:"origin,omitempty"`
	Destination        *coordinatesDTO `json:"destination,omitempty"`
}

type transportationDTO struct {
	ID        string            `json:"id"`
	TripID    string            `json:"tripId"`
	Kind      string            `json:"kind"`
	Price     *int32            `json:"price,omitempty"`
	Departure *civil.DateTime   `json:"departure,omitempty"`
	Arrival   *civil.DateTime   `json:"arrival,omitempty"`
	Flight    *flightDetailDTO  `json:"flight,omitempty"`
	Train     *trainDetailDTO   `json:"train,omitempty"`
	Generic   *genericDetailDTO `json:"generic,omitempty"`
}

type createFlightRequest struct {
	Price  nullable.Nullable[int32] `json:"price,omitempty"`
	Flight flightDetailDTO          `json:"flight"`
}

type createTrainRequest struct {
	Price nullable.Nullable[int32] `json:"price,omitempty"`
	Train trainDetailDTO           `json:"train"`
}

type createGenericRequest struct {
	Price   nullable.Nullable[int32] `json:"price,omitempty"`
	Generic genericDetailDTO         `json:"generic"`
}

type attachmentInfoDTO struct {
	ID          string `json:"id"`
	TripID      string `json:"tripId"`
	Name        string `json:"name"`
	ContentType string `json:"contentType"`
	Size        int64  `json:"size"`
}

type itineraryDayDTO struct {
	Date                       openapi_types.Date  `json:"date"`
	CollapsedDaysBefore        int                 `json:"collapsedDaysBefore"`
	HasOvernightTransportation bool                `json:"hasOvernightTransportation"`
	Transportation             []transportationDTO `json:"transportation"`
	Activities                 []activityDTO       `json:"activities"`
	Accommodation              *accommodationDTO   `json:"accommodation,omitempty"`
}

type itineraryResponse struct {
	Trip tripDTO           `json:"trip"`
	Days []itineraryDayDTO `json:"days"`
}

// Conversions.

func wireDate(d civil.Date) openapi_types.Date {
	return openapi_types.Date{Time: d.In(time.UTC)}
}

func civilDate(d openapi_types.Date) civil.Date {
	return civil.DateOf(d.Time)
}

func toCoordinatesDTO(c *domain.Coordinates) *coordinatesDTO {
	if c == nil {
		return nil
	}
	return &coordinatesDTO{Latitude: c.Latitude, Longitude: c.Longitude}
}

func fromCoordinatesDTO(c *coordinatesDTO) *domain.Coordinates {
	if c == nil {
		return nil
	}
	return &domain.Coordinates{Latitude: c.Latitude, Longitude: c.Longitude}
}

func toUserDTO(u domain.User) userDTO {
	return userDTO{
		ID:          string(u.ID),
		Subject:     string(u.Subject),
		DisplayName: u.DisplayName,
		CreatedAt:   u.CreatedAt,
	}
}

func toTripDTO(t domain.Trip) tripDTO {
	return tripDTO{
		ID:          string(t.ID),
		Name:        t.Name,
		StartDate:   wireDate(t.StartDate),
		EndDate:     wireDate(t.EndDate),
		Days:        t.Days(),
		Description: t.Description.Ptr(),
		ImageURL:    t.ImageURL.Ptr(),
	}
}

func toActivityDTO(a domain.Activity) activityDTO {
	return activityDTO{
		ID:          string(a.ID),
		TripID:      string(a.TripID),
		Name:        a.Name,
		Date:        wireDate(a.Date),
		Time:        a.Time,
		Description: a.Description.Ptr(),
		Address:     a.Address.Ptr(),
		Coordinates: toCoordinatesDTO(a.Coordinates),
		Price:       a.Price.Ptr(),
	}
}

func toAccommodationDTO(a domain.Accommodation) accommodationDTO {
	return accommodationDTO{
		ID:            string(a.ID),
		TripID:        string(a.TripID),
		Name:          a.Name,
		ArrivalDate:   wireDate(a.ArrivalDate),
		DepartureDate: wireDate(a.DepartureDate),
		CheckInTime:   a.CheckInTime,
		CheckOutTime:  a.CheckOutTime,
		Description:   a.Description.Ptr(),
		Address:       a.Address.Ptr(),
		Coordinates:   toCoordinatesDTO(a.Coordinates),
		Price:         a.Price.Ptr(),
	}
}

func toTransportationDTO(t domain.Transportation) transportationDTO {
	out := transportationDTO{
		ID:     string(t.ID),
		TripID: string(t.TripID),
		Kind:   string(t.Kind),
		Price:  t.Price.Ptr(),
	}
	if dep, ok := t.DepartureTime(); ok {
		d := dep
		out.Departure = &d
	}
	if arr, ok := t.ArrivalTime(); ok {
		a := arr
		out.Arrival = &a
	}
	if t.Flight != nil {
		out.Flight = toFlightDetailDTO(*t.Flight)
	}
	if t.Train != nil {
		out.Train = toTrainDetailDTO(*t.Train)
	}
	if t.Generic != nil {
		out.Generic = toGenericDetailDTO(*t.Generic)
	}
	return out
}

func toFlightDetailDTO(d domain.FlightDetail) *flightDetailDTO {
	out := &flightDetailDTO{Legs: make([]flightLegDTO, 0, len(d.Legs))}
	for _, leg := range d.Legs {
		out.Legs = append(out.Legs, flightLegDTO{
			Origin: airportDTO{
				IATA: leg.Origin.IATA, Name: leg.Origin.Name,
				Municipality: leg.Origin.Municipality,
				Coordinates:  toCoordinatesDTO(leg.Origin.Coordinates),
			},
			Destination: airportDTO{
				IATA: leg.Destination.IATA, Name: leg.Destination.Name,
				Municipality: leg.Destination.Municipality,
				Coordinates:  toCoordinatesDTO(leg.Destination.Coordinates),
			},
			Airline:         leg.Airline,
			FlightNumber:    leg.FlightNumber,
			Departure:       leg.Departure,
			Arrival:         leg.Arrival,
			DurationMinutes: leg.DurationMinutes,
			Aircraft:        leg.Aircraft.Ptr(),
		})
	}
	for _, ref := range d.BookingRefs {
		out.BookingRefs = append(out.BookingRefs, bookingRefDTO{Airline: ref.Airline, Reference: ref.Reference})
	}
	return out
}

func fromFlightDetailDTO(d flightDetailDTO) domain.FlightDetail {
	out := domain.FlightDetail{Legs: make([]domain.FlightLeg, 0, len(d.Legs))}
	for _, leg := range d.Legs {
		out.Legs = append(out.Legs, domain.FlightLeg{
			Origin: domain.Airport{
				IATA: leg.Origin.IATA, Name: leg.Origin.Name,
				Municipality: leg.Origin.Municipality,
				Coordinates:  fromCoordinatesDTO(leg.Origin.Coordinates),
			},
			Destination: domain.Airport{
				IATA: leg.Destination.IATA, Name: leg.Destination.Name,
				Municipality: leg.Destination.Municipality,
				Coordinates:  fromCoordinatesDTO(leg.Destination.Coordinates),
			},
			Airline:         leg.Airline,
			FlightNumber:    leg.FlightNumber,
			Departure:       leg.Departure,
			Arrival:         leg.Arrival,
			DurationMinutes: leg.DurationMinutes,
			Aircraft:        null.StringFromPtr(leg.Aircraft),
		})
	}
	for _, ref := range d.BookingRefs {
		out.BookingRefs = append(out.BookingRefs, domain.BookingRef{Airline: ref.Airline, Reference: ref.Reference})
	}
	return out
}

func toTrainDetailDTO(d domain.TrainDetail) *trainDetailDTO {
	out := &trainDetailDTO{Legs: make([]trainLegDTO, 0, len(d.Legs))}
	for _, leg := range d.Legs {
		out.Legs = append(out.Legs, trainLegDTO{
			Origin: trainStationDTO{
				ID: leg.Origin.ID, Name: leg.Origin.Name,
				Coordinates: toCoordinatesDTO(leg.Origin.Coordinates),
			},
			Destination: trainStationDTO{
				ID: leg.Destination.ID, Name: leg.Destination.Name,
				Coordinates: toCoordinatesDTO(leg.Destination.Coordinates),
			},
			Departure:       leg.Departure,
			Arrival:         leg.Arrival,
			DurationMinutes: leg.DurationMinutes,
			LineName:        leg.LineName,
			OperatorName:    leg.OperatorName,
		})
	}
	return out
}

func fromTrainDetailDTO(d trainDetailDTO) domain.TrainDetail {
	out := domain.TrainDetail{Legs: make([]domain.TrainLeg, 0, len(d.Legs))}
	for _, leg := range d.Legs {
		out.Legs = append(out.Legs, domain.TrainLeg{
			Origin: domain.TrainStation{
				ID: leg.Origin.ID, Name: leg.Origin.Name,
				Coordinates: fromCoordinatesDTO(leg.Origin.Coordinates),
			},
			Destination: domain.TrainStation{
				ID: leg.Destination.ID, Name: leg.Destination.Name,
				Coordinates: fromCoordinatesDTO(leg.Destination.Coordinates),
			},
			Departure:       leg.Departure,
			Arrival:         leg.Arrival,
			DurationMinutes: leg.DurationMinutes,
			LineName:        leg.LineName,
			OperatorName:    leg.OperatorName,
		})
	}
	return out
}

func toGenericDetailDTO(d domain.GenericDetail) *genericDetailDTO {
	return &genericDetailDTO{
		Name:               d.Name,
		Mode:               string(d.Mode),
		Departure:          d.Departure,
		Arrival:            d.Arrival,
		OriginAddress:      d.OriginAddress.Ptr(),
		DestinationAddress: d.DestinationAddress.Ptr(),
		Origin:             toCoordinatesDTO(d.Origin),
		Destination:        toCoordinatesDTO(d.Destination),
	}
}

func fromGenericDetailDTO(d genericDetailDTO) domain.GenericDetail {
	return domain.GenericDetail{
		Name:               d.Name,
		Mode:               domain.GenericMode(d.Mode),
		Departure:          d.Departure,
		Arrival:            d.Arrival,
		OriginAddress:      null.StringFromPtr(d.OriginAddress),
		DestinationAddress: null.StringFromPtr(d.DestinationAddress),
		Origin:             fromCoordinatesDTO(d.Origin),
		Destination:        fromCoordinatesDTO(d.Destination),
	}
}

func toAttachmentInfoDTO(a domain.AttachmentInfo) attachmentInfoDTO {
	return attachmentInfoDTO{
		ID:          string(a.ID),
		TripID:      string(a.TripID),
		Name:        a.Name,
		ContentType: a.ContentType,
		Size:        a.Size,
	}
}

func toItineraryDayDTOs(days []domain.ItineraryDay) []itineraryDayDTO {
	out := make([]itineraryDayDTO, 0, len(days))
	for i, d := range days {
		dto := itineraryDayDTO{
			Date:                       wireDate(d.Day),
			HasOvernightTransportation: d.HasOvernightTransportation(),
			Transportation:             make([]transportationDTO, 0, len(d.Transportation)),
			Activities:                 make([]activityDTO, 0, len(d.Activities)),
		}
		if i > 0 {
			dto.CollapsedDaysBefore = domain.CollapsedDays(days[i-1].Day, d.Day)
		}
		for _, t := range d.Transportation {
			dto.Transportation = append(dto.Transportation, toTransportationDTO(t))
		}
		for _, a := range d.Activities {
			dto.Activities = append(dto.Activities, toActivityDTO(a))
		}
		if d.Accommodation != nil {
			acc := toAccommodationDTO(*d.Accommodation)
			dto.Accommodation = &acc
		}
		out = append(out, dto)
	}
	return out
}

// Nullable-to-patch conversions.

func optVal[T any](n nullable.Nullable[T]) patch.Optional[T] {
	if !n.IsSpecified() {
		return patch.Unspecified[T]()
	}
	if n.IsNull() {
		return patch.Null[T]()
	}
	return patch.Some(n.MustGet())
}

func optDate(n nullable.Nullable[openapi_types.Date]) patch.Optional[civil.Date] {
	if !n.IsSpecified() {
		return patch.Unspecified[civil.Date]()
	}
	if n.IsNull() {
		return patch.Null[civil.Date]()
	}
	return patch.Some(civilDate(n.MustGet()))
}

func optCoordinates(n nullable.Nullable[coordinatesDTO]) patch.Optional[domain.Coordinates] {
	if !n.IsSpecified() {
		return patch.Unspecified[domain.Coordinates]()
	}
	if n.IsNull() {
		return patch.Null[domain.Coordinates]()
	}
	c := n.MustGet()
	return patch.Some(domain.Coordinates{Latitude: c.Latitude, Longitude: c.Longitude})
}

func nullString(n nullable.Nullable[string]) null.String {
	if !n.IsSpecified() || n.IsNull() {
		return null.String{}
	}
	return null.StringFrom(n.MustGet())
}

func nullInt32(n nullable.Nullable[int32]) null.Int32 {
	if !n.IsSpecified() || n.IsNull() {
		return null.Int32{}
	}
	return null.Int32From(n.MustGet())
}

func coordPtr(n nullable.Nullable[coordinatesDTO]) *coordinatesDTO {
	if !n.IsSpecified() || n.IsNull() {
		return nil
	}
	v := n.MustGet()
	return &v
}

func timePtr(n nullable.Nullable[civil.Time]) *civil.Time {
	if !n.IsSpecified() || n.IsNull() {
		return nil
	}
	v := n.MustGet()
	return &v
}

// Request decoding.

func decodeJSON(r *http.Request, dst any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return fmt.Errorf("decode request body: %w", err)
	}
	return nil
}

func respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
