package domain

// SubjectID is the authenticated subject extracted from JWT claims (typically "sub").
// We model it as an opaque identifier: its format is controlled by the IdP.
type SubjectID string

// UserID is an internal identifier for a user record.
type UserID string

// TripID is an internal identifier for a trip record.
type TripID string

// ActivityID identifies an activity within a trip.
type ActivityID string

// AccommodationID identifies an accommodation stay within a trip.
type AccommodationID string

// TransportationID identifies a transportation item within a trip.
type TransportationID string

// AttachmentID identifies a file attachment within a trip.
type AttachmentID string
