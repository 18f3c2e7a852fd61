package domain

// Attachment is a file stored with a trip (tickets, reservations, GPX files).
type Attachment struct {
	ID     AttachmentID
	TripID TripID

	Name        string
	ContentType string
	Blob        []byte
}

// AttachmentInfo is the blob-free listing shape.
type AttachmentInfo struct {
	ID     AttachmentID
	TripID TripID

	Name        string
	ContentType string
	Size        int64
}
