package domain

import "time"

// User is an account bound to an IdP subject. Users are provisioned lazily on
// first authenticated request.
type User struct {
	ID          UserID
	Subject     SubjectID
	DisplayName string
	CreatedAt   time.Time
}
