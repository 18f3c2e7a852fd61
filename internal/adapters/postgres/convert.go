package postgres

import (
	"time"

	"cloud.google.com/go/civil"
	"github.com/jackc/pgx/v5/pgtype"
)

// Civil date/time conversions shared by the repository subpackages. Dates and
// wall-clock timestamps are stored without a zone; UTC is used as the neutral
// carrier on the wire.

func FromDate(d civil.Date) time.Time {
	return d.In(time.UTC)
}

func ToDate(t time.Time) civil.Date {
	return civil.DateOf(t.UTC())
}

func FromDateTime(dt civil.DateTime) time.Time {
	return dt.In(time.UTC)
}

func ToDateTime(t time.Time) civil.DateTime {
	return civil.DateTimeOf(t.UTC())
}

func FromTimePtr(p *civil.Time) pgtype.Time {
	if p == nil {
		return pgtype.Time{}
	}
	us := int64(p.Hour)*3600_000_000 + int64(p.Minute)*60_000_000 + int64(p.Second)*1_000_000 + int64(p.Nanosecond)/1000
	return pgtype.Time{Microseconds: us, Valid: true}
}

func ToTimePtr(v pgtype.Time) *civil.Time {
	if !v.Valid {
		return nil
	}
	us := v.Microseconds
	t := civil.Time{
		Hour:       int(us / 3600_000_000),
		Minute:     int(us / 60_000_000 % 60),
		Second:     int(us / 1_000_000 % 60),
		Nanosecond: int(us % 1_000_000 * 1000),
	}
	return &t
}
