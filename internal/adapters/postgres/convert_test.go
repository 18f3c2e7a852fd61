package postgres

import (
	"testing"
	"time"

	"cloud.google.com/go/civil"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDateRoundTrip(t *testing.T) {
	t.Parallel()

	d := civil.Date{Year: 2026, Month: time.June, Day: 3}
	assert.Equal(t, d, ToDate(FromDate(d)))

	// A zoned wall-clock time maps onto its UTC calendar day.
	zone := time.FixedZone("UTC+9", 9*3600)
	got := ToDate(time.Date(2026, time.June, 4, 3, 0, 0, 0, zone))
	assert.Equal(t, civil.Date{Year: 2026, Month: time.June, Day: 3}, got)
}

func TestDateTimeRoundTrip(t *testing.T) {
	t.Parallel()

	dt := civil.DateTime{
		Date: civil.Date{Year: 2026, Month: time.June, Day: 3},
		Time: civil.Time{Hour: 22, Minute: 15},
	}
	assert.Equal(t, dt, ToDateTime(FromDateTime(dt)))
}

func TestTimePtrRoundTrip(t *testing.T) {
	t.Parallel()

	in := &civil.Time{Hour: 14, Minute: 30, Second: 5}
	out := ToTimePtr(FromTimePtr(in))
	require.NotNil(t, out)
	assert.Equal(t, *in, *out)

	assert.Nil(t, ToTimePtr(pgtype.Time{}))
	assert.Equal(t, pgtype.Time{}, FromTimePtr(nil))
}

func TestTimePtrMicrosecondBoundaries(t *testing.T) {
	t.Parallel()

	midnight := &civil.Time{}
	v := FromTimePtr(midnight)
	require.True(t, v.Valid)
	assert.Zero(t, v.Microseconds)

	lastTick := &civil.Time{Hour: 23, Minute: 59, Second: 59, Nanosecond: 999_999_000}
	out := ToTimePtr(FromTimePtr(lastTick))
	require.NotNil(t, out)
	assert.Equal(t, *lastTick, *out)
}
