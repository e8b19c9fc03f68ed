package report

import (
	"time"
)

const Format = "2006-01-02T15:04:05.000000Z07:00"

// Time is a time.Time which marshals to and from a fixed-precision
// JSON representation. Unmarshalling falls back to RFC3339, as emitted
// by encoding/json for a plain time.Time.
type Time struct {
	time.Time
}

func Now() Time {
	return Time{time.Now()}
}

func (t Time) MarshalJSON() ([]byte, error) {
	b := make([]byte, 0, len(Format)+2)
	b = append(b, '"')
	b = t.AppendFormat(b, Format)
	b = append(b, '"')
	return b, nil
}

func (t *Time) UnmarshalJSON(b []byte) error {
	tmp, err := time.Parse(`"`+Format+`"`, string(b))
	if err != nil {
		tmp, err = time.Parse(`"`+time.RFC3339Nano+`"`, string(b))
	}
	t.Time = tmp
	return err
}
