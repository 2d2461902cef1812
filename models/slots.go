package models

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/bsontype"
)

// LocalTime is a wall-clock time of day in minutes from midnight
// (e.g. 420 for 07:00). 1440 ("24:00") is accepted as an end-of-day bound.
// It travels as "HH:MM" in JSON and BSON so stored values sort lexically.
type LocalTime int

const endOfDay LocalTime = 24 * 60

// ParseLocalTime parses "HH:MM".
func ParseLocalTime(s string) (LocalTime, error) {
	hh, mm, ok := strings.Cut(strings.TrimSpace(s), ":")
	if !ok || len(hh) != 2 || len(mm) != 2 {
		return 0, fmt.Errorf("time %q: expected HH:MM", s)
	}
	h, err := strconv.Atoi(hh)
	if err != nil {
		return 0, fmt.Errorf("time %q: invalid hour", s)
	}
	m, err := strconv.Atoi(mm)
	if err != nil {
		return 0, fmt.Errorf("time %q: invalid minute", s)
	}
	if m < 0 || m > 59 || h < 0 || h > 24 || (h == 24 && m != 0) {
		return 0, fmt.Errorf("time %q: out of range", s)
	}
	return LocalTime(h*60 + m), nil
}

// MustLocalTime is ParseLocalTime for literals.
func MustLocalTime(s string) LocalTime {
	t, err := ParseLocalTime(s)
	if err != nil {
		panic(err)
	}
	return t
}

func (t LocalTime) Hour() int   { return int(t) / 60 }
func (t LocalTime) Minute() int { return int(t) % 60 }

func (t LocalTime) String() string {
	return fmt.Sprintf("%02d:%02d", t.Hour(), t.Minute())
}

func (t LocalTime) valid() bool { return t >= 0 && t <= endOfDay }

func (t LocalTime) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.String())
}

func (t *LocalTime) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("time must be an \"HH:MM\" string")
	}
	parsed, err := ParseLocalTime(s)
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

func (t LocalTime) MarshalBSONValue() (bsontype.Type, []byte, error) {
	return bson.MarshalValue(t.String())
}

func (t *LocalTime) UnmarshalBSONValue(bt bsontype.Type, data []byte) error {
	s, ok := bson.RawValue{Type: bt, Value: data}.StringValueOK()
	if !ok {
		return fmt.Errorf("local time: expected string, got %s", bt)
	}
	parsed, err := ParseLocalTime(s)
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// TimeSlot is the half-open interval [Start, End) within a single day.
type TimeSlot struct {
	Start LocalTime `bson:"start_time" json:"start_time"`
	End   LocalTime `bson:"end_time" json:"end_time"`
}

// Validate reports whether the slot is well formed; callers wrap the result
// with their own error kind.
func (s TimeSlot) Validate() error {
	if !s.Start.valid() || !s.End.valid() {
		return fmt.Errorf("slot %s-%s is outside the day", s.Start, s.End)
	}
	if s.Start >= s.End {
		return fmt.Errorf("slot %s-%s: start must be before end", s.Start, s.End)
	}
	return nil
}

// Minutes is the slot length.
func (s TimeSlot) Minutes() int { return int(s.End - s.Start) }

// Overlaps is true iff the half-open intervals intersect.
func (s TimeSlot) Overlaps(other TimeSlot) bool {
	return s.Start < other.End && other.Start < s.End
}

// Contains is true iff t falls inside [Start, End).
func (s TimeSlot) Contains(t LocalTime) bool {
	return s.Start <= t && t < s.End
}

// Covers is true iff other lies entirely within s.
func (s TimeSlot) Covers(other TimeSlot) bool {
	return s.Start <= other.Start && other.End <= s.End
}

func (s TimeSlot) String() string {
	return s.Start.String() + "-" + s.End.String()
}

// DayAvailability is one weekday of a practitioner's recurring template.
// DayOfWeek follows time.Weekday: 0 = Sunday .. 6 = Saturday.
type DayAvailability struct {
	DayOfWeek   int        `bson:"day_of_week" json:"day_of_week"`
	IsAvailable bool       `bson:"is_available" json:"is_available"`
	Slots       []TimeSlot `bson:"time_slots" json:"time_slots"`
}

// AvailabilityTemplate is the full weekly pattern, always seven days ordered Sunday first.
type AvailabilityTemplate struct {
	PractitionerID string            `json:"practitioner_id"`
	Days           []DayAvailability `json:"days"`
}

// DefaultAvailability is the template of a practitioner who has not set one: every day closed.
func DefaultAvailability() []DayAvailability {
	days := make([]DayAvailability, 7)
	for i := range days {
		days[i] = DayAvailability{DayOfWeek: i, Slots: []TimeSlot{}}
	}
	return days
}
