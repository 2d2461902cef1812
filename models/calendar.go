package models

type Granularity string

const (
	GranularityDay   Granularity = "day"
	GranularityWeek  Granularity = "week"
	GranularityMonth Granularity = "month"
)

func (g Granularity) Valid() bool {
	return g == GranularityDay || g == GranularityWeek || g == GranularityMonth
}

type HourBucket struct {
	Hour     int       `json:"hour"`
	Bookings []Booking `json:"bookings"`
}

type CalendarDay struct {
	Date     string       `json:"date"`
	Weekday  int          `json:"weekday"`
	IsToday  bool         `json:"is_today"`
	Bookings []Booking    `json:"bookings"`
	Hours    []HourBucket `json:"hours,omitempty"`
}

// CalendarView is a read-only projection of bookings over a date range.
// LeadingPadding is the number of empty cells before the first day in a
// Sunday-first month grid; it is zero for day and week views.
type CalendarView struct {
	RangeStart     string        `json:"range_start"`
	RangeEnd       string        `json:"range_end"`
	Granularity    Granularity   `json:"granularity"`
	LeadingPadding int           `json:"leading_padding"`
	Days           []CalendarDay `json:"days"`
}
