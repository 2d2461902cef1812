package calendar

import (
	"fmt"
	"sort"
	"time"

	"herbimmortal/models"
	"herbimmortal/utils"
)

// Dates are civil dates; all arithmetic happens in UTC so DST never shifts a day.

func parseDate(s string) (time.Time, error) {
	d, err := time.Parse(utils.DateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: date %q: expected YYYY-MM-DD", utils.ErrInvalidInput, s)
	}
	return d, nil
}

func weekStart(d time.Time) time.Time {
	return d.AddDate(0, 0, -int(d.Weekday()))
}

func monthStart(d time.Time) time.Time {
	return time.Date(d.Year(), d.Month(), 1, 0, 0, 0, 0, time.UTC)
}

// Range returns the inclusive date range the dashboard shows for anchor:
// the day itself, its Sunday-to-Saturday week, or its whole month.
func Range(anchor string, granularity models.Granularity) (start, end string, err error) {
	d, err := parseDate(anchor)
	if err != nil {
		return "", "", err
	}
	var from, to time.Time
	switch granularity {
	case models.GranularityDay:
		from, to = d, d
	case models.GranularityWeek:
		from = weekStart(d)
		to = from.AddDate(0, 0, 6)
	case models.GranularityMonth:
		from = monthStart(d)
		to = from.AddDate(0, 1, -1)
	default:
		return "", "", fmt.Errorf("%w: unknown view %q", utils.ErrInvalidInput, granularity)
	}
	return from.Format(utils.DateLayout), to.Format(utils.DateLayout), nil
}

// buckets lists the dates rendered for granularity, anchored at rangeStart,
// and the month grid's leading padding.
func buckets(rangeStart time.Time, granularity models.Granularity) ([]time.Time, int) {
	switch granularity {
	case models.GranularityWeek:
		first := weekStart(rangeStart)
		days := make([]time.Time, 7)
		for i := range days {
			days[i] = first.AddDate(0, 0, i)
		}
		return days, 0
	case models.GranularityMonth:
		first := monthStart(rangeStart)
		last := first.AddDate(0, 1, -1)
		days := make([]time.Time, 0, last.Day())
		for d := first; !d.After(last); d = d.AddDate(0, 0, 1) {
			days = append(days, d)
		}
		return days, int(first.Weekday())
	default:
		return []time.Time{rangeStart}, 0
	}
}

// Project buckets bookings by date for display. [rangeStart, rangeEnd] must be
// the range Range returns for granularity; only bookings dated within it are placed; each day's bookings are ordered by start
// time. Day and week views also group each day by start hour, listing only
// hours that have bookings. today only sets IsToday. bookings is not modified.
func Project(bookings []models.Booking, rangeStart, rangeEnd string, granularity models.Granularity, today string) (models.CalendarView, error) {
	if !granularity.Valid() {
		return models.CalendarView{}, fmt.Errorf("%w: unknown view %q", utils.ErrInvalidInput, granularity)
	}
	from, err := parseDate(rangeStart)
	if err != nil {
		return models.CalendarView{}, err
	}
	if _, err := parseDate(rangeEnd); err != nil {
		return models.CalendarView{}, err
	}
	if rangeEnd < rangeStart {
		return models.CalendarView{}, fmt.Errorf("%w: range ends before it starts", utils.ErrInvalidRange)
	}
	// Every in-range booking must land in a bucket, so the range has to be
	// exactly the one Range derives for the view.
	wantStart, wantEnd, err := Range(rangeStart, granularity)
	if err != nil {
		return models.CalendarView{}, err
	}
	if rangeStart != wantStart || rangeEnd != wantEnd {
		return models.CalendarView{}, fmt.Errorf("%w: a %s view spans %s..%s, got %s..%s",
			utils.ErrInvalidRange, granularity, wantStart, wantEnd, rangeStart, rangeEnd)
	}

	byDate := make(map[string][]models.Booking)
	for _, b := range bookings {
		if b.Date < rangeStart || b.Date > rangeEnd {
			continue
		}
		byDate[b.Date] = append(byDate[b.Date], b)
	}

	dates, padding := buckets(from, granularity)
	view := models.CalendarView{
		RangeStart:     rangeStart,
		RangeEnd:       rangeEnd,
		Granularity:    granularity,
		LeadingPadding: padding,
		Days:           make([]models.CalendarDay, 0, len(dates)),
	}
	for _, d := range dates {
		key := d.Format(utils.DateLayout)
		dayBookings := byDate[key]
		if dayBookings == nil {
			dayBookings = []models.Booking{}
		}
		sort.SliceStable(dayBookings, func(i, j int) bool {
			if dayBookings[i].StartTime != dayBookings[j].StartTime {
				return dayBookings[i].StartTime < dayBookings[j].StartTime
			}
			return dayBookings[i].ID < dayBookings[j].ID
		})

		day := models.CalendarDay{
			Date:     key,
			Weekday:  int(d.Weekday()),
			IsToday:  key == today,
			Bookings: dayBookings,
		}
		if granularity != models.GranularityMonth {
			day.Hours = byHour(dayBookings)
		}
		view.Days = append(view.Days, day)
	}
	return view, nil
}

// byHour expects bookings already sorted by start time.
func byHour(bookings []models.Booking) []models.HourBucket {
	var hours []models.HourBucket
	for _, b := range bookings {
		h := b.StartTime.Hour()
		if n := len(hours); n > 0 && hours[n-1].Hour == h {
			hours[n-1].Bookings = append(hours[n-1].Bookings, b)
			continue
		}
		hours = append(hours, models.HourBucket{Hour: h, Bookings: []models.Booking{b}})
	}
	return hours
}
