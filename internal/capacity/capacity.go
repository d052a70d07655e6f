// Package capacity does the daily campaign-capacity arithmetic.
package capacity

import (
	"errors"
	"sort"
	"time"
)

const DateLayout = "2006-01-02"

var (
	ErrExceeded     = errors.New("daily capacity exceeded")
	ErrDayClosed    = errors.New("reservations for this day are closed")
	ErrSameDayLimit = errors.New("same-day reservations are closed after the cutoff hour")
)

// Booking is the slice of a campaign the arithmetic needs.
type Booking struct {
	Date      time.Time
	Quantity  int
	Confirmed bool
	SellerID  string
}

// DayKey formats t as the calendar day it falls on in loc.
func DayKey(t time.Time, loc *time.Location) string {
	return t.In(loc).Format(DateLayout)
}

// Booked sums quantities of confirmed bookings on day.
func Booked(bookings []Booking, day string, loc *time.Location) int {
	total := 0
	for _, b := range bookings {
		if !b.Confirmed {
			continue
		}
		if DayKey(b.Date, loc) == day {
			total += b.Quantity
		}
	}
	return total
}

// Remainder is capacity minus confirmed quantity on day. It goes negative when
// the day is oversubscribed.
func Remainder(capacity int, bookings []Booking, day string, loc *time.Location) int {
	return capacity - Booked(bookings, day, loc)
}

// Open reports whether the calendar accepts new reservations on a day.
func Open(capacity, remaining int) bool {
	return capacity > 0 && remaining > 0
}

// CheckConfirm decides whether qty more units may be confirmed on a day that
// already has booked confirmed units.
func CheckConfirm(capacity, booked, qty int, enforced bool) error {
	if !enforced {
		return nil
	}
	if booked+qty > capacity {
		return ErrExceeded
	}
	return nil
}

// SameDayAllowed refuses bookings for today once the local clock reaches
// cutoffHour, unless same-day booking is switched on.
func SameDayAllowed(now, day time.Time, allowSameDay bool, cutoffHour int, loc *time.Location) bool {
	if allowSameDay {
		return true
	}
	localNow := now.In(loc)
	if DayKey(localNow, loc) != DayKey(day, loc) {
		return true
	}
	return localNow.Hour() < cutoffHour
}

type DaySummary struct {
	Date      string         `json:"date"`
	Capacity  int            `json:"capacity"`
	Booked    int            `json:"booked"`
	Remaining int            `json:"remaining"`
	Open      bool           `json:"open"`
	BySeller  map[string]int `json:"by_seller,omitempty"`
}

// Summarize builds one entry per day of the month containing month, keyed by
// confirmed bookings. Seller ids are mapped through names when present.
func Summarize(month time.Time, capacities map[string]int, bookings []Booking, names map[string]string, loc *time.Location) []DaySummary {
	first := time.Date(month.Year(), month.Month(), 1, 0, 0, 0, 0, loc)
	next := first.AddDate(0, 1, 0)

	byDay := make(map[string]map[string]int)
	booked := make(map[string]int)
	for _, b := range bookings {
		if !b.Confirmed {
			continue
		}
		key := DayKey(b.Date, loc)
		booked[key] += b.Quantity
		label := b.SellerID
		if n, ok := names[b.SellerID]; ok && n != "" {
			label = n
		}
		if byDay[key] == nil {
			byDay[key] = make(map[string]int)
		}
		byDay[key][label] += b.Quantity
	}

	var out []DaySummary
	for d := first; d.Before(next); d = d.AddDate(0, 0, 1) {
		key := d.Format(DateLayout)
		c := capacities[key]
		rem := c - booked[key]
		out = append(out, DaySummary{
			Date:      key,
			Capacity:  c,
			Booked:    booked[key],
			Remaining: rem,
			Open:      Open(c, rem),
			BySeller:  byDay[key],
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date < out[j].Date })
	return out
}
