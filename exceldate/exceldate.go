// Package exceldate converts Excel date serial numbers to and from calendar
// dates.
//
// Excel stores dates as floating-point day counts since the 1900 epoch, with
// the fractional part representing the time of day.  Lotus 1-2-3 incorrectly
// treated 1900 as a leap year and Excel perpetuates the defect: serial 60
// corresponds to the fictitious 1900-02-29.  The conversion therefore has
// two branches — day counts of 60 and above are shifted back by one extra
// day, while day counts below 60 shift by the epoch offset only — so that
// serial 59 is 1900-02-28 and serial 61 is 1900-03-01.
package exceldate

import (
	"fmt"
	"math"
	"strconv"
	"time"
)

// MinSerial and MaxSerial bound the valid date-serial domain:
// serial 1 is 1900-01-01 and serial 2958465 is 9999-12-31.
const (
	MinSerial = 1.0
	MaxSerial = 2958465.999
)

// timeEpsilon is the fractional-day threshold below which a serial is
// treated as carrying no time component, absorbing floating-point noise
// from serial arithmetic (0.0001 days is about 8.6 seconds).
const timeEpsilon = 0.0001

// Date is the calendar form of a serial number.  When HasTime is false the
// time fields are zero and the value represents a bare date.
type Date struct {
	Year   int
	Month  int
	Day    int
	Hour   int
	Minute int
	Second int
	// HasTime reports whether the serial carried a time-of-day component.
	HasTime bool
}

// Convert splits a serial number into its calendar form.  It reports ok as
// false when serial lies outside [MinSerial, MaxSerial] (including NaN and
// infinities); callers should then surface the value as a plain number.
func Convert(serial float64) (Date, bool) {
	if !(serial >= MinSerial && serial <= MaxSerial) {
		return Date{}, false
	}

	dayPart := math.Floor(serial)
	frac := serial - dayPart
	hasTime := frac > timeEpsilon

	// Seconds within the day, rounded to the nearest whole second.  When
	// rounding reaches midnight the excess rolls into the next day instead
	// of rendering a 24:00:00 timestamp.
	totalSec := int(math.Round(frac * 86400))
	if totalSec >= 86400 {
		dayPart++
		totalSec = 0
		hasTime = false
	}

	// Days since 1900-01-01 (zero-based), with the phantom-leap-day
	// correction applied to everything at or past the fictitious Feb 29.
	var days int64
	if dayPart >= 60 {
		days = int64(dayPart) - 2
	} else {
		days = int64(dayPart) - 1
	}

	year, month, day := civilFromDays(days)

	d := Date{Year: year, Month: month, Day: day, HasTime: hasTime}
	if hasTime {
		d.Hour = totalSec / 3600
		d.Minute = (totalSec % 3600) / 60
		d.Second = totalSec % 60
	}
	return d, true
}

// FormatSerial renders a serial number as "YYYY-MM-DD" or
// "YYYY-MM-DD HH:MM:SS" when a time component is present.  A serial outside
// the valid domain is rendered as the plain number so the caller can still
// surface the cell's content.
func FormatSerial(serial float64) string {
	d, ok := Convert(serial)
	if !ok {
		return strconv.FormatFloat(serial, 'f', -1, 64)
	}
	if d.HasTime {
		return fmt.Sprintf("%04d-%02d-%02d %02d:%02d:%02d",
			d.Year, d.Month, d.Day, d.Hour, d.Minute, d.Second)
	}
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, d.Month, d.Day)
}

// ToTime converts a serial number to a time.Time in UTC.  It returns an
// error for serials outside the valid domain.
func ToTime(serial float64) (time.Time, error) {
	d, ok := Convert(serial)
	if !ok {
		return time.Time{}, fmt.Errorf("exceldate: serial %v outside valid range [%v, %v]",
			serial, MinSerial, MaxSerial)
	}
	return time.Date(d.Year, time.Month(d.Month), d.Day, d.Hour, d.Minute, d.Second, 0, time.UTC), nil
}

// FromTime converts a calendar time to its serial number, applying the
// inverse of the phantom-leap-day correction.  Times are truncated to whole
// seconds.  Dates before 1900-01-01 or after 9999-12-31 return an error.
func FromTime(t time.Time) (float64, error) {
	t = t.UTC()
	if t.Year() < 1900 || t.Year() > 9999 {
		return 0, fmt.Errorf("exceldate: year %d outside representable range [1900, 9999]", t.Year())
	}
	midnight := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
	epoch := time.Date(1900, 1, 1, 0, 0, 0, 0, time.UTC)
	days := int64(midnight.Sub(epoch).Hours() / 24)

	var serial float64
	// The cutoff mirrors Convert: 1900-03-01 is day 59 since the epoch and
	// maps to serial 61.
	if days >= 59 {
		serial = float64(days) + 2
	} else {
		serial = float64(days) + 1
	}

	secs := t.Hour()*3600 + t.Minute()*60 + t.Second()
	serial += float64(secs) / 86400
	return serial, nil
}

// civilFromDays converts a zero-based day count since 1900-01-01 to a
// calendar date.  The year is estimated from the mean Gregorian year length
// and corrected by at most a few iterations, keeping the conversion O(1)
// regardless of how far the date lies from the epoch.
func civilFromDays(days int64) (year, month, day int) {
	year = 1900 + int(float64(days)/365.2425)
	remaining := days - daysBeforeYear(year)
	for remaining < 0 {
		year--
		remaining += int64(daysInYear(year))
	}
	for remaining >= int64(daysInYear(year)) {
		remaining -= int64(daysInYear(year))
		year++
	}

	months := &daysInMonthsCommon
	if isLeapYear(year) {
		months = &daysInMonthsLeap
	}
	day = int(remaining) + 1
	month = 1
	for _, n := range months {
		if day <= n {
			break
		}
		day -= n
		month++
	}
	return year, month, day
}

var (
	daysInMonthsCommon = [12]int{31, 28, 31, 30, 31, 30, 31, 31, 30, 31, 30, 31}
	daysInMonthsLeap   = [12]int{31, 29, 31, 30, 31, 30, 31, 31, 30, 31, 30, 31}
)

// daysBeforeYear returns the number of days from 1900-01-01 to January 1 of
// the given year, computed in closed form from the Gregorian leap rule.
func daysBeforeYear(year int) int64 {
	leaps := func(y int) int64 {
		yy := int64(y)
		return yy/4 - yy/100 + yy/400
	}
	// Leap years in [1900, year); 1900 itself is not a leap year.
	return 365*int64(year-1900) + leaps(year-1) - leaps(1899)
}

func daysInYear(year int) int {
	if isLeapYear(year) {
		return 366
	}
	return 365
}

func isLeapYear(year int) bool {
	return (year%4 == 0 && year%100 != 0) || year%400 == 0
}
