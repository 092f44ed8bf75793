// Package week implements the Monday-start week window the calendar views
// are built around.
package week

import "time"

// DateFormat is the wire format for calendar dates.
const DateFormat = "2006-01-02"

var (
	shortDayNames = [7]string{"Sön", "Mån", "Tis", "Ons", "Tor", "Fre", "Lör"}
	longDayNames  = [7]string{"Söndag", "Måndag", "Tisdag", "Onsdag", "Torsdag", "Fredag", "Lördag"}
)

// Window returns the 7 consecutive dates of the week containing now shifted
// by offset whole weeks. Day 0 is always Monday.
func Window(now time.Time, offset int) [7]time.Time {
	day := int(now.Weekday())
	// time.Sunday is 0; pull Sundays back to the Monday six days earlier.
	diff := 1 - day
	if day == 0 {
		diff = -6
	}
	monday := now.AddDate(0, 0, diff+offset*7)
	monday = time.Date(monday.Year(), monday.Month(), monday.Day(), 0, 0, 0, 0, now.Location())

	var dates [7]time.Time
	for i := range dates {
		dates[i] = monday.AddDate(0, 0, i)
	}
	return dates
}

// FormatDate renders a date as YYYY-MM-DD.
func FormatDate(t time.Time) string {
	return t.Format(DateFormat)
}

// DayName returns the short Swedish day name.
func DayName(t time.Time) string {
	return shortDayNames[int(t.Weekday())]
}

// DayNameLong returns the long Swedish day name.
func DayNameLong(t time.Time) string {
	return longDayNames[int(t.Weekday())]
}

// DaysUntil returns whole days from today (midnight, local) until the given
// YYYY-MM-DD date. Past dates yield negative values.
func DaysUntil(now time.Time, date string) (int, error) {
	target, err := time.ParseInLocation(DateFormat, date, now.Location())
	if err != nil {
		return 0, err
	}
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	return int(target.Sub(today).Hours() / 24), nil
}
