package week

import (
	"testing"
	"time"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 12, 30, 0, 0, time.UTC)
}

func TestWindow_StartsOnMonday(t *testing.T) {
	tests := []struct {
		name string
		now  time.Time
		want string // expected Monday
	}{
		{"wednesday", date(2026, time.March, 4), "2026-03-02"},
		{"monday itself", date(2026, time.March, 2), "2026-03-02"},
		{"sunday belongs to preceding monday", date(2026, time.March, 8), "2026-03-02"},
		{"saturday", date(2026, time.March, 7), "2026-03-02"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := Window(tt.now, 0)
			if got := FormatDate(w[0]); got != tt.want {
				t.Errorf("Window(%s, 0)[0] = %s, want %s", FormatDate(tt.now), got, tt.want)
			}
			if w[0].Weekday() != time.Monday {
				t.Errorf("window must start on Monday, got %s", w[0].Weekday())
			}
		})
	}
}

func TestWindow_SevenConsecutiveDays(t *testing.T) {
	w := Window(date(2026, time.March, 4), 0)
	for i := 1; i < 7; i++ {
		if !w[i].Equal(w[i-1].AddDate(0, 0, 1)) {
			t.Fatalf("day %d is not consecutive: %s after %s", i, FormatDate(w[i]), FormatDate(w[i-1]))
		}
	}
	if w[6].Weekday() != time.Sunday {
		t.Errorf("window must end on Sunday, got %s", w[6].Weekday())
	}
}

func TestWindow_Offset(t *testing.T) {
	now := date(2026, time.March, 4)

	next := Window(now, 1)
	if got := FormatDate(next[0]); got != "2026-03-09" {
		t.Errorf("offset +1 Monday = %s, want 2026-03-09", got)
	}

	prev := Window(now, -1)
	if got := FormatDate(prev[0]); got != "2026-02-23" {
		t.Errorf("offset -1 Monday = %s, want 2026-02-23", got)
	}
}

func TestDayName(t *testing.T) {
	monday := date(2026, time.March, 2)
	if got := DayName(monday); got != "Mån" {
		t.Errorf("DayName = %q, want Mån", got)
	}
	if got := DayNameLong(monday); got != "Måndag" {
		t.Errorf("DayNameLong = %q, want Måndag", got)
	}
}

func TestDaysUntil(t *testing.T) {
	now := date(2026, time.March, 2)

	tests := []struct {
		date string
		want int
	}{
		{"2026-03-02", 0},
		{"2026-03-05", 3},
		{"2026-02-28", -2},
	}
	for _, tt := range tests {
		got, err := DaysUntil(now, tt.date)
		if err != nil {
			t.Fatal(err)
		}
		if got != tt.want {
			t.Errorf("DaysUntil(%s) = %d, want %d", tt.date, got, tt.want)
		}
	}

	if _, err := DaysUntil(now, "not-a-date"); err == nil {
		t.Error("expected error for malformed date")
	}
}
