package spacetraveling

import (
	"testing"
	"time"
)

func TestFormatDate(t *testing.T) {
	tests := []struct {
		in   time.Time
		want string
	}{
		{time.Date(2021, time.March, 15, 0, 0, 0, 0, time.UTC), "15 mar 2021"},
		{time.Date(2021, time.January, 5, 0, 0, 0, 0, time.UTC), "05 jan 2021"},
		{time.Date(2020, time.February, 29, 0, 0, 0, 0, time.UTC), "29 fev 2020"},
		{time.Date(2022, time.December, 31, 0, 0, 0, 0, time.UTC), "31 dez 2022"},
		{time.Date(2022, time.September, 1, 0, 0, 0, 0, time.UTC), "01 set 2022"},
		{time.Date(2021, time.April, 10, 0, 0, 0, 0, time.UTC), "10 abr 2021"},
		{time.Date(2021, time.May, 10, 0, 0, 0, 0, time.UTC), "10 mai 2021"},
		{time.Date(2021, time.June, 10, 0, 0, 0, 0, time.UTC), "10 jun 2021"},
		{time.Date(2021, time.July, 10, 0, 0, 0, 0, time.UTC), "10 jul 2021"},
		{time.Date(2021, time.August, 10, 0, 0, 0, 0, time.UTC), "10 ago 2021"},
		{time.Date(2021, time.October, 10, 0, 0, 0, 0, time.UTC), "10 out 2021"},
		{time.Date(2021, time.November, 10, 0, 0, 0, 0, time.UTC), "10 nov 2021"},
	}
	for _, tt := range tests {
		if got := FormatDate(tt.in); got != tt.want {
			t.Errorf("FormatDate(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestFormatEdited(t *testing.T) {
	loc := loadLocation("America/Sao_Paulo")
	last := time.Date(2021, time.March, 19, 18, 49, 0, 0, time.UTC).In(loc)
	want := "*editado em 19 mar 2021 às 15:49"
	if got := FormatEdited(last); got != want {
		t.Fatalf("FormatEdited = %q, want %q", got, want)
	}
}

func TestLoadLocationFallsBackToUTC(t *testing.T) {
	if loc := loadLocation("Nowhere/Atlantis"); loc != time.UTC {
		t.Fatalf("expected UTC, got %v", loc)
	}
}
