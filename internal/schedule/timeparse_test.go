package schedule

import (
	"errors"
	"testing"
	"time"
)

func TestParseDate(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    DateStamp
		wantErr bool
	}{
		{name: "valid", input: "05-03-2025", want: DateStamp{Day: 5, Month: 3, Year: 2025}},
		{name: "leap day", input: "29-02-2024", want: DateStamp{Day: 29, Month: 2, Year: 2024}},
		{name: "not a leap year", input: "29-02-2025", wantErr: true},
		{name: "two components", input: "05-2025", wantErr: true},
		{name: "four components", input: "05-03-2025-1", wantErr: true},
		{name: "non numeric", input: "aa-03-2025", wantErr: true},
		{name: "empty component", input: "-03-2025", wantErr: true},
		{name: "month 13", input: "01-13-2025", wantErr: true},
		{name: "day zero", input: "00-01-2025", wantErr: true},
		{name: "signed", input: "+1-01-2025", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseDate(tt.input)
			if tt.wantErr {
				var pe *ParseError
				if !errors.As(err, &pe) {
					t.Fatalf("expected ParseError, got %v", err)
				}
				if pe.Kind != "date" || pe.Input != tt.input {
					t.Fatalf("unexpected error fields: %+v", pe)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Fatalf("expected %+v, got %+v", tt.want, got)
			}
		})
	}
}

func TestDateStampFormatting(t *testing.T) {
	d := DateStamp{Day: 5, Month: 3, Year: 2025}
	if d.String() != "05-03-2025" {
		t.Fatalf("unexpected String: %q", d.String())
	}
	if d.InputValue() != "2025-03-05" {
		t.Fatalf("unexpected InputValue: %q", d.InputValue())
	}

	in, err := ParseInputDate("2025-03-05")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if in != d {
		t.Fatalf("expected %+v, got %+v", d, in)
	}
}

func TestDateStampCompareAcrossYears(t *testing.T) {
	// лексикографически "dd-mm-yyyy" поставил бы 01-01-2026 раньше 31-12-2025
	dec := DateStamp{Day: 31, Month: 12, Year: 2025}
	jan := DateStamp{Day: 1, Month: 1, Year: 2026}

	if !dec.Before(jan) {
		t.Fatalf("expected %s before %s", dec, jan)
	}
	if jan.Compare(dec) != 1 || dec.Compare(dec) != 0 {
		t.Fatal("unexpected Compare result")
	}
	if dec.AddDays(1) != jan {
		t.Fatalf("expected AddDays to cross the year, got %s", dec.AddDays(1))
	}
}

func TestParseTimeOfDay(t *testing.T) {
	tests := []struct {
		input string
		want  TimeOfDay
	}{
		{"12:00 AM", TimeOfDay{0, 0}},
		{"12:30 PM", TimeOfDay{12, 30}},
		{"1:05 AM", TimeOfDay{1, 5}},
		{"2:30 PM", TimeOfDay{14, 30}},
		{"11:59 pm", TimeOfDay{23, 59}},
		{"09:15 AM", TimeOfDay{9, 15}},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseTimeOfDay(tt.input)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Fatalf("expected %+v, got %+v", tt.want, got)
			}
		})
	}
}

func TestParseTimeOfDayRejectsMalformed(t *testing.T) {
	inputs := []string{
		"2:30",
		"2:30 XM",
		"13:00 PM",
		"0:15 AM",
		"a:30 PM",
		"2:3 PM",
		"2:60 PM",
		"230 PM",
		"",
	}

	for _, in := range inputs {
		t.Run(in, func(t *testing.T) {
			_, err := ParseTimeOfDay(in)
			var pe *ParseError
			if !errors.As(err, &pe) {
				t.Fatalf("expected ParseError for %q, got %v", in, err)
			}
		})
	}
}

func TestTimeOfDayRoundTrip(t *testing.T) {
	for h := 1; h <= 12; h++ {
		for _, m := range []string{"AM", "PM"} {
			for _, mm := range []int{0, 7, 30, 59} {
				in := TimeOfDay{Hour: h, Minute: mm}.Clock()[1:]
				if h >= 10 {
					in = TimeOfDay{Hour: h, Minute: mm}.Clock()
				}
				in = in + " " + m

				parsed, err := ParseTimeOfDay(in)
				if err != nil {
					t.Fatalf("parse %q: %v", in, err)
				}
				if parsed.String() != in {
					t.Fatalf("round trip: %q became %q", in, parsed.String())
				}
			}
		}
	}
}

func TestParseClock(t *testing.T) {
	got, err := ParseClock("14:05")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != (TimeOfDay{14, 5}) || got.Clock() != "14:05" || got.String() != "2:05 PM" {
		t.Fatalf("unexpected result %+v", got)
	}

	if _, err := ParseClock("24:00"); err == nil {
		t.Fatal("expected error for 24:00")
	}
}

func TestParseTimeRange(t *testing.T) {
	loc := time.FixedZone("IST", 5*3600+1800)
	date := DateStamp{Day: 10, Month: 6, Year: 2025}

	iv, err := ParseTimeRange(date, "2:00 PM - 3:00 PM", loc)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	wantStart := time.Date(2025, 6, 10, 14, 0, 0, 0, loc)
	wantEnd := time.Date(2025, 6, 10, 15, 0, 0, 0, loc)
	if !iv.Start.Equal(wantStart) || !iv.End.Equal(wantEnd) {
		t.Fatalf("unexpected interval %v - %v", iv.Start, iv.End)
	}
}

func TestParseTimeRangeErrors(t *testing.T) {
	date := DateStamp{Day: 10, Month: 6, Year: 2025}
	ranges := []string{
		"2:00 PM-3:00 PM",
		"2:00 PM - ",
		"11:00 PM - 1:00 AM",
		"3:00 PM - 3:00 PM",
	}

	for _, r := range ranges {
		t.Run(r, func(t *testing.T) {
			_, err := ParseTimeRange(date, r, time.UTC)
			var pe *ParseError
			if !errors.As(err, &pe) {
				t.Fatalf("expected ParseError, got %v", err)
			}
		})
	}
}

func TestParseSessionTime(t *testing.T) {
	iv, err := ParseSessionTime("10-06-2025", "9:00 AM - 9:30 AM", time.UTC)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if iv.End.Sub(iv.Start) != 30*time.Minute {
		t.Fatalf("unexpected duration %v", iv.End.Sub(iv.Start))
	}

	if _, err := ParseSessionTime("10/06/2025", "9:00 AM - 9:30 AM", time.UTC); err == nil {
		t.Fatal("expected date error")
	}
}
