package schedule

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// ParseError описывает некорректную строку даты или времени.
type ParseError struct {
	Kind   string // "date", "time", "range"
	Input  string
	Reason string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse %s %q: %s", e.Kind, e.Input, e.Reason)
}

func dateError(input, reason string) error {
	return &ParseError{Kind: "date", Input: input, Reason: reason}
}

func timeError(input, reason string) error {
	return &ParseError{Kind: "time", Input: input, Reason: reason}
}

// DateStamp - календарный день, передаётся как "dd-mm-yyyy"
type DateStamp struct {
	Day   int
	Month int
	Year  int
}

// DateOf возвращает день t в его часовом поясе
func DateOf(t time.Time) DateStamp {
	y, m, d := t.Date()
	return DateStamp{Day: d, Month: int(m), Year: y}
}

// ParseDate разбирает "dd-mm-yyyy", день должен существовать в календаре
func ParseDate(s string) (DateStamp, error) {
	parts := strings.Split(s, "-")
	if len(parts) != 3 {
		return DateStamp{}, dateError(s, "expected dd-mm-yyyy")
	}

	nums := make([]int, 3)
	for i, p := range parts {
		n, err := strconv.Atoi(p)
		if err != nil || p == "" || strings.ContainsAny(p, "+-") {
			return DateStamp{}, dateError(s, fmt.Sprintf("component %q is not a number", p))
		}
		nums[i] = n
	}

	d := DateStamp{Day: nums[0], Month: nums[1], Year: nums[2]}
	if err := d.validate(); err != nil {
		return DateStamp{}, dateError(s, err.Error())
	}
	return d, nil
}

// ParseInputDate разбирает "yyyy-mm-dd" из поля даты формы
func ParseInputDate(s string) (DateStamp, error) {
	parts := strings.Split(s, "-")
	if len(parts) != 3 {
		return DateStamp{}, dateError(s, "expected yyyy-mm-dd")
	}
	return ParseDate(parts[2] + "-" + parts[1] + "-" + parts[0])
}

func (d DateStamp) validate() error {
	if d.Month < 1 || d.Month > 12 {
		return fmt.Errorf("month %d out of range", d.Month)
	}
	if d.Year < 1 {
		return fmt.Errorf("year %d out of range", d.Year)
	}
	if d.Day < 1 || d.Day > daysIn(time.Month(d.Month), d.Year) {
		return fmt.Errorf("day %d out of range", d.Day)
	}
	return nil
}

func daysIn(m time.Month, year int) int {
	return time.Date(year, m+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

func (d DateStamp) String() string {
	return fmt.Sprintf("%02d-%02d-%04d", d.Day, d.Month, d.Year)
}

// InputValue форматирует дату как "yyyy-mm-dd"
func (d DateStamp) InputValue() string {
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, d.Month, d.Day)
}

// Midnight - начало дня в loc
func (d DateStamp) Midnight(loc *time.Location) time.Time {
	return time.Date(d.Year, time.Month(d.Month), d.Day, 0, 0, 0, 0, loc)
}

// At собирает момент времени из даты и времени суток в loc
func (d DateStamp) At(t TimeOfDay, loc *time.Location) time.Time {
	return time.Date(d.Year, time.Month(d.Month), d.Day, t.Hour, t.Minute, 0, 0, loc)
}

// AddDays сдвигает дату на n календарных дней
func (d DateStamp) AddDays(n int) DateStamp {
	return DateOf(d.Midnight(time.UTC).AddDate(0, 0, n))
}

func (d DateStamp) Weekday() time.Weekday {
	return d.Midnight(time.UTC).Weekday()
}

// Compare сравнивает даты по (год, месяц, день): -1, 0 или +1
func (d DateStamp) Compare(o DateStamp) int {
	switch {
	case d.Year != o.Year:
		return sign(d.Year - o.Year)
	case d.Month != o.Month:
		return sign(d.Month - o.Month)
	default:
		return sign(d.Day - o.Day)
	}
}

func (d DateStamp) Before(o DateStamp) bool {
	return d.Compare(o) < 0
}

func sign(n int) int {
	switch {
	case n < 0:
		return -1
	case n > 0:
		return 1
	}
	return 0
}

// TimeOfDay - время суток с точностью до минуты
type TimeOfDay struct {
	Hour   int
	Minute int
}

// MinutesOf переводит минуты от полуночи в TimeOfDay
func MinutesOf(total int) TimeOfDay {
	return TimeOfDay{Hour: total / 60, Minute: total % 60}
}

// ParseTimeOfDay разбирает 12-часовой формат "h:mm AM" / "h:mm PM"
func ParseTimeOfDay(s string) (TimeOfDay, error) {
	parts := strings.Split(s, " ")
	if len(parts) != 2 {
		return TimeOfDay{}, timeError(s, "expected \"h:mm AM\" or \"h:mm PM\"")
	}
	clock, meridian := parts[0], strings.ToUpper(parts[1])
	if meridian != "AM" && meridian != "PM" {
		return TimeOfDay{}, timeError(s, fmt.Sprintf("unknown meridian %q", parts[1]))
	}

	hour, minute, err := splitClock(clock)
	if err != nil {
		return TimeOfDay{}, timeError(s, err.Error())
	}
	if hour < 1 || hour > 12 {
		return TimeOfDay{}, timeError(s, fmt.Sprintf("hour %d outside 1-12", hour))
	}

	switch {
	case meridian == "PM" && hour != 12:
		hour += 12
	case meridian == "AM" && hour == 12:
		hour = 0
	}
	return TimeOfDay{Hour: hour, Minute: minute}, nil
}

// ParseClock разбирает 24-часовой "HH:MM" из поля времени формы
func ParseClock(s string) (TimeOfDay, error) {
	hour, minute, err := splitClock(s)
	if err != nil {
		return TimeOfDay{}, timeError(s, err.Error())
	}
	if hour > 23 {
		return TimeOfDay{}, timeError(s, fmt.Sprintf("hour %d outside 0-23", hour))
	}
	return TimeOfDay{Hour: hour, Minute: minute}, nil
}

func splitClock(s string) (int, int, error) {
	hm := strings.Split(s, ":")
	if len(hm) != 2 {
		return 0, 0, fmt.Errorf("expected hours:minutes")
	}
	hour, err := strconv.Atoi(hm[0])
	if err != nil || hm[0] == "" || len(hm[0]) > 2 || hour < 0 {
		return 0, 0, fmt.Errorf("hour %q is not a number", hm[0])
	}
	minute, err := strconv.Atoi(hm[1])
	if err != nil || len(hm[1]) != 2 || minute < 0 {
		return 0, 0, fmt.Errorf("minute %q is not a two-digit number", hm[1])
	}
	if minute > 59 {
		return 0, 0, fmt.Errorf("minute %d outside 0-59", minute)
	}
	return hour, minute, nil
}

// Minutes - минуты от полуночи
func (t TimeOfDay) Minutes() int {
	return t.Hour*60 + t.Minute
}

// String форматирует время в 12-часовом виде, например "2:30 PM"
func (t TimeOfDay) String() string {
	meridian := "AM"
	if t.Hour >= 12 {
		meridian = "PM"
	}
	hour := t.Hour % 12
	if hour == 0 {
		hour = 12
	}
	return fmt.Sprintf("%d:%02d %s", hour, t.Minute, meridian)
}

// Clock форматирует время как "HH:MM"
func (t TimeOfDay) Clock() string {
	return fmt.Sprintf("%02d:%02d", t.Hour, t.Minute)
}

// RangeLabel собирает подпись "<start> - <end>"
func RangeLabel(start, end TimeOfDay) string {
	return start.String() + rangeSeparator + end.String()
}

const rangeSeparator = " - "

// Interval - начало и конец в пределах одного дня
type Interval struct {
	Start time.Time
	End   time.Time
}

// ParseTimeRange переводит диапазон "<start> - <end>" на дату date в моменты
// времени в loc. Диапазоны через полночь не поддерживаются и дают ParseError.
func ParseTimeRange(date DateStamp, rng string, loc *time.Location) (Interval, error) {
	parts := strings.Split(rng, rangeSeparator)
	if len(parts) != 2 {
		return Interval{}, &ParseError{Kind: "range", Input: rng, Reason: "expected \"<start> - <end>\""}
	}

	start, err := ParseTimeOfDay(parts[0])
	if err != nil {
		return Interval{}, err
	}
	end, err := ParseTimeOfDay(parts[1])
	if err != nil {
		return Interval{}, err
	}
	if end.Minutes() <= start.Minutes() {
		return Interval{}, &ParseError{Kind: "range", Input: rng, Reason: "end is not after start (overnight ranges are unsupported)"}
	}

	return Interval{Start: date.At(start, loc), End: date.At(end, loc)}, nil
}

// ParseSessionTime разбирает сохранённые дату и диапазон сессии
func ParseSessionTime(date, rng string, loc *time.Location) (Interval, error) {
	d, err := ParseDate(date)
	if err != nil {
		return Interval{}, err
	}
	return ParseTimeRange(d, rng, loc)
}
