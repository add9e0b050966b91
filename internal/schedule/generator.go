package schedule

import "errors"

var (
	ErrInvalidDuration = errors.New("slot duration must be positive")
	ErrInvalidBuffer   = errors.New("buffer must not be negative")
	ErrNoDates         = errors.New("at least one date must be selected")
)

// SlotWindow - один интервал слота в конкретный день
type SlotWindow struct {
	Date  DateStamp
	Start TimeOfDay
	End   TimeOfDay
	Label string
}

// Key - пара (дата, начало) для поиска дубликатов
func (w SlotWindow) Key() SlotKey {
	return SlotKey{Date: w.Date, Start: w.Start}
}

// GenerateRequest - окно доступности ментора, применяемое к набору дней
type GenerateRequest struct {
	Dates        []DateStamp
	Start        TimeOfDay
	End          TimeOfDay
	SlotDuration int // минуты
	Buffer       int // минуты между соседними слотами
}

func (r GenerateRequest) Validate() error {
	if len(r.Dates) == 0 {
		return ErrNoDates
	}
	if r.SlotDuration <= 0 {
		return ErrInvalidDuration
	}
	if r.Buffer < 0 {
		return ErrInvalidBuffer
	}
	return nil
}

// Generate жадно раскладывает слоты в [Start, End] для каждой даты.
// Хвост короче SlotDuration отбрасывается, окно уже одного слота не даёт
// ничего. Повторные даты генерируются один раз в порядке первого появления.
func Generate(req GenerateRequest) ([]SlotWindow, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	day := DayWindows(req.Start, req.End, req.SlotDuration, req.Buffer)
	if len(day) == 0 {
		return []SlotWindow{}, nil
	}

	seen := make(map[DateStamp]struct{}, len(req.Dates))
	slots := make([]SlotWindow, 0, len(day)*len(req.Dates))
	for _, date := range req.Dates {
		if _, ok := seen[date]; ok {
			continue
		}
		seen[date] = struct{}{}

		for _, w := range day {
			w.Date = date
			slots = append(slots, w)
		}
	}
	return slots, nil
}

// DayWindows раскладывает слоты на один день, дата в окнах не заполнена
func DayWindows(start, end TimeOfDay, duration, buffer int) []SlotWindow {
	if duration <= 0 || buffer < 0 {
		return nil
	}

	var out []SlotWindow
	limit := end.Minutes()
	for cursor := start.Minutes(); cursor+duration <= limit; cursor += duration + buffer {
		from, to := MinutesOf(cursor), MinutesOf(cursor+duration)
		out = append(out, SlotWindow{
			Start: from,
			End:   to,
			Label: RangeLabel(from, to),
		})
	}
	return out
}
