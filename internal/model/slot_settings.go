package model

import "time"

// SlotSettings - сохранённые параметры генерации слотов ментора
type SlotSettings struct {
	MentorID     string         `json:"mentorId"`
	Weekdays     []time.Weekday `json:"selectedWeekDays"` // 0 = Sunday, 6 = Saturday
	Start        string         `json:"startTime"`        // HH:MM
	End          string         `json:"endTime"`          // HH:MM
	SlotDuration int            `json:"slotDuration"`     // минуты
	Buffer       int            `json:"bufferTime"`       // минуты
	AutoFill     bool           `json:"autoFill"`         // заполнять текущую неделю автоматически
	UpdatedAt    time.Time      `json:"updatedAt"`
}

// HasWeekday проверяет, выбран ли день недели
func (s *SlotSettings) HasWeekday(d time.Weekday) bool {
	for _, w := range s.Weekdays {
		if w == d {
			return true
		}
	}
	return false
}
