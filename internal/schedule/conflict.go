package schedule

import (
	"fmt"
	"strings"
)

// SlotKey - ключ для поиска дубликатов: у ментора не может быть двух слотов,
// начинающихся в одну минуту одного дня.
type SlotKey struct {
	Date  DateStamp
	Start TimeOfDay
}

func (k SlotKey) String() string {
	return k.Date.String() + " " + k.Start.String()
}

type ExistingSlot struct {
	ID  string
	Key SlotKey
}

// DuplicateSlotError отклоняет весь пакет целиком, ничего из него не создано
type DuplicateSlotError struct {
	Conflicts []SlotKey
}

func (e *DuplicateSlotError) Error() string {
	return "slots already exist for: " + strings.Join(e.Dates(), ", ")
}

// Dates - уникальные даты конфликтов в порядке обнаружения
func (e *DuplicateSlotError) Dates() []string {
	seen := make(map[DateStamp]struct{})
	var out []string
	for _, c := range e.Conflicts {
		if _, ok := seen[c.Date]; ok {
			continue
		}
		seen[c.Date] = struct{}{}
		out = append(out, c.Date.String())
	}
	return out
}

// CheckBatch отклоняет кандидатов, чья пара (дата, начало) уже занята.
// Повторы внутри самого пакета тоже считаются конфликтом.
func CheckBatch(candidates []SlotWindow, existing []ExistingSlot) error {
	taken := make(map[SlotKey]struct{}, len(existing)+len(candidates))
	for _, e := range existing {
		taken[e.Key] = struct{}{}
	}

	var conflicts []SlotKey
	for _, c := range candidates {
		k := c.Key()
		if _, ok := taken[k]; ok {
			conflicts = append(conflicts, k)
			continue
		}
		taken[k] = struct{}{}
	}

	if len(conflicts) > 0 {
		return &DuplicateSlotError{Conflicts: conflicts}
	}
	return nil
}

// CheckEdit проверяет изменённый слот против остальных слотов ментора
func CheckEdit(id string, edited SlotWindow, existing []ExistingSlot) error {
	k := edited.Key()
	for _, e := range existing {
		if e.ID != id && e.Key == k {
			return &DuplicateSlotError{Conflicts: []SlotKey{k}}
		}
	}
	return nil
}

// ParseSlotKey строит ключ из даты "dd-mm-yyyy" и начала "HH:MM"
func ParseSlotKey(date, start string) (SlotKey, error) {
	d, err := ParseDate(date)
	if err != nil {
		return SlotKey{}, err
	}
	t, err := ParseClock(start)
	if err != nil {
		return SlotKey{}, fmt.Errorf("slot start: %w", err)
	}
	return SlotKey{Date: d, Start: t}, nil
}
