package booking

import (
	"time"

	"github.com/Freeeeeet/connect_portal/internal/model"
	"github.com/Freeeeeet/connect_portal/internal/schedule"
)

// BookingWindowDays - на сколько дней вперёд от сегодняшнего можно бронировать
const BookingWindowDays = 7

// Bookable оставляет слоты ментора, доступные студенту: открытые, с датой
// от сегодня до сегодня+BookingWindowDays, ещё не начавшиеся и не занятые
// бронированиями студента у этого же ментора.
func Bookable(slots []model.Slot, held []model.Booking, mentorID string, now time.Time, loc *time.Location) ([]model.Slot, error) {
	today := schedule.DateOf(now.In(loc))
	last := today.AddDays(BookingWindowDays)

	taken := make(map[string]struct{})
	for _, b := range held {
		if b.Mentor.ID == mentorID {
			taken[b.Slot.SlotID] = struct{}{}
		}
	}

	out := make([]model.Slot, 0, len(slots))
	for _, s := range slots {
		if s.Status != model.SlotStatusOpen {
			continue
		}
		d, err := schedule.ParseDate(s.Date)
		if err != nil {
			return nil, err
		}
		if d.Before(today) || last.Before(d) {
			continue
		}
		iv, err := schedule.ParseTimeRange(d, s.Time, loc)
		if err != nil {
			return nil, err
		}
		if schedule.Classify(iv, now) != schedule.Upcoming {
			continue
		}
		if _, ok := taken[s.ID]; ok {
			continue
		}
		out = append(out, s)
	}
	return out, nil
}

// CheckNotStarted повторно проверяет выбранный слот перед созданием брони:
// пока шёл диалог, слот мог уже начаться.
func CheckNotStarted(s model.Slot, now time.Time, loc *time.Location) error {
	iv, err := schedule.ParseSessionTime(s.Date, s.Time, loc)
	if err != nil {
		return err
	}
	if schedule.Classify(iv, now) != schedule.Upcoming {
		return ErrSlotUnavailable
	}
	return nil
}
