package booking

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/Freeeeeet/connect_portal/internal/model"
	"github.com/Freeeeeet/connect_portal/internal/validation"
)

// MaxBookings - максимум бронирований у одного студента
const MaxBookings = 15

// MaxAgendaLength считается в символах, не в байтах
const MaxAgendaLength = 200

var (
	ErrInvalidTransition   = errors.New("action is not allowed at this step")
	ErrSlotUnavailable     = errors.New("slot is not available for booking")
	ErrMentorUnavailable   = errors.New("mentor does not offer this session type")
	ErrBookingLimitReached = errors.New("you have reached your maximum booking limit")
)

type Step int

const (
	StepSelectType Step = iota
	StepSelectMentor
	StepSelectSlot
	StepSelectMode
	StepConfirm
	StepSuccess
)

var stepNames = [...]string{"selectType", "selectMentor", "selectSlot", "selectMode", "confirm", "success"}

func (s Step) String() string {
	if s < 0 || int(s) >= len(stepNames) {
		return "unknown"
	}
	return stepNames[s]
}

// Flow - состояние одного диалога бронирования. Варианты (Mentors, Slots)
// заполняет вызывающий код после шага, которому они нужны.
type Flow struct {
	ID          uuid.UUID
	CourseID    string
	Step        Step
	SessionType model.SessionType
	Mentor      *model.UserRef
	Slot        *model.Slot
	Mode        model.BookingMode
	Agenda      string
	Booking     *model.Booking

	Mentors []model.UserRef
	Slots   []model.Slot
}

// Start открывает новый flow на шаге выбора типа сессии
func Start(courseID string) Flow {
	return Flow{ID: uuid.New(), CourseID: courseID, Step: StepSelectType}
}

// Event - одно действие пользователя в flow
type Event interface {
	apply(f Flow) (Flow, error)
}

type ChooseType struct{ Type model.SessionType }

type ChooseMentor struct{ MentorID string }

type ChooseSlot struct{ SlotID string }

type ChooseMode struct {
	Mode   model.BookingMode
	Agenda string
}

// Back - возврат на предыдущий шаг
type Back struct{}

// Completed фиксирует бронь, которую вернул удалённый API
type Completed struct{ Booking model.Booking }

// Apply применяет ev к f. При ошибке возвращается f без изменений.
func Apply(f Flow, ev Event) (Flow, error) {
	next, err := ev.apply(f)
	if err != nil {
		return f, err
	}
	return next, nil
}

func (e ChooseType) apply(f Flow) (Flow, error) {
	if f.Step != StepSelectType {
		return f, stepError(e, f.Step)
	}
	if !e.Type.Valid() {
		return f, validation.ValidationErrors{{Field: "sessionType", Message: "sessionType is not a known session type"}}
	}
	f.SessionType = e.Type
	f.Mentors = nil
	f.Step = StepSelectMentor
	return f, nil
}

func (e ChooseMentor) apply(f Flow) (Flow, error) {
	if f.Step != StepSelectMentor {
		return f, stepError(e, f.Step)
	}
	for _, m := range f.Mentors {
		if m.ID == e.MentorID {
			mentor := m
			f.Mentor = &mentor
			f.Slots = nil
			f.Step = StepSelectSlot
			return f, nil
		}
	}
	return f, ErrMentorUnavailable
}

func (e ChooseSlot) apply(f Flow) (Flow, error) {
	if f.Step != StepSelectSlot {
		return f, stepError(e, f.Step)
	}
	for _, s := range f.Slots {
		if s.ID == e.SlotID {
			slot := s
			f.Slot = &slot
			f.Step = StepSelectMode
			return f, nil
		}
	}
	return f, ErrSlotUnavailable
}

func (e ChooseMode) apply(f Flow) (Flow, error) {
	if f.Step != StepSelectMode {
		return f, stepError(e, f.Step)
	}
	if err := checkMode(e.Mode, e.Agenda); err != nil {
		return f, err
	}
	f.Mode = e.Mode
	f.Agenda = strings.TrimSpace(e.Agenda)
	f.Step = StepConfirm
	return f, nil
}

func (e Back) apply(f Flow) (Flow, error) {
	switch f.Step {
	case StepSelectMentor:
		f.Step = StepSelectType
		f.Mentor = nil
	case StepSelectSlot:
		f.Step = StepSelectMentor
		f.Slot = nil
	case StepSelectMode:
		f.Step = StepSelectSlot
	case StepConfirm:
		f.Step = StepSelectMode
	default:
		return f, stepError(e, f.Step)
	}
	return f, nil
}

func (e Completed) apply(f Flow) (Flow, error) {
	if f.Step != StepConfirm {
		return f, stepError(e, f.Step)
	}
	b := e.Booking
	f.Booking = &b
	f.Step = StepSuccess
	return f, nil
}

func stepError(ev Event, at Step) error {
	return fmt.Errorf("%w: %T at step %s", ErrInvalidTransition, ev, at)
}

func checkMode(mode model.BookingMode, agenda string) error {
	var errs validation.ValidationErrors
	if !mode.Valid() {
		errs = append(errs, validation.ValidationError{Field: "mode", Message: "mode must be one of: Private Public"})
	}
	trimmed := strings.TrimSpace(agenda)
	switch {
	case trimmed == "":
		errs = append(errs, validation.ValidationError{Field: "agenda", Message: "agenda is required"})
	case utf8.RuneCountInString(trimmed) > MaxAgendaLength:
		errs = append(errs, validation.ValidationError{
			Field:   "agenda",
			Message: fmt.Sprintf("agenda must be at most %d characters", MaxAgendaLength),
		})
	}
	if len(errs) > 0 {
		return errs
	}
	return nil
}

// Request собирает тело POST /bookings из flow на шаге подтверждения
func Request(f Flow, studentID string) (model.NewBooking, error) {
	if f.Step != StepConfirm || f.Mentor == nil || f.Slot == nil {
		return model.NewBooking{}, fmt.Errorf("%w: booking is not ready to confirm", ErrInvalidTransition)
	}
	return model.NewBooking{
		Student:     studentID,
		Mentor:      f.Mentor.ID,
		SessionType: f.SessionType,
		Mode:        f.Mode,
		Slot: model.SlotRef{
			SlotID: f.Slot.ID,
			Date:   f.Slot.Date,
			Time:   f.Slot.Time,
		},
		Agenda: f.Agenda,
	}, nil
}

// CheckLimit возвращает ошибку, если у студента уже MaxBookings броней
func CheckLimit(held int) error {
	if held >= MaxBookings {
		return ErrBookingLimitReached
	}
	return nil
}
