package model

type BookingMode string

const (
	ModePrivate BookingMode = "Private"
	ModePublic  BookingMode = "Public"
)

func (m BookingMode) Valid() bool {
	return m == ModePrivate || m == ModePublic
}

// Статусы бронирования, которые приходят от API
const (
	BookingStatusBooked      = "Booked"
	BookingStatusRescheduled = "Rescheduled"
	BookingStatusAttended    = "Attended"
	BookingStatusCompleted   = "Completed" // сессия закрыта, вход недоступен
)

// SlotRef - ссылка на слот с денормализованными датой и временем
type SlotRef struct {
	SlotID string `json:"slotId"`
	Date   string `json:"date"`
	Time   string `json:"time"`
}

type Booking struct {
	ID          string      `json:"_id,omitempty"`
	Student     UserRef     `json:"student"`
	Mentor      UserRef     `json:"mentor"`
	SessionType SessionType `json:"sessionType"`
	Mode        BookingMode `json:"mode"`
	Slot        SlotRef     `json:"slot"`
	Agenda      string      `json:"agenda"`
	Status      string      `json:"status,omitempty"`
	JoinURL     string      `json:"zoomJoinUrl,omitempty"`
}

// NewBooking - тело POST /bookings
type NewBooking struct {
	Student     string      `json:"student" validate:"required"`
	Mentor      string      `json:"mentor" validate:"required"`
	SessionType SessionType `json:"sessionType" validate:"required,session_type"`
	Mode        BookingMode `json:"mode" validate:"required,oneof=Private Public"`
	Slot        SlotRef     `json:"slot"`
	Agenda      string      `json:"agenda" validate:"required,max=200"`
}
