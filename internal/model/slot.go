package model

type SlotStatus string

const (
	SlotStatusOpen     SlotStatus = "Open"
	SlotStatusBooked   SlotStatus = "Booked"
	SlotStatusArchived SlotStatus = "Archived"
)

// Valid проверяет, что статус из закрытого набора
func (s SlotStatus) Valid() bool {
	switch s {
	case SlotStatusOpen, SlotStatusBooked, SlotStatusArchived:
		return true
	}
	return false
}

// Slot - слот ментора в формате удалённого API.
// Date в формате dd-mm-yyyy, Time - "h:mm AM - h:mm PM",
// StartTime/EndTime - "HH:MM"
type Slot struct {
	ID        string     `json:"_id,omitempty"`
	Mentor    string     `json:"mentor"`
	Date      string     `json:"date"`
	Time      string     `json:"time"`
	StartTime string     `json:"startTime"`
	EndTime   string     `json:"endTime"`
	Status    SlotStatus `json:"status,omitempty"`
}

// SlotPatch - частичное обновление слота для PUT /slots/:id
type SlotPatch struct {
	Date      *string     `json:"date,omitempty"`
	Time      *string     `json:"time,omitempty"`
	StartTime *string     `json:"startTime,omitempty"`
	EndTime   *string     `json:"endTime,omitempty"`
	Status    *SlotStatus `json:"status,omitempty"`
}
