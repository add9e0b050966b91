package controller

import (
	"time"

	"github.com/Freeeeeet/connect_portal/internal/booking"
	"github.com/Freeeeeet/connect_portal/internal/model"
	"github.com/Freeeeeet/connect_portal/internal/schedule"
	"github.com/Freeeeeet/connect_portal/internal/service"
)

type weekDayResponse struct {
	Label     string `json:"label"`
	Date      string `json:"date"`
	InputDate string `json:"inputDate"`
}

func toWeek(days []schedule.WeekDay) []weekDayResponse {
	out := make([]weekDayResponse, 0, len(days))
	for _, d := range days {
		out = append(out, weekDayResponse{Label: d.Label, Date: d.Date.String(), InputDate: d.Date.InputValue()})
	}
	return out
}

type slotGroupResponse struct {
	Date    string       `json:"date"`
	Weekday string       `json:"weekday"`
	Slots   []model.Slot `json:"slots"`
}

func toSlotGroups(groups []schedule.DateGroup[model.Slot]) []slotGroupResponse {
	out := make([]slotGroupResponse, 0, len(groups))
	for _, g := range groups {
		out = append(out, slotGroupResponse{Date: g.Date.String(), Weekday: g.Weekday, Slots: g.Items})
	}
	return out
}

type settingsResponse struct {
	Weekdays     []int     `json:"weekdays"`
	StartTime    string    `json:"startTime"`
	EndTime      string    `json:"endTime"`
	SlotDuration int       `json:"slotDuration"`
	BufferTime   int       `json:"bufferTime"`
	AutoFill     bool      `json:"autoFill"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

func toSettings(s *model.SlotSettings) *settingsResponse {
	if s == nil {
		return nil
	}
	days := make([]int, 0, len(s.Weekdays))
	for _, d := range s.Weekdays {
		days = append(days, int(d))
	}
	return &settingsResponse{
		Weekdays:     days,
		StartTime:    s.Start,
		EndTime:      s.End,
		SlotDuration: s.SlotDuration,
		BufferTime:   s.Buffer,
		AutoFill:     s.AutoFill,
		UpdatedAt:    s.UpdatedAt,
	}
}

type joinResponse struct {
	Enabled bool   `json:"enabled"`
	Label   string `json:"label"`
	URL     string `json:"url,omitempty"`
}

type sessionResponse struct {
	Booking model.Booking `json:"booking"`
	State   string        `json:"state"`
	Start   time.Time     `json:"start"`
	End     time.Time     `json:"end"`
	Join    joinResponse  `json:"join"`
}

type sessionsPageResponse struct {
	Sessions   []sessionResponse `json:"sessions"`
	Page       int               `json:"page"`
	TotalPages int               `json:"totalPages"`
	HasPrev    bool              `json:"hasPrev"`
	HasNext    bool              `json:"hasNext"`
}

func toSessionsPage(p schedule.Page[service.SessionView]) sessionsPageResponse {
	items := make([]sessionResponse, 0, len(p.Items))
	for _, v := range p.Items {
		b := v.Booking
		// ссылка на встречу отдаётся только в join
		b.JoinURL = ""
		items = append(items, sessionResponse{
			Booking: b,
			State:   v.State.String(),
			Start:   v.Start,
			End:     v.End,
			Join:    joinResponse{Enabled: v.Join.Enabled, Label: v.Join.Label, URL: v.JoinURL()},
		})
	}
	return sessionsPageResponse{
		Sessions:   items,
		Page:       p.Number,
		TotalPages: p.TotalPages,
		HasPrev:    p.HasPrev,
		HasNext:    p.HasNext,
	}
}

type sessionTypeResponse struct {
	ID          model.SessionType `json:"id"`
	Label       string            `json:"label"`
	Description string            `json:"description"`
}

type flowResponse struct {
	ID          string                `json:"id"`
	CourseID    string                `json:"courseId"`
	Step        string                `json:"step"`
	SessionType *model.SessionType    `json:"sessionType,omitempty"`
	Mentor      *model.UserRef        `json:"mentor,omitempty"`
	Slot        *model.Slot           `json:"slot,omitempty"`
	Mode        model.BookingMode     `json:"mode,omitempty"`
	Agenda      string                `json:"agenda,omitempty"`
	Booking     *model.Booking        `json:"booking,omitempty"`
	Types       []sessionTypeResponse `json:"sessionTypes,omitempty"`
	Mentors     []model.UserRef       `json:"mentors,omitempty"`
	Slots       []model.Slot          `json:"slots,omitempty"`
}

// toFlow отдаёт варианты только для текущего шага
func toFlow(f booking.Flow) flowResponse {
	resp := flowResponse{
		ID:       f.ID.String(),
		CourseID: f.CourseID,
		Step:     f.Step.String(),
		Mentor:   f.Mentor,
		Slot:     f.Slot,
		Mode:     f.Mode,
		Agenda:   f.Agenda,
		Booking:  f.Booking,
	}
	if f.SessionType.Valid() {
		st := f.SessionType
		resp.SessionType = &st
	}

	switch f.Step {
	case booking.StepSelectType:
		for _, t := range model.SessionTypes() {
			resp.Types = append(resp.Types, sessionTypeResponse{ID: t, Label: t.Label(), Description: t.Description()})
		}
	case booking.StepSelectMentor:
		resp.Mentors = f.Mentors
	case booking.StepSelectSlot:
		resp.Slots = f.Slots
	}
	return resp
}
