package controller

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/julienschmidt/httprouter"
	"go.uber.org/zap"

	"github.com/Freeeeeet/connect_portal/internal/booking"
	"github.com/Freeeeeet/connect_portal/internal/model"
	"github.com/Freeeeeet/connect_portal/internal/schedule"
	"github.com/Freeeeeet/connect_portal/internal/service"
)

// Sessions - встречи пользователя во вкладке tab.
// view по умолчанию определяется выбранной ролью.
func (h *Handler) Sessions(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	sess := session(r)
	query := r.URL.Query()

	view := schedule.StudentView
	switch query.Get("view") {
	case "student":
	case "mentor":
		view = schedule.MentorView
	case "":
		if sess.SelectedRole != "" && sess.SelectedRole != model.RoleStudent {
			view = schedule.MentorView
		}
	default:
		h.writeError(w, r, fmt.Errorf("%w: view %q", ErrInvalidParams, query.Get("view")))
		return
	}

	tab := schedule.Upcoming
	if raw := query.Get("tab"); raw != "" {
		parsed, ok := schedule.ParseSessionState(raw)
		if !ok {
			h.writeError(w, r, fmt.Errorf("%w: tab %q", ErrInvalidParams, raw))
			return
		}
		tab = parsed
	}

	page := 1
	if raw := query.Get("page"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			h.writeError(w, r, fmt.Errorf("%w: page %q", ErrInvalidParams, raw))
			return
		}
		page = n
	}

	result, err := h.bookings.Sessions(r.Context(), sess, view, tab, page)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeSuccess(w, http.StatusOK, toSessionsPage(result))
}

// flowKey - диалоги хранятся по id пользователя из токена
func flowKey(sess model.Session) (string, error) {
	if sess.UserID == "" {
		return "", service.ErrNoIdentity
	}
	return sess.UserID, nil
}

func (h *Handler) GetFlow(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	key, err := flowKey(session(r))
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	f, ok := h.flows.Get(key)
	if !ok {
		h.writeError(w, r, ErrNoFlow)
		return
	}
	h.writeSuccess(w, http.StatusOK, toFlow(f))
}

type startFlowRequest struct {
	CourseID string `json:"courseId"`
}

// StartFlow начинает бронирование заново, прошлый диалог отбрасывается
func (h *Handler) StartFlow(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	sess := session(r)
	key, err := flowKey(sess)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	var req startFlowRequest
	if err := decodeBody(r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}

	f, err := h.bookings.StartFlow(r.Context(), sess, req.CourseID)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	h.flows.Set(key, f)
	h.writeSuccess(w, http.StatusCreated, toFlow(f))
}

// Действия пользователя в диалоге бронирования
const (
	actionChooseType   = "chooseType"
	actionChooseMentor = "chooseMentor"
	actionChooseSlot   = "chooseSlot"
	actionChooseMode   = "chooseMode"
	actionBack         = "back"
	actionConfirm      = "confirm"
)

type flowEventRequest struct {
	Action      string            `json:"action"`
	SessionType model.SessionType `json:"sessionType,omitempty"`
	MentorID    string            `json:"mentorId,omitempty"`
	SlotID      string            `json:"slotId,omitempty"`
	Mode        model.BookingMode `json:"mode,omitempty"`
	Agenda      string            `json:"agenda,omitempty"`
}

func (req flowEventRequest) event() (booking.Event, error) {
	switch req.Action {
	case actionChooseType:
		return booking.ChooseType{Type: req.SessionType}, nil
	case actionChooseMentor:
		return booking.ChooseMentor{MentorID: req.MentorID}, nil
	case actionChooseSlot:
		return booking.ChooseSlot{SlotID: req.SlotID}, nil
	case actionChooseMode:
		return booking.ChooseMode{Mode: req.Mode, Agenda: req.Agenda}, nil
	case actionBack:
		return booking.Back{}, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownEvent, req.Action)
}

// FlowEvent применяет одно действие к текущему диалогу.
// При ошибке сохранённый диалог не меняется.
func (h *Handler) FlowEvent(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	sess := session(r)
	key, err := flowKey(sess)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	var req flowEventRequest
	if err := decodeBody(r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}

	f, ok := h.flows.Get(key)
	if !ok {
		h.writeError(w, r, ErrNoFlow)
		return
	}

	var next booking.Flow
	if req.Action == actionConfirm {
		next, err = h.bookings.Confirm(r.Context(), sess, f)
	} else {
		ev, evErr := req.event()
		if evErr != nil {
			h.writeError(w, r, evErr)
			return
		}
		next, err = h.bookings.Apply(r.Context(), sess, f, ev)
	}
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	h.flows.Set(key, next)
	if next.Step == booking.StepSuccess {
		h.logger.Info("Booking flow finished",
			zap.String("flow_id", next.ID.String()),
			zap.String("user_id", sess.UserID))
	}
	h.writeSuccess(w, http.StatusOK, toFlow(next))
}

func (h *Handler) AbandonFlow(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	key, err := flowKey(session(r))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.flows.Clear(key)
	w.WriteHeader(http.StatusNoContent)
}
