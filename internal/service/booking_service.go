package service

import (
	"context"
	"fmt"
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/Freeeeeet/connect_portal/internal/booking"
	"github.com/Freeeeeet/connect_portal/internal/model"
	"github.com/Freeeeeet/connect_portal/internal/schedule"
	"github.com/Freeeeeet/connect_portal/internal/validation"
)

// MentorSessionsPerPage - размер страницы расписания ментора
const MentorSessionsPerPage = 5

// BookingAPI - операции удалённого API, нужные для бронирования
type BookingAPI interface {
	ListBookings(ctx context.Context, s model.Session, userID string) ([]model.Booking, error)
	CreateBooking(ctx context.Context, s model.Session, nb model.NewBooking) (*model.Booking, error)
	ListSlots(ctx context.Context, s model.Session, mentorID string, status model.SlotStatus) ([]model.Slot, error)
	Course(ctx context.Context, s model.Session, id string) (*model.Course, error)
	UsersByIDs(ctx context.Context, s model.Session, ids []string) ([]model.User, error)
}

// Notifier получает уведомление о созданном бронировании
type Notifier interface {
	BookingCreated(ctx context.Context, b model.Booking) error
}

type BookingService struct {
	api       BookingAPI
	notifier  Notifier
	validator *validation.Validator
	loc       *time.Location
	now       func() time.Time
	logger    *zap.Logger
}

func NewBookingService(
	api BookingAPI,
	notifier Notifier,
	validator *validation.Validator,
	loc *time.Location,
	now func() time.Time,
	logger *zap.Logger,
) *BookingService {
	if now == nil {
		now = time.Now
	}
	return &BookingService{
		api:       api,
		notifier:  notifier,
		validator: validator,
		loc:       loc,
		now:       now,
		logger:    logger,
	}
}

// StartFlow открывает новый диалог бронирования для курса
func (s *BookingService) StartFlow(ctx context.Context, sess model.Session, courseID string) (booking.Flow, error) {
	if sess.UserID == "" {
		return booking.Flow{}, ErrNoIdentity
	}
	if courseID == "" {
		return booking.Flow{}, validation.ValidationErrors{{Field: "courseId", Message: "courseId is required"}}
	}

	f := booking.Start(courseID)
	s.logger.Info("Booking flow started",
		zap.String("flow_id", f.ID.String()),
		zap.String("student_id", sess.UserID),
		zap.String("course_id", courseID))
	return f, nil
}

// Apply применяет событие и подгружает варианты для следующего шага:
// ответственных курса после выбора типа и свободные слоты после выбора ментора.
// При ошибке загрузки возвращается исходный flow.
func (s *BookingService) Apply(ctx context.Context, sess model.Session, f booking.Flow, ev booking.Event) (booking.Flow, error) {
	next, err := booking.Apply(f, ev)
	if err != nil {
		return f, err
	}
	if next.Step == f.Step {
		return next, nil
	}

	switch {
	case next.Step == booking.StepSelectMentor && f.Step == booking.StepSelectType:
		mentors, err := s.responders(ctx, sess, next.CourseID, next.SessionType)
		if err != nil {
			return f, err
		}
		next.Mentors = mentors
	case next.Step == booking.StepSelectSlot && f.Step == booking.StepSelectMentor:
		slots, err := s.bookableSlots(ctx, sess, next.Mentor.ID)
		if err != nil {
			return f, err
		}
		next.Slots = slots
	}

	s.logger.Debug("Booking flow advanced",
		zap.String("flow_id", f.ID.String()),
		zap.Stringer("from", f.Step),
		zap.Stringer("to", next.Step))
	return next, nil
}

// responders возвращает пользователей курса, проводящих встречи этого типа
func (s *BookingService) responders(ctx context.Context, sess model.Session, courseID string, st model.SessionType) ([]model.UserRef, error) {
	course, err := s.api.Course(ctx, sess, courseID)
	if err != nil {
		s.logger.Error("Failed to get course",
			zap.String("course_id", courseID),
			zap.Error(err))
		return nil, fmt.Errorf("get course: %w", err)
	}

	refs := course.Responders(st)
	ids := make([]string, 0, len(refs))
	for _, r := range refs {
		if r.ID != "" {
			ids = append(ids, r.ID)
		}
	}

	users, err := s.api.UsersByIDs(ctx, sess, ids)
	if err != nil {
		s.logger.Error("Failed to get responders",
			zap.String("course_id", courseID),
			zap.Stringer("session_type", st),
			zap.Error(err))
		return nil, fmt.Errorf("get responders: %w", err)
	}

	out := make([]model.UserRef, 0, len(users))
	for _, u := range users {
		out = append(out, model.UserRef{ID: u.ID, Name: u.Name, Email: u.Email})
	}
	return out, nil
}

func (s *BookingService) bookableSlots(ctx context.Context, sess model.Session, mentorID string) ([]model.Slot, error) {
	slots, err := s.api.ListSlots(ctx, sess, mentorID, model.SlotStatusOpen)
	if err != nil {
		s.logger.Error("Failed to get mentor slots",
			zap.String("mentor_id", mentorID),
			zap.Error(err))
		return nil, fmt.Errorf("list slots: %w", err)
	}

	held, err := s.api.ListBookings(ctx, sess, sess.UserID)
	if err != nil {
		return nil, fmt.Errorf("list bookings: %w", err)
	}

	return booking.Bookable(slots, held, mentorID, s.now(), s.loc)
}

// Confirm создаёт бронирование из flow на шаге подтверждения
func (s *BookingService) Confirm(ctx context.Context, sess model.Session, f booking.Flow) (booking.Flow, error) {
	if sess.UserID == "" {
		return f, ErrNoIdentity
	}

	nb, err := booking.Request(f, sess.UserID)
	if err != nil {
		return f, err
	}
	if err := s.validator.Struct(nb); err != nil {
		return f, err
	}

	if err := booking.CheckNotStarted(*f.Slot, s.now(), s.loc); err != nil {
		s.logger.Info("Slot already started",
			zap.String("student_id", sess.UserID),
			zap.String("slot_id", f.Slot.ID))
		return f, err
	}

	held, err := s.api.ListBookings(ctx, sess, sess.UserID)
	if err != nil {
		return f, fmt.Errorf("list bookings: %w", err)
	}
	if err := booking.CheckLimit(countAsStudent(held, sess.UserID)); err != nil {
		s.logger.Info("Booking limit reached",
			zap.String("student_id", sess.UserID),
			zap.Int("limit", booking.MaxBookings))
		return f, err
	}

	created, err := s.api.CreateBooking(ctx, sess, nb)
	if err != nil {
		s.logger.Error("Failed to create booking",
			zap.String("student_id", sess.UserID),
			zap.String("mentor_id", nb.Mentor),
			zap.String("slot_id", nb.Slot.SlotID),
			zap.Error(err))
		return f, fmt.Errorf("create booking: %w", err)
	}

	next, err := booking.Apply(f, booking.Completed{Booking: *created})
	if err != nil {
		return f, err
	}

	s.logger.Info("Booking created",
		zap.String("booking_id", created.ID),
		zap.String("student_id", sess.UserID),
		zap.String("mentor_id", nb.Mentor),
		zap.Stringer("session_type", nb.SessionType),
		zap.String("mode", string(nb.Mode)))

	if err := s.notifier.BookingCreated(ctx, *created); err != nil {
		s.logger.Warn("Failed to send booking notification",
			zap.String("booking_id", created.ID),
			zap.Error(err))
	}

	return next, nil
}

// countAsStudent считает бронирования, где пользователь - студент.
// Записи без student считаются принадлежащими ему: API фильтрует по user.
func countAsStudent(bookings []model.Booking, userID string) int {
	n := 0
	for _, b := range bookings {
		if b.Student.ID == "" || b.Student.ID == userID {
			n++
		}
	}
	return n
}

// SessionView - бронирование с вычисленным состоянием
type SessionView struct {
	Booking model.Booking
	State   schedule.SessionState
	Start   time.Time
	End     time.Time
	Join    schedule.JoinAction
}

// JoinURL отдаёт ссылку только пока вход разрешён
func (v SessionView) JoinURL() string {
	if !v.Join.Enabled {
		return ""
	}
	return v.Booking.JoinURL
}

// Sessions возвращает бронирования пользователя во вкладке tab.
// В расписании ментора вкладки строгие и есть пагинация по 5.
func (s *BookingService) Sessions(ctx context.Context, sess model.Session, view schedule.View, tab schedule.SessionState, page int) (schedule.Page[SessionView], error) {
	if sess.UserID == "" {
		return schedule.Page[SessionView]{}, ErrNoIdentity
	}

	bookings, err := s.api.ListBookings(ctx, sess, sess.UserID)
	if err != nil {
		s.logger.Error("Failed to list bookings",
			zap.String("user_id", sess.UserID),
			zap.Error(err))
		return schedule.Page[SessionView]{}, fmt.Errorf("list bookings: %w", err)
	}

	now := s.now()
	views := make([]SessionView, 0, len(bookings))
	for _, b := range bookings {
		iv, err := schedule.ParseSessionTime(b.Slot.Date, b.Slot.Time, s.loc)
		if err != nil {
			s.logger.Warn("Skipping booking with malformed time",
				zap.String("booking_id", b.ID),
				zap.String("date", b.Slot.Date),
				zap.String("time", b.Slot.Time),
				zap.Error(err))
			continue
		}

		state := schedule.Classify(iv, now)
		if !view.InTab(tab, state) {
			continue
		}
		views = append(views, SessionView{
			Booking: b,
			State:   state,
			Start:   iv.Start,
			End:     iv.End,
			Join:    schedule.Join(iv, b.Status, now),
		})
	}

	sort.SliceStable(views, func(i, j int) bool {
		if tab == schedule.Past {
			return views[i].Start.After(views[j].Start)
		}
		return views[i].Start.Before(views[j].Start)
	})

	perPage := MentorSessionsPerPage
	if view == schedule.StudentView {
		perPage = len(views)
	}
	return schedule.Paginate(views, page, perPage), nil
}
