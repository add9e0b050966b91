package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/Freeeeeet/connect_portal/internal/model"
)

// fakeAPI - удалённый REST API в памяти
type fakeAPI struct {
	mu       sync.Mutex
	slots    []model.Slot
	bookings []model.Booking
	course   *model.Course
	users    map[string]model.User
	status   *model.UserStatus

	createSlotCalls    int
	createBookingCalls int
	lastPatch          model.SlotPatch
	failWith           error
	nextID             int
}

func (f *fakeAPI) id() string {
	f.nextID++
	return fmt.Sprintf("id-%d", f.nextID)
}

func (f *fakeAPI) ListSlots(_ context.Context, _ model.Session, mentorID string, status model.SlotStatus) ([]model.Slot, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failWith != nil {
		return nil, f.failWith
	}
	var out []model.Slot
	for _, s := range f.slots {
		if s.Mentor == mentorID && (status == "" || s.Status == status) {
			out = append(out, s)
		}
	}
	return out, nil
}

func (f *fakeAPI) CreateSlots(_ context.Context, _ model.Session, slots []model.Slot) ([]model.Slot, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.createSlotCalls++
	out := make([]model.Slot, 0, len(slots))
	for _, s := range slots {
		s.ID = f.id()
		f.slots = append(f.slots, s)
		out = append(out, s)
	}
	return out, nil
}

func (f *fakeAPI) UpdateSlot(_ context.Context, _ model.Session, id string, patch model.SlotPatch) (*model.Slot, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lastPatch = patch
	for i := range f.slots {
		if f.slots[i].ID != id {
			continue
		}
		s := &f.slots[i]
		if patch.Date != nil {
			s.Date = *patch.Date
		}
		if patch.Time != nil {
			s.Time = *patch.Time
		}
		if patch.StartTime != nil {
			s.StartTime = *patch.StartTime
		}
		if patch.EndTime != nil {
			s.EndTime = *patch.EndTime
		}
		if patch.Status != nil {
			s.Status = *patch.Status
		}
		out := *s
		return &out, nil
	}
	return nil, errors.New("not found")
}

func (f *fakeAPI) DeleteSlot(_ context.Context, _ model.Session, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.slots {
		if f.slots[i].ID == id {
			f.slots = append(f.slots[:i], f.slots[i+1:]...)
			return nil
		}
	}
	return errors.New("not found")
}

func (f *fakeAPI) ListBookings(_ context.Context, _ model.Session, userID string) ([]model.Booking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []model.Booking
	for _, b := range f.bookings {
		if b.Student.ID == userID || b.Mentor.ID == userID {
			out = append(out, b)
		}
	}
	return out, nil
}

func (f *fakeAPI) CreateBooking(_ context.Context, _ model.Session, nb model.NewBooking) (*model.Booking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.createBookingCalls++
	if f.failWith != nil {
		return nil, f.failWith
	}
	b := model.Booking{
		ID:          f.id(),
		Student:     model.UserRef{ID: nb.Student},
		Mentor:      model.UserRef{ID: nb.Mentor},
		SessionType: nb.SessionType,
		Mode:        nb.Mode,
		Slot:        nb.Slot,
		Agenda:      nb.Agenda,
		Status:      model.BookingStatusBooked,
	}
	f.bookings = append(f.bookings, b)
	return &b, nil
}

func (f *fakeAPI) Course(_ context.Context, _ model.Session, id string) (*model.Course, error) {
	if f.course == nil || f.course.ID != id {
		return nil, errors.New("course not found")
	}
	return f.course, nil
}

func (f *fakeAPI) UsersByIDs(_ context.Context, _ model.Session, ids []string) ([]model.User, error) {
	var out []model.User
	for _, id := range ids {
		if u, ok := f.users[id]; ok {
			out = append(out, u)
		}
	}
	return out, nil
}

func (f *fakeAPI) UserStatus(_ context.Context, _ model.Session) (*model.UserStatus, error) {
	if f.status == nil {
		return nil, errors.New("unauthorized")
	}
	return f.status, nil
}

type fakeSettings struct {
	saved map[string]*model.SlotSettings
	err   error
}

func newFakeSettings() *fakeSettings {
	return &fakeSettings{saved: map[string]*model.SlotSettings{}}
}

func (f *fakeSettings) Get(_ context.Context, mentorID string) (*model.SlotSettings, error) {
	return f.saved[mentorID], f.err
}

func (f *fakeSettings) Upsert(_ context.Context, s *model.SlotSettings) error {
	if f.err != nil {
		return f.err
	}
	s.UpdatedAt = time.Now()
	f.saved[s.MentorID] = s
	return nil
}

func (f *fakeSettings) ListAutoFill(_ context.Context) ([]*model.SlotSettings, error) {
	var out []*model.SlotSettings
	for _, s := range f.saved {
		if s.AutoFill {
			out = append(out, s)
		}
	}
	return out, f.err
}

type fakeNotifier struct {
	sent []model.Booking
	err  error
}

func (n *fakeNotifier) BookingCreated(_ context.Context, b model.Booking) error {
	n.sent = append(n.sent, b)
	return n.err
}

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}
