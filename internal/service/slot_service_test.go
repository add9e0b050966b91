package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/zap/zaptest"

	"github.com/Freeeeeet/connect_portal/internal/model"
	"github.com/Freeeeeet/connect_portal/internal/schedule"
	"github.com/Freeeeeet/connect_portal/internal/validation"
)

var mentor = model.Session{Token: "tok", UserID: "m1", SelectedRole: model.RoleMentor}

// среда, 4 июня 2025, 09:00 UTC
var wednesday = time.Date(2025, 6, 4, 9, 0, 0, 0, time.UTC)

func newSlotService(t *testing.T, api *fakeAPI, settings *fakeSettings) *SlotService {
	t.Helper()
	return NewSlotService(api, settings, validation.New(), time.UTC, fixedClock(wednesday), zaptest.NewLogger(t))
}

func TestCreateSlots(t *testing.T) {
	api := &fakeAPI{}
	settings := newFakeSettings()
	svc := newSlotService(t, api, settings)

	created, err := svc.CreateSlots(context.Background(), mentor, CreateSlotsRequest{
		Dates:        []string{"2025-06-04", "05-06-2025"},
		Start:        "10:00",
		End:          "11:00",
		SlotDuration: 30,
		SaveSettings: true,
		AutoFill:     true,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(created) != 4 {
		t.Fatalf("expected 4 slots, got %d", len(created))
	}

	first := created[0]
	if first.Mentor != "m1" || first.Date != "04-06-2025" || first.Time != "10:00 AM - 10:30 AM" ||
		first.StartTime != "10:00" || first.EndTime != "10:30" || first.Status != model.SlotStatusOpen {
		t.Fatalf("unexpected slot %+v", first)
	}

	saved := settings.saved["m1"]
	if saved == nil || !saved.AutoFill || len(saved.Weekdays) != 2 || saved.Start != "10:00" {
		t.Fatalf("unexpected saved settings %+v", saved)
	}
}

func TestCreateSlotsRejectsDuplicateBatch(t *testing.T) {
	api := &fakeAPI{slots: []model.Slot{
		{ID: "old", Mentor: "m1", Date: "05-06-2025", Time: "10:30 AM - 11:00 AM", StartTime: "10:30", EndTime: "11:00", Status: model.SlotStatusArchived},
	}}
	settings := newFakeSettings()
	svc := newSlotService(t, api, settings)

	_, err := svc.CreateSlots(context.Background(), mentor, CreateSlotsRequest{
		Dates:        []string{"04-06-2025", "05-06-2025"},
		Start:        "10:00",
		End:          "11:00",
		SlotDuration: 30,
		SaveSettings: true,
	})

	var dup *schedule.DuplicateSlotError
	if !errors.As(err, &dup) {
		t.Fatalf("expected DuplicateSlotError, got %v", err)
	}
	if dates := dup.Dates(); len(dates) != 1 || dates[0] != "05-06-2025" {
		t.Fatalf("unexpected conflicting dates %v", dates)
	}
	if api.createSlotCalls != 0 || len(api.slots) != 1 {
		t.Fatal("no slot may be created when the batch is rejected")
	}
	if len(settings.saved) != 0 {
		t.Fatal("settings must not be saved for a rejected batch")
	}
}

func TestCreateSlotsEmptyWindow(t *testing.T) {
	api := &fakeAPI{}
	svc := newSlotService(t, api, newFakeSettings())

	created, err := svc.CreateSlots(context.Background(), mentor, CreateSlotsRequest{
		Dates:        []string{"04-06-2025"},
		Start:        "10:00",
		End:          "10:20",
		SlotDuration: 30,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(created) != 0 || api.createSlotCalls != 0 {
		t.Fatalf("expected no slots and no request, got %d / %d", len(created), api.createSlotCalls)
	}
}

func TestCreateSlotsValidation(t *testing.T) {
	svc := newSlotService(t, &fakeAPI{}, newFakeSettings())

	_, err := svc.CreateSlots(context.Background(), mentor, CreateSlotsRequest{
		Start:        "10:00",
		End:          "7pm",
		SlotDuration: 0,
		Buffer:       -1,
	})
	var verrs validation.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) != 4 {
		t.Fatalf("expected 4 validation errors, got %v", err)
	}

	_, err = svc.CreateSlots(context.Background(), mentor, CreateSlotsRequest{
		Dates: []string{"31-02-2025"}, Start: "10:00", End: "11:00", SlotDuration: 30,
	})
	var perr *schedule.ParseError
	if !errors.As(err, &perr) {
		t.Fatalf("expected ParseError, got %v", err)
	}

	if _, err := svc.CreateSlots(context.Background(), model.Session{Token: "x"}, CreateSlotsRequest{}); !errors.Is(err, ErrNoIdentity) {
		t.Fatalf("expected ErrNoIdentity, got %v", err)
	}
}

func TestListSlotsGroupsChronologically(t *testing.T) {
	api := &fakeAPI{slots: []model.Slot{
		{ID: "a", Mentor: "m1", Date: "02-01-2026", Status: model.SlotStatusOpen},
		{ID: "b", Mentor: "m1", Date: "30-12-2025", Status: model.SlotStatusOpen},
		{ID: "c", Mentor: "m1", Date: "garbage", Status: model.SlotStatusOpen},
		{ID: "d", Mentor: "m1", Date: "31-12-2025", Status: model.SlotStatusBooked},
	}}
	svc := newSlotService(t, api, newFakeSettings())

	groups, err := svc.ListSlots(context.Background(), mentor, "", model.SlotStatusOpen)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(groups) != 2 || groups[0].Items[0].ID != "b" || groups[1].Items[0].ID != "a" {
		t.Fatalf("unexpected groups %+v", groups)
	}
}

func TestEditSlot(t *testing.T) {
	api := &fakeAPI{slots: []model.Slot{
		{ID: "a", Mentor: "m1", Date: "04-06-2025", Time: "10:00 AM - 10:30 AM", StartTime: "10:00", EndTime: "10:30", Status: model.SlotStatusOpen},
		{ID: "b", Mentor: "m1", Date: "04-06-2025", Time: "11:00 AM - 11:30 AM", StartTime: "11:00", EndTime: "11:30", Status: model.SlotStatusOpen},
	}}
	svc := newSlotService(t, api, newFakeSettings())
	ctx := context.Background()

	if _, err := svc.EditSlot(ctx, mentor, "a", EditSlotRequest{Date: "2025-06-04", Start: "11:00", End: "11:30"}); err == nil {
		t.Fatal("expected duplicate with slot b")
	}

	updated, err := svc.EditSlot(ctx, mentor, "a", EditSlotRequest{Date: "2025-06-04", Start: "10:00", End: "10:45"})
	if err != nil {
		t.Fatalf("editing in place must pass: %v", err)
	}
	if updated.Time != "10:00 AM - 10:45 AM" || updated.EndTime != "10:45" {
		t.Fatalf("label must be regenerated on the 12-hour clock, got %+v", updated)
	}

	if _, err := svc.EditSlot(ctx, mentor, "zzz", EditSlotRequest{Date: "04-06-2025", Start: "12:00", End: "12:30"}); !errors.Is(err, ErrSlotNotFound) {
		t.Fatalf("expected ErrSlotNotFound, got %v", err)
	}

	var verrs validation.ValidationErrors
	if _, err := svc.EditSlot(ctx, mentor, "a", EditSlotRequest{Date: "04-06-2025", Start: "12:00", End: "11:00"}); !errors.As(err, &verrs) {
		t.Fatalf("expected validation error for reversed range, got %v", err)
	}
}

func TestArchiveAndDeleteSlot(t *testing.T) {
	api := &fakeAPI{slots: []model.Slot{{ID: "a", Mentor: "m1", Date: "04-06-2025", Status: model.SlotStatusOpen}}}
	svc := newSlotService(t, api, newFakeSettings())
	ctx := context.Background()

	archived, err := svc.ArchiveSlot(ctx, mentor, "a")
	if err != nil || archived.Status != model.SlotStatusArchived {
		t.Fatalf("unexpected archive result %+v %v", archived, err)
	}
	if api.lastPatch.Status == nil || api.lastPatch.Date != nil {
		t.Fatalf("archive must send only the status, got %+v", api.lastPatch)
	}

	if err := svc.DeleteSlot(ctx, mentor, "a"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := svc.DeleteSlot(ctx, mentor, "a"); !errors.Is(err, ErrSlotNotFound) {
		t.Fatalf("expected ErrSlotNotFound, got %v", err)
	}
}

func TestArchiveAndDeleteRequireOwnership(t *testing.T) {
	api := &fakeAPI{slots: []model.Slot{
		{ID: "theirs", Mentor: "m2", Date: "04-06-2025", Status: model.SlotStatusOpen},
		{ID: "junk", Mentor: "m1", Date: "garbage", Status: model.SlotStatusOpen},
	}}
	svc := newSlotService(t, api, newFakeSettings())
	ctx := context.Background()

	if _, err := svc.ArchiveSlot(ctx, mentor, "theirs"); !errors.Is(err, ErrSlotNotFound) {
		t.Fatalf("expected ErrSlotNotFound, got %v", err)
	}
	if err := svc.DeleteSlot(ctx, mentor, "theirs"); !errors.Is(err, ErrSlotNotFound) {
		t.Fatalf("expected ErrSlotNotFound, got %v", err)
	}
	if api.lastPatch.Status != nil || len(api.slots) != 2 {
		t.Fatal("a foreign slot must stay untouched")
	}

	if _, err := svc.ArchiveSlot(ctx, model.Session{Token: "x"}, "junk"); !errors.Is(err, ErrNoIdentity) {
		t.Fatalf("expected ErrNoIdentity, got %v", err)
	}
	if err := svc.DeleteSlot(ctx, mentor, "junk"); err != nil {
		t.Fatalf("a malformed own slot must still be deletable: %v", err)
	}
}

func TestAutoFillWeek(t *testing.T) {
	api := &fakeAPI{}
	settings := newFakeSettings()
	settings.saved["m1"] = &model.SlotSettings{
		MentorID: "m1",
		// понедельник в среду уже прошёл, заполняются среда и пятница
		Weekdays:     []time.Weekday{time.Monday, time.Wednesday, time.Friday},
		Start:        "14:00",
		End:          "15:00",
		SlotDuration: 60,
		AutoFill:     true,
	}
	settings.saved["m2"] = &model.SlotSettings{MentorID: "m2", Weekdays: []time.Weekday{time.Friday}, Start: "09:00", End: "10:00", SlotDuration: 30}

	svc := newSlotService(t, api, settings)
	background := model.Session{Token: "service"}

	n, err := svc.AutoFillWeek(context.Background(), background)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n != 2 {
		t.Fatalf("expected 2 slots, got %d", n)
	}
	for _, s := range api.slots {
		if s.Mentor != "m1" || (s.Date != "04-06-2025" && s.Date != "06-06-2025") {
			t.Fatalf("unexpected auto-filled slot %+v", s)
		}
	}

	// повторный запуск находит неделю уже заполненной
	n, err = svc.AutoFillWeek(context.Background(), background)
	if err != nil || n != 0 {
		t.Fatalf("expected no new slots, got %d %v", n, err)
	}
	if api.createSlotCalls != 1 {
		t.Fatalf("expected a single create call, got %d", api.createSlotCalls)
	}
}

func TestSavedSettings(t *testing.T) {
	settings := newFakeSettings()
	svc := newSlotService(t, &fakeAPI{}, settings)

	got, err := svc.SavedSettings(context.Background(), mentor)
	if err != nil || got != nil {
		t.Fatalf("expected nil settings, got %+v %v", got, err)
	}
}

func TestWeek(t *testing.T) {
	svc := newSlotService(t, &fakeAPI{}, newFakeSettings())
	week := svc.Week()
	if week[0].Date.String() != "02-06-2025" || week[6].Label != "Sun" {
		t.Fatalf("unexpected week %+v", week)
	}
}

func TestAutoFillWeekSkipsStartedWindowsToday(t *testing.T) {
	api := &fakeAPI{}
	settings := newFakeSettings()
	settings.saved["m1"] = &model.SlotSettings{
		MentorID:     "m1",
		Weekdays:     []time.Weekday{time.Wednesday},
		Start:        "09:00",
		End:          "17:00",
		SlotDuration: 60,
		AutoFill:     true,
	}

	svc := NewSlotService(api, settings, validation.New(), time.UTC,
		fixedClock(time.Date(2025, 6, 4, 15, 0, 0, 0, time.UTC)), zaptest.NewLogger(t))

	n, err := svc.AutoFillWeek(context.Background(), model.Session{Token: "service"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n != 2 {
		t.Fatalf("expected the 15:00 and 16:00 slots only, got %d", n)
	}
	for _, s := range api.slots {
		if s.StartTime != "15:00" && s.StartTime != "16:00" {
			t.Fatalf("slot %s already started at 15:00", s.StartTime)
		}
	}
}
