package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/Freeeeeet/connect_portal/internal/model"
	"github.com/Freeeeeet/connect_portal/internal/schedule"
	"github.com/Freeeeeet/connect_portal/internal/validation"
)

var (
	ErrSlotNotFound = errors.New("slot not found")
	ErrNoIdentity   = errors.New("user id is missing from the credential")
)

// SlotAPI - операции удалённого API над слотами
type SlotAPI interface {
	ListSlots(ctx context.Context, s model.Session, mentorID string, status model.SlotStatus) ([]model.Slot, error)
	CreateSlots(ctx context.Context, s model.Session, slots []model.Slot) ([]model.Slot, error)
	UpdateSlot(ctx context.Context, s model.Session, id string, patch model.SlotPatch) (*model.Slot, error)
	DeleteSlot(ctx context.Context, s model.Session, id string) error
}

// SettingsStore - хранилище сохранённых настроек генерации
type SettingsStore interface {
	Get(ctx context.Context, mentorID string) (*model.SlotSettings, error)
	Upsert(ctx context.Context, s *model.SlotSettings) error
	ListAutoFill(ctx context.Context) ([]*model.SlotSettings, error)
}

type SlotService struct {
	api       SlotAPI
	settings  SettingsStore
	validator *validation.Validator
	loc       *time.Location
	now       func() time.Time
	logger    *zap.Logger
}

func NewSlotService(
	api SlotAPI,
	settings SettingsStore,
	validator *validation.Validator,
	loc *time.Location,
	now func() time.Time,
	logger *zap.Logger,
) *SlotService {
	if now == nil {
		now = time.Now
	}
	return &SlotService{
		api:       api,
		settings:  settings,
		validator: validator,
		loc:       loc,
		now:       now,
		logger:    logger,
	}
}

// CreateSlotsRequest - форма создания слотов. Даты в dd-mm-yyyy или yyyy-mm-dd,
// время в 24-часовом формате HH:MM.
type CreateSlotsRequest struct {
	Dates        []string `json:"dates" validate:"required,min=1"`
	Start        string   `json:"startTime" validate:"required,clock"`
	End          string   `json:"endTime" validate:"required,clock"`
	SlotDuration int      `json:"slotDuration" validate:"gt=0"`
	Buffer       int      `json:"bufferTime" validate:"gte=0"`
	SaveSettings bool     `json:"saveSettings"`
	AutoFill     bool     `json:"autoFill"`
}

// EditSlotRequest - новые дата и время слота
type EditSlotRequest struct {
	Date  string `json:"date" validate:"required"`
	Start string `json:"startTime" validate:"required,clock"`
	End   string `json:"endTime" validate:"required,clock"`
}

// Week возвращает текущую неделю с понедельника по воскресенье
func (s *SlotService) Week() []schedule.WeekDay {
	return schedule.CurrentWeek(s.now().In(s.loc))
}

// CreateSlots генерирует слоты для выбранных дней и создаёт их одной пачкой.
// При любом дубликате пачка отклоняется целиком.
func (s *SlotService) CreateSlots(ctx context.Context, sess model.Session, req CreateSlotsRequest) ([]model.Slot, error) {
	if sess.UserID == "" {
		return nil, ErrNoIdentity
	}
	if err := s.validator.Struct(req); err != nil {
		return nil, err
	}

	gen, err := buildGenerateRequest(req)
	if err != nil {
		return nil, err
	}

	created, err := s.createBatch(ctx, sess, sess.UserID, gen, time.Time{})
	if err != nil {
		return nil, err
	}

	if req.SaveSettings && len(created) > 0 {
		s.saveSettings(ctx, sess.UserID, req, gen)
	}
	return created, nil
}

func buildGenerateRequest(req CreateSlotsRequest) (schedule.GenerateRequest, error) {
	dates := make([]schedule.DateStamp, 0, len(req.Dates))
	for _, raw := range req.Dates {
		d, err := parseAnyDate(raw)
		if err != nil {
			return schedule.GenerateRequest{}, err
		}
		dates = append(dates, d)
	}

	start, err := schedule.ParseClock(req.Start)
	if err != nil {
		return schedule.GenerateRequest{}, err
	}
	end, err := schedule.ParseClock(req.End)
	if err != nil {
		return schedule.GenerateRequest{}, err
	}

	return schedule.GenerateRequest{
		Dates:        dates,
		Start:        start,
		End:          end,
		SlotDuration: req.SlotDuration,
		Buffer:       req.Buffer,
	}, nil
}

// parseAnyDate принимает dd-mm-yyyy и значение html date input yyyy-mm-dd
func parseAnyDate(raw string) (schedule.DateStamp, error) {
	if i := strings.Index(raw, "-"); i == 4 {
		return schedule.ParseInputDate(raw)
	}
	return schedule.ParseDate(raw)
}

// createBatch генерирует, проверяет и создаёт слоты. При ненулевом notBefore
// окна, начинающиеся раньше него, отбрасываются.
func (s *SlotService) createBatch(ctx context.Context, sess model.Session, mentorID string, gen schedule.GenerateRequest, notBefore time.Time) ([]model.Slot, error) {
	windows, err := schedule.Generate(gen)
	if err != nil {
		return nil, err
	}
	if !notBefore.IsZero() {
		windows = s.dropStarted(windows, notBefore)
	}
	if len(windows) == 0 {
		s.logger.Info("No slots fit into the window",
			zap.String("mentor_id", mentorID),
			zap.String("start", gen.Start.Clock()),
			zap.String("end", gen.End.Clock()),
			zap.Int("duration", gen.SlotDuration))
		return []model.Slot{}, nil
	}

	existing, err := s.existingKeys(ctx, sess, mentorID)
	if err != nil {
		return nil, err
	}

	if err := schedule.CheckBatch(windows, existing); err != nil {
		s.logger.Info("Slot batch rejected",
			zap.String("mentor_id", mentorID),
			zap.Error(err))
		return nil, err
	}

	batch := make([]model.Slot, 0, len(windows))
	for _, w := range windows {
		batch = append(batch, slotFromWindow(mentorID, w))
	}

	created, err := s.api.CreateSlots(ctx, sess, batch)
	if err != nil {
		s.logger.Error("Failed to create slots",
			zap.String("mentor_id", mentorID),
			zap.Int("count", len(batch)),
			zap.Error(err))
		return nil, fmt.Errorf("create slots: %w", err)
	}

	s.logger.Info("Slots created",
		zap.String("mentor_id", mentorID),
		zap.Int("count", len(created)),
		zap.Int("days", len(gen.Dates)))

	return created, nil
}

func (s *SlotService) dropStarted(windows []schedule.SlotWindow, notBefore time.Time) []schedule.SlotWindow {
	out := make([]schedule.SlotWindow, 0, len(windows))
	for _, w := range windows {
		if w.Date.At(w.Start, s.loc).Before(notBefore) {
			continue
		}
		out = append(out, w)
	}
	return out
}

func slotFromWindow(mentorID string, w schedule.SlotWindow) model.Slot {
	return model.Slot{
		Mentor:    mentorID,
		Date:      w.Date.String(),
		Time:      w.Label,
		StartTime: w.Start.Clock(),
		EndTime:   w.End.Clock(),
		Status:    model.SlotStatusOpen,
	}
}

// existingKeys загружает все слоты ментора (в любом статусе) для проверки дубликатов
func (s *SlotService) existingKeys(ctx context.Context, sess model.Session, mentorID string) ([]schedule.ExistingSlot, error) {
	slots, err := s.api.ListSlots(ctx, sess, mentorID, "")
	if err != nil {
		s.logger.Error("Failed to load existing slots",
			zap.String("mentor_id", mentorID),
			zap.Error(err))
		return nil, fmt.Errorf("load existing slots: %w", err)
	}

	out := make([]schedule.ExistingSlot, 0, len(slots))
	for _, sl := range slots {
		key, err := slotKey(sl)
		if err != nil {
			s.logger.Warn("Skipping malformed slot",
				zap.String("slot_id", sl.ID),
				zap.String("date", sl.Date),
				zap.Error(err))
			continue
		}
		out = append(out, schedule.ExistingSlot{ID: sl.ID, Key: key})
	}
	return out, nil
}

// slotKey берёт startTime, а для старых записей без него - начало диапазона time
func slotKey(sl model.Slot) (schedule.SlotKey, error) {
	if sl.StartTime != "" {
		return schedule.ParseSlotKey(sl.Date, sl.StartTime)
	}
	d, err := schedule.ParseDate(sl.Date)
	if err != nil {
		return schedule.SlotKey{}, err
	}
	start, _, _ := strings.Cut(sl.Time, " - ")
	t, err := schedule.ParseTimeOfDay(start)
	if err != nil {
		return schedule.SlotKey{}, err
	}
	return schedule.SlotKey{Date: d, Start: t}, nil
}

func (s *SlotService) saveSettings(ctx context.Context, mentorID string, req CreateSlotsRequest, gen schedule.GenerateRequest) {
	var weekdays []time.Weekday
	seen := make(map[time.Weekday]bool)
	for _, d := range gen.Dates {
		wd := d.Weekday()
		if !seen[wd] {
			seen[wd] = true
			weekdays = append(weekdays, wd)
		}
	}

	settings := &model.SlotSettings{
		MentorID:     mentorID,
		Weekdays:     weekdays,
		Start:        gen.Start.Clock(),
		End:          gen.End.Clock(),
		SlotDuration: req.SlotDuration,
		Buffer:       req.Buffer,
		AutoFill:     req.AutoFill,
	}
	if err := s.settings.Upsert(ctx, settings); err != nil {
		// слоты уже созданы, поэтому ошибку только логируем
		s.logger.Error("Failed to save slot settings",
			zap.String("mentor_id", mentorID),
			zap.Error(err))
		return
	}
	s.logger.Info("Slot settings saved",
		zap.String("mentor_id", mentorID),
		zap.Bool("auto_fill", req.AutoFill))
}

// SavedSettings возвращает сохранённые настройки или nil
func (s *SlotService) SavedSettings(ctx context.Context, sess model.Session) (*model.SlotSettings, error) {
	if sess.UserID == "" {
		return nil, ErrNoIdentity
	}
	settings, err := s.settings.Get(ctx, sess.UserID)
	if err != nil {
		return nil, fmt.Errorf("get slot settings: %w", err)
	}
	return settings, nil
}

// ListSlots возвращает слоты ментора с заданным статусом, сгруппированные по дате
func (s *SlotService) ListSlots(ctx context.Context, sess model.Session, mentorID string, status model.SlotStatus) ([]schedule.DateGroup[model.Slot], error) {
	if mentorID == "" {
		mentorID = sess.UserID
	}
	if mentorID == "" {
		return nil, ErrNoIdentity
	}

	slots, err := s.api.ListSlots(ctx, sess, mentorID, status)
	if err != nil {
		return nil, fmt.Errorf("list slots: %w", err)
	}

	valid := make([]model.Slot, 0, len(slots))
	for _, sl := range slots {
		if _, err := schedule.ParseDate(sl.Date); err != nil {
			s.logger.Warn("Skipping slot with malformed date",
				zap.String("slot_id", sl.ID),
				zap.String("date", sl.Date))
			continue
		}
		valid = append(valid, sl)
	}

	return schedule.GroupByDate(valid, func(sl model.Slot) string { return sl.Date })
}

// EditSlot меняет дату и время слота с проверкой на дубликаты,
// исключая сам редактируемый слот
func (s *SlotService) EditSlot(ctx context.Context, sess model.Session, id string, req EditSlotRequest) (*model.Slot, error) {
	if sess.UserID == "" {
		return nil, ErrNoIdentity
	}
	if err := s.validator.Struct(req); err != nil {
		return nil, err
	}

	date, err := parseAnyDate(req.Date)
	if err != nil {
		return nil, err
	}
	start, err := schedule.ParseClock(req.Start)
	if err != nil {
		return nil, err
	}
	end, err := schedule.ParseClock(req.End)
	if err != nil {
		return nil, err
	}
	if end.Minutes() <= start.Minutes() {
		return nil, validation.ValidationErrors{{Field: "endTime", Message: "endTime must be after startTime"}}
	}

	existing, err := s.existingKeys(ctx, sess, sess.UserID)
	if err != nil {
		return nil, err
	}
	if !containsSlot(existing, id) {
		return nil, ErrSlotNotFound
	}

	window := schedule.SlotWindow{Date: date, Start: start, End: end, Label: schedule.RangeLabel(start, end)}
	if err := schedule.CheckEdit(id, window, existing); err != nil {
		s.logger.Info("Slot edit rejected",
			zap.String("slot_id", id),
			zap.Error(err))
		return nil, err
	}

	dateStr, startStr, endStr := date.String(), start.Clock(), end.Clock()
	patch := model.SlotPatch{
		Date:      &dateStr,
		Time:      &window.Label,
		StartTime: &startStr,
		EndTime:   &endStr,
	}

	updated, err := s.api.UpdateSlot(ctx, sess, id, patch)
	if err != nil {
		s.logger.Error("Failed to update slot",
			zap.String("slot_id", id),
			zap.Error(err))
		return nil, fmt.Errorf("update slot: %w", err)
	}

	s.logger.Info("Slot updated",
		zap.String("slot_id", id),
		zap.String("date", dateStr),
		zap.String("time", window.Label))

	return updated, nil
}

func containsSlot(existing []schedule.ExistingSlot, id string) bool {
	for _, e := range existing {
		if e.ID == id {
			return true
		}
	}
	return false
}

// ownSlot проверяет, что слот принадлежит ментору из сессии.
// Битые записи тоже учитываются, чтобы их можно было удалить.
func (s *SlotService) ownSlot(ctx context.Context, sess model.Session, id string) error {
	if sess.UserID == "" {
		return ErrNoIdentity
	}
	slots, err := s.api.ListSlots(ctx, sess, sess.UserID, "")
	if err != nil {
		s.logger.Error("Failed to load mentor slots",
			zap.String("mentor_id", sess.UserID),
			zap.Error(err))
		return fmt.Errorf("load mentor slots: %w", err)
	}
	for _, sl := range slots {
		if sl.ID == id {
			return nil
		}
	}
	return ErrSlotNotFound
}

// ArchiveSlot переводит слот в статус Archived
func (s *SlotService) ArchiveSlot(ctx context.Context, sess model.Session, id string) (*model.Slot, error) {
	if err := s.ownSlot(ctx, sess, id); err != nil {
		return nil, err
	}

	archived := model.SlotStatusArchived
	updated, err := s.api.UpdateSlot(ctx, sess, id, model.SlotPatch{Status: &archived})
	if err != nil {
		s.logger.Error("Failed to archive slot",
			zap.String("slot_id", id),
			zap.Error(err))
		return nil, fmt.Errorf("archive slot: %w", err)
	}

	s.logger.Info("Slot archived", zap.String("slot_id", id))
	return updated, nil
}

// DeleteSlot удаляет слот
func (s *SlotService) DeleteSlot(ctx context.Context, sess model.Session, id string) error {
	if err := s.ownSlot(ctx, sess, id); err != nil {
		return err
	}

	if err := s.api.DeleteSlot(ctx, sess, id); err != nil {
		s.logger.Error("Failed to delete slot",
			zap.String("slot_id", id),
			zap.Error(err))
		return fmt.Errorf("delete slot: %w", err)
	}

	s.logger.Info("Slot deleted", zap.String("slot_id", id))
	return nil
}

// AutoFillWeek заполняет текущую неделю по сохранённым настройкам менторов
// с включённым автозаполнением. Возвращает число созданных слотов.
func (s *SlotService) AutoFillWeek(ctx context.Context, sess model.Session) (int, error) {
	all, err := s.settings.ListAutoFill(ctx)
	if err != nil {
		return 0, fmt.Errorf("list auto-fill settings: %w", err)
	}

	now := s.now().In(s.loc)
	today := schedule.DateOf(now)
	week := schedule.CurrentWeek(now)

	total := 0
	for _, settings := range all {
		gen, ok := s.autoFillRequest(settings, week, today)
		if !ok {
			continue
		}

		created, err := s.createBatch(ctx, sess, settings.MentorID, gen, now)
		if err != nil {
			var dup *schedule.DuplicateSlotError
			if errors.As(err, &dup) {
				s.logger.Debug("Week already filled",
					zap.String("mentor_id", settings.MentorID),
					zap.Strings("dates", dup.Dates()))
				continue
			}
			s.logger.Error("Failed to auto-fill week",
				zap.String("mentor_id", settings.MentorID),
				zap.Error(err))
			continue
		}
		total += len(created)
	}

	s.logger.Info("Auto-fill finished",
		zap.Int("mentors", len(all)),
		zap.Int("created", total))

	return total, nil
}

func (s *SlotService) autoFillRequest(settings *model.SlotSettings, week []schedule.WeekDay, today schedule.DateStamp) (schedule.GenerateRequest, bool) {
	var dates []schedule.DateStamp
	for _, day := range week {
		if day.Date.Before(today) || !settings.HasWeekday(day.Weekday) {
			continue
		}
		dates = append(dates, day.Date)
	}
	if len(dates) == 0 {
		return schedule.GenerateRequest{}, false
	}

	start, err := schedule.ParseClock(settings.Start)
	if err != nil {
		s.logger.Warn("Invalid saved start time", zap.String("mentor_id", settings.MentorID), zap.Error(err))
		return schedule.GenerateRequest{}, false
	}
	end, err := schedule.ParseClock(settings.End)
	if err != nil {
		s.logger.Warn("Invalid saved end time", zap.String("mentor_id", settings.MentorID), zap.Error(err))
		return schedule.GenerateRequest{}, false
	}

	return schedule.GenerateRequest{
		Dates:        dates,
		Start:        start,
		End:          end,
		SlotDuration: settings.SlotDuration,
		Buffer:       settings.Buffer,
	}, true
}
