package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/Freeeeeet/connect_portal/internal/model"
)

// SettingsRepository хранит сохранённые параметры генерации слотов менторов
type SettingsRepository struct {
	pool   *pgxpool.Pool
	logger *zap.Logger
}

// NewSettingsRepository создаёт новый репозиторий
func NewSettingsRepository(pool *pgxpool.Pool, logger *zap.Logger) *SettingsRepository {
	return &SettingsRepository{
		pool:   pool,
		logger: logger,
	}
}

// Upsert сохраняет настройки ментора, перезаписывая предыдущие
func (r *SettingsRepository) Upsert(ctx context.Context, s *model.SlotSettings) error {
	query := `
		INSERT INTO slot_settings (mentor_id, weekdays, start_time, end_time, slot_duration, buffer, auto_fill, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, NOW())
		ON CONFLICT (mentor_id) DO UPDATE SET
			weekdays = EXCLUDED.weekdays,
			start_time = EXCLUDED.start_time,
			end_time = EXCLUDED.end_time,
			slot_duration = EXCLUDED.slot_duration,
			buffer = EXCLUDED.buffer,
			auto_fill = EXCLUDED.auto_fill,
			updated_at = NOW()
		RETURNING updated_at
	`

	err := r.pool.QueryRow(
		ctx,
		query,
		s.MentorID,
		weekdaysToDB(s.Weekdays),
		s.Start,
		s.End,
		s.SlotDuration,
		s.Buffer,
		s.AutoFill,
	).Scan(&s.UpdatedAt)
	if err != nil {
		return fmt.Errorf("upsert slot settings: %w", err)
	}

	r.logger.Debug("slot settings saved", zap.String("mentor_id", s.MentorID))
	return nil
}

// Get возвращает настройки ментора или nil, если их нет
func (r *SettingsRepository) Get(ctx context.Context, mentorID string) (*model.SlotSettings, error) {
	query := `
		SELECT mentor_id, weekdays, start_time, end_time, slot_duration, buffer, auto_fill, updated_at
		FROM slot_settings
		WHERE mentor_id = $1
	`

	s, err := scanSettings(r.pool.QueryRow(ctx, query, mentorID))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get slot settings: %w", err)
	}
	return s, nil
}

// ListAutoFill возвращает настройки с включённым автозаполнением
func (r *SettingsRepository) ListAutoFill(ctx context.Context) ([]*model.SlotSettings, error) {
	query := `
		SELECT mentor_id, weekdays, start_time, end_time, slot_duration, buffer, auto_fill, updated_at
		FROM slot_settings
		WHERE auto_fill
		ORDER BY mentor_id
	`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list auto-fill settings: %w", err)
	}
	defer rows.Close()

	var out []*model.SlotSettings
	for rows.Next() {
		s, err := scanSettings(rows)
		if err != nil {
			return nil, fmt.Errorf("scan slot settings: %w", err)
		}
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list auto-fill settings: %w", err)
	}

	return out, nil
}

func scanSettings(row pgx.Row) (*model.SlotSettings, error) {
	s := &model.SlotSettings{}
	var weekdays []int16
	var updatedAt time.Time
	err := row.Scan(
		&s.MentorID,
		&weekdays,
		&s.Start,
		&s.End,
		&s.SlotDuration,
		&s.Buffer,
		&s.AutoFill,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}
	s.Weekdays = weekdaysFromDB(weekdays)
	s.UpdatedAt = updatedAt
	return s, nil
}

func weekdaysToDB(days []time.Weekday) []int16 {
	out := make([]int16, 0, len(days))
	for _, d := range days {
		out = append(out, int16(d))
	}
	return out
}

func weekdaysFromDB(days []int16) []time.Weekday {
	out := make([]time.Weekday, 0, len(days))
	for _, d := range days {
		out = append(out, time.Weekday(d))
	}
	return out
}
