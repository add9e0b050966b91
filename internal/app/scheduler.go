package app

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/Freeeeeet/connect_portal/internal/model"
)

// AutoFiller - заполнение текущей недели по сохранённым настройкам
type AutoFiller interface {
	AutoFillWeek(ctx context.Context, sess model.Session) (int, error)
}

// Sweeper удаляет брошенные диалоги бронирования
type Sweeper interface {
	Sweep() int
}

// Scheduler управляет фоновыми задачами
type Scheduler struct {
	filler   AutoFiller
	sweeper  Sweeper
	session  model.Session
	interval time.Duration
	logger   *zap.Logger

	stopChan chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup
}

// NewScheduler создаёт планировщик. Пустой serviceToken отключает автозаполнение.
func NewScheduler(filler AutoFiller, sweeper Sweeper, serviceToken string, interval time.Duration, logger *zap.Logger) *Scheduler {
	return &Scheduler{
		filler:   filler,
		sweeper:  sweeper,
		session:  model.Session{Token: serviceToken},
		interval: interval,
		logger:   logger,
		stopChan: make(chan struct{}),
	}
}

// Start запускает фоновые задачи
func (s *Scheduler) Start(ctx context.Context) {
	s.logger.Info("Starting background scheduler",
		zap.Bool("auto_fill", s.autoFillEnabled()),
		zap.Duration("interval", s.interval))

	s.wg.Add(1)
	go s.run(ctx)
}

// Stop останавливает фоновые задачи и ждёт их завершения
func (s *Scheduler) Stop() {
	s.stopOnce.Do(func() {
		s.logger.Info("Stopping background scheduler")
		close(s.stopChan)
	})
	s.wg.Wait()
}

func (s *Scheduler) autoFillEnabled() bool {
	return s.session.Token != "" && s.filler != nil
}

func (s *Scheduler) run(ctx context.Context) {
	defer s.wg.Done()

	// Первый запуск сразу при старте
	s.tick(ctx)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.tick(ctx)
		case <-s.stopChan:
			s.logger.Info("Background tasks stopped")
			return
		case <-ctx.Done():
			s.logger.Info("Background tasks cancelled")
			return
		}
	}
}

func (s *Scheduler) tick(ctx context.Context) {
	if s.sweeper != nil {
		if n := s.sweeper.Sweep(); n > 0 {
			s.logger.Debug("Expired booking flows removed", zap.Int("count", n))
		}
	}

	if !s.autoFillEnabled() {
		return
	}

	created, err := s.filler.AutoFillWeek(ctx, s.session)
	if err != nil {
		s.logger.Error("Failed to auto-fill slots", zap.Error(err))
		return
	}
	s.logger.Info("Automatic slot generation completed", zap.Int("created", created))
}
