package service

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/Freeeeeet/connect_portal/internal/access"
	"github.com/Freeeeeet/connect_portal/internal/model"
)

var ErrRoleNotGranted = errors.New("role is not granted to this user")

// StatusAPI - получение статуса аккаунта
type StatusAPI interface {
	UserStatus(ctx context.Context, s model.Session) (*model.UserStatus, error)
}

type UserService struct {
	api    StatusAPI
	logger *zap.Logger
}

func NewUserService(api StatusAPI, logger *zap.Logger) *UserService {
	return &UserService{
		api:    api,
		logger: logger,
	}
}

// Status возвращает статус аккаунта и роли пользователя
func (s *UserService) Status(ctx context.Context, sess model.Session) (*model.UserStatus, error) {
	status, err := s.api.UserStatus(ctx, sess)
	if err != nil {
		return nil, fmt.Errorf("get user status: %w", err)
	}
	return status, nil
}

// SelectRole проверяет, что роль выдана пользователю, и возвращает её дашборд
func (s *UserService) SelectRole(ctx context.Context, sess model.Session, role model.Role) (string, error) {
	status, err := s.Status(ctx, sess)
	if err != nil {
		s.logger.Error("Failed to check roles",
			zap.String("user_id", sess.UserID),
			zap.Error(err))
		return "", err
	}

	if !status.HasRole(role) {
		s.logger.Warn("Role selection rejected",
			zap.String("user_id", sess.UserID),
			zap.String("role", string(role)))
		return "", ErrRoleNotGranted
	}

	s.logger.Info("Role selected",
		zap.String("user_id", sess.UserID),
		zap.String("role", string(role)))

	return access.Dashboard(role), nil
}
