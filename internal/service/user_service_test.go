package service

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap/zaptest"

	"github.com/Freeeeeet/connect_portal/internal/model"
)

func TestSelectRole(t *testing.T) {
	api := &fakeAPI{status: &model.UserStatus{
		Status: model.AccountActive,
		Roles:  []model.Role{model.RoleMentor, model.RoleStudent},
	}}
	svc := NewUserService(api, zaptest.NewLogger(t))

	to, err := svc.SelectRole(context.Background(), student, model.RoleStudent)
	if err != nil || to != "/student/dashboard" {
		t.Fatalf("unexpected result %q %v", to, err)
	}

	if _, err := svc.SelectRole(context.Background(), student, model.RoleAdmin); !errors.Is(err, ErrRoleNotGranted) {
		t.Fatalf("expected ErrRoleNotGranted, got %v", err)
	}

	api.status = nil
	if _, err := svc.SelectRole(context.Background(), student, model.RoleStudent); err == nil {
		t.Fatal("expected upstream error")
	}
}
