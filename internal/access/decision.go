package access

import (
	"strings"

	"github.com/Freeeeeet/connect_portal/internal/model"
)

// State - всё, от чего зависит решение о доступе
type State struct {
	Authenticated bool
	Status        model.AccountStatus
	Roles         []model.Role
	SelectedRole  model.Role
}

type Outcome int

const (
	Allow Outcome = iota
	Redirect
)

// Decision - результат для одного перехода. Если PersistRole задана, её нужно
// сохранить как выбранную роль до ответа.
type Decision struct {
	Outcome     Outcome
	Location    string
	PersistRole model.Role
}

func allow() Decision { return Decision{Outcome: Allow} }

func redirect(to string) Decision { return Decision{Outcome: Redirect, Location: to} }

// Decide применяет таблицу доступа к запрошенному пути
func Decide(s State, path string) Decision {
	if IsPublic(path) {
		return allow()
	}
	if !s.Authenticated {
		return redirect(HomePath)
	}

	switch s.Status {
	case model.AccountPending:
		if strings.HasPrefix(path, PendingApprovalPath) {
			return allow()
		}
		return redirect(PendingApprovalPath)
	case model.AccountActive:
	default:
		return redirect(HomePath)
	}

	switch len(s.Roles) {
	case 0:
		return redirect(HomePath)
	case 1:
		role := s.Roles[0]
		d := checkPrefix(role, path)
		if s.SelectedRole != role {
			d.PersistRole = role
		}
		return d
	}

	if s.SelectedRole == "" || !hasRole(s.Roles, s.SelectedRole) {
		return redirect(SelectRolePath)
	}
	return checkPrefix(s.SelectedRole, path)
}

func checkPrefix(role model.Role, path string) Decision {
	if Allowed(role, path) {
		return allow()
	}
	return redirect(Dashboard(role))
}

func hasRole(roles []model.Role, r model.Role) bool {
	for _, have := range roles {
		if have == r {
			return true
		}
	}
	return false
}
