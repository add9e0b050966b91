package model

import (
	"bytes"
	"encoding/json"
)

type Role string

const (
	RoleAdmin      Role = "ADMIN"
	RoleMentor     Role = "MENTOR"
	RoleStudent    Role = "STUDENT"
	RoleIA         Role = "IA"
	RoleLeadership Role = "LEADERSHIP"
	RoleEC         Role = "EC"
)

type AccountStatus string

const (
	AccountPending AccountStatus = "PENDING" // ждёт одобрения администратора
	AccountActive  AccountStatus = "ACTIVE"
)

// UserStatus - ответ GET /get-user-status
type UserStatus struct {
	Status AccountStatus `json:"status"`
	Roles  []Role        `json:"roles"`
	Name   string        `json:"name"`
	Email  string        `json:"email"`
}

// HasRole проверяет, выдана ли пользователю роль
func (s *UserStatus) HasRole(r Role) bool {
	for _, have := range s.Roles {
		if have == r {
			return true
		}
	}
	return false
}

type User struct {
	ID    string `json:"_id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Roles []Role `json:"roles,omitempty"`
}

// UserRef - ссылка на пользователя: API отдаёт либо строку id,
// либо заполненный объект {_id, name, email}
type UserRef struct {
	ID    string `json:"_id"`
	Name  string `json:"name,omitempty"`
	Email string `json:"email,omitempty"`
}

func (r *UserRef) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*r = UserRef{}
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var id string
		if err := json.Unmarshal(data, &id); err != nil {
			return err
		}
		*r = UserRef{ID: id}
		return nil
	}

	type plain UserRef
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	*r = UserRef(p)
	return nil
}

// Course - курс с закреплёнными за ним ответственными
type Course struct {
	ID      string    `json:"_id"`
	Name    string    `json:"name"`
	IAs     []UserRef `json:"IAs"`
	ECs     []UserRef `json:"ECs"`
	Mentors []UserRef `json:"mentors"`
}

// Session - данные клиентской сессии, которые передаются явно
// в каждый компонент: токен, выбранная роль и id пользователя из токена.
type Session struct {
	Token        string
	SelectedRole Role
	UserID       string
}

// Authenticated сообщает, есть ли у сессии учётные данные
func (s Session) Authenticated() bool {
	return s.Token != ""
}
