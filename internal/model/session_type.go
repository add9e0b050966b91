package model

import (
	"encoding/json"
	"fmt"
)

// SessionType - закрытый набор типов встреч. Строковое значение
// совпадает с тем, что хранит API.
type SessionType int

const (
	SessionPeer SessionType = iota + 1
	SessionEC
	SessionLeadership
	SessionMentor
)

// CourseGroup - список курса, из которого берутся ответственные
type CourseGroup int

const (
	GroupIAs CourseGroup = iota
	GroupECs
	GroupMentors
)

type sessionTypeInfo struct {
	id          string
	label       string
	description string
	role        Role
	group       CourseGroup
}

var sessionTypes = map[SessionType]sessionTypeInfo{
	SessionPeer: {
		id:          "Peer-to-Peer",
		label:       "Peer-to-Peer / IA Connect",
		description: "Discuss your progress, challenges, and goals with fellow peers or IAs.",
		role:        RoleIA,
		group:       GroupIAs,
	},
	SessionEC: {
		id:          "Dost / EC Connect",
		label:       "Dost / EC Connect",
		description: "Book a session with EC support or Dost for academic and personal guidance.",
		role:        RoleEC,
		group:       GroupECs,
	},
	SessionLeadership: {
		id:          "Leadership Connect",
		label:       "Leadership Connect",
		description: "Engage in strategic conversations with leaders to gain insights on success.",
		role:        RoleLeadership,
		group:       GroupMentors,
	},
	SessionMentor: {
		id:          "Mentor Connect",
		label:       "Mentor Connect",
		description: "Schedule a one-on-one session with a mentor to discuss your projects.",
		role:        RoleMentor,
		group:       GroupMentors,
	},
}

// SessionTypes возвращает все типы в порядке показа
func SessionTypes() []SessionType {
	return []SessionType{SessionPeer, SessionEC, SessionLeadership, SessionMentor}
}

// ParseSessionType находит тип по строковому id
func ParseSessionType(s string) (SessionType, error) {
	for _, t := range SessionTypes() {
		if sessionTypes[t].id == s {
			return t, nil
		}
	}
	return 0, fmt.Errorf("unknown session type %q", s)
}

func (t SessionType) Valid() bool {
	_, ok := sessionTypes[t]
	return ok
}

func (t SessionType) String() string {
	return sessionTypes[t].id
}

func (t SessionType) Label() string {
	return sessionTypes[t].label
}

func (t SessionType) Description() string {
	return sessionTypes[t].description
}

// ResponderRole - роль, которая проводит встречи этого типа
func (t SessionType) ResponderRole() Role {
	return sessionTypes[t].role
}

// CourseGroup - какой список курса содержит ответственных
func (t SessionType) CourseGroup() CourseGroup {
	return sessionTypes[t].group
}

// Responders выбирает из курса пользователей для этого типа
func (c *Course) Responders(t SessionType) []UserRef {
	switch t.CourseGroup() {
	case GroupIAs:
		return c.IAs
	case GroupECs:
		return c.ECs
	default:
		return c.Mentors
	}
}

func (t SessionType) MarshalJSON() ([]byte, error) {
	if !t.Valid() {
		return nil, fmt.Errorf("invalid session type %d", int(t))
	}
	return json.Marshal(t.String())
}

func (t *SessionType) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := ParseSessionType(s)
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}
