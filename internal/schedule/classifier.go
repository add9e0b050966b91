package schedule

import "time"

// SessionState - положение слота или брони относительно текущего момента
type SessionState int

const (
	Upcoming SessionState = iota
	Ongoing
	Past
)

func (s SessionState) String() string {
	switch s {
	case Upcoming:
		return "upcoming"
	case Ongoing:
		return "ongoing"
	case Past:
		return "past"
	}
	return "unknown"
}

// ParseSessionState переводит имя вкладки обратно в состояние
func ParseSessionState(s string) (SessionState, bool) {
	switch s {
	case "upcoming":
		return Upcoming, true
	case "ongoing":
		return Ongoing, true
	case "past":
		return Past, true
	}
	return 0, false
}

// Classify сравнивает now с закрытым интервалом [Start, End]
func Classify(iv Interval, now time.Time) SessionState {
	switch {
	case now.Before(iv.Start):
		return Upcoming
	case now.After(iv.End):
		return Past
	default:
		return Ongoing
	}
}

// StatusCompleted - финальный статус брони, подключение недоступно
const StatusCompleted = "Completed"

const (
	JoinLabel  = "Join"
	EndedLabel = "Session Ended"
)

// JoinAction - состояние кнопки подключения, вычисляется при каждом чтении
type JoinAction struct {
	Enabled bool
	Label   string
}

// Join решает, можно ли ещё подключиться к сессии
func Join(iv Interval, status string, now time.Time) JoinAction {
	if now.After(iv.End) || status == StatusCompleted {
		return JoinAction{Enabled: false, Label: EndedLabel}
	}
	return JoinAction{Enabled: true, Label: JoinLabel}
}

type View int

const (
	// StudentView показывает идущие сессии и во вкладке предстоящих
	StudentView View = iota
	// MentorView сопоставляет вкладки строго
	MentorView
)

// InTab - попадает ли сессия в состоянии s во вкладку tab
func (v View) InTab(tab, s SessionState) bool {
	if v == StudentView && tab == Upcoming {
		return s == Upcoming || s == Ongoing
	}
	return s == tab
}
