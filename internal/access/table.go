package access

import (
	"strings"

	"github.com/Freeeeeet/connect_portal/internal/model"
)

const (
	HomePath            = "/"
	SelectRolePath      = "/select-role"
	PendingApprovalPath = "/pending-approval"
	// FallbackDashboard - для ролей, которых нет в таблице
	FallbackDashboard = "/dashboard"
)

// roleRoutes - префиксы путей, доступные роли. Первый элемент - дашборд роли.
var roleRoutes = map[model.Role][]string{
	model.RoleAdmin:      {"/admin/dashboard", "/admin/manage-users", "/admin/reports", "/admin/settings"},
	model.RoleMentor:     {"/mentor/dashboard", "/mentor/schedule", "/mentor/tasks", "/mentor/support", "/mentor/manage-slots"},
	model.RoleStudent:    {"/student/dashboard", "/student/lectures", "/student/assignments", "/student/notifications", "/student/slot-booking"},
	model.RoleIA:         {"/ia/dashboard", "/ia/performance"},
	model.RoleLeadership: {"/leadership/dashboard", "/leadership/analytics", "/leadership/reports"},
	model.RoleEC:         {"/ec/dashboard", "/ec/events"},
}

var publicPrefixes = []string{"/static", "/images", "/favicon.ico", "/api"}

// IsPublic - путь открыт без проверки доступа
func IsPublic(path string) bool {
	if path == HomePath || path == SelectRolePath {
		return true
	}
	for _, p := range publicPrefixes {
		if strings.HasPrefix(path, p) {
			return true
		}
	}
	return false
}

// Routes возвращает копию префиксов роли
func Routes(role model.Role) []string {
	return append([]string(nil), roleRoutes[role]...)
}

// Dashboard возвращает стартовую страницу роли
func Dashboard(role model.Role) string {
	if routes := roleRoutes[role]; len(routes) > 0 {
		return routes[0]
	}
	return FallbackDashboard
}

func Allowed(role model.Role, path string) bool {
	for _, prefix := range roleRoutes[role] {
		if strings.HasPrefix(path, prefix) {
			return true
		}
	}
	return false
}
