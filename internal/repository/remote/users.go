package remote

import (
	"context"
	"net/url"
	"strings"

	"github.com/Freeeeeet/connect_portal/internal/model"
)

// UserStatus - статус аккаунта и роли по токену сессии
func (c *Client) UserStatus(ctx context.Context, s model.Session) (*model.UserStatus, error) {
	var status model.UserStatus
	if err := c.get(ctx, "get user status", s, "/get-user-status", &status); err != nil {
		return nil, err
	}
	return &status, nil
}

func (c *Client) Course(ctx context.Context, s model.Session, id string) (*model.Course, error) {
	var course model.Course
	if err := c.get(ctx, "get course", s, "/courses/"+url.PathEscape(id), &course); err != nil {
		return nil, err
	}
	return &course, nil
}

// UsersByIDs получает пользователей одним запросом, без id запроса нет
func (c *Client) UsersByIDs(ctx context.Context, s model.Session, ids []string) ([]model.User, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var users []model.User
	if err := c.get(ctx, "get users", s, "/users?ids="+url.QueryEscape(strings.Join(ids, ",")), &users); err != nil {
		return nil, err
	}
	return users, nil
}
