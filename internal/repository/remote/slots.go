package remote

import (
	"context"
	"net/http"
	"net/url"

	"github.com/Freeeeeet/connect_portal/internal/model"
)

// ListSlots возвращает слоты ментора, пустой status - все статусы
func (c *Client) ListSlots(ctx context.Context, s model.Session, mentorID string, status model.SlotStatus) ([]model.Slot, error) {
	q := url.Values{}
	q.Set("mentor", mentorID)
	if status != "" {
		q.Set("status", string(status))
	}

	var slots []model.Slot
	if err := c.get(ctx, "list slots", s, "/slots?"+q.Encode(), &slots); err != nil {
		return nil, err
	}
	return slots, nil
}

// CreateSlots отправляет пакет слотов одним запросом
func (c *Client) CreateSlots(ctx context.Context, s model.Session, slots []model.Slot) ([]model.Slot, error) {
	var created []model.Slot
	if err := c.call(ctx, "create slots", s, http.MethodPost, "/slots", slots, &created); err != nil {
		return nil, err
	}
	return created, nil
}

func (c *Client) UpdateSlot(ctx context.Context, s model.Session, id string, patch model.SlotPatch) (*model.Slot, error) {
	var slot model.Slot
	if err := c.call(ctx, "update slot", s, http.MethodPut, "/slots/"+url.PathEscape(id), patch, &slot); err != nil {
		return nil, err
	}
	return &slot, nil
}

func (c *Client) DeleteSlot(ctx context.Context, s model.Session, id string) error {
	return c.call(ctx, "delete slot", s, http.MethodDelete, "/slots/"+url.PathEscape(id), nil, nil)
}
