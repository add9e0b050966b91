package remote

import (
	"context"
	"net/http"
	"net/url"

	"github.com/Freeeeeet/connect_portal/internal/model"
)

// ListBookings возвращает брони, где userID - студент или ментор
func (c *Client) ListBookings(ctx context.Context, s model.Session, userID string) ([]model.Booking, error) {
	var bookings []model.Booking
	if err := c.get(ctx, "list bookings", s, "/bookings?user="+url.QueryEscape(userID), &bookings); err != nil {
		return nil, err
	}
	return bookings, nil
}

func (c *Client) CreateBooking(ctx context.Context, s model.Session, nb model.NewBooking) (*model.Booking, error) {
	var b model.Booking
	if err := c.call(ctx, "create booking", s, http.MethodPost, "/bookings", nb, &b); err != nil {
		return nil, err
	}
	return &b, nil
}
