package controller

import (
	"errors"
	"net/http"

	"github.com/Freeeeeet/connect_portal/internal/booking"
	"github.com/Freeeeeet/connect_portal/internal/repository/remote"
	"github.com/Freeeeeet/connect_portal/internal/schedule"
	"github.com/Freeeeeet/connect_portal/internal/service"
	"github.com/Freeeeeet/connect_portal/internal/validation"
)

// Ошибки уровня HTTP
var (
	ErrInvalidBody   = errors.New("invalid request body")
	ErrNoFlow        = errors.New("no booking in progress")
	ErrUnknownEvent  = errors.New("unknown booking action")
	ErrInvalidParams = errors.New("invalid query parameter")
)

// errorStatus возвращает HTTP статус и сообщение для пользователя
func errorStatus(err error) (int, string) {
	var (
		parseErr *schedule.ParseError
		dupErr   *schedule.DuplicateSlotError
		verrs    validation.ValidationErrors
		reqErr   *remote.RequestError
	)

	switch {
	case errors.As(err, &verrs):
		return http.StatusBadRequest, "validation failed"
	case errors.As(err, &parseErr):
		return http.StatusBadRequest, parseErr.Error()
	case errors.Is(err, schedule.ErrInvalidDuration),
		errors.Is(err, schedule.ErrInvalidBuffer),
		errors.Is(err, schedule.ErrNoDates),
		errors.Is(err, ErrInvalidBody),
		errors.Is(err, ErrUnknownEvent),
		errors.Is(err, ErrInvalidParams):
		return http.StatusBadRequest, err.Error()
	case errors.As(err, &dupErr):
		return http.StatusConflict, dupErr.Error()
	case errors.Is(err, booking.ErrBookingLimitReached),
		errors.Is(err, booking.ErrInvalidTransition),
		errors.Is(err, booking.ErrSlotUnavailable),
		errors.Is(err, booking.ErrMentorUnavailable):
		return http.StatusConflict, rootMessage(err)
	case errors.Is(err, service.ErrSlotNotFound), errors.Is(err, ErrNoFlow):
		return http.StatusNotFound, rootMessage(err)
	case errors.Is(err, service.ErrRoleNotGranted):
		return http.StatusForbidden, service.ErrRoleNotGranted.Error()
	case errors.Is(err, service.ErrNoIdentity):
		return http.StatusUnauthorized, "authentication required"
	case errors.As(err, &reqErr):
		if reqErr.StatusCode >= 400 && reqErr.StatusCode < 500 {
			return reqErr.StatusCode, reqErr.Message
		}
		return http.StatusBadGateway, "upstream service unavailable"
	default:
		return http.StatusInternalServerError, "internal server error"
	}
}

// rootMessage отдаёт текст самой внутренней ошибки без обёрток операций
func rootMessage(err error) string {
	for {
		next := errors.Unwrap(err)
		if next == nil {
			return err.Error()
		}
		err = next
	}
}
