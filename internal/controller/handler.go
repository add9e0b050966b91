package controller

import (
	"context"
	"net/http"

	"github.com/julienschmidt/httprouter"
	"go.uber.org/zap"

	"github.com/Freeeeeet/connect_portal/internal/access"
	"github.com/Freeeeeet/connect_portal/internal/booking"
	"github.com/Freeeeeet/connect_portal/internal/controller/state"
	"github.com/Freeeeeet/connect_portal/internal/model"
	"github.com/Freeeeeet/connect_portal/internal/schedule"
	"github.com/Freeeeeet/connect_portal/internal/service"
)

// SlotManager - управление слотами ментора
type SlotManager interface {
	Week() []schedule.WeekDay
	ListSlots(ctx context.Context, sess model.Session, mentorID string, status model.SlotStatus) ([]schedule.DateGroup[model.Slot], error)
	CreateSlots(ctx context.Context, sess model.Session, req service.CreateSlotsRequest) ([]model.Slot, error)
	EditSlot(ctx context.Context, sess model.Session, id string, req service.EditSlotRequest) (*model.Slot, error)
	ArchiveSlot(ctx context.Context, sess model.Session, id string) (*model.Slot, error)
	DeleteSlot(ctx context.Context, sess model.Session, id string) error
	SavedSettings(ctx context.Context, sess model.Session) (*model.SlotSettings, error)
}

// BookingManager - диалог бронирования и списки встреч
type BookingManager interface {
	StartFlow(ctx context.Context, sess model.Session, courseID string) (booking.Flow, error)
	Apply(ctx context.Context, sess model.Session, f booking.Flow, ev booking.Event) (booking.Flow, error)
	Confirm(ctx context.Context, sess model.Session, f booking.Flow) (booking.Flow, error)
	Sessions(ctx context.Context, sess model.Session, view schedule.View, tab schedule.SessionState, page int) (schedule.Page[service.SessionView], error)
}

// RoleSelector проверяет выбор роли
type RoleSelector interface {
	SelectRole(ctx context.Context, sess model.Session, role model.Role) (string, error)
}

type Handler struct {
	slots    SlotManager
	bookings BookingManager
	users    RoleSelector
	flows    *state.Manager
	guard    *access.Guard
	logger   *zap.Logger
}

func NewHandler(
	slots SlotManager,
	bookings BookingManager,
	users RoleSelector,
	flows *state.Manager,
	guard *access.Guard,
	logger *zap.Logger,
) *Handler {
	return &Handler{
		slots:    slots,
		bookings: bookings,
		users:    users,
		flows:    flows,
		guard:    guard,
		logger:   logger,
	}
}

// RegisterRoutes регистрирует JSON эндпоинты и страницы
func (h *Handler) RegisterRoutes(router *httprouter.Router) {
	router.GET("/healthz", h.Health)

	router.GET("/api/week", h.authed(h.Week))
	router.GET("/api/slots", h.authed(h.ListSlots))
	router.POST("/api/slots", h.authed(h.CreateSlots))
	router.PUT("/api/slots/:id", h.authed(h.EditSlot))
	router.POST("/api/slots/:id/archive", h.authed(h.ArchiveSlot))
	router.DELETE("/api/slots/:id", h.authed(h.DeleteSlot))
	router.GET("/api/slot-settings", h.authed(h.SlotSettings))

	router.GET("/api/sessions", h.authed(h.Sessions))

	router.GET("/api/booking/flow", h.authed(h.GetFlow))
	router.POST("/api/booking/flow", h.authed(h.StartFlow))
	router.POST("/api/booking/flow/events", h.authed(h.FlowEvent))
	router.DELETE("/api/booking/flow", h.authed(h.AbandonFlow))

	pages := h.guard.Middleware(http.HandlerFunc(h.Page))
	router.GET("/select-role", func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		pages.ServeHTTP(w, r)
	})
	router.POST("/select-role", h.authed(h.SelectRole))
	router.NotFound = pages
}

// Routes собирает роутер со стеком middleware
func (h *Handler) Routes() http.Handler {
	router := httprouter.New()
	h.RegisterRoutes(router)

	// Recovery внутри логирования: паника попадает в access-лог как 500 с request id
	var handler http.Handler = router
	handler = Recovery(h.logger)(handler)
	handler = RequestLogging(h.logger)(handler)
	return handler
}

// authed пропускает только запросы с токеном и кладёт сессию в контекст
func (h *Handler) authed(next httprouter.Handle) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		access.RequireCredential(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			next(w, r, ps)
		})).ServeHTTP(w, r)
	}
}

func session(r *http.Request) model.Session {
	sess, _ := access.SessionFrom(r.Context())
	return sess
}

func (h *Handler) Health(w http.ResponseWriter, _ *http.Request, _ httprouter.Params) {
	h.writeSuccess(w, http.StatusOK, map[string]string{"status": "ok"})
}

type pageResponse struct {
	Page string     `json:"page"`
	Role model.Role `json:"role,omitempty"`
}

// Page - заглушка страницы после проверки доступа
func (h *Handler) Page(w http.ResponseWriter, r *http.Request) {
	sess, _ := access.SessionFrom(r.Context())
	h.writeSuccess(w, http.StatusOK, pageResponse{Page: r.URL.Path, Role: sess.SelectedRole})
}

type selectRoleRequest struct {
	Role model.Role `json:"role"`
}

type selectRoleResponse struct {
	Role     model.Role `json:"role"`
	Redirect string     `json:"redirect"`
}

func (h *Handler) SelectRole(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var req selectRoleRequest
	if err := decodeBody(r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}

	to, err := h.users.SelectRole(r.Context(), session(r), req.Role)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	access.SetSelectedRole(w, req.Role)
	h.writeSuccess(w, http.StatusOK, selectRoleResponse{Role: req.Role, Redirect: to})
}
