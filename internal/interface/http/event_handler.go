package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/oksasatya/go-ddd-scheduler/internal/domain/entity"
	"github.com/oksasatya/go-ddd-scheduler/pkg/response"
)

type EventService interface {
	List(ctx context.Context) ([]entity.Event, error)
	GetByID(ctx context.Context, id string) (*entity.Event, error)
	Create(ctx context.Context, raw map[string]any) (*entity.Event, error)
	Update(ctx context.Context, id string, raw map[string]any) (*entity.Event, error)
	Delete(ctx context.Context, id string) (bool, error)
}

type EventHandler struct {
	Svc    EventService
	Errors ErrorWriter
}

func NewEventHandler(svc EventService, errs ErrorWriter) *EventHandler {
	return &EventHandler{Svc: svc, Errors: errs}
}

func (h *EventHandler) List(c *gin.Context) {
	events, err := h.Svc.List(c.Request.Context())
	if err != nil {
		h.Errors.Write(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"events": events}, "events fetched", nil)
}

func (h *EventHandler) Get(c *gin.Context) {
	id, ok := h.Errors.bindID(c)
	if !ok {
		return
	}
	ev, err := h.Svc.GetByID(c.Request.Context(), id)
	if err != nil {
		h.Errors.Write(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"event": ev}, "event fetched", nil)
}

func (h *EventHandler) Create(c *gin.Context) {
	raw, ok := h.Errors.bindBody(c)
	if !ok {
		return
	}
	ev, err := h.Svc.Create(c.Request.Context(), raw)
	if err != nil {
		h.Errors.Write(c, err)
		return
	}
	response.Success(c, http.StatusCreated, gin.H{"event": ev}, "event created", nil)
}

func (h *EventHandler) Update(c *gin.Context) {
	id, ok := h.Errors.bindID(c)
	if !ok {
		return
	}
	raw, ok := h.Errors.bindBody(c)
	if !ok {
		return
	}
	ev, err := h.Svc.Update(c.Request.Context(), id, raw)
	if err != nil {
		h.Errors.Write(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"event": ev}, "event updated", nil)
}

func (h *EventHandler) Delete(c *gin.Context) {
	id, ok := h.Errors.bindID(c)
	if !ok {
		return
	}
	if _, err := h.Svc.Delete(c.Request.Context(), id); err != nil {
		h.Errors.Write(c, err)
		return
	}
	response.NoContent(c, http.StatusNoContent)
}
