package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/oksasatya/go-ddd-scheduler/internal/domain/entity"
	"github.com/oksasatya/go-ddd-scheduler/pkg/response"
)

// UserService is the part of application.UserService the handler calls.
type UserService interface {
	List(ctx context.Context) ([]entity.User, error)
	GetByID(ctx context.Context, id string) (*entity.User, error)
	GetEvents(ctx context.Context, id string) (*entity.User, []entity.Event, error)
	Create(ctx context.Context, raw map[string]any) (*entity.User, error)
	Update(ctx context.Context, id string, raw map[string]any) (*entity.User, error)
	Delete(ctx context.Context, id string) (bool, error)
}

type UserHandler struct {
	Svc    UserService
	Errors ErrorWriter
}

func NewUserHandler(svc UserService, errs ErrorWriter) *UserHandler {
	return &UserHandler{Svc: svc, Errors: errs}
}

func (h *UserHandler) List(c *gin.Context) {
	users, err := h.Svc.List(c.Request.Context())
	if err != nil {
		h.Errors.Write(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"users": users}, "users fetched", nil)
}

func (h *UserHandler) Get(c *gin.Context) {
	id, ok := h.Errors.bindID(c)
	if !ok {
		return
	}
	u, err := h.Svc.GetByID(c.Request.Context(), id)
	if err != nil {
		h.Errors.Write(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"user": u}, "user fetched", nil)
}

func (h *UserHandler) Events(c *gin.Context) {
	id, ok := h.Errors.bindID(c)
	if !ok {
		return
	}
	u, events, err := h.Svc.GetEvents(c.Request.Context(), id)
	if err != nil {
		h.Errors.Write(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"user": u, "events": events}, "user events fetched", nil)
}

func (h *UserHandler) Create(c *gin.Context) {
	raw, ok := h.Errors.bindBody(c)
	if !ok {
		return
	}
	u, err := h.Svc.Create(c.Request.Context(), raw)
	if err != nil {
		h.Errors.Write(c, err)
		return
	}
	response.Success(c, http.StatusCreated, gin.H{"user": u}, "user created", nil)
}

// CreateAt serves POST /user/:id. The id is checked for shape and then
// ignored; a new user is created with a fresh id.
func (h *UserHandler) CreateAt(c *gin.Context) {
	if _, ok := h.Errors.bindID(c); !ok {
		return
	}
	h.Create(c)
}

func (h *UserHandler) Update(c *gin.Context) {
	id, ok := h.Errors.bindID(c)
	if !ok {
		return
	}
	raw, ok := h.Errors.bindBody(c)
	if !ok {
		return
	}
	u, err := h.Svc.Update(c.Request.Context(), id, raw)
	if err != nil {
		h.Errors.Write(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"user": u}, "user updated", nil)
}

func (h *UserHandler) Delete(c *gin.Context) {
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
