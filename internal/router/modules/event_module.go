package modules

import (
	"github.com/gin-gonic/gin"

	handlers "github.com/oksasatya/go-ddd-scheduler/internal/interface/http"
)

// EventModule serves /api/event.
type EventModule struct {
	Handler *handlers.EventHandler
}

func NewEventModule(h *handlers.EventHandler) *EventModule {
	return &EventModule{Handler: h}
}

func (m *EventModule) Register(rg *gin.RouterGroup) {
	g := rg.Group("/event")
	g.GET("", m.Handler.List)
	g.POST("", m.Handler.Create)
	g.GET("/:id", m.Handler.Get)
	g.PUT("/:id", m.Handler.Update)
	g.DELETE("/:id", m.Handler.Delete)
}
