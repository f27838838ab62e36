package modules

import (
	"github.com/gin-gonic/gin"

	handlers "github.com/oksasatya/go-ddd-scheduler/internal/interface/http"
)

// UserModule serves /api/user.
type UserModule struct {
	Handler *handlers.UserHandler
}

func NewUserModule(h *handlers.UserHandler) *UserModule {
	return &UserModule{Handler: h}
}

func (m *UserModule) Register(rg *gin.RouterGroup) {
	g := rg.Group("/user")
	g.GET("", m.Handler.List)
	g.POST("", m.Handler.Create)

	g.GET("/:id", m.Handler.Get)
	g.PUT("/:id", m.Handler.Update)
	g.POST("/:id", m.Handler.CreateAt)
	g.DELETE("/:id", m.Handler.Delete)

	g.GET("/:id/event", m.Handler.Events)
}
