package router

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/oksasatya/go-ddd-scheduler/internal/container"
	handlers "github.com/oksasatya/go-ddd-scheduler/internal/interface/http"
	"github.com/oksasatya/go-ddd-scheduler/internal/interface/middleware"
	"github.com/oksasatya/go-ddd-scheduler/internal/router/modules"
	"github.com/oksasatya/go-ddd-scheduler/pkg/response"
)

// InitModules builds handlers from the container and registers every module.
// Call once during startup, before RegisterAll.
func InitModules(r *Registry, c *container.Container) {
	errs := handlers.ErrorWriter{Logger: c.Logger, Production: c.Config.IsProduction()}

	if c.Config.RateLimitEnabled && c.Redis != nil {
		allow := middleware.AnyAllow(middleware.AllowPrivateIP(), middleware.AllowCIDRs(c.Config.RateLimitAllowList()))
		r.Use(middleware.RateLimit(c.Redis, c.Config.RateLimitMax, c.Config.RateLimitWindow, middleware.KeyByIPAndMethod(), allow))
	}

	r.AddRoot(ModuleFunc(func(rg *gin.RouterGroup) {
		rg.GET("/healthz", func(ctx *gin.Context) {
			response.Success(ctx, http.StatusOK, gin.H{"store": c.Config.StoreDriver}, "ok", nil)
		})
	}))

	r.Add(modules.NewUserModule(handlers.NewUserHandler(c.Users, errs)))
	r.Add(modules.NewEventModule(handlers.NewEventHandler(c.Events, errs)))

	if c.Config.DebugMetricsEnabled {
		debug := modules.NewDebugModule(c.Redis)
		r.Add(debug)
		r.AddRoot(debug)
	}
}
