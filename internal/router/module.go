package router

import "github.com/gin-gonic/gin"

// Module registers a feature's routes on a RouterGroup.
type Module interface {
	Register(rg *gin.RouterGroup)
}

// ModuleFunc adapts a plain route-registering func to Module.
type ModuleFunc func(rg *gin.RouterGroup)

func (f ModuleFunc) Register(rg *gin.RouterGroup) { f(rg) }
