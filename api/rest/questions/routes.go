package questions

import "github.com/gin-gonic/gin"

// RegisterRoutes mounts the question endpoint. limit runs before the handler
// when non-nil.
func RegisterRoutes(router *gin.RouterGroup, deps Deps, limit gin.HandlerFunc) {
	handlers := []gin.HandlerFunc{AskHandler(deps)}
	if limit != nil {
		handlers = append([]gin.HandlerFunc{limit}, handlers...)
	}

	router.POST("/questions/:slug", handlers...)
}
