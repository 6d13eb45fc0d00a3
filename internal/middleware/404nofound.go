package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/notefield/notebook-service/pkg/app"
	"github.com/notefield/notebook-service/pkg/code"
)

// NoFound handles routes without a registered handler.
func NoFound() gin.HandlerFunc {
	return func(c *gin.Context) {
		response := app.NewResponse(c)
		response.ToResponse(code.ErrorNotFoundAPI)
		c.Abort()
	}
}
