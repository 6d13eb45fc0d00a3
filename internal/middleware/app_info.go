// Package middleware provides the gin middleware chain of the HTTP API.
package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/notefield/notebook-service/global"
	"github.com/notefield/notebook-service/pkg/app"
)

func AppInfo() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set("app_name", global.Name)
		c.Set("app_version", global.Version)
		c.Set("access_host", app.GetAccessHost(c))

		c.Next()
	}
}
