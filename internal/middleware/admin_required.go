package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/notefield/notebook-service/internal/domain"
	"github.com/notefield/notebook-service/pkg/app"
	"github.com/notefield/notebook-service/pkg/code"
)

// AdminRequired rejects non-admin callers. Runs after UserAuthToken.
func AdminRequired(userRepo domain.UserRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		response := app.NewResponse(c)

		uid := app.GetUID(c)
		if uid == 0 {
			response.ToResponse(code.ErrorNotUserAuthToken)
			c.Abort()
			return
		}

		user, err := userRepo.GetByUID(c.Request.Context(), uid)
		if err != nil || !user.IsAdmin() || !user.CanLogin() {
			response.ToResponse(code.ErrorAdminRequired)
			c.Abort()
			return
		}

		c.Next()
	}
}
