package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/notefield/notebook-service/internal/service"
	"github.com/notefield/notebook-service/pkg/app"
	"github.com/notefield/notebook-service/pkg/code"
	"github.com/notefield/notebook-service/pkg/errors"
)

// ShareAuthToken authenticates account-less share link access. The token
// signature is checked first, then the share row itself, so a revoked
// share dies even while its token is still valid.
func ShareAuthToken(tokenManager app.TokenManager, shareService service.ShareService) gin.HandlerFunc {
	return func(c *gin.Context) {
		response := app.NewResponse(c)
		var token string

		token = c.GetHeader("Share-Token")
		if token == "" {
			token = c.Query("shareToken")
		}
		if token == "" {
			token = c.PostForm("shareToken")
		}
		if token == "" {
			token = c.Param("token")
		}

		if token == "" {
			response.ToResponse(code.ErrorNotShareAuthToken)
			c.Abort()
			return
		}

		entity, err := tokenManager.ParseShare(token)
		if err != nil {
			response.ToResponse(code.ErrorInvalidShareAuthToken)
			c.Abort()
			return
		}

		share, err := shareService.ResolveLink(c.Request.Context(), entity)
		if err != nil {
			if codeErr, ok := errors.AsCode(err); ok {
				response.ToResponse(codeErr)
			} else {
				response.ToResponse(code.ErrorInvalidShareAuthToken)
			}
			c.Abort()
			return
		}

		c.Set("share_token", entity)
		c.Set("share_row", share)
		c.Next()
	}
}
