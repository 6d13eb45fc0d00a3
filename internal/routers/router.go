// Package routers builds the HTTP and websocket route trees.
package routers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	ut "github.com/go-playground/universal-translator"
	"github.com/lxzan/gws"

	"github.com/notefield/notebook-service/internal/app"
	"github.com/notefield/notebook-service/internal/middleware"
	"github.com/notefield/notebook-service/internal/routers/api_router"
	"github.com/notefield/notebook-service/internal/routers/websocket_router"
	pkgapp "github.com/notefield/notebook-service/pkg/app"
	"github.com/notefield/notebook-service/pkg/limiter"
)

var methodLimiters = limiter.NewMethodLimiter().AddBuckets(
	limiter.BucketRule{
		Key:          "/api/v1/user/login",
		FillInterval: time.Second,
		Capacity:     10,
		Quantum:      10,
	},
	limiter.BucketRule{
		Key:          "/api/v1/user/register",
		FillInterval: time.Second,
		Capacity:     10,
		Quantum:      10,
	},
	limiter.BucketRule{
		Key:          "/api/v1/user/recover",
		FillInterval: time.Second,
		Capacity:     5,
		Quantum:      5,
	},
)

// NewRouter assembles the public API engine: middleware chain, REST routes
// and the websocket endpoint.
func NewRouter(appContainer *app.App, uni *ut.UniversalTranslator) *gin.Engine {

	cfg := appContainer.Config()

	wss := pkgapp.NewWebsocketServer(pkgapp.WebsocketServerConfig{
		GWSOption: gws.ServerOption{
			CheckUtf8Enabled:    true,
			ParallelEnabled:     true,
			Recovery:            gws.Recovery,
			PermessageDeflate:   gws.PermessageDeflate{Enabled: true},
			ParallelGolimit:     8,
			ReadMaxPayloadSize:  1024 * 1024 * 16,
			WriteMaxPayloadSize: 1024 * 1024 * 16,
		},
	})

	notebookWS := websocket_router.NewNotebookWSHandler(appContainer)
	nodeWS := websocket_router.NewNodeWSHandler(appContainer)

	wss.TokenParserUse(appContainer.TokenManager.Parse)
	wss.UserDataSelectUse(notebookWS.UserInfo)
	wss.Use("NotebookSubscribe", notebookWS.Subscribe(wss))
	wss.Use("NotebookUnsubscribe", notebookWS.Unsubscribe(wss))
	wss.Use("NodeModify", nodeWS.NodeModify)
	wss.Use("NodeDelete", nodeWS.NodeDelete)

	r := gin.New()

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := r.Group("/api/v1")
	{
		api.Use(middleware.AppInfo())
		api.Use(middleware.Tracer())
		api.Use(api_router.Metrics())
		api.Use(middleware.RateLimiter(methodLimiters))
		api.Use(middleware.ContextTimeout(time.Duration(cfg.App.DefaultContextTimeout) * time.Second))
		api.Use(middleware.Cors())
		api.Use(middleware.LangWithTranslator(uni))
		api.Use(middleware.AccessLog(appContainer.Logger()))
		api.Use(middleware.RecoveryWithLogger(appContainer.Logger()))

		userHandler := api_router.NewUserHandler(appContainer)
		notebookHandler := api_router.NewNotebookHandler(appContainer)
		nodeHandler := api_router.NewNodeHandler(appContainer, wss)
		revisionHandler := api_router.NewNodeRevisionHandler(appContainer, wss)
		linkHandler := api_router.NewNodeLinkHandler(appContainer)
		shareHandler := api_router.NewShareHandler(appContainer)
		moduleHandler := api_router.NewModuleHandler(appContainer)
		adminHandler := api_router.NewAdminHandler(appContainer)
		exportHandler := api_router.NewExportHandler(appContainer)
		versionHandler := api_router.NewVersionHandler(appContainer)

		api.GET("/version", versionHandler.ServerVersion)

		api.POST("/user/register", userHandler.Register)
		api.POST("/user/validate", userHandler.Validate)
		api.POST("/user/login", userHandler.Login)
		api.POST("/user/login/totp", userHandler.LoginTOTP)
		api.POST("/user/recover", userHandler.Recover)
		api.POST("/user/login/recovery", userHandler.LoginRecovery)

		// account-less share link views
		shared := api.Group("/share/:token")
		shared.Use(middleware.ShareAuthToken(appContainer.TokenManager, appContainer.ShareService))
		{
			shared.GET("", shareHandler.SharedNotebook)
			shared.GET("/nodes", shareHandler.SharedNodes)
			shared.GET("/node/:node_id", shareHandler.SharedNode)
		}

		auth := api.Group("")
		auth.Use(middleware.UserAuthToken(appContainer.TokenManager))
		{
			auth.GET("/notebook/sync", wss.Run())

			auth.GET("/user/info", userHandler.Info)
			auth.PUT("/user/info", userHandler.Update)
			auth.POST("/user/change_password", userHandler.ChangePassword)
			auth.POST("/user/totp/enable", userHandler.EnableTOTP)
			auth.POST("/user/totp/verify", userHandler.VerifyTOTP)
			auth.POST("/user/totp/disable", userHandler.DisableTOTP)
			auth.DELETE("/user", userHandler.Deactivate)

			auth.POST("/notebook", notebookHandler.Create)
			auth.GET("/notebooks", notebookHandler.List)
			auth.GET("/notebooks/shared", notebookHandler.ListShared)
			auth.GET("/notebook/:id", notebookHandler.Get)
			auth.PUT("/notebook/:id", notebookHandler.Update)
			auth.DELETE("/notebook/:id", notebookHandler.Delete)
			auth.POST("/notebook/:id/transfer", notebookHandler.Transfer)

			auth.POST("/notebook/:id/node", nodeHandler.Create)
			auth.GET("/notebook/:id/nodes", nodeHandler.List)
			auth.GET("/node/:id", nodeHandler.Get)
			auth.PUT("/node/:id", nodeHandler.Update)
			auth.DELETE("/node/:id", nodeHandler.Delete)
			auth.PUT("/node/:id/restore", nodeHandler.Restore)
			auth.DELETE("/node/:id/purge", nodeHandler.Purge)
			auth.POST("/node/:id/copy", nodeHandler.Copy)

			auth.GET("/node/:id/revisions", revisionHandler.List)
			auth.GET("/node/:id/revision/:version", revisionHandler.Get)
			auth.PUT("/node/:id/revision/:version/restore", revisionHandler.Restore)

			auth.POST("/node/:id/link", linkHandler.Create)
			auth.GET("/node/:id/links", linkHandler.ListBySource)
			auth.GET("/node/:id/backlinks", linkHandler.ListBacklinks)
			auth.DELETE("/link/:id", linkHandler.Delete)

			auth.POST("/notebook/:id/share", shareHandler.Create)
			auth.POST("/notebook/:id/share/link", shareHandler.CreateLink)
			auth.GET("/notebook/:id/shares", shareHandler.ListByNotebook)
			auth.DELETE("/share/:id", shareHandler.Revoke)
			auth.GET("/shares/received", shareHandler.ListReceived)

			auth.GET("/module/backends", moduleHandler.Backends)
			auth.POST("/notebook/:id/module", moduleHandler.Attach)
			auth.GET("/notebook/:id/modules", moduleHandler.ListByNotebook)
			auth.GET("/module/:id", moduleHandler.Get)
			auth.PUT("/module/:id", moduleHandler.Update)
			auth.DELETE("/module/:id", moduleHandler.Detach)
			auth.POST("/module/:id/run", moduleHandler.Run)

			auth.POST("/notebook/:id/export", exportHandler.Export)
			auth.GET("/notebook/:id/export/download", exportHandler.Download)
			auth.POST("/notebook/:id/import", exportHandler.Import)

			admin := auth.Group("/admin")
			admin.Use(middleware.AdminRequired(appContainer.UserRepo))
			{
				admin.GET("/settings", adminHandler.GetSettings)
				admin.PUT("/setting", adminHandler.UpdateSetting)
				admin.POST("/invite", adminHandler.CreateInviteToken)
				admin.GET("/invites", adminHandler.ListInviteTokens)
				admin.GET("/users", adminHandler.ListUsers)
				admin.PUT("/user/:id", adminHandler.UpdateUser)
				admin.GET("/status", adminHandler.SystemStatus)
			}
		}
	}

	r.Use(middleware.Cors())
	r.NoRoute(middleware.NoFound())

	return r
}
