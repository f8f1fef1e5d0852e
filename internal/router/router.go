package router

import (
	"log/slog"
	"net/http"
	"time"

	"Child_Shield/internal/handler"
	"Child_Shield/internal/middleware"
	"Child_Shield/internal/service"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Deps struct {
	Logger         *slog.Logger
	RequestTimeout time.Duration
	CORSOrigins    []string

	Users       *service.UserService
	Discussions *service.DiscussionService
	Reports     *service.CaseReportService
	Events      *service.EventService

	// Auth defaults to Users.
	Auth   middleware.Authenticator
	Checks map[string]handler.Check

	// Registry defaults to a fresh registry; /metrics serves whatever is registered on it.
	Registry *prometheus.Registry
}

func InitRouter(d Deps) *gin.Engine {
	r := gin.New()
	r.HandleMethodNotAllowed = true

	reg := d.Registry
	if reg == nil {
		reg = prometheus.NewRegistry()
	}
	auth := d.Auth
	if auth == nil {
		auth = d.Users
	}

	r.Use(
		corsMiddleware(d.CORSOrigins),
		middleware.RequestID(),
		middleware.Logging(d.Logger),
		middleware.Recover(),
		middleware.NewMetrics(reg).Handler(),
		middleware.Timeout(d.RequestTimeout),
	)

	r.NoRoute(func(c *gin.Context) {
		handler.WriteError(c, &service.Error{Kind: service.ErrNotFound, Message: "route not found"})
	})
	r.NoMethod(func(c *gin.Context) {
		c.AbortWithStatusJSON(http.StatusMethodNotAllowed, handler.ErrorBody{Code: "method_not_allowed", Message: "method not allowed"})
	})

	health := handler.NewHealthHandler(d.Checks)
	r.GET("/livez", health.Live)
	r.GET("/healthz", health.Ready)
	r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg})))

	user := handler.NewUserHandler(d.Users)
	discussion := handler.NewDiscussionHandler(d.Discussions)
	report := handler.NewCaseReportHandler(d.Reports)
	event := handler.NewEventHandler(d.Events)

	requireAuth := middleware.AuthMiddleware(auth)

	api := r.Group("/api")

	userGroup := api.Group("/user")
	{
		userGroup.POST("/register", user.Register)
		userGroup.POST("/login", user.Login)
		userGroup.POST("/logout", requireAuth, user.Logout)
	}

	tokenGroup := api.Group("/token")
	{
		tokenGroup.POST("/refresh", user.TokenRefresh)
	}

	reportGroup := api.Group("/reports")
	reportGroup.Use(requireAuth)
	{
		reportGroup.POST("", report.Create)
		reportGroup.GET("", report.List)
		reportGroup.GET("/user/:userId", report.ListByUser)
		reportGroup.GET("/:id", report.Get)
		reportGroup.PUT("/:id", report.Update)
		reportGroup.DELETE("/:id", report.Delete)
	}

	discussionGroup := api.Group("/discussions")
	discussionGroup.Use(requireAuth)
	{
		discussionGroup.GET("", discussion.List)
		discussionGroup.POST("", discussion.Create)
		discussionGroup.GET("/user/:userId", discussion.ListByUser)
		discussionGroup.GET("/:id", discussion.Get)
		discussionGroup.PUT("/:id", discussion.Update)
		discussionGroup.DELETE("/:id", discussion.Delete)
		discussionGroup.POST("/:id/like", discussion.Like)
		discussionGroup.POST("/:id/comment", discussion.Comment)
		discussionGroup.POST("/:id/attend", discussion.Attend)
	}

	// events and campaigns are public
	campaignGroup := api.Group("/campaign")
	{
		campaignGroup.GET("", event.List)
		campaignGroup.POST("", event.Create)
		campaignGroup.GET("/:id", event.Get)
		campaignGroup.PUT("/:id", event.Update)
		campaignGroup.DELETE("/:id", event.Delete)
	}

	return r
}

func corsMiddleware(origins []string) gin.HandlerFunc {
	cfg := cors.DefaultConfig()
	if len(origins) == 0 {
		cfg.AllowAllOrigins = true
	} else {
		cfg.AllowOrigins = origins
	}
	cfg.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type", "Authorization", middleware.RequestIDHeader}
	cfg.ExposeHeaders = []string{middleware.RequestIDHeader}
	return cors.New(cfg)
}
