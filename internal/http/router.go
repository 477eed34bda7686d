package http

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "jucai-fund-backend/docs"
	"jucai-fund-backend/internal/common/middleware"
	notificationhttp "jucai-fund-backend/internal/features/notification/delivery/http"
	userhttp "jucai-fund-backend/internal/features/user/delivery/http"
	withdrawalhttp "jucai-fund-backend/internal/features/withdrawal/delivery/http"
)

// Deps собирает все, что нужно роутеру
type Deps struct {
	Version        string
	AllowedOrigins []string

	Users         *userhttp.UserHandler
	Notifications *notificationhttp.NotificationHandler
	Withdrawals   *withdrawalhttp.WithdrawalHandler

	Metrics      *middleware.Metrics
	LoginLimiter *middleware.RateLimiter
	// Checks проверяются в /ready, ключ - имя зависимости
	Checks map[string]HealthChecker
}

// NewRouter строит gin.Engine со всеми маршрутами и middleware
func NewRouter(d Deps) *gin.Engine {
	router := gin.New()

	router.Use(middleware.RequestID())
	router.Use(middleware.Logger())
	if d.Metrics != nil {
		router.Use(d.Metrics.Middleware())
	}
	router.Use(cors.New(corsConfig(d.AllowedOrigins)))
	router.Use(middleware.Errors())
	router.Use(middleware.Recovery())

	system := newSystemHandler(d.Version, d.Checks)
	router.GET("/", system.Root)
	router.GET("/health", system.Health)
	router.GET("/live", system.Live)
	router.GET("/ready", system.Ready)
	router.GET("/welcome", system.Welcome)

	if d.Metrics != nil {
		router.GET("/metrics", gin.WrapH(d.Metrics.Handler()))
	}
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	users := router.Group("/api/users")
	me := users.Group("/me", middleware.QueryUserID())

	var loginGuards []gin.HandlerFunc
	if d.LoginLimiter != nil {
		loginGuards = append(loginGuards, d.LoginLimiter.Middleware())
	}
	d.Users.RegisterRoutes(users, me, loginGuards...)
	d.Notifications.RegisterRoutes(me)
	d.Withdrawals.RegisterRoutes(me)

	router.NoRoute(func(c *gin.Context) {
		middleware.Abort(c, notFoundRoute(c))
	})

	return router
}

func corsConfig(origins []string) cors.Config {
	cfg := cors.DefaultConfig()
	cfg.AllowMethods = []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}
	cfg.AllowHeaders = []string{"Origin", "Content-Type", "Authorization", "Accept", middleware.RequestIDHeader}
	cfg.ExposeHeaders = []string{middleware.RequestIDHeader, middleware.ProcessTimeHeader}

	if len(origins) == 0 || (len(origins) == 1 && origins[0] == "*") {
		cfg.AllowAllOrigins = true
		return cfg
	}
	cfg.AllowOrigins = origins
	cfg.AllowCredentials = true
	return cfg
}
