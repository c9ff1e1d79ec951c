package router

import (
	"PawPlanner_WebClient/internal/auth"
	"PawPlanner_WebClient/internal/config"
	"PawPlanner_WebClient/internal/handler"
	"PawPlanner_WebClient/internal/middleware"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type Deps struct {
	Config  *config.Config
	Handler *handler.Handler
	Issuer  *auth.TokenIssuer
	Logger  *zap.Logger
	// SecureCookie marks the client cookie Secure (serve behind TLS).
	SecureCookie bool
}

func Setup(d Deps) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogger(d.Logger))

	corsConfig := cors.DefaultConfig()
	if d.Config.AllowAllOrigins() {
		corsConfig.AllowAllOrigins = true
	} else {
		corsConfig.AllowOrigins = d.Config.AllowedOrigins
		corsConfig.AllowCredentials = true
	}
	router.Use(cors.New(corsConfig))

	router.SetHTMLTemplate(handler.Templates())

	router.GET("/health", handler.Health)

	client := router.Group("/")
	client.Use(middleware.ClientIdentity(d.Issuer, d.SecureCookie, d.Logger))
	client.Use(middleware.PerClientRateLimit(d.Config.RateLimitRPS, d.Config.RateLimitBurst))
	{
		client.GET("/", d.Handler.Index)
		client.GET("/view", d.Handler.View)
		client.GET("/ws/view", d.Handler.ViewStream)

		client.POST("/register", d.Handler.Register)
		client.POST("/login", d.Handler.Login)
		client.POST("/logout", d.Handler.Logout)
		client.POST("/profile", d.Handler.CreateProfile)
		client.POST("/profile/show", d.Handler.ShowProfile)
		client.POST("/recommendations", d.Handler.Recommendations)
	}

	return router
}
