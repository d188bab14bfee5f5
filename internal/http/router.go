package http

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"adopet/internal/service"
)

// NewRouter configura el router de Gin con middlewares y rutas.
func NewRouter(
	logger *zap.Logger,
	jwtSvc *service.JWTService,
	userH *UserHandler,
	animalH *AnimalHandler,
	chatH *ChatHandler,
) *gin.Engine {
	r := gin.New()

	// Middlewares básicos: logging, recovery y métricas.
	r.Use(zapLoggerMiddleware(logger), gin.Recovery(), metricsMiddleware())

	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Rutas públicas.
	r.POST("/users", userH.CreateUser)
	r.POST("/login", userH.Login)
	r.POST("/auth/refresh", userH.RefreshTokens)

	// Rutas protegidas por el guard de autenticación.
	authGuard := JWTAuthMiddleware(jwtSvc)

	r.PATCH("/user", authGuard, userH.UpdateUser)

	r.POST("/animal", authGuard, animalH.CreateAnimal)
	r.PATCH("/animal/:id", authGuard, animalH.UpdateStatus)
	animals := r.Group("/animals", authGuard)
	animals.GET("/available", animalH.ListAvailable)
	animals.GET("/user", animalH.ListMine)

	chats := r.Group("/chats", authGuard)
	chats.POST("", chatH.CreateChat)
	chats.POST("/messages", chatH.PostMessage)
	chats.GET("", chatH.ListChats)
	chats.GET("/:chatId", chatH.GetChat)

	return r
}

// zapLoggerMiddleware crea un middleware simple de logging con zap.
func zapLoggerMiddleware(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		latency := time.Since(start)
		logger.Info("request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", latency),
			zap.String("client_ip", c.ClientIP()),
		)
	}
}
