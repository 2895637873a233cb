package handlers

import (
	"net/http"
	"time"

	"github.com/HaseevAhmad/project-pilot/internal/services"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// Services зависимости HTTP-слоя
type Services struct {
	Users       services.UserService
	Auth        *services.AuthService
	Projects    services.ProjectService
	Submissions services.SubmissionService
	Notices     services.NoticeService
}

// resource методы ресурса, ключ записи передается через ?id=
type resource interface {
	Get(c *gin.Context)
	Post(c *gin.Context)
	Put(c *gin.Context)
	Delete(c *gin.Context)
}

// NewRouter собирает gin.Engine со всеми маршрутами API
func NewRouter(svc Services, corsOrigins []string) *gin.Engine {
	registerValidators()

	router := gin.Default()
	router.HandleMethodNotAllowed = true
	router.MaxMultipartMemory = 8 << 20

	router.Use(corsMiddleware(corsOrigins))
	router.NoMethod(func(c *gin.Context) {
		c.JSON(http.StatusMethodNotAllowed, gin.H{"message": "Method not allowed."})
	})
	router.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"message": "Resource not found."})
	})

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	users := NewUserHandler(svc.Users, svc.Auth)

	api := router.Group("/api")
	api.Use(OptionalAuth(svc.Auth))
	{
		mount(api, "/users", users)
		mount(api, "/projects", NewProjectHandler(svc.Projects))
		mount(api, "/submissions", NewSubmissionHandler(svc.Submissions))
		mount(api, "/notices", NewNoticeHandler(svc.Notices))

		api.GET("/me", RequireAuth(), users.Me)
	}

	return router
}

func mount(g *gin.RouterGroup, path string, h resource) {
	g.GET(path, h.Get)
	g.POST(path, h.Post)
	g.PUT(path, h.Put)
	g.DELETE(path, h.Delete)
	g.OPTIONS(path, preflight)
}

// preflight отвечает 200 на OPTIONS без заголовка Origin
func preflight(c *gin.Context) {
	c.Status(http.StatusOK)
}

// corsMiddleware разрешает браузерному фронтенду обращаться к API
func corsMiddleware(origins []string) gin.HandlerFunc {
	cfg := cors.Config{
		AllowMethods:              []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:              []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Requested-With"},
		ExposeHeaders:             []string{"Content-Disposition"},
		MaxAge:                    12 * time.Hour,
		OptionsResponseStatusCode: http.StatusOK,
	}

	allowAll := len(origins) == 0
	for _, o := range origins {
		if o == "*" {
			allowAll = true
		}
	}
	if allowAll {
		cfg.AllowAllOrigins = true
	} else {
		cfg.AllowOrigins = origins
		cfg.AllowCredentials = true
	}
	return cors.New(cfg)
}
