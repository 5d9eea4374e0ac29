package app

import (
	"taskbook/internal/auth"
	"taskbook/internal/cache"
	"taskbook/internal/config"
	"taskbook/internal/handlers"
	"taskbook/internal/repo"
	"taskbook/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"github.com/swaggo/swag"
)

// Setup registers all routes on the given engine.
func Setup(r *gin.Engine, cfg config.Config, db *pgxpool.Pool, rdb *redis.Client) {
	r.GET("/about", aboutHandler(cfg))
	r.GET("/health", healthHandler(cfg))
	r.GET("/version", versionHandler(cfg))
	r.GET("/swagger-doc.json", swaggerDocHandler())
	r.GET("/swagger", func(c *gin.Context) { c.Redirect(302, "/swagger/index.html") })
	r.GET("/swagger/*any", ginSwagger.WrapHandler(
		swaggerFiles.Handler,
		ginSwagger.URL("/swagger-doc.json"),
		ginSwagger.DefaultModelsExpandDepth(-1),
		ginSwagger.PersistAuthorization(true),
	))

	sessionStore := auth.NewStore(rdb, cfg.Auth.SessionTTL.Duration(), cfg.Auth.RememberTTL.Duration())
	hasher := auth.NewPasswordHasher(cfg.Auth.BcryptCost)

	userRepo := repo.NewPGUserRepo(db)
	userSvc := service.NewUserService(userRepo, hasher)
	authHandler := handlers.NewAuthHandler(sessionStore, userSvc)
	registerAuthRoutes(r, authHandler)

	taskRepo := repo.NewPGTaskRepo(db)
	taskCache := cache.NewTaskCache(rdb, cfg.Redis.DefaultTTL.Duration())
	taskSvc := service.NewTaskService(taskRepo, taskCache)
	taskHandler := handlers.NewTaskHandler(taskSvc, userSvc)

	protected := r.Group("", auth.RequireSession(sessionStore))
	registerTaskRoutes(protected, taskHandler)
}

func aboutHandler(cfg config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(200, gin.H{
			"service": "Taskbook",
			"version": cfg.App.Version,
			"env":     cfg.App.Env,
			"docs":    "/swagger/index.html",
			"spec":    "/swagger-doc.json",
			"health":  "/health",
		})
	}
}

func healthHandler(cfg config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(200, gin.H{"ok": true, "env": cfg.App.Env})
	}
}

func versionHandler(cfg config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(200, gin.H{"version": cfg.App.Version})
	}
}

func swaggerDocHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		doc, err := swag.ReadDoc("swagger")
		if err != nil {
			c.JSON(500, gin.H{"error": err.Error()})
			return
		}
		c.Data(200, "application/json; charset=utf-8", []byte(doc))
	}
}

func registerTaskRoutes(r *gin.RouterGroup, h *handlers.TaskHandler) {
	r.GET("/", h.Index)
	r.POST("/add-task", h.Add)
	r.GET("/tasks", h.List)
	r.PUT("/update-task/:id", h.Update)
	r.PUT("/update-task-status/:id", h.UpdateStatus)
	r.DELETE("/delete-task/:id", h.Delete)
}

func registerAuthRoutes(r *gin.Engine, h *handlers.AuthHandler) {
	r.GET("/login", h.LoginPage)
	r.POST("/login", h.Login)
	r.GET("/signup", h.SignupPage)
	r.POST("/signup", h.Signup)
	r.GET("/logout", h.Logout)
	r.POST("/logout", h.Logout)
}
