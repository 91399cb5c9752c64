package routes

import (
	"net/http"
	"strings"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"storefront/controllers"
	"storefront/middleware"
)

type RouterConfig struct {
	AuthController    *controllers.AuthController
	ProductController *controllers.ProductController
	OrderController   *controllers.OrderController
	JWTSecret         []byte
	CORSOrigins       string
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	r := gin.Default()
	r.SetTrustedProxies(nil)

	r.Use(middleware.RequestID())
	r.Use(cors.New(cors.Config{
		AllowOrigins:     strings.Split(cfg.CORSOrigins, ","),
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Authorization", "Content-Type", "X-Request-ID"},
		AllowCredentials: true,
	}))

	r.GET("/healthcheck", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := r.Group("/api")
	{
		auth := api.Group("/auth")
		{
			auth.POST("/register", cfg.AuthController.Register)
			auth.POST("/login", cfg.AuthController.Login)
			auth.GET("/me", middleware.AuthRequired(cfg.JWTSecret), cfg.AuthController.Me)
		}

		api.GET("/products", cfg.ProductController.List)
		api.GET("/products/:id", cfg.ProductController.Detail)

		protected := api.Group("/")
		protected.Use(middleware.AuthRequired(cfg.JWTSecret))
		{
			protected.POST("/orders", cfg.OrderController.Create)
			protected.GET("/orders", cfg.OrderController.ListMine)

			admin := protected.Group("/")
			admin.Use(middleware.AdminRequired())
			{
				admin.GET("/orders/all", cfg.OrderController.ListAll)
				admin.PUT("/orders/:id/status", cfg.OrderController.UpdateStatus)

				admin.POST("/products", cfg.ProductController.Create)
				admin.PUT("/products/:id", cfg.ProductController.Update)
				admin.DELETE("/products/:id", cfg.ProductController.Delete)
				admin.GET("/admin/products", cfg.ProductController.ListAdmin)
			}
		}
	}

	return r
}
