package routes

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	billingHandlers "github.com/contentking-de/womosuche-sub000/handlers/billing"
	"github.com/contentking-de/womosuche-sub000/handlers/ping"
	"github.com/contentking-de/womosuche-sub000/handlers/plans"
)

// SetupRouter assembles the HTTP router. Handlers arrive fully
// constructed; this package only does wiring.
func SetupRouter(billingHandler *billingHandlers.Handler) *gin.Engine {
	r := gin.Default()
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS", "PATCH"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "Stripe-Signature"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	PingRoutes(r)
	PlansRoutes(r, plans.New())
	BillingRoutes(r, billingHandler)

	return r
}

func PingRoutes(r *gin.Engine) {
	pingHandler := ping.New()
	r.GET("/ping", pingHandler.HandlePing)
}

func PlansRoutes(r *gin.Engine, h *plans.Handler) {
	r.GET("/plans", h.GetPlans)
}
