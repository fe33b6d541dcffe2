package main

import (
	"log"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"github.com/contentking-de/womosuche-sub000/billing"
	"github.com/contentking-de/womosuche-sub000/db"
	_ "github.com/contentking-de/womosuche-sub000/docs"
	billingHandlers "github.com/contentking-de/womosuche-sub000/handlers/billing"
	"github.com/contentking-de/womosuche-sub000/routes"
	"github.com/contentking-de/womosuche-sub000/utils"
)

// @title WomoSuche Billing API
// @version 1.0
// @description Subscription billing backend for the WomoSuche rental marketplace
// @host localhost:8080
// @BasePath /
// @SecurityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Enter the JWT with the Bearer prefix: Bearer <JWT>
func main() {
	gin.SetMode(gin.ReleaseMode)

	if err := godotenv.Load(); err != nil {
		utils.LogInfo("No .env file found, expecting configuration from the environment")
	}

	conn, err := db.Connect(os.Getenv("DB_URL"))
	if err != nil {
		utils.LogError(err, "Error initializing the database")
		log.Fatal("Error initializing the database: ", err)
	}

	gateway := billing.NewStripeGateway(
		os.Getenv("STRIPE_SECRET_KEY"),
		os.Getenv("CHECKOUT_SUCCESS_URL"),
		os.Getenv("CHECKOUT_CANCEL_URL"),
	)
	svc := billing.NewService(billing.NewGormRepository(conn), gateway)

	r := routes.SetupRouter(billingHandlers.NewHandler(svc))

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	if err := r.Run(":" + port); err != nil {
		log.Fatal("Error starting the server: ", err)
	}
}
