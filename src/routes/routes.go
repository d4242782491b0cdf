package routes

import (
	"os"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"

	"exchange-engine/src/handlers"
	"exchange-engine/src/middleware"
)

func SetupRoutes(app *fiber.App, h *handlers.ExchangeHandler) {
	rateLimitDisabled := os.Getenv("RATE_LIMIT_DISABLED") == "1"

	maxRequests := 100
	if envMax := os.Getenv("RATE_LIMIT_MAX"); envMax != "" {
		if parsed, err := strconv.Atoi(envMax); err == nil && parsed > 0 {
			maxRequests = parsed
		}
	}

	windowDuration := time.Second
	if envWindow := os.Getenv("RATE_LIMIT_WINDOW"); envWindow != "" {
		if parsed, err := time.ParseDuration(envWindow); err == nil && parsed > 0 {
			windowDuration = parsed
		}
	}

	availability := middleware.DefaultAvailabilityGate()
	app.Use(availability.Middleware())
	app.Use(middleware.RequestLogger())

	api := app.Group("/api/v1")

	if !rateLimitDisabled {
		rateLimiter := middleware.NewRateLimiter(maxRequests, windowDuration)
		api.Use(rateLimiter.Middleware())
	}

	api.Post("/orders", h.SubmitOrder)
	api.Get("/orders", h.GetAllOrders)
	api.Get("/openinterest/:ric", h.GetOpenInterest)
	api.Get("/avgprice/:ric", h.GetAveragePrice)
	api.Get("/executed/:ric/:user", h.GetExecutedQuantity)

	app.Get("/health", h.HealthCheck)
	app.Get("/metrics", h.Metrics)
}
