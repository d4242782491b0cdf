package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/rs/zerolog"

	"exchange-engine/src/data"
	"exchange-engine/src/engine"
	"exchange-engine/src/handlers"
	"exchange-engine/src/logger"
	"exchange-engine/src/routes"
)

func main() {
	logger.InitLogger()
	log := logger.GetLogger()

	log.Info().Msg("Initializing Exchange")

	ex := engine.NewExchange(engine.NewLimitOrderMatcher())
	exchangeHandler := handlers.NewExchangeHandler(ex)

	if os.Getenv("SEED_DEMO_ORDERS") == "1" {
		seedDemoOrders(ex, log)
	}

	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
			}

			log.Error().
				Str("path", c.Path()).
				Str("method", c.Method()).
				Int("status", code).
				Str("error", err.Error()).
				Msg("Request error")

			return c.Status(code).JSON(fiber.Map{
				"error": err.Error(),
			})
		},
	})

	app.Use(recover.New())
	routes.SetupRoutes(app, exchangeHandler)

	port := ":8080"
	if envPort := os.Getenv("PORT"); envPort != "" {
		port = ":" + envPort
	}

	serverError := make(chan error, 1)

	go func() {
		if err := app.Listen(port); err != nil {
			// edge case: ignore shutdown errors, only report real errors
			if err.Error() != "server is shutting down" {
				serverError <- err
			}
		}
	}()

	select {
	case err := <-serverError:
		log.Fatal().
			Err(err).
			Str("port", port).
			Str("hint", "Port may be already in use. Try: PORT=3000 go run main.go").
			Msg("Server failed to start")
	default:
		log.Info().
			Str("port", port).
			Msg("Exchange started")

		log.Info().
			Strs("endpoints", []string{
				"POST /api/v1/orders",
				"GET  /api/v1/orders",
				"GET  /api/v1/openinterest/:ric",
				"GET  /api/v1/avgprice/:ric",
				"GET  /api/v1/executed/:ric/:user",
				"GET  /health",
				"GET  /metrics",
			}).
			Msg("API endpoints registered")
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)
	<-quit
	log.Info().Msg("Received shutdown signal, shutting down...")

	shutdownTimeout := 10 * time.Second
	if envTimeout := os.Getenv("SHUTDOWN_TIMEOUT"); envTimeout != "" {
		if parsed, err := time.ParseDuration(envTimeout); err == nil && parsed > 0 {
			shutdownTimeout = parsed
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := app.ShutdownWithContext(ctx); err != nil {
		// edge case: timeout during shutdown is acceptable
		if errors.Is(err, context.DeadlineExceeded) {
			log.Warn().
				Dur("timeout", shutdownTimeout).
				Msg("Timeout exceeded, shutting down...")
		} else {
			log.Error().
				Err(err).
				Msg("Error during shutdown")
		}
	} else {
		log.Info().Msg("Shutdown complete")
	}

	logger.CloseLogger()
}

// seedDemoOrders replays the sample order flow through the engine and
// logs the book and ledger queries after each submission.
func seedDemoOrders(ex *engine.Exchange, log zerolog.Logger) {
	for _, order := range data.SampleOrders() {
		log.Info().
			Str("direction", order.Direction.DisplayLabel()).
			Str("quantity", order.Quantity.String()).
			Str("ric", order.RIC).
			Str("price", order.Price.String()).
			Str("user", order.User).
			Msg("New demo order")

		if _, err := ex.Submit(order); err != nil {
			log.Error().Err(err).Msg("Demo order rejected")
			continue
		}

		logInterest := func(direction engine.Direction) {
			interest := ex.OpenInterest(data.DemoRIC, direction)
			levels := make([]string, 0, len(interest))
			for _, oi := range interest {
				levels = append(levels, oi.String())
			}
			log.Info().
				Str("ric", data.DemoRIC).
				Str("direction", direction.DisplayLabel()).
				Strs("levels", levels).
				Msg("Open interest")
		}

		logInterest(engine.DirectionBuy)
		logInterest(engine.DirectionSell)

		if avg, ok := ex.AverageExecutionPrice(data.DemoRIC); ok {
			log.Info().
				Str("ric", data.DemoRIC).
				Str("price", avg.String()).
				Msg("Average execution price")
		}

		for _, user := range []string{data.DemoUser1, data.DemoUser2} {
			log.Info().
				Str("ric", data.DemoRIC).
				Str("user", user).
				Str("quantity", ex.ExecutedQuantityForUser(data.DemoRIC, user).String()).
				Msg("Executed quantity")
		}
	}
}
