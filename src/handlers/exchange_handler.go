package handlers

import (
	"errors"
	"os"
	"sort"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"exchange-engine/src/engine"
	"exchange-engine/src/models"
)

type ExchangeHandler struct {
	Exchange  *engine.Exchange
	StartTime time.Time

	OrdersReceived     int64
	OrdersRejected     int64
	OrdersRested       int64
	ExecutionsRecorded int64

	latencies    []time.Duration
	latenciesMu  sync.RWMutex
	maxLatencies int
}

func NewExchangeHandler(ex *engine.Exchange) *ExchangeHandler {
	maxLatencies := 10000
	if envMax := os.Getenv("METRICS_MAX_LATENCIES"); envMax != "" {
		if parsed, err := strconv.Atoi(envMax); err == nil && parsed > 0 {
			maxLatencies = parsed
		}
	}

	return &ExchangeHandler{
		Exchange:     ex,
		StartTime:    time.Now(),
		latencies:    make([]time.Duration, 0, maxLatencies),
		maxLatencies: maxLatencies,
	}
}

func (h *ExchangeHandler) SubmitOrder(c *fiber.Ctx) error {
	var req models.SubmitOrderRequest

	if err := c.BodyParser(&req); err != nil {
		log.Warn().
			Err(err).
			Str("ip", c.IP()).
			Str("path", c.Path()).
			Msg("Invalid request: malformed JSON")
		return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse{
			Error: "Invalid request: malformed JSON",
		})
	}

	atomic.AddInt64(&h.OrdersReceived, 1)

	order := engine.NewOrder(
		engine.Direction(req.Direction),
		req.RIC,
		req.Quantity,
		req.Price,
		req.User,
	)

	startTime := time.Now()
	exec, err := h.Exchange.Submit(order)
	h.recordLatency(time.Since(startTime))

	if err != nil {
		atomic.AddInt64(&h.OrdersRejected, 1)

		var verr *engine.ValidationError
		if errors.As(err, &verr) {
			log.Warn().
				Str("field", verr.Field).
				Str("ric", req.RIC).
				Msg("Order rejected")
			return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse{
				Error: verr.Error(),
				Field: verr.Field,
			})
		}

		log.Error().
			Err(err).
			Str("ric", req.RIC).
			Msg("Error submitting order")
		return c.Status(fiber.StatusInternalServerError).JSON(models.ErrorResponse{
			Error: "Internal server error",
		})
	}

	if exec == nil {
		atomic.AddInt64(&h.OrdersRested, 1)

		log.Info().
			Str("order_id", order.ID).
			Str("direction", order.Direction.DisplayLabel()).
			Str("ric", order.RIC).
			Str("quantity", order.Quantity.String()).
			Str("price", order.Price.String()).
			Str("user", order.User).
			Msg("Order rested")

		return c.Status(fiber.StatusCreated).JSON(models.SubmitOrderResponse{
			OrderID: order.ID,
			Status:  "RESTED",
		})
	}

	atomic.AddInt64(&h.ExecutionsRecorded, 1)

	log.Info().
		Str("order_id", order.ID).
		Str("execution_id", exec.ID).
		Str("ric", order.RIC).
		Str("quantity", exec.Quantity.String()).
		Str("price", exec.Price.String()).
		Str("buyer", exec.BuyOrder.User).
		Str("seller", exec.SellOrder.User).
		Msg("Execution recorded")

	return c.Status(fiber.StatusOK).JSON(models.SubmitOrderResponse{
		OrderID: order.ID,
		Status:  "EXECUTED",
		Execution: &models.ExecutionInfo{
			ExecutionID: exec.ID,
			BuyOrderID:  exec.BuyOrder.ID,
			SellOrderID: exec.SellOrder.ID,
			Quantity:    exec.Quantity,
			Price:       exec.Price,
			Timestamp:   exec.Timestamp,
		},
	})
}

func (h *ExchangeHandler) GetAllOrders(c *fiber.Ctx) error {
	submitted := h.Exchange.AllOrders()

	orders := make([]models.OrderInfo, 0, len(submitted))
	for _, o := range submitted {
		orders = append(orders, models.OrderInfo{
			OrderID:   o.ID,
			Direction: string(o.Direction),
			RIC:       o.RIC,
			Quantity:  o.Quantity,
			Price:     o.Price,
			User:      o.User,
			Timestamp: o.Timestamp,
		})
	}

	return c.Status(fiber.StatusOK).JSON(models.OrdersResponse{Orders: orders})
}

func (h *ExchangeHandler) GetOpenInterest(c *fiber.Ctx) error {
	ric := c.Params("ric")

	direction := engine.Direction(c.Query("direction"))
	if !direction.Valid() {
		return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse{
			Error: "Invalid query: direction must be BUY or SELL",
			Field: "direction",
		})
	}

	interest := h.Exchange.OpenInterest(ric, direction)

	levels := make([]models.OpenInterestLevel, 0, len(interest))
	for _, oi := range interest {
		levels = append(levels, models.OpenInterestLevel{
			Quantity: oi.Quantity,
			Price:    oi.Price,
		})
	}

	return c.Status(fiber.StatusOK).JSON(models.OpenInterestResponse{
		RIC:       ric,
		Direction: string(direction),
		Levels:    levels,
	})
}

func (h *ExchangeHandler) GetAveragePrice(c *fiber.Ctx) error {
	ric := c.Params("ric")

	resp := models.AveragePriceResponse{RIC: ric}

	// edge case: no executions yet means null, not zero
	if avg, ok := h.Exchange.AverageExecutionPrice(ric); ok {
		resp.AveragePrice = &avg
	}

	return c.Status(fiber.StatusOK).JSON(resp)
}

func (h *ExchangeHandler) GetExecutedQuantity(c *fiber.Ctx) error {
	ric := c.Params("ric")
	user := c.Params("user")

	return c.Status(fiber.StatusOK).JSON(models.ExecutedQuantityResponse{
		RIC:      ric,
		User:     user,
		Quantity: h.Exchange.ExecutedQuantityForUser(ric, user),
	})
}

func (h *ExchangeHandler) HealthCheck(c *fiber.Ctx) error {
	uptime := time.Since(h.StartTime).Seconds()

	return c.Status(fiber.StatusOK).JSON(models.HealthResponse{
		Status:          "healthy",
		UptimeSeconds:   int64(uptime),
		OrdersSubmitted: int64(len(h.Exchange.AllOrders())),
	})
}

func (h *ExchangeHandler) Metrics(c *fiber.Ctx) error {
	p50, p99, p999 := h.calculateLatencyPercentiles()

	return c.Status(fiber.StatusOK).JSON(models.MetricsResponse{
		OrdersReceived:         atomic.LoadInt64(&h.OrdersReceived),
		OrdersRejected:         atomic.LoadInt64(&h.OrdersRejected),
		OrdersRested:           atomic.LoadInt64(&h.OrdersRested),
		ExecutionsRecorded:     atomic.LoadInt64(&h.ExecutionsRecorded),
		OpenOrders:             int64(len(h.Exchange.OpenOrders())),
		LatencyP50Ms:           p50,
		LatencyP99Ms:           p99,
		LatencyP999Ms:          p999,
		ThroughputOrdersPerSec: h.calculateThroughput(),
	})
}

func (h *ExchangeHandler) recordLatency(latency time.Duration) {
	h.latenciesMu.Lock()
	defer h.latenciesMu.Unlock()

	h.latencies = append(h.latencies, latency)

	// edge case: maintain rolling window by removing oldest measurements
	if len(h.latencies) > h.maxLatencies {
		h.latencies = h.latencies[len(h.latencies)-h.maxLatencies:]
	}
}

func (h *ExchangeHandler) calculateLatencyPercentiles() (p50, p99, p999 float64) {
	h.latenciesMu.RLock()
	defer h.latenciesMu.RUnlock()

	if len(h.latencies) == 0 {
		return 0, 0, 0
	}

	sorted := make([]time.Duration, len(h.latencies))
	copy(sorted, h.latencies)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })

	pick := func(q float64) float64 {
		idx := int(float64(len(sorted)) * q)
		if idx >= len(sorted) {
			idx = len(sorted) - 1
		}
		return float64(sorted[idx].Nanoseconds()) / 1e6
	}

	return pick(0.50), pick(0.99), pick(0.999)
}

func (h *ExchangeHandler) calculateThroughput() float64 {
	uptime := time.Since(h.StartTime).Seconds()
	if uptime <= 0 {
		return 0
	}
	return float64(atomic.LoadInt64(&h.OrdersReceived)) / uptime
}
