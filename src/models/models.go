package models

import "github.com/shopspring/decimal"

type SubmitOrderRequest struct {
	Direction string          `json:"direction"`
	RIC       string          `json:"ric"`
	Quantity  decimal.Decimal `json:"quantity"`
	Price     decimal.Decimal `json:"price"`
	User      string          `json:"user"`
}

type SubmitOrderResponse struct {
	OrderID   string         `json:"order_id"`
	Status    string         `json:"status"` // RESTED or EXECUTED
	Execution *ExecutionInfo `json:"execution,omitempty"`
}

type ExecutionInfo struct {
	ExecutionID string          `json:"execution_id"`
	BuyOrderID  string          `json:"buy_order_id"`
	SellOrderID string          `json:"sell_order_id"`
	Quantity    decimal.Decimal `json:"quantity"`
	Price       decimal.Decimal `json:"price"`
	Timestamp   int64           `json:"timestamp"` // unix timestamp in milliseconds
}

type OrderInfo struct {
	OrderID   string          `json:"order_id"`
	Direction string          `json:"direction"`
	RIC       string          `json:"ric"`
	Quantity  decimal.Decimal `json:"quantity"`
	Price     decimal.Decimal `json:"price"`
	User      string          `json:"user"`
	Timestamp int64           `json:"timestamp"` // unix timestamp in milliseconds
}

type OrdersResponse struct {
	Orders []OrderInfo `json:"orders"`
}

type OpenInterestLevel struct {
	Quantity decimal.Decimal `json:"quantity"`
	Price    decimal.Decimal `json:"price"`
}

type OpenInterestResponse struct {
	RIC       string              `json:"ric"`
	Direction string              `json:"direction"`
	Levels    []OpenInterestLevel `json:"levels"` // sorted descending by price
}

type AveragePriceResponse struct {
	RIC string `json:"ric"`
	// null when the stock has no executions yet
	AveragePrice *decimal.Decimal `json:"average_price"`
}

type ExecutedQuantityResponse struct {
	RIC      string          `json:"ric"`
	User     string          `json:"user"`
	Quantity decimal.Decimal `json:"quantity"` // signed net, zero when no executions
}

type ErrorResponse struct {
	Error string `json:"error"`
	Field string `json:"field,omitempty"`
}

type HealthResponse struct {
	Status          string `json:"status"`
	UptimeSeconds   int64  `json:"uptime_seconds"`
	OrdersSubmitted int64  `json:"orders_submitted"`
}

type MetricsResponse struct {
	OrdersReceived         int64   `json:"orders_received"`
	OrdersRejected         int64   `json:"orders_rejected"`
	OrdersRested           int64   `json:"orders_rested"`
	ExecutionsRecorded     int64   `json:"executions_recorded"`
	OpenOrders             int64   `json:"open_orders"`
	LatencyP50Ms           float64 `json:"latency_p50_ms"`
	LatencyP99Ms           float64 `json:"latency_p99_ms"`
	LatencyP999Ms          float64 `json:"latency_p999_ms"`
	ThroughputOrdersPerSec float64 `json:"throughput_orders_per_sec"`
}
