package api

import "github.com/rulerankit14/buy-instagram-followers/internal/order"

type lookupRequest struct {
	Username string `json:"username"`
}

type createOrderRequest struct {
	PlanID string `json:"planId"`
}

type createOrderResponse struct {
	OrderID          string `json:"order_id"`
	PaymentSessionID string `json:"payment_session_id"`
	OrderStatus      string `json:"order_status"`
}

type verifyOrderRequest struct {
	OrderID string `json:"order_id"`
}

type verifyOrderResponse struct {
	OrderID       string            `json:"order_id"`
	OrderStatus   string            `json:"order_status"`
	OrderAmount   float64           `json:"order_amount"`
	PaymentStatus order.OrderStatus `json:"payment_status"`
}

type errorPayload struct {
	Message string `json:"message"`
}
