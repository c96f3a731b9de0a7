// Package cashfree creates and verifies payment orders against the Cashfree
// payment gateway. The confirmed username and phone from the checkout funnel
// feed the customer details; the returned payment session id drives the
// hosted payment UI redirect.
package cashfree

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	defaultBaseURL = "https://api.cashfree.com"
	apiVersion     = "2023-08-01"
	defaultTimeout = 15 * time.Second

	defaultOrderNote     = "Instagram Growth Panel Order"
	defaultCustomerName  = "Customer"
	defaultCustomerEmail = "customer@example.com"
)

// ErrMissingCredentials is returned when the client is invoked without an
// app id or secret key.
var ErrMissingCredentials = errors.New("cashfree: missing credentials")

// Option provides functional configuration for the Client.
type Option func(*Client)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// WithBaseURL overrides the Cashfree API base URL. Useful for testing.
func WithBaseURL(baseURL string) Option {
	return func(c *Client) {
		c.baseURL = strings.TrimRight(baseURL, "/")
	}
}

// Client calls the Cashfree payment-gateway REST API.
type Client struct {
	httpClient *http.Client
	baseURL    string
	appID      string
	secretKey  string
}

// NewClient returns a configured Cashfree client.
func NewClient(appID, secretKey string, opts ...Option) *Client {
	c := &Client{
		baseURL:   defaultBaseURL,
		appID:     appID,
		secretKey: secretKey,
	}

	for _, opt := range opts {
		opt(c)
	}

	if c.httpClient == nil {
		c.httpClient = &http.Client{Timeout: defaultTimeout}
	}

	return c
}

// CustomerDetails identifies the paying customer to the gateway.
type CustomerDetails struct {
	CustomerID    string `json:"customer_id"`
	CustomerName  string `json:"customer_name"`
	CustomerEmail string `json:"customer_email"`
	CustomerPhone string `json:"customer_phone"`
}

// CreateOrderRequest captures everything needed to open a payment order.
type CreateOrderRequest struct {
	AmountINR int
	Customer  CustomerDetails
	Note      string
	// ReturnURL may contain the literal {order_id} placeholder, which the
	// gateway substitutes on redirect.
	ReturnURL string
}

// OrderSession is the handle used to redirect into the hosted payment UI.
type OrderSession struct {
	OrderID          string `json:"order_id"`
	PaymentSessionID string `json:"payment_session_id"`
	OrderStatus      string `json:"order_status"`
}

// OrderState is the gateway's view of an existing order.
type OrderState struct {
	OrderID     string  `json:"order_id"`
	OrderStatus string  `json:"order_status"`
	OrderAmount float64 `json:"order_amount"`
}

type createOrderPayload struct {
	OrderID         string          `json:"order_id"`
	OrderAmount     float64         `json:"order_amount"`
	OrderCurrency   string          `json:"order_currency"`
	CustomerDetails CustomerDetails `json:"customer_details"`
	OrderNote       string          `json:"order_note"`
	OrderMeta       struct {
		ReturnURL string `json:"return_url"`
	} `json:"order_meta"`
}

type apiError struct {
	Message string `json:"message"`
}

// NewOrderID generates a unique gateway order id.
func NewOrderID() string {
	suffix := strings.SplitN(uuid.NewString(), "-", 2)[0]
	return fmt.Sprintf("ORDER_%d_%s", time.Now().UnixMilli(), suffix)
}

// CreateOrder opens a payment order and returns the session handle.
func (c *Client) CreateOrder(ctx context.Context, req CreateOrderRequest) (OrderSession, error) {
	if c.appID == "" || c.secretKey == "" {
		return OrderSession{}, ErrMissingCredentials
	}

	payload := createOrderPayload{
		OrderID:         NewOrderID(),
		OrderAmount:     float64(req.AmountINR),
		OrderCurrency:   "INR",
		CustomerDetails: req.Customer,
		OrderNote:       req.Note,
	}
	payload.OrderMeta.ReturnURL = req.ReturnURL

	if payload.CustomerDetails.CustomerName == "" {
		payload.CustomerDetails.CustomerName = defaultCustomerName
	}
	if payload.CustomerDetails.CustomerEmail == "" {
		payload.CustomerDetails.CustomerEmail = defaultCustomerEmail
	}
	if payload.OrderNote == "" {
		payload.OrderNote = defaultOrderNote
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return OrderSession{}, fmt.Errorf("encode order payload: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/pg/orders", bytes.NewReader(body))
	if err != nil {
		return OrderSession{}, fmt.Errorf("build order request: %w", err)
	}
	c.setHeaders(httpReq)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return OrderSession{}, fmt.Errorf("execute order request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return OrderSession{}, c.decodeError("create order", resp)
	}

	var session OrderSession
	if err := json.NewDecoder(resp.Body).Decode(&session); err != nil {
		return OrderSession{}, fmt.Errorf("decode order response: %w", err)
	}

	return session, nil
}

// VerifyOrder fetches the current payment status of an order.
func (c *Client) VerifyOrder(ctx context.Context, orderID string) (OrderState, error) {
	if c.appID == "" || c.secretKey == "" {
		return OrderState{}, ErrMissingCredentials
	}
	if strings.TrimSpace(orderID) == "" {
		return OrderState{}, errors.New("cashfree: order id is required")
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/pg/orders/"+orderID, nil)
	if err != nil {
		return OrderState{}, fmt.Errorf("build verify request: %w", err)
	}
	c.setHeaders(httpReq)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return OrderState{}, fmt.Errorf("execute verify request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return OrderState{}, c.decodeError("verify order", resp)
	}

	var state OrderState
	if err := json.NewDecoder(resp.Body).Decode(&state); err != nil {
		return OrderState{}, fmt.Errorf("decode verify response: %w", err)
	}

	return state, nil
}

func (c *Client) setHeaders(req *http.Request) {
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-api-version", apiVersion)
	req.Header.Set("x-client-id", c.appID)
	req.Header.Set("x-client-secret", c.secretKey)
}

func (c *Client) decodeError(action string, resp *http.Response) error {
	var apiErr apiError
	if err := json.NewDecoder(resp.Body).Decode(&apiErr); err == nil && apiErr.Message != "" {
		return fmt.Errorf("%s failed: %s", action, apiErr.Message)
	}
	return fmt.Errorf("%s failed: %s", action, resp.Status)
}
