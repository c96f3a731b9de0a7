// Package api exposes the checkout funnel over HTTP: profile lookup, plan
// catalog, draft persistence, and payment-order creation and verification.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"github.com/rulerankit14/buy-instagram-followers/internal/instagram"
	"github.com/rulerankit14/buy-instagram-followers/internal/order"
	"github.com/rulerankit14/buy-instagram-followers/internal/payments/cashfree"
	"github.com/rulerankit14/buy-instagram-followers/internal/username"
)

// clientKeyHeader carries the opaque per-client identifier that scopes draft
// and order slots, standing in for the browser's local storage.
const clientKeyHeader = "X-Client-Key"

// ProfileResolver classifies whether a handle exists on Instagram.
type ProfileResolver interface {
	Resolve(ctx context.Context, raw string) instagram.Result
}

// PaymentGateway creates and verifies payment orders.
type PaymentGateway interface {
	CreateOrder(ctx context.Context, req cashfree.CreateOrderRequest) (cashfree.OrderSession, error)
	VerifyOrder(ctx context.Context, orderID string) (cashfree.OrderState, error)
}

// Option mutates server configuration during construction.
type Option func(*Server)

// WithReturnURL sets the post-payment redirect target. The {order_id}
// placeholder is substituted by the gateway.
func WithReturnURL(returnURL string) Option {
	return func(s *Server) {
		s.returnURL = strings.TrimSpace(returnURL)
	}
}

// Server wires the resolver, order store, and payment gateway into HTTP
// handlers.
type Server struct {
	resolver  ProfileResolver
	store     order.Store
	gateway   PaymentGateway
	logger    *zap.Logger
	returnURL string
}

// New constructs a Server with the provided dependencies.
func New(resolver ProfileResolver, store order.Store, gateway PaymentGateway, logger *zap.Logger, opts ...Option) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}

	s := &Server{
		resolver: resolver,
		store:    store,
		gateway:  gateway,
		logger:   logger,
	}

	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}

	return s
}

// Handler returns the HTTP handler serving the checkout API.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(s.requestLogger)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type", clientKeyHeader},
	}))

	r.Get("/api/healthz", s.handleHealthz)
	r.Post("/api/lookup-profile", s.handleLookupProfile)
	r.Get("/api/plans", s.handlePlans)
	r.Get("/api/draft", s.handleLoadDraft)
	r.Put("/api/draft", s.handleSaveDraft)
	r.Delete("/api/draft", s.handleClearDraft)
	r.Post("/api/orders", s.handleCreateOrder)
	r.Post("/api/orders/verify", s.handleVerifyOrder)

	return r
}

func (s *Server) handleHealthz(w http.ResponseWriter, _ *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleLookupProfile runs the resolution pipeline. Every classified outcome
// — invalid, not found, blocked, found, error — is an HTTP 200 with a
// discriminated body; the transport layer never encodes pipeline outcomes.
func (s *Server) handleLookupProfile(w http.ResponseWriter, r *http.Request) {
	var payload lookupRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		respondJSON(w, http.StatusOK, instagram.Result{
			Status:  instagram.StatusInvalid,
			Message: "Invalid username",
		})
		return
	}

	result := s.resolver.Resolve(r.Context(), payload.Username)
	respondJSON(w, http.StatusOK, result)
}

func (s *Server) handlePlans(w http.ResponseWriter, _ *http.Request) {
	respondJSON(w, http.StatusOK, order.Plans())
}

func (s *Server) handleSaveDraft(w http.ResponseWriter, r *http.Request) {
	key, ok := s.clientKey(w, r)
	if !ok {
		return
	}

	var draft order.Draft
	if err := decodeJSON(r, &draft); err != nil {
		respondError(w, http.StatusBadRequest, err)
		return
	}

	normalized, err := draft.Normalize()
	if err != nil {
		respondJSON(w, http.StatusBadRequest, errorPayload{Message: draftMessage(err)})
		return
	}

	if err := s.store.SaveDraft(r.Context(), key, normalized); err != nil {
		respondError(w, http.StatusInternalServerError, err)
		return
	}

	respondJSON(w, http.StatusOK, normalized)
}

func (s *Server) handleLoadDraft(w http.ResponseWriter, r *http.Request) {
	key, ok := s.clientKey(w, r)
	if !ok {
		return
	}

	draft, err := s.store.LoadDraft(r.Context(), key)
	if errors.Is(err, order.ErrNotFound) {
		respondJSON(w, http.StatusNotFound, errorPayload{Message: "No draft saved."})
		return
	}
	if err != nil {
		respondError(w, http.StatusInternalServerError, err)
		return
	}

	respondJSON(w, http.StatusOK, draft)
}

func (s *Server) handleClearDraft(w http.ResponseWriter, r *http.Request) {
	key, ok := s.clientKey(w, r)
	if !ok {
		return
	}

	if err := s.store.ClearDraft(r.Context(), key); err != nil {
		respondError(w, http.StatusInternalServerError, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleCreateOrder(w http.ResponseWriter, r *http.Request) {
	key, ok := s.clientKey(w, r)
	if !ok {
		return
	}

	var payload createOrderRequest
	if err := decodeJSON(r, &payload); err != nil {
		respondError(w, http.StatusBadRequest, err)
		return
	}

	plan, err := order.PlanByID(strings.TrimSpace(payload.PlanID))
	if errors.Is(err, order.ErrUnknownPlan) {
		respondJSON(w, http.StatusBadRequest, errorPayload{Message: "Unknown plan."})
		return
	}

	draft, err := s.store.LoadDraft(r.Context(), key)
	if errors.Is(err, order.ErrNotFound) {
		respondJSON(w, http.StatusBadRequest, errorPayload{Message: "Save your username and phone number first."})
		return
	}
	if err != nil {
		respondError(w, http.StatusInternalServerError, err)
		return
	}

	session, err := s.gateway.CreateOrder(r.Context(), cashfree.CreateOrderRequest{
		AmountINR: plan.AmountINR,
		Customer: cashfree.CustomerDetails{
			CustomerID:    "ig_" + strings.ToLower(draft.Username),
			CustomerPhone: draft.Phone,
		},
		Note:      fmt.Sprintf("%s for @%s", plan.QuantityLabel, draft.Username),
		ReturnURL: s.orderReturnURL(),
	})
	if err != nil {
		s.logger.Error("create payment order", zap.String("plan", plan.ID), zap.Error(err))
		respondJSON(w, http.StatusBadGateway, errorPayload{Message: "Failed to create order."})
		return
	}

	ord := order.Order{
		Draft:          draft,
		Plan:           plan,
		CreatedAt:      time.Now().UTC(),
		PaymentOrderID: session.OrderID,
		Status:         order.StatusPending,
	}
	if err := s.store.SaveOrder(r.Context(), key, ord); err != nil {
		respondError(w, http.StatusInternalServerError, err)
		return
	}

	respondJSON(w, http.StatusCreated, createOrderResponse{
		OrderID:          session.OrderID,
		PaymentSessionID: session.PaymentSessionID,
		OrderStatus:      session.OrderStatus,
	})
}

func (s *Server) handleVerifyOrder(w http.ResponseWriter, r *http.Request) {
	key, ok := s.clientKey(w, r)
	if !ok {
		return
	}

	var payload verifyOrderRequest
	if err := decodeJSON(r, &payload); err != nil {
		respondError(w, http.StatusBadRequest, err)
		return
	}

	ord, err := s.store.LoadOrder(r.Context(), key)
	if errors.Is(err, order.ErrNotFound) {
		respondJSON(w, http.StatusNotFound, errorPayload{Message: "Order not found."})
		return
	}
	if err != nil {
		respondError(w, http.StatusInternalServerError, err)
		return
	}

	orderID := strings.TrimSpace(payload.OrderID)
	if orderID == "" {
		orderID = ord.PaymentOrderID
	}

	state, err := s.gateway.VerifyOrder(r.Context(), orderID)
	if err != nil {
		s.logger.Error("verify payment order", zap.String("order_id", orderID), zap.Error(err))
		respondJSON(w, http.StatusBadGateway, errorPayload{Message: "Failed to verify payment."})
		return
	}

	ord.Status = paymentStatus(state.OrderStatus)
	if err := s.store.SaveOrder(r.Context(), key, ord); err != nil {
		respondError(w, http.StatusInternalServerError, err)
		return
	}

	respondJSON(w, http.StatusOK, verifyOrderResponse{
		OrderID:       state.OrderID,
		OrderStatus:   state.OrderStatus,
		OrderAmount:   state.OrderAmount,
		PaymentStatus: ord.Status,
	})
}

func (s *Server) clientKey(w http.ResponseWriter, r *http.Request) (string, bool) {
	key := strings.TrimSpace(r.Header.Get(clientKeyHeader))
	if key == "" {
		respondJSON(w, http.StatusBadRequest, errorPayload{Message: "Client key header is required."})
		return "", false
	}
	return key, true
}

func (s *Server) orderReturnURL() string {
	if s.returnURL == "" {
		return ""
	}
	return s.returnURL + "?order_id={order_id}"
}

func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		s.logger.Info("request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", ww.Status()),
			zap.Duration("duration", time.Since(start)),
		)
	})
}

func paymentStatus(gatewayStatus string) order.OrderStatus {
	switch strings.ToUpper(gatewayStatus) {
	case "PAID":
		return order.StatusPaid
	case "ACTIVE":
		return order.StatusPending
	default:
		return order.StatusFailed
	}
}

func draftMessage(err error) string {
	switch {
	case errors.Is(err, username.ErrEmpty):
		return "Username is required"
	case errors.Is(err, username.ErrTooLong):
		return "Username must be 30 characters or less"
	case errors.Is(err, username.ErrBadChars):
		return "Only letters, numbers, . and _ allowed"
	case errors.Is(err, order.ErrPhoneTooShort):
		return "Phone number is too short"
	case errors.Is(err, order.ErrPhoneTooLong):
		return "Phone number is too long"
	case errors.Is(err, order.ErrPhoneBadChars):
		return "Use digits only (optional +)"
	default:
		return "Invalid draft"
	}
}

func decodeJSON(r *http.Request, target any) error {
	defer r.Body.Close()
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(target); err != nil {
		return fmt.Errorf("decode request: %w", err)
	}
	return nil
}

func respondJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload != nil {
		_ = json.NewEncoder(w).Encode(payload)
	}
}

func respondError(w http.ResponseWriter, status int, err error) {
	respondJSON(w, status, errorPayload{Message: err.Error()})
}
