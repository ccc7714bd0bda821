package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/cetak3d/go-printshop/app/helpers"
	"github.com/cetak3d/go-printshop/app/models"
	"github.com/cetak3d/go-printshop/app/repositories"
	"github.com/cetak3d/go-printshop/app/services"
	"github.com/unrolled/render"
)

type PaymentHandler struct {
	render     *render.Render
	orderRepo  repositories.OrderRepository
	paymentSvc *services.PaymentService
}

func NewPaymentHandler(render *render.Render, orderRepo repositories.OrderRepository, paymentSvc *services.PaymentService) *PaymentHandler {
	return &PaymentHandler{
		render:     render,
		orderRepo:  orderRepo,
		paymentSvc: paymentSvc,
	}
}

type paymentOrderRequest struct {
	OrderID string `json:"order_id" validate:"required"`
}

// Initialize re-issues a Snap session for an existing order. Used when the
// session opened at checkout failed or expired before the customer paid.
func (h *PaymentHandler) Initialize(w http.ResponseWriter, r *http.Request) {
	user := helpers.GetUserFromContext(r.Context())

	var req paymentOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.render.JSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}
	if err := helpers.ValidateStruct(req); err != nil {
		h.render.JSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	orderID := req.OrderID

	order, err := h.orderRepo.GetByID(r.Context(), orderID)
	if err != nil {
		log.Printf("PaymentHandler: Error loading order %s: %v", orderID, err)
		h.render.JSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to load order"})
		return
	}
	if order == nil || (order.UserID != user.ID && !user.IsAdmin()) {
		h.render.JSON(w, http.StatusNotFound, map[string]string{"error": "order not found"})
		return
	}
	if order.Status != models.OrderStatusUnpaid {
		h.render.JSON(w, http.StatusUnprocessableEntity, map[string]string{"error": "order is not awaiting payment"})
		return
	}

	token, redirectURL, err := h.paymentSvc.CreateSnapSession(r.Context(), order, &order.User)
	if err != nil {
		log.Printf("PaymentHandler: Snap session failed for order %s: %v", order.OrderCode, err)
		h.render.JSON(w, http.StatusBadGateway, map[string]string{"error": "failed to initialize payment"})
		return
	}

	h.render.JSON(w, http.StatusOK, map[string]string{
		"snap_token":   token,
		"redirect_url": redirectURL,
	})
}

// Verify reconciles the order's payment state against Midtrans on demand,
// covering the case where the webhook never arrived.
func (h *PaymentHandler) Verify(w http.ResponseWriter, r *http.Request) {
	user := helpers.GetUserFromContext(r.Context())

	var req paymentOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.render.JSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}
	if err := helpers.ValidateStruct(req); err != nil {
		h.render.JSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	orderID := req.OrderID

	order, err := h.orderRepo.GetByID(r.Context(), orderID)
	if err != nil {
		log.Printf("PaymentHandler: Error loading order %s: %v", orderID, err)
		h.render.JSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to load order"})
		return
	}
	if order == nil || (order.UserID != user.ID && !user.IsAdmin()) {
		h.render.JSON(w, http.StatusNotFound, map[string]string{"error": "order not found"})
		return
	}

	updated, err := h.paymentSvc.VerifyPayment(r.Context(), order.OrderCode, user.ID)
	if err != nil {
		log.Printf("PaymentHandler: Payment verification failed for order %s: %v", order.OrderCode, err)
		h.render.JSON(w, http.StatusBadGateway, map[string]string{"error": "failed to verify payment"})
		return
	}

	h.render.JSON(w, http.StatusOK, updated)
}

// Notification is the Midtrans webhook endpoint. It is unauthenticated; the
// sha512 signature in the payload is the only trust anchor.
func (h *PaymentHandler) Notification(w http.ResponseWriter, r *http.Request) {
	var payload services.MidtransNotificationPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		h.render.JSON(w, http.StatusBadRequest, map[string]string{"error": "invalid notification body"})
		return
	}

	order, err := h.paymentSvc.ProcessNotification(r.Context(), payload)
	if err != nil {
		if errors.Is(err, services.ErrInvalidSignature) {
			log.Printf("PaymentHandler: WARNING: Invalid signature on notification for order %s", payload.OrderID)
			h.render.JSON(w, http.StatusForbidden, map[string]string{"error": "invalid signature"})
			return
		}
		log.Printf("PaymentHandler: Notification processing failed for order %s: %v", payload.OrderID, err)
		h.render.JSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to process notification"})
		return
	}

	h.render.JSON(w, http.StatusOK, map[string]string{
		"status":     "ok",
		"order_code": order.OrderCode,
	})
}
