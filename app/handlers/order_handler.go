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
	"github.com/gorilla/mux"
	"github.com/unrolled/render"
)

type OrderHandler struct {
	render      *render.Render
	orderRepo   repositories.OrderRepository
	checkoutSvc *services.CheckoutService
	orderSvc    *services.OrderService
}

func NewOrderHandler(render *render.Render, orderRepo repositories.OrderRepository, checkoutSvc *services.CheckoutService, orderSvc *services.OrderService) *OrderHandler {
	return &OrderHandler{
		render:      render,
		orderRepo:   orderRepo,
		checkoutSvc: checkoutSvc,
		orderSvc:    orderSvc,
	}
}

// Create is the step 2 -> 3 transition of the wizard: the whole order
// aggregate is persisted and a payment session is opened against it.
func (h *OrderHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID := helpers.GetUserIDFromContext(r.Context())

	var input services.CheckoutInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		h.render.JSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}
	if err := helpers.ValidateStruct(input); err != nil {
		h.render.JSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	order, redirectURL, err := h.checkoutSvc.CreateOrder(r.Context(), userID, input)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrPaymentInitAfter):
			// The order exists; the client can retry payment initialization.
			log.Printf("OrderHandler: Order %s created but payment init failed: %v", order.OrderCode, err)
			h.render.JSON(w, http.StatusCreated, map[string]interface{}{
				"order":         order,
				"payment_error": "payment initialization failed, retry via /api/payment/initialize",
			})
		case errors.Is(err, services.ErrEmptyOrder),
			errors.Is(err, services.ErrUnpricedItem),
			errors.Is(err, services.ErrAddressNotOwned):
			h.render.JSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		default:
			log.Printf("OrderHandler: Order creation failed for user %s: %v", userID, err)
			h.render.JSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to create order"})
		}
		return
	}

	h.render.JSON(w, http.StatusCreated, map[string]interface{}{
		"order":        order,
		"snap_token":   order.MidtransSnapToken,
		"redirect_url": redirectURL,
	})
}

func (h *OrderHandler) List(w http.ResponseWriter, r *http.Request) {
	user := helpers.GetUserFromContext(r.Context())

	var (
		orders []models.Order
		err    error
	)
	if user.IsAdmin() {
		orders, err = h.orderRepo.GetAllOrders(r.Context())
	} else {
		orders, err = h.orderRepo.FindByUserID(r.Context(), user.ID)
	}
	if err != nil {
		log.Printf("OrderHandler: Error listing orders for user %s: %v", user.ID, err)
		h.render.JSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to list orders"})
		return
	}

	h.render.JSON(w, http.StatusOK, map[string]interface{}{"orders": orders})
}

func (h *OrderHandler) Detail(w http.ResponseWriter, r *http.Request) {
	user := helpers.GetUserFromContext(r.Context())
	orderID := mux.Vars(r)["id"]

	order, err := h.orderRepo.GetByID(r.Context(), orderID)
	if err != nil {
		log.Printf("OrderHandler: Error loading order %s: %v", orderID, err)
		h.render.JSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to load order"})
		return
	}
	if order == nil || (order.UserID != user.ID && !user.IsAdmin()) {
		h.render.JSON(w, http.StatusNotFound, map[string]string{"error": "order not found"})
		return
	}

	h.render.JSON(w, http.StatusOK, order)
}

type updateStatusRequest struct {
	Status     string `json:"status" validate:"required"`
	AdminNotes string `json:"admin_notes"`
}

// UpdateStatus is the admin-only status transition endpoint. Moves are
// validated against the transition table; the history row is appended in the
// same transaction as the status write.
func (h *OrderHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	user := helpers.GetUserFromContext(r.Context())
	orderID := mux.Vars(r)["id"]

	var req updateStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.render.JSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}
	if err := helpers.ValidateStruct(req); err != nil {
		h.render.JSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	order, err := h.orderSvc.UpdateStatus(r.Context(), orderID, req.Status, user.ID, req.AdminNotes)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrOrderNotFound):
			h.render.JSON(w, http.StatusNotFound, map[string]string{"error": "order not found"})
		case errors.Is(err, models.ErrInvalidStatusTransition):
			h.render.JSON(w, http.StatusUnprocessableEntity, map[string]string{"error": err.Error()})
		default:
			log.Printf("OrderHandler: Status update failed for order %s: %v", orderID, err)
			h.render.JSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to update status"})
		}
		return
	}

	h.render.JSON(w, http.StatusOK, order)
}

type updateTrackingRequest struct {
	TrackingCode    string `json:"tracking_code" validate:"required"`
	TrackingCarrier string `json:"tracking_carrier"`
}

func (h *OrderHandler) UpdateTracking(w http.ResponseWriter, r *http.Request) {
	orderID := mux.Vars(r)["id"]

	var req updateTrackingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.render.JSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}
	if err := helpers.ValidateStruct(req); err != nil {
		h.render.JSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	order, err := h.orderRepo.GetByID(r.Context(), orderID)
	if err != nil {
		log.Printf("OrderHandler: Error loading order %s: %v", orderID, err)
		h.render.JSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to load order"})
		return
	}
	if order == nil {
		h.render.JSON(w, http.StatusNotFound, map[string]string{"error": "order not found"})
		return
	}

	if err := h.orderRepo.UpdateTracking(r.Context(), orderID, req.TrackingCode, req.TrackingCarrier); err != nil {
		log.Printf("OrderHandler: Tracking update failed for order %s: %v", orderID, err)
		h.render.JSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to update tracking"})
		return
	}

	order.TrackingCode = req.TrackingCode
	order.TrackingCarrier = req.TrackingCarrier
	h.render.JSON(w, http.StatusOK, order)
}
