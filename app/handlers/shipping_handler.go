package handlers

import (
	"encoding/json"
	"log"
	"net/http"
	"strconv"

	"github.com/cetak3d/go-printshop/app/helpers"
	"github.com/cetak3d/go-printshop/app/services"
	"github.com/unrolled/render"
)

type ShippingHandler struct {
	render         *render.Render
	shippingClient services.ShippingClient
	rateResolver   *services.ShippingRateResolver
}

func NewShippingHandler(render *render.Render, shippingClient services.ShippingClient, rateResolver *services.ShippingRateResolver) *ShippingHandler {
	return &ShippingHandler{
		render:         render,
		shippingClient: shippingClient,
		rateResolver:   rateResolver,
	}
}

func (h *ShippingHandler) SearchDestinations(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("search")
	if query == "" {
		h.render.JSON(w, http.StatusBadRequest, map[string]string{"error": "search query is required"})
		return
	}

	limit := 10
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 && parsed <= 50 {
			limit = parsed
		}
	}

	destinations, err := h.shippingClient.SearchDomesticDestinations(r.Context(), query, limit, 0)
	if err != nil {
		log.Printf("ShippingHandler: Destination search failed for %q: %v", query, err)
		h.render.JSON(w, http.StatusBadGateway, map[string]string{"error": "destination search failed"})
		return
	}

	h.render.JSON(w, http.StatusOK, map[string]interface{}{"destinations": destinations})
}

type shippingCostRequest struct {
	DestinationID int    `json:"destination_id" validate:"required"`
	WeightGrams   int    `json:"weight_grams" validate:"gt=0"`
	Courier       string `json:"courier" validate:"required"`
}

func (h *ShippingHandler) CalculateCost(w http.ResponseWriter, r *http.Request) {
	var req shippingCostRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.render.JSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}
	if err := helpers.ValidateStruct(req); err != nil {
		h.render.JSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	options, err := h.rateResolver.GetShippingOptions(r.Context(), req.DestinationID, req.WeightGrams, req.Courier)
	if err != nil {
		log.Printf("ShippingHandler: Cost lookup failed for destination %d: %v", req.DestinationID, err)
		h.render.JSON(w, http.StatusBadGateway, map[string]string{"error": "shipping cost lookup failed"})
		return
	}

	h.render.JSON(w, http.StatusOK, map[string]interface{}{"options": options})
}
