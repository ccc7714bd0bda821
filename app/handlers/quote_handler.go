package handlers

import (
	"encoding/base64"
	"encoding/json"
	"log"
	"net/http"

	"github.com/cetak3d/go-printshop/app/helpers"
	"github.com/cetak3d/go-printshop/app/models/other"
	"github.com/cetak3d/go-printshop/app/repositories"
	"github.com/cetak3d/go-printshop/app/services"
	"github.com/unrolled/render"
)

type QuoteHandler struct {
	render       *render.Render
	slicerClient services.SlicerClient
	pricingSvc   *services.PricingService
	tempFileRepo repositories.TempFileRepository
}

func NewQuoteHandler(render *render.Render, slicerClient services.SlicerClient, pricingSvc *services.PricingService, tempFileRepo repositories.TempFileRepository) *QuoteHandler {
	return &QuoteHandler{
		render:       render,
		slicerClient: slicerClient,
		pricingSvc:   pricingSvc,
		tempFileRepo: tempFileRepo,
	}
}

type sliceRequest struct {
	FileID        string `json:"file_id" validate:"required"`
	LayerHeight   string `json:"layer_height" validate:"required"`
	InfillDensity string `json:"infill_density"`
	WallCount     string `json:"wall_count"`
	FilamentType  string `json:"filament_type" validate:"required"`
}

// Slice forwards one previously uploaded temp file to the slicing service
// with the given print parameters and returns the weight/time estimates.
func (h *QuoteHandler) Slice(w http.ResponseWriter, r *http.Request) {
	var req sliceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.render.JSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}
	if err := helpers.ValidateStruct(req); err != nil {
		h.render.JSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	tempFile, err := h.tempFileRepo.FindByID(r.Context(), req.FileID)
	if err != nil {
		log.Printf("QuoteHandler: Error loading temp file %s: %v", req.FileID, err)
		h.render.JSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to load file"})
		return
	}
	if tempFile == nil {
		h.render.JSON(w, http.StatusNotFound, map[string]string{"error": "file not found"})
		return
	}

	data, err := base64.StdEncoding.DecodeString(tempFile.FileData)
	if err != nil {
		log.Printf("QuoteHandler: Error decoding temp file %s: %v", req.FileID, err)
		h.render.JSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to decode file"})
		return
	}

	sliceResp, err := h.slicerClient.Slice(r.Context(), data, other.SliceRequest{
		FileName:      tempFile.FileName,
		LayerHeight:   req.LayerHeight,
		InfillDensity: req.InfillDensity,
		WallCount:     req.WallCount,
		FilamentType:  req.FilamentType,
	})
	if err != nil {
		log.Printf("QuoteHandler: Slicing failed for file %s: %v", req.FileID, err)
		h.render.JSON(w, http.StatusBadGateway, map[string]string{"error": "slicing service failed"})
		return
	}

	h.render.JSON(w, http.StatusOK, sliceResp)
}

type priceRequest struct {
	Items []services.QuoteItem `json:"items" validate:"required,min=1"`
}

// Price runs the submitted, already-sliced files through the price table.
// Items without a matching price rule come back unpriced; they are excluded
// from the totals rather than treated as an error at this stage.
func (h *QuoteHandler) Price(w http.ResponseWriter, r *http.Request) {
	var req priceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.render.JSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}
	if err := helpers.ValidateStruct(req); err != nil {
		h.render.JSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	result, err := h.pricingSvc.Quote(r.Context(), req.Items)
	if err != nil {
		log.Printf("QuoteHandler: Pricing failed: %v", err)
		h.render.JSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to compute prices"})
		return
	}

	h.render.JSON(w, http.StatusOK, result)
}
