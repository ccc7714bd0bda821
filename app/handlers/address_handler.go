package handlers

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/cetak3d/go-printshop/app/helpers"
	"github.com/cetak3d/go-printshop/app/models"
	"github.com/cetak3d/go-printshop/app/repositories"
	"github.com/gorilla/mux"
	"github.com/unrolled/render"
)

type AddressHandler struct {
	render      *render.Render
	addressRepo repositories.AddressRepository
}

func NewAddressHandler(render *render.Render, addressRepo repositories.AddressRepository) *AddressHandler {
	return &AddressHandler{
		render:      render,
		addressRepo: addressRepo,
	}
}

type addressRequest struct {
	Recipient string `json:"recipient" validate:"required"`
	Phone     string `json:"phone" validate:"required"`
	IsPrimary bool   `json:"is_primary"`

	Address1 string `json:"address1" validate:"required"`
	Address2 string `json:"address2"`

	ProvinceCode string `json:"province_code"`
	ProvinceName string `json:"province_name" validate:"required"`
	RegencyCode  string `json:"regency_code"`
	RegencyName  string `json:"regency_name" validate:"required"`
	DistrictCode string `json:"district_code"`
	DistrictName string `json:"district_name"`
	VillageCode  string `json:"village_code"`
	VillageName  string `json:"village_name"`
	PostCode     string `json:"post_code" validate:"required"`

	DestinationID int `json:"destination_id"`
}

func (h *AddressHandler) List(w http.ResponseWriter, r *http.Request) {
	userID := helpers.GetUserIDFromContext(r.Context())

	addresses, err := h.addressRepo.FindByUserID(r.Context(), userID)
	if err != nil {
		log.Printf("AddressHandler: Error listing addresses for user %s: %v", userID, err)
		h.render.JSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to list addresses"})
		return
	}
	h.render.JSON(w, http.StatusOK, map[string]interface{}{"addresses": addresses})
}

func (h *AddressHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID := helpers.GetUserIDFromContext(r.Context())

	var req addressRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.render.JSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}
	if err := helpers.ValidateStruct(req); err != nil {
		h.render.JSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	if req.IsPrimary {
		if err := h.addressRepo.UnsetPrimaryForUser(r.Context(), userID); err != nil {
			log.Printf("AddressHandler: Error unsetting primary addresses for user %s: %v", userID, err)
		}
	}

	address := &models.Address{
		UserID:        userID,
		Recipient:     req.Recipient,
		Phone:         req.Phone,
		IsPrimary:     req.IsPrimary,
		Address1:      req.Address1,
		Address2:      req.Address2,
		ProvinceCode:  req.ProvinceCode,
		ProvinceName:  req.ProvinceName,
		RegencyCode:   req.RegencyCode,
		RegencyName:   req.RegencyName,
		DistrictCode:  req.DistrictCode,
		DistrictName:  req.DistrictName,
		VillageCode:   req.VillageCode,
		VillageName:   req.VillageName,
		PostCode:      req.PostCode,
		DestinationID: req.DestinationID,
	}
	if err := h.addressRepo.Create(r.Context(), address); err != nil {
		log.Printf("AddressHandler: Error creating address for user %s: %v", userID, err)
		h.render.JSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to create address"})
		return
	}

	h.render.JSON(w, http.StatusCreated, address)
}

func (h *AddressHandler) Update(w http.ResponseWriter, r *http.Request) {
	userID := helpers.GetUserIDFromContext(r.Context())
	addressID := mux.Vars(r)["id"]

	address, err := h.addressRepo.FindAddressByID(r.Context(), addressID)
	if err != nil {
		log.Printf("AddressHandler: Error finding address %s: %v", addressID, err)
		h.render.JSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to update address"})
		return
	}
	if address == nil || address.UserID != userID {
		h.render.JSON(w, http.StatusNotFound, map[string]string{"error": "address not found"})
		return
	}

	var req addressRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.render.JSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}
	if err := helpers.ValidateStruct(req); err != nil {
		h.render.JSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	if req.IsPrimary && !address.IsPrimary {
		if err := h.addressRepo.UnsetPrimaryForUser(r.Context(), userID); err != nil {
			log.Printf("AddressHandler: Error unsetting primary addresses for user %s: %v", userID, err)
		}
	}

	address.Recipient = req.Recipient
	address.Phone = req.Phone
	address.IsPrimary = req.IsPrimary
	address.Address1 = req.Address1
	address.Address2 = req.Address2
	address.ProvinceCode = req.ProvinceCode
	address.ProvinceName = req.ProvinceName
	address.RegencyCode = req.RegencyCode
	address.RegencyName = req.RegencyName
	address.DistrictCode = req.DistrictCode
	address.DistrictName = req.DistrictName
	address.VillageCode = req.VillageCode
	address.VillageName = req.VillageName
	address.PostCode = req.PostCode
	address.DestinationID = req.DestinationID

	if err := h.addressRepo.Update(r.Context(), address); err != nil {
		log.Printf("AddressHandler: Error updating address %s: %v", addressID, err)
		h.render.JSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to update address"})
		return
	}

	h.render.JSON(w, http.StatusOK, address)
}

func (h *AddressHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID := helpers.GetUserIDFromContext(r.Context())
	addressID := mux.Vars(r)["id"]

	address, err := h.addressRepo.FindAddressByID(r.Context(), addressID)
	if err != nil {
		log.Printf("AddressHandler: Error finding address %s: %v", addressID, err)
		h.render.JSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to delete address"})
		return
	}
	if address == nil || address.UserID != userID {
		h.render.JSON(w, http.StatusNotFound, map[string]string{"error": "address not found"})
		return
	}

	if err := h.addressRepo.Delete(r.Context(), addressID); err != nil {
		log.Printf("AddressHandler: Error deleting address %s: %v", addressID, err)
		h.render.JSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to delete address"})
		return
	}

	h.render.JSON(w, http.StatusOK, map[string]string{"message": "address deleted"})
}
