package handlers

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/cetak3d/go-printshop/app/helpers"
	"github.com/cetak3d/go-printshop/app/models"
	"github.com/cetak3d/go-printshop/app/repositories"
	"github.com/cetak3d/go-printshop/app/utils/sessions"
	"github.com/unrolled/render"
)

type AuthHandler struct {
	render       *render.Render
	userRepo     repositories.UserRepository
	sessionStore sessions.SessionStore
}

func NewAuthHandler(render *render.Render, userRepo repositories.UserRepository, sessionStore sessions.SessionStore) *AuthHandler {
	return &AuthHandler{
		render:       render,
		userRepo:     userRepo,
		sessionStore: sessionStore,
	}
}

type registerRequest struct {
	FirstName string `json:"first_name" validate:"required"`
	LastName  string `json:"last_name"`
	Email     string `json:"email" validate:"required,email"`
	Phone     string `json:"phone"`
	Password  string `json:"password" validate:"required,min=8"`
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.render.JSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}
	if err := helpers.ValidateStruct(req); err != nil {
		h.render.JSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	existing, err := h.userRepo.FindByEmail(r.Context(), req.Email)
	if err != nil {
		log.Printf("AuthHandler: Error checking existing email %s: %v", req.Email, err)
		h.render.JSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to register"})
		return
	}
	if existing != nil {
		h.render.JSON(w, http.StatusConflict, map[string]string{"error": "email already registered"})
		return
	}

	hashed, err := helpers.HashPassword(req.Password)
	if err != nil {
		log.Printf("AuthHandler: Error hashing password: %v", err)
		h.render.JSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to register"})
		return
	}

	user := &models.User{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		Phone:     req.Phone,
		Password:  hashed,
		Role:      models.RoleCustomer,
	}
	if err := h.userRepo.Create(r.Context(), user); err != nil {
		log.Printf("AuthHandler: Error creating user %s: %v", req.Email, err)
		h.render.JSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to register"})
		return
	}

	if err := h.sessionStore.SetUserID(w, r, user.ID); err != nil {
		log.Printf("AuthHandler: Error setting session for new user %s: %v", user.ID, err)
	}

	h.render.JSON(w, http.StatusCreated, user)
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.render.JSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}
	if err := helpers.ValidateStruct(req); err != nil {
		h.render.JSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	user, err := h.userRepo.FindByEmail(r.Context(), req.Email)
	if err != nil {
		log.Printf("AuthHandler: Error finding user %s: %v", req.Email, err)
		h.render.JSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to login"})
		return
	}
	if user == nil || !helpers.CheckPassword(user.Password, req.Password) {
		h.render.JSON(w, http.StatusUnauthorized, map[string]string{"error": "invalid email or password"})
		return
	}

	if err := h.sessionStore.SetUserID(w, r, user.ID); err != nil {
		log.Printf("AuthHandler: Error setting session for user %s: %v", user.ID, err)
		h.render.JSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to login"})
		return
	}

	h.render.JSON(w, http.StatusOK, user)
}

func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if err := h.sessionStore.ClearSession(w, r); err != nil {
		log.Printf("AuthHandler: Error clearing session: %v", err)
	}
	h.render.JSON(w, http.StatusOK, map[string]string{"message": "logged out"})
}

func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	user := helpers.GetUserFromContext(r.Context())
	if user == nil {
		h.render.JSON(w, http.StatusUnauthorized, map[string]string{"error": "authentication required"})
		return
	}
	h.render.JSON(w, http.StatusOK, user)
}

type updateProfileRequest struct {
	FirstName string `json:"first_name" validate:"required"`
	LastName  string `json:"last_name"`
	Phone     string `json:"phone"`
	Password  string `json:"password" validate:"omitempty,min=8"`
}

// UpdateProfile updates the signed-in user's name, phone and optionally
// password. Email is immutable once registered.
func (h *AuthHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	user := helpers.GetUserFromContext(r.Context())

	var req updateProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.render.JSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}
	if err := helpers.ValidateStruct(req); err != nil {
		h.render.JSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	user.FirstName = req.FirstName
	user.LastName = req.LastName
	user.Phone = req.Phone
	if req.Password != "" {
		hashed, err := helpers.HashPassword(req.Password)
		if err != nil {
			log.Printf("AuthHandler: Error hashing password for user %s: %v", user.ID, err)
			h.render.JSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to update profile"})
			return
		}
		user.Password = hashed
	}

	if err := h.userRepo.Update(r.Context(), user); err != nil {
		log.Printf("AuthHandler: Error updating user %s: %v", user.ID, err)
		h.render.JSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to update profile"})
		return
	}

	h.render.JSON(w, http.StatusOK, user)
}
