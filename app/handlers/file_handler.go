package handlers

import (
	"encoding/base64"
	"encoding/json"
	"io"
	"log"
	"net/http"
	"time"

	"github.com/cetak3d/go-printshop/app/helpers"
	"github.com/cetak3d/go-printshop/app/models"
	"github.com/cetak3d/go-printshop/app/repositories"
	"github.com/gorilla/mux"
	"github.com/unrolled/render"
)

const (
	maxTempUploadBytes = 50 << 20
	tempFileTTL        = 24 * time.Hour
)

type FileHandler struct {
	render       *render.Render
	tempFileRepo repositories.TempFileRepository
	userFileRepo repositories.UserFileRepository
}

func NewFileHandler(render *render.Render, tempFileRepo repositories.TempFileRepository, userFileRepo repositories.UserFileRepository) *FileHandler {
	return &FileHandler{
		render:       render,
		tempFileRepo: tempFileRepo,
		userFileRepo: userFileRepo,
	}
}

// UploadTemp receives a model file ahead of checkout and stores it as an
// ephemeral TempFile. Anonymous uploads are allowed since the wizard runs
// before sign-in; the ownership tag is only attached at finalization.
func (h *FileHandler) UploadTemp(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxTempUploadBytes); err != nil {
		h.render.JSON(w, http.StatusBadRequest, map[string]string{"error": "invalid multipart form"})
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		h.render.JSON(w, http.StatusBadRequest, map[string]string{"error": "file field is required"})
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		log.Printf("FileHandler: Error reading uploaded file %s: %v", header.Filename, err)
		h.render.JSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to read upload"})
		return
	}

	tempFile := &models.TempFile{
		UploadedBy: helpers.GetUserIDFromContext(r.Context()),
		FileName:   header.Filename,
		FileSize:   int64(len(data)),
		MimeType:   header.Header.Get("Content-Type"),
		FileData:   base64.StdEncoding.EncodeToString(data),
		ExpiresAt:  time.Now().Add(tempFileTTL),
	}
	if err := h.tempFileRepo.Create(r.Context(), tempFile); err != nil {
		log.Printf("FileHandler: Error storing temp file %s: %v", header.Filename, err)
		h.render.JSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to store upload"})
		return
	}

	log.Printf("FileHandler: Temp file %s stored (%s, %d bytes)", tempFile.ID, tempFile.FileName, tempFile.FileSize)
	h.render.JSON(w, http.StatusCreated, map[string]interface{}{
		"id":        tempFile.ID,
		"file_name": tempFile.FileName,
		"file_size": tempFile.FileSize,
	})
}

type tempFileIDsRequest struct {
	FileIDs []string `json:"fileIds" validate:"required,min=1"`
}

func (h *FileHandler) canAccessTempFile(r *http.Request, file models.TempFile) bool {
	user := helpers.GetUserFromContext(r.Context())
	if user != nil && user.IsAdmin() {
		return true
	}
	if file.UploadedBy == "" {
		return true
	}
	return user != nil && file.UploadedBy == user.ID
}

func (h *FileHandler) RetrieveTemp(w http.ResponseWriter, r *http.Request) {
	var req tempFileIDsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.render.JSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}
	if err := helpers.ValidateStruct(req); err != nil {
		h.render.JSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	files, err := h.tempFileRepo.FindByIDs(r.Context(), req.FileIDs)
	if err != nil {
		log.Printf("FileHandler: Error retrieving temp files: %v", err)
		h.render.JSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to retrieve files"})
		return
	}

	type tempFilePayload struct {
		ID       string `json:"id"`
		FileName string `json:"file_name"`
		FileData string `json:"fileData"`
	}
	payload := make([]tempFilePayload, 0, len(files))
	for _, file := range files {
		if !h.canAccessTempFile(r, file) {
			continue
		}
		payload = append(payload, tempFilePayload{ID: file.ID, FileName: file.FileName, FileData: file.FileData})
	}

	h.render.JSON(w, http.StatusOK, map[string]interface{}{"files": payload})
}

func (h *FileHandler) DeleteTemp(w http.ResponseWriter, r *http.Request) {
	var req tempFileIDsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.render.JSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}
	if err := helpers.ValidateStruct(req); err != nil {
		h.render.JSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	files, err := h.tempFileRepo.FindByIDs(r.Context(), req.FileIDs)
	if err != nil {
		log.Printf("FileHandler: Error loading temp files for delete: %v", err)
		h.render.JSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to delete files"})
		return
	}

	var deletable []string
	for _, file := range files {
		if h.canAccessTempFile(r, file) {
			deletable = append(deletable, file.ID)
		}
	}
	if err := h.tempFileRepo.DeleteByIDs(r.Context(), deletable); err != nil {
		log.Printf("FileHandler: Error deleting temp files: %v", err)
		h.render.JSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to delete files"})
		return
	}

	h.render.JSON(w, http.StatusOK, map[string]interface{}{"deleted": len(deletable)})
}

// GetUserFile serves a permanent file's content to its owner or an admin.
func (h *FileHandler) GetUserFile(w http.ResponseWriter, r *http.Request) {
	fileID := mux.Vars(r)["id"]
	user := helpers.GetUserFromContext(r.Context())

	file, err := h.userFileRepo.FindByID(r.Context(), fileID)
	if err != nil {
		log.Printf("FileHandler: Error loading user file %s: %v", fileID, err)
		h.render.JSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to load file"})
		return
	}
	if file == nil {
		h.render.JSON(w, http.StatusNotFound, map[string]string{"error": "file not found"})
		return
	}
	if user == nil || (file.UploadedBy != user.ID && !user.IsAdmin()) {
		h.render.JSON(w, http.StatusForbidden, map[string]string{"error": "access denied"})
		return
	}

	w.Header().Set("Content-Type", file.MimeType)
	w.Header().Set("Content-Disposition", "attachment; filename=\""+file.FileName+"\"")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(file.FileData); err != nil {
		log.Printf("FileHandler: Error writing file %s to response: %v", fileID, err)
	}
}

func (h *FileHandler) ListUserFiles(w http.ResponseWriter, r *http.Request) {
	userID := helpers.GetUserIDFromContext(r.Context())

	files, err := h.userFileRepo.FindByUserID(r.Context(), userID)
	if err != nil {
		log.Printf("FileHandler: Error listing files for user %s: %v", userID, err)
		h.render.JSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to list files"})
		return
	}
	h.render.JSON(w, http.StatusOK, map[string]interface{}{"files": files})
}
