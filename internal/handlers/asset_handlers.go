package handlers

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/haratakeru-crypto/Tab-button-game/internal/models"
	"github.com/haratakeru-crypto/Tab-button-game/internal/services"
)

// AssetHandler handles screenshot uploads and listings
type AssetHandler struct {
	store *services.AssetStore
	log   *zap.Logger
}

// NewAssetHandler creates a new asset handler
func NewAssetHandler(store *services.AssetStore, log *zap.Logger) *AssetHandler {
	return &AssetHandler{
		store: store,
		log:   log,
	}
}

// AssetUploadRequest carries one screenshot as base64 or a PNG data URL
type AssetUploadRequest struct {
	Path        string `json:"path"`
	ImageBase64 string `json:"imageBase64"`
}

// AssetUploadResponse is returned after an upload
type AssetUploadResponse struct {
	Success bool               `json:"success"`
	Asset   models.AssetRecord `json:"asset"`
	URL     string             `json:"url"`
}

// AssetListResponse lists the indexed screenshots
type AssetListResponse struct {
	Assets []models.AssetRecord `json:"assets"`
}

// ListAssets returns the asset index
// GET /api/assets
func (h *AssetHandler) ListAssets(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, AssetListResponse{Assets: h.store.List()})
}

// UploadAsset saves a screenshot under the assets directory
// POST /api/assets
func (h *AssetHandler) UploadAsset(w http.ResponseWriter, r *http.Request) {
	if h.store.Production() {
		writeError(w, h.log, services.ErrForbidden)
		return
	}

	var req AssetUploadRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.Path == "" {
		writeErrorMessage(w, http.StatusBadRequest, "path is required")
		return
	}

	rec, err := h.store.SaveImageBase64(req.Path, req.ImageBase64)
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, AssetUploadResponse{Success: true, Asset: rec, URL: rec.URL()})
}
