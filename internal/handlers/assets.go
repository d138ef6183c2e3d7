package handlers

import (
	"bytes"
	"fmt"
	"log/slog"
	"net/http"
	"path"

	"github.com/google/uuid"

	"slideforge/internal/imaging"
	"slideforge/internal/storage"
)

// maxUploadBytes caps a multipart asset upload.
const maxUploadBytes = 32 << 20

// Assets handles uploads of user images (logos, slide backgrounds) to
// object storage. Uploads are downscaled before storage; slides render
// at 1280x720 and decks embed at most 1920px wide.
type Assets struct {
	storage *storage.Client
}

// NewAssets creates the asset handler group. storage may be nil when
// object storage is not configured.
func NewAssets(st *storage.Client) *Assets {
	return &Assets{storage: st}
}

type uploadResponse struct {
	URL      string `json:"url"`
	ThumbURL string `json:"thumb_url"`
	Width    int    `json:"width"`
	Height   int    `json:"height"`
}

// Upload accepts a multipart image, generates downscaled variants, and
// stores them. Returns public URLs for the full image and thumbnail.
func (h *Assets) Upload(w http.ResponseWriter, r *http.Request) {
	if h.storage == nil {
		writeError(w, http.StatusNotImplemented, "Object storage is not configured.")
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid upload.")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "Missing file field.")
		return
	}
	defer file.Close()

	variants, err := imaging.Process(file, imaging.DefaultVariants)
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, fmt.Sprintf("Could not process %q: not a supported image.", header.Filename))
		return
	}

	base := "assets/" + uuid.New().String()
	resp := uploadResponse{}
	for _, v := range variants {
		key := base + v.Suffix + ".jpg"
		if err := h.storage.Upload(r.Context(), key, v.ContentType, bytes.NewReader(v.Data), int64(len(v.Data))); err != nil {
			slog.Error("asset upload failed", "key", key, "error", err)
			writeError(w, http.StatusInternalServerError, "Could not store the image.")
			return
		}
		url := h.storage.FileURL(key)
		if v.Suffix == "" {
			resp.URL = url
			resp.Width = v.Width
			resp.Height = v.Height
		} else {
			resp.ThumbURL = url
		}
	}

	writeJSON(w, http.StatusCreated, resp)
}

type deleteAssetRequest struct {
	URL string `json:"url"`
}

// Delete removes a stored asset by its public URL. URLs outside our
// storage are rejected.
func (h *Assets) Delete(w http.ResponseWriter, r *http.Request) {
	if h.storage == nil {
		writeError(w, http.StatusNotImplemented, "Object storage is not configured.")
		return
	}

	var req deleteAssetRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	key, ok := h.storage.ExtractKey(req.URL)
	if !ok || path.Clean(key) != key {
		writeError(w, http.StatusUnprocessableEntity, "URL is not a stored asset.")
		return
	}

	if err := h.storage.Delete(r.Context(), key); err != nil {
		slog.Error("asset delete failed", "key", key, "error", err)
		writeError(w, http.StatusInternalServerError, "Could not delete the asset.")
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}
