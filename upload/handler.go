// Package upload handles image uploads and static serving of the image
// directory.
package upload

import (
	"encoding/json"
	"io"
	"net/http"
	"os"
	"path"
	"path/filepath"

	"github.com/google/uuid"
)

// maxUploadSize bounds the multipart form parse.
const maxUploadSize = 10 << 20

// acceptedMIMETypes are the only image types stored. Anything else is
// silently dropped: the request succeeds but no file is attached.
var acceptedMIMETypes = map[string]bool{
	"image/png":  true,
	"image/jpg":  true,
	"image/jpeg": true,
}

// Handler stores uploaded images and serves them back.
type Handler struct {
	dir string
}

// NewHandler creates an upload handler rooted at dir, creating the directory
// if needed.
func NewHandler(dir string) (*Handler, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &Handler{dir: dir}, nil
}

// uploadResponse carries the stored path of the uploaded image. FilePath is
// empty when the file was dropped by the MIME filter.
type uploadResponse struct {
	FilePath string `json:"filePath"`
}

// HandleUpload accepts a multipart form with an "image" field, filters by
// MIME type and stores the file as "<uuid>-<originalName>".
func (h *Handler) HandleUpload() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseMultipartForm(maxUploadSize); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"message": "invalid multipart form"})
			return
		}

		file, header, err := r.FormFile("image")
		if err != nil {
			// No image field: nothing to store, not an error.
			writeJSON(w, http.StatusOK, uploadResponse{})
			return
		}
		defer file.Close()

		if !acceptedMIMETypes[header.Header.Get("Content-Type")] {
			writeJSON(w, http.StatusOK, uploadResponse{})
			return
		}

		name := uuid.New().String() + "-" + filepath.Base(header.Filename)
		dst, err := os.Create(filepath.Join(h.dir, name))
		if err != nil {
			writeJSON(w, http.StatusInternalServerError, map[string]string{"message": "failed to store image"})
			return
		}
		defer dst.Close()

		if _, err := io.Copy(dst, file); err != nil {
			writeJSON(w, http.StatusInternalServerError, map[string]string{"message": "failed to store image"})
			return
		}

		writeJSON(w, http.StatusOK, uploadResponse{FilePath: path.Join("images", name)})
	}
}

// HandleServe serves stored images under /images/.
func (h *Handler) HandleServe() http.Handler {
	return http.StripPrefix("/images/", http.FileServer(http.Dir(h.dir)))
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		http.Error(w, `{"message":"failed to encode response"}`, http.StatusInternalServerError)
	}
}
