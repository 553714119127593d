package handlers

import (
	"errors"
	"io"
	"mime"
	"net/http"
	"path"

	"go.uber.org/zap"

	"github.com/Maheshwaran-fullstackdeveloper/Natours-Full-Stack-App/internal/apperror"
	"github.com/Maheshwaran-fullstackdeveloper/Natours-Full-Stack-App/internal/objstore"
	"github.com/Maheshwaran-fullstackdeveloper/Natours-Full-Stack-App/internal/utils"
)

// ImageHandler serves uploaded images from the bucket.
type ImageHandler struct {
	bucket objstore.Bucket
	log    *zap.Logger
}

func NewImageHandler(bucket objstore.Bucket, log *zap.Logger) *ImageHandler {
	return &ImageHandler{bucket: bucket, log: log}
}

// ServeImage streams /img/{folder}/{name}.
func (h *ImageHandler) ServeImage(w http.ResponseWriter, r *http.Request) {
	key := pathID(r, "folder") + "/" + pathID(r, "name")
	obj, err := h.bucket.Get(r.Context(), key)
	if err != nil {
		if errors.Is(err, objstore.ErrNotFound) || errors.Is(err, objstore.ErrInvalidKey) {
			err = apperror.NotFound("Can't find %s on this server!", r.URL.Path)
		}
		utils.WriteError(w, h.log, err)
		return
	}
	defer obj.Close()

	ct := mime.TypeByExtension(path.Ext(key))
	if ct == "" {
		ct = "application/octet-stream"
	}
	w.Header().Set("Content-Type", ct)
	w.Header().Set("Cache-Control", "public, max-age=86400")
	if _, err := io.Copy(w, obj); err != nil {
		h.log.Debug("image copy interrupted", zap.String("key", key), zap.Error(err))
	}
}
