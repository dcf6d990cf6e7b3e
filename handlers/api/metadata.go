package api

import (
	"net/http"
	"strings"

	"github.com/nijaru/yt-summary/errors"
	"github.com/nijaru/yt-summary/models"
)

type MetadataHandler struct {
	previewer Previewer
}

func NewMetadataHandler(previewer Previewer) *MetadataHandler {
	return &MetadataHandler{previewer: previewer}
}

// HandleGetMetadata handles GET /api/v1/metadata. Lookup failures are
// reported inside a 200 response.
func (h *MetadataHandler) HandleGetMetadata(w http.ResponseWriter, r *http.Request) {
	const op = "MetadataHandler.HandleGetMetadata"

	url := strings.TrimSpace(r.URL.Query().Get("url"))
	if url == "" {
		respondError(w, r, errors.InvalidInput(op, nil, "URL parameter is required"))
		return
	}

	var preview *models.PreviewResponse
	if h.previewer != nil {
		preview = h.previewer.Preview(r.Context(), url)
	}
	if preview == nil {
		preview = models.NewPreviewResponse(nil)
	}
	respondJSON(w, r, http.StatusOK, preview)
}
