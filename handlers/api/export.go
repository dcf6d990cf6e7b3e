package api

import (
	"net/http"
	"strings"

	"github.com/nijaru/yt-summary/errors"
	"github.com/nijaru/yt-summary/models"
)

var exportFilenames = map[string]string{
	"summary":    models.SummaryFilename,
	"transcript": models.TranscriptFilename,
}

// HandleExport handles POST /api/v1/export/{kind}. The client posts back the
// text it already holds and receives it as a .txt download.
func HandleExport(w http.ResponseWriter, r *http.Request) {
	const op = "api.HandleExport"

	filename, ok := exportFilenames[r.PathValue("kind")]
	if !ok {
		respondError(w, r, errors.InvalidInput(op, nil, "Export kind must be summary or transcript"))
		return
	}

	var req models.ExportRequest
	if err := decodeBody(w, r, &req, func(r *http.Request) {
		req.Text = r.FormValue("text")
	}); err != nil {
		respondError(w, r, err)
		return
	}

	if strings.TrimSpace(req.Text) == "" {
		respondError(w, r, errors.InvalidInput(op, nil, "Nothing to export"))
		return
	}

	respondAttachment(w, filename, req.Text)
}
