package api

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/nijaru/yt-summary/middleware"
	"github.com/nijaru/yt-summary/models"
	"github.com/nijaru/yt-summary/services/pipeline"
	"github.com/nijaru/yt-summary/validation"
)

type SummaryHandler struct {
	pipeline    Runner
	validator   *validation.Validator
	defaultTier string
}

func NewSummaryHandler(runner Runner, validator *validation.Validator, defaultTier string) *SummaryHandler {
	return &SummaryHandler{
		pipeline:    runner,
		validator:   validator,
		defaultTier: defaultTier,
	}
}

// HandleSummarize handles POST /api/v1/summarize
func (h *SummaryHandler) HandleSummarize(w http.ResponseWriter, r *http.Request) {
	if err := h.validator.ValidateRequest(r, validation.RequestValidationOpts{
		MaxContentLength: maxBodySize,
		AllowedMethods:   []string{http.MethodPost},
	}); err != nil {
		respondError(w, r, err)
		return
	}

	var req models.SummarizeRequest
	if err := decodeBody(w, r, &req, func(r *http.Request) {
		req.URL = r.FormValue("url")
		req.Tier = r.FormValue("tier")
		req.Language = r.FormValue("language")
		req.Translate, _ = strconv.ParseBool(r.FormValue("translate"))
	}); err != nil {
		respondError(w, r, err)
		return
	}

	req.URL = strings.TrimSpace(req.URL)
	if err := h.validator.ValidateURL(req.URL); err != nil {
		respondError(w, r, err)
		return
	}
	if req.Tier == "" {
		req.Tier = h.defaultTier
	}

	logger := middleware.GetLogger(r.Context())
	logger.WithFields(logrus.Fields{
		"url":       req.URL,
		"tier":      req.Tier,
		"translate": req.Translate,
	}).Info("Received summarize request")

	result, err := h.pipeline.Run(r.Context(), pipeline.Request{
		URL:       req.URL,
		Tier:      req.Tier,
		Language:  req.Language,
		Translate: req.Translate,
	})
	if err != nil {
		respondError(w, r, err)
		return
	}

	respondJSON(w, r, http.StatusOK, models.NewSummarizeResponse(result.Transcript, result.Summary))
}
