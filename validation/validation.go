package validation

import (
	"fmt"
	"net/http"
	"net/url"
	"regexp"
	"strings"

	"github.com/nijaru/yt-summary/config"
	"github.com/nijaru/yt-summary/errors"
)

const invalidURLMessage = "Invalid YouTube URL"

var videoIDPattern = regexp.MustCompile(`(?:v=|youtu\.be/)([\w-]+)`)

// ResolveVideoID extracts the video identifier that follows "v=" or
// "youtu.be/" anywhere in rawURL.
func ResolveVideoID(rawURL string) (string, error) {
	const op = "validation.ResolveVideoID"

	match := videoIDPattern.FindStringSubmatch(rawURL)
	if match == nil {
		return "", errors.InvalidURL(op, nil, invalidURLMessage)
	}
	return match[1], nil
}

type Validator struct {
	config *config.Config
}

func NewValidator(cfg *config.Config) *Validator {
	return &Validator{config: cfg}
}

// ValidateURL performs URL validation
func (v *Validator) ValidateURL(urlStr string) error {
	const op = "Validator.ValidateURL"

	urlStr = strings.TrimSpace(urlStr)
	if urlStr == "" {
		return errors.InvalidURL(op, nil, "Please enter a YouTube URL.")
	}

	parsedURL, err := url.Parse(urlStr)
	if err != nil {
		return errors.InvalidURL(op, err, invalidURLMessage)
	}

	if parsedURL.Scheme != "http" && parsedURL.Scheme != "https" {
		return errors.InvalidURL(op, nil, "URL must use HTTP or HTTPS")
	}

	allowAny := v.config != nil && v.config.Video.AllowNonYouTubeURLs
	if !allowAny && !IsYouTubeDomain(parsedURL.Hostname()) {
		return errors.InvalidURL(op, nil, "Only YouTube URLs are supported")
	}

	return nil
}

// IsYouTubeDomain reports whether hostname is youtube.com, youtu.be or one of
// their subdomains.
func IsYouTubeDomain(hostname string) bool {
	hostname = strings.ToLower(hostname)
	for _, domain := range []string{"youtube.com", "youtu.be"} {
		if hostname == domain || strings.HasSuffix(hostname, "."+domain) {
			return true
		}
	}
	return false
}

// RequestValidationOpts holds options for request validation
type RequestValidationOpts struct {
	MaxContentLength int64
	AllowedMethods   []string
	RequireJSON      bool
}

// ValidateRequest validates HTTP requests
func (v *Validator) ValidateRequest(r *http.Request, opts RequestValidationOpts) error {
	const op = "Validator.ValidateRequest"

	if len(opts.AllowedMethods) > 0 {
		methodAllowed := false
		for _, method := range opts.AllowedMethods {
			if r.Method == method {
				methodAllowed = true
				break
			}
		}
		if !methodAllowed {
			return errors.InvalidInput(op, nil, fmt.Sprintf("Method %s not allowed", r.Method))
		}
	}

	if opts.RequireJSON {
		if contentType := r.Header.Get("Content-Type"); !strings.Contains(contentType, "application/json") {
			return errors.InvalidInput(op, nil, "Content-Type must be application/json")
		}
	}

	if opts.MaxContentLength > 0 && r.ContentLength > opts.MaxContentLength {
		return errors.InvalidInput(op, nil, "Request body too large")
	}

	return nil
}
