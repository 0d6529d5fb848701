package handlers

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/oceanstay/booking-service/internal/gateway"
	"github.com/oceanstay/booking-service/internal/importer"
	"github.com/oceanstay/booking-service/internal/storage"
)

// uploadSem limits concurrent commit uploads to prevent resource exhaustion.
// Validation is cheap and not gated.
var uploadSem chan struct{}

var (
	importGateway  *gateway.Gateway
	artifactStore  storage.Storage
	maxUploadBytes int64
)

// Configure wires the handlers to the gateway and artifact store. Must be
// called before the router starts serving.
func Configure(g *gateway.Gateway, store storage.Storage, maxConcurrentRuns int, maxBytes int64) {
	importGateway = g
	artifactStore = store
	maxUploadBytes = maxBytes
	if maxConcurrentRuns < 1 {
		maxConcurrentRuns = 1
	}
	uploadSem = make(chan struct{}, maxConcurrentRuns)
}

// ImportOverrides is the optional "overrides" multipart part: a per-upload
// room override table mapping listing free-text to a canonical property
// short (e.g. {"Avalon D.5 - Sea view":"AVA-503"}). It wins over pattern
// parsing when resolving listings.
type ImportOverrides struct {
	Mappings map[string]string `json:"mappings"`
}

// UploadImport commits one or more booking files
// POST /internal/imports/upload
func UploadImport(c *gin.Context) {
	files, source, channel, overrides, err := parseImportForm(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	select {
	case uploadSem <- struct{}{}:
		defer func() { <-uploadSem }()
	case <-c.Request.Context().Done():
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Upload cancelled while waiting for a slot"})
		return
	}

	summary := importGateway.Upload(c.Request.Context(), files, source, channel, overrides)

	log.Info().
		Str("source", source).
		Str("channel", channel).
		Int("files", len(files)).
		Int("inserted", summary.RowsInserted).
		Msg("Upload request handled")

	c.JSON(http.StatusOK, summary)
}

// ValidateImport dry-runs one or more booking files. Nothing is persisted.
// POST /internal/imports/validate
func ValidateImport(c *gin.Context) {
	files, source, channel, overrides, err := parseImportForm(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	summary := importGateway.Validate(c.Request.Context(), files, source, channel, overrides)
	c.JSON(http.StatusOK, summary)
}

// parseImportForm extracts files and import parameters from the multipart
// form shared by the upload and validate endpoints
func parseImportForm(c *gin.Context) ([]gateway.File, string, string, map[string]string, error) {
	form, err := c.MultipartForm()
	if err != nil {
		return nil, "", "", nil, fmt.Errorf("invalid multipart form: %w", err)
	}

	source := c.PostForm("source")
	if source == "" {
		source = importer.SourceOffline
	}
	if source != importer.SourceOfficial && source != importer.SourceOffline {
		return nil, "", "", nil, fmt.Errorf("invalid source: %s", source)
	}

	channel := c.PostForm("channel")
	if channel == "" {
		if source == importer.SourceOfficial {
			channel = "airbnb"
		} else {
			return nil, "", "", nil, fmt.Errorf("channel is required for offline imports")
		}
	}

	var overrides map[string]string
	if raw := c.PostForm("overrides"); raw != "" {
		var parsed ImportOverrides
		if err := json.Unmarshal([]byte(raw), &parsed); err != nil {
			return nil, "", "", nil, fmt.Errorf("invalid overrides JSON: %w", err)
		}
		overrides = parsed.Mappings
	}

	fileHeaders := form.File["files"]
	if len(fileHeaders) == 0 {
		return nil, "", "", nil, fmt.Errorf("no files uploaded, use multipart field 'files'")
	}

	files := make([]gateway.File, 0, len(fileHeaders))
	for _, fh := range fileHeaders {
		if maxUploadBytes > 0 && fh.Size > maxUploadBytes {
			return nil, "", "", nil, fmt.Errorf("file %s exceeds maximum size of %d bytes", fh.Filename, maxUploadBytes)
		}

		f, err := fh.Open()
		if err != nil {
			return nil, "", "", nil, fmt.Errorf("failed to open %s: %w", fh.Filename, err)
		}
		data, err := io.ReadAll(f)
		f.Close()
		if err != nil {
			return nil, "", "", nil, fmt.Errorf("failed to read %s: %w", fh.Filename, err)
		}

		files = append(files, gateway.File{Name: fh.Filename, Data: data})
	}

	return files, source, channel, overrides, nil
}
