package uploads

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"resume-ranker/internal/shared/server/middleware"
	"resume-ranker/internal/shared/server/respond"
)

const maxUploadSize = 50 << 20 // 50MB across the whole batch

// Handler wires HTTP handlers to the service.
type Handler struct {
	Svc *Service
}

// NewHandler constructs a Handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

// RegisterRoutes attaches upload routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/batches", h.create)
}

func (h *Handler) create(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxUploadSize)

	form, err := c.MultipartForm()
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "multipart form is required", nil)
		return
	}

	jobID := strings.TrimSpace(c.PostForm("jobId"))
	if jobID == "" {
		respond.Error(c, http.StatusBadRequest, "validation_error", "jobId is required", nil)
		return
	}

	fileHeaders := form.File["files"]
	if len(fileHeaders) == 0 {
		respond.Error(c, http.StatusBadRequest, "validation_error", "at least one file is required", nil)
		return
	}

	files := make([]UploadedFile, 0, len(fileHeaders))
	for _, fh := range fileHeaders {
		f, err := fh.Open()
		if err != nil {
			respond.Error(c, http.StatusBadRequest, "validation_error", "unable to read "+fh.Filename, nil)
			return
		}
		defer f.Close()
		files = append(files, UploadedFile{Name: fh.Filename, Reader: f})
	}

	requestID := middleware.RequestIDFromContext(c)
	batch, stored, err := h.Svc.CreateBatch(c.Request.Context(), jobID, requestID, files)
	if err != nil {
		switch {
		case errors.Is(err, ErrUnsupportedFile):
			respond.Error(c, http.StatusBadRequest, "unsupported_file", err.Error(), nil)
		case errors.Is(err, ErrInvalidInput):
			respond.Error(c, http.StatusBadRequest, "validation_error", err.Error(), nil)
		default:
			respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to create batch", nil)
		}
		return
	}

	resumeViews := make([]gin.H, 0, len(stored))
	for _, r := range stored {
		resumeViews = append(resumeViews, gin.H{
			"id":               r.ID,
			"originalFilename": r.OriginalFilename,
			"status":           r.Status,
		})
	}
	respond.JSON(c, http.StatusAccepted, gin.H{
		"batch":   batch,
		"resumes": resumeViews,
	})
}
