package ranking

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"resume-ranker/internal/resumes"
	"resume-ranker/internal/shared/server/respond"
)

// Handler exposes batch status and ranking results over HTTP.
type Handler struct {
	Batches BatchRepo
	Results ResultRepo
	Resumes resumes.Repo
}

// Register mounts the routes onto the given group.
func (h *Handler) Register(rg *gin.RouterGroup) {
	rg.GET("/batches/:batchId", h.GetBatch)
	rg.GET("/batches/:batchId/results", h.ListResults)
	rg.GET("/results/:resultId", h.GetResult)
}

// resumeStatus is the per-resume slice of a batch response, enough for a
// client to show failures next to the ranked rows.
type resumeStatus struct {
	ID               string `json:"id"`
	OriginalFilename string `json:"originalFilename"`
	Status           string `json:"status"`
	ErrorMessage     string `json:"errorMessage,omitempty"`
}

// GetBatch returns the batch with per-resume processing status, for polling.
func (h *Handler) GetBatch(c *gin.Context) {
	batch, ok := h.loadBatch(c)
	if !ok {
		return
	}
	statuses, err := h.resumeStatuses(c, batch)
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to load batch resumes", nil)
		return
	}
	respond.OK(c, gin.H{"batch": batch, "resumes": statuses})
}

// ListResults returns the ranked results for a batch, highest score first,
// plus per-resume status so failed resumes are visible even without a result
// row.
func (h *Handler) ListResults(c *gin.Context) {
	batch, ok := h.loadBatch(c)
	if !ok {
		return
	}
	results, err := h.Results.ListByBatch(c.Request.Context(), batch.ID)
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to load results", nil)
		return
	}
	statuses, err := h.resumeStatuses(c, batch)
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to load batch resumes", nil)
		return
	}
	respond.OK(c, gin.H{
		"batch":   batch,
		"results": results,
		"resumes": statuses,
	})
}

// GetResult returns one ranking result by ID.
func (h *Handler) GetResult(c *gin.Context) {
	resultID := c.Param("resultId")
	result, err := h.Results.GetByID(c.Request.Context(), resultID)
	if err != nil {
		if errors.Is(err, ErrResultNotFound) {
			respond.Error(c, http.StatusNotFound, "not_found", "result not found", nil)
			return
		}
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to load result", nil)
		return
	}
	respond.OK(c, gin.H{"result": result})
}

func (h *Handler) loadBatch(c *gin.Context) (Batch, bool) {
	batchID := c.Param("batchId")
	batch, err := h.Batches.GetByID(c.Request.Context(), batchID)
	if err != nil {
		if errors.Is(err, ErrBatchNotFound) {
			respond.Error(c, http.StatusNotFound, "not_found", "batch not found", nil)
		} else {
			respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to load batch", nil)
		}
		return Batch{}, false
	}
	return batch, true
}

func (h *Handler) resumeStatuses(c *gin.Context, batch Batch) ([]resumeStatus, error) {
	list, err := h.Resumes.ListByIDs(c.Request.Context(), batch.ResumeIDs)
	if err != nil {
		return nil, err
	}
	out := make([]resumeStatus, 0, len(list))
	for _, r := range list {
		out = append(out, resumeStatus{
			ID:               r.ID,
			OriginalFilename: r.OriginalFilename,
			Status:           r.Status,
			ErrorMessage:     r.ErrorMessage,
		})
	}
	return out, nil
}
