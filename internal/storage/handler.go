package storage

import (
	"net/http"

	"github.com/adelie22/Artivora/internal/logger"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes wires the resumable upload API under the
// authenticated group and serves completed files publicly.
func (h *Handler) RegisterRoutes(r *gin.Engine, authed *gin.RouterGroup) {
	authed.POST("/uploads", h.begin)
	authed.PATCH("/uploads/:id", h.appendChunk)
	authed.GET("/uploads/:id", h.progress)
	authed.POST("/uploads/:id/complete", h.complete)
	authed.DELETE("/uploads/:id", h.abort)

	r.Static("/files", h.service.Dir())
}

type beginRequest struct {
	Name string `json:"name"`
	Size int64  `json:"size"`
}

func (h *Handler) begin(c *gin.Context) {
	var req beginRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Name == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "name is required"})
		return
	}

	id, err := h.service.Begin(req.Name, req.Size, func(received, total int64) {
		logger.Info("upload progress", map[string]any{
			"name":     req.Name,
			"received": received,
			"total":    total,
		})
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to open upload"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"id": id})
}

func (h *Handler) appendChunk(c *gin.Context) {
	received, err := h.service.Append(c.Param("id"), c.Request.Body)
	if err == ErrUnknownUpload {
		c.JSON(http.StatusNotFound, gin.H{"error": "unknown upload"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to store chunk"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"received": received})
}

func (h *Handler) progress(c *gin.Context) {
	received, total, err := h.service.Progress(c.Param("id"))
	if err == ErrUnknownUpload {
		c.JSON(http.StatusNotFound, gin.H{"error": "unknown upload"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to read progress"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"received": received, "total": total})
}

func (h *Handler) complete(c *gin.Context) {
	url, err := h.service.Complete(c.Param("id"))
	if err == ErrUnknownUpload {
		c.JSON(http.StatusNotFound, gin.H{"error": "unknown upload"})
		return
	}
	if err == ErrIncomplete {
		c.JSON(http.StatusConflict, gin.H{"error": "upload incomplete"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to finalize upload"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"url": url})
}

func (h *Handler) abort(c *gin.Context) {
	if err := h.service.Abort(c.Param("id")); err == ErrUnknownUpload {
		c.JSON(http.StatusNotFound, gin.H{"error": "unknown upload"})
		return
	}

	c.Status(http.StatusNoContent)
}
