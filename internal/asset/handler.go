package asset

import (
	"net/http"
	"strconv"

	"github.com/adelie22/Artivora/internal/middleware"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	store *Store
}

func NewHandler(store *Store) *Handler {
	return &Handler{store: store}
}

// RegisterRoutes wires the catalog. Listing is public; mutations sit
// behind the admin gate the caller passes in.
func (h *Handler) RegisterRoutes(r *gin.Engine, admin *gin.RouterGroup) {
	r.GET("/assets", h.list)
	admin.POST("/assets", h.create)
	admin.DELETE("/assets/:id", h.remove)
}

func (h *Handler) list(c *gin.Context) {
	limit := 0
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid limit"})
			return
		}
		limit = n
	}

	assets, err := h.store.List(c.Request.Context(), limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list assets"})
		return
	}

	if assets == nil {
		assets = []Asset{}
	}
	c.JSON(http.StatusOK, gin.H{"assets": assets})
}

type createRequest struct {
	Title        string `json:"title"`
	Price        int    `json:"price"`
	FileURL      string `json:"fileUrl"`
	ThumbnailURL string `json:"thumbnailUrl"`
}

func (h *Handler) create(c *gin.Context) {
	var req createRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	if req.Title == "" || req.FileURL == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "title and fileUrl are required"})
		return
	}
	if req.Price < 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "price must not be negative"})
		return
	}

	creatorUID, _ := middleware.UserIDFromContext(c.Request.Context())

	created, err := h.store.Create(c.Request.Context(), Asset{
		Title:        req.Title,
		Price:        req.Price,
		FileURL:      req.FileURL,
		ThumbnailURL: req.ThumbnailURL,
		CreatorUID:   creatorUID,
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create asset"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"asset": created})
}

func (h *Handler) remove(c *gin.Context) {
	err := h.store.Delete(c.Request.Context(), c.Param("id"))
	if err == ErrNotFound {
		c.JSON(http.StatusNotFound, gin.H{"error": "asset not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to delete asset"})
		return
	}

	c.Status(http.StatusNoContent)
}
