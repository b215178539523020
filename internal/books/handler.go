package books

import (
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"novelhub/internal/edit"
	"novelhub/internal/normalize"
	"novelhub/internal/notify"
	"novelhub/internal/sync"
	"novelhub/internal/validate"
	"novelhub/pkg/models"
)

// maxRawBookSize caps uploaded raw documents at 32 MiB.
const maxRawBookSize = 32 << 20

type Handler struct {
	Repo       *Repo
	Normalizer *normalize.Normalizer
	Hub        *sync.Hub
	Notify     *notify.Server
}

func NewHandler(repo *Repo, normalizer *normalize.Normalizer, hub *sync.Hub) *Handler {
	if normalizer == nil {
		normalizer = normalize.NewNormalizer(nil)
	}
	return &Handler{Repo: repo, Normalizer: normalizer, Hub: hub}
}

func (h *Handler) RegisterPublicRoutes(rg *gin.RouterGroup) {
	rg.GET("", h.list)                 // GET /books
	rg.GET("/:id", h.getByID)          // GET /books/:id
	rg.GET("/:id/report", h.getReport) // GET /books/:id/report
}

func (h *Handler) RegisterProtectedRoutes(rg *gin.RouterGroup) {
	rg.POST("/normalize", h.normalizeRaw)
	rg.PUT("/:id/chapters/:chapter_id", h.updateChapter)
	rg.POST("/:id/chapters/:chapter_id/reorder", h.reorderChapter)
	rg.POST("/:id/save", h.save)
	rg.DELETE("/:id", h.remove)
}

func (h *Handler) list(c *gin.Context) {
	q := ListQuery{
		Q:      c.Query("q"),
		Limit:  parseInt(c.Query("limit"), 20),
		Offset: parseInt(c.Query("offset"), 0),
	}
	if s := strings.TrimSpace(c.Query("passed")); s != "" {
		passed := s == "true" || s == "1"
		q.Passed = &passed
	}

	total, err := h.Repo.Count(c.Request.Context(), q)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "count failed"})
		return
	}

	items, err := h.Repo.List(c.Request.Context(), q)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "list failed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"total":  total,
		"limit":  q.Limit,
		"offset": q.Offset,
		"items":  items,
	})
}

func (h *Handler) getByID(c *gin.Context) {
	id := c.Param("id")
	book, err := h.Repo.GetDocument(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "get failed"})
		return
	}
	if book == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
		return
	}
	c.JSON(http.StatusOK, book)
}

// getReport re-validates the stored document. Reports are never
// persisted, so every call reflects the current structure.
func (h *Handler) getReport(c *gin.Context) {
	book, err := h.Repo.GetDocument(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "get failed"})
		return
	}
	if book == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
		return
	}
	c.JSON(http.StatusOK, validate.Validate(book))
}

// normalizeRaw ingests one raw book document. Data-quality problems
// still persist the book with a failing report; only input that is not
// a JSON object is rejected outright.
func (h *Handler) normalizeRaw(c *gin.Context) {
	data, err := io.ReadAll(io.LimitReader(c.Request.Body, maxRawBookSize))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "read body failed"})
		return
	}

	book, report, err := h.Normalizer.NormalizeBytes(data)
	if err != nil {
		var ive *normalize.InputValidationError
		if errors.As(err, &ive) {
			c.JSON(http.StatusBadRequest, gin.H{"error": ive.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "normalize failed"})
		return
	}

	id := IDFor(book)
	if err := h.Repo.Upsert(c.Request.Context(), id, book, report.Passed); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "save failed"})
		return
	}

	h.broadcast("book.update", id)
	if h.Notify != nil {
		go h.Notify.BroadcastBookReady(id, book.Meta.Title, report.Passed)
	}

	c.JSON(http.StatusCreated, gin.H{
		"id":     id,
		"book":   book,
		"report": report,
	})
}

type updateChapterReq struct {
	Fields edit.ChapterFields `json:"fields"`
}

func (h *Handler) updateChapter(c *gin.Context) {
	var req updateChapterReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}

	bookID := c.Param("id")
	book, err := h.Repo.GetDocument(c.Request.Context(), bookID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "get failed"})
		return
	}
	if book == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "book not found"})
		return
	}

	ch, err := edit.UpdateChapterMeta(book, c.Param("chapter_id"), req.Fields)
	if err != nil {
		var nf *edit.NotFoundError
		if errors.As(err, &nf) {
			c.JSON(http.StatusNotFound, gin.H{"error": nf.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "update failed"})
		return
	}

	if err := h.persist(c, bookID, book); err != nil {
		return
	}
	h.broadcast("book.update", bookID)
	c.JSON(http.StatusOK, ch)
}

type reorderReq struct {
	Position int `json:"position"`
}

func (h *Handler) reorderChapter(c *gin.Context) {
	var req reorderReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}

	bookID := c.Param("id")
	book, err := h.Repo.GetDocument(c.Request.Context(), bookID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "get failed"})
		return
	}
	if book == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "book not found"})
		return
	}

	if err := edit.ReorderChapter(book, c.Param("chapter_id"), req.Position); err != nil {
		var nf *edit.NotFoundError
		var re *edit.RangeError
		switch {
		case errors.As(err, &nf):
			c.JSON(http.StatusNotFound, gin.H{"error": nf.Error()})
		case errors.As(err, &re):
			c.JSON(http.StatusBadRequest, gin.H{"error": re.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "reorder failed"})
		}
		return
	}

	if err := h.persist(c, bookID, book); err != nil {
		return
	}
	h.broadcast("book.update", bookID)
	c.JSON(http.StatusOK, book)
}

type saveReq struct {
	Message string `json:"message"`
}

func (h *Handler) save(c *gin.Context) {
	var req saveReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}

	bookID := c.Param("id")
	book, err := h.Repo.GetDocument(c.Request.Context(), bookID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "get failed"})
		return
	}
	if book == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "book not found"})
		return
	}

	edit.Save(book, req.Message)
	if err := h.persist(c, bookID, book); err != nil {
		return
	}
	h.broadcast("book.update", bookID)
	c.JSON(http.StatusOK, gin.H{"status": "saved", "edit_history_len": len(book.EditHistory)})
}

func (h *Handler) remove(c *gin.Context) {
	id := c.Param("id")
	ok, err := h.Repo.Delete(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "delete failed"})
		return
	}
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
		return
	}
	h.broadcast("book.delete", id)
	c.JSON(http.StatusOK, gin.H{"message": "deleted"})
}

// persist re-validates and stores an edited document, writing an error
// response on failure.
func (h *Handler) persist(c *gin.Context, id string, book *models.Book) error {
	report := validate.Validate(book)
	if err := h.Repo.Upsert(c.Request.Context(), id, book, report.Passed); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "save failed"})
		return err
	}
	return nil
}

func (h *Handler) broadcast(eventType, bookID string) {
	if h.Hub == nil {
		return
	}
	ev := sync.BookEvent{
		Type:   eventType,
		BookID: bookID,
		At:     time.Now().UTC(),
	}
	go h.Hub.BroadcastJSON(ev)
}

func parseInt(s string, def int) int {
	if strings.TrimSpace(s) == "" {
		return def
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return n
}
