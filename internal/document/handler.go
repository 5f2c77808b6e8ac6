package document

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"document-storage-server/internal/apperr"
	"document-storage-server/internal/metrics"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	service  Service
	sessions *SessionManager
}

func NewHandler(service Service, sessions *SessionManager) *Handler {
	return &Handler{service: service, sessions: sessions}
}

// FileOperations is the single entry point for the file manager action
// protocol. Domain outcomes (including copy conflicts) answer 200 with the
// envelope; only protocol failures surface as HTTP errors.
func (h *Handler) FileOperations(c *gin.Context) {
	var req ActionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(apperr.NewValidationError(err))
		return
	}

	action := strings.ToLower(req.Action)
	resp, err := h.service.Dispatch(c.Request.Context(), req)
	if err != nil {
		metrics.FileManagerActions.WithLabelValues(action, "error").Inc()
		c.Error(err)
		return
	}

	outcome := "ok"
	if resp.Error != nil {
		outcome = "rejected"
	}
	metrics.FileManagerActions.WithLabelValues(action, outcome).Inc()

	c.JSON(http.StatusOK, resp)
}

// GetContent streams a document's raw bytes for the editor to load.
func (h *Handler) GetContent(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.Error(apperr.BadRequest("Invalid document id", err))
		return
	}

	doc, err := h.service.Fetch(c.Request.Context(), id)
	if err != nil {
		c.Error(err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("inline; filename=%q", doc.Name))
	c.Data(http.StatusOK, contentTypeFor(doc.Name), doc.Content)
}

type SaveRequest struct {
	FileName      string `json:"fileName" binding:"required"`
	Base64Content string `json:"base64Content" binding:"required"`
}

// Save upserts a document from base64-encoded editor content.
func (h *Handler) Save(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.Error(apperr.BadRequest("Invalid document id", err))
		return
	}

	var req SaveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(apperr.NewValidationError(err))
		return
	}

	content, err := base64.StdEncoding.DecodeString(req.Base64Content)
	if err != nil {
		c.Error(apperr.BadRequest("Invalid document content", err))
		return
	}

	if err := h.service.Save(c.Request.Context(), id, req.FileName, content); err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Document saved."})
}

// Autosave buffers editor content into the caller's editing session; the
// session timer flushes it on its own schedule.
func (h *Handler) Autosave(c *gin.Context) {
	sessionID := c.GetHeader("X-Session-Id")
	if sessionID == "" {
		c.Error(apperr.BadRequest("X-Session-Id header is required", nil))
		return
	}

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.Error(apperr.BadRequest("Invalid document id", err))
		return
	}

	var req SaveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(apperr.NewValidationError(err))
		return
	}

	content, err := base64.StdEncoding.DecodeString(req.Base64Content)
	if err != nil {
		c.Error(apperr.BadRequest("Invalid document content", err))
		return
	}

	h.sessions.Buffer(sessionID, id, req.FileName, content)
	c.Status(http.StatusAccepted)
}

// CloseSession ends an editing session and stops its autosave timer.
func (h *Handler) CloseSession(c *gin.Context) {
	h.sessions.Close(c.Param("sessionId"))
	c.Status(http.StatusNoContent)
}

type ExistenceRequest struct {
	FileName string `json:"fileName" binding:"required"`
}

// CheckExistence reports whether a document with the exact name exists. The
// UI calls this before permitting a new document under the name.
func (h *Handler) CheckExistence(c *gin.Context) {
	var req ExistenceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(apperr.BadRequest("fileName not provided", err))
		return
	}

	exists, err := h.service.Exists(c.Request.Context(), req.FileName)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"exists": exists})
}

// Download serves one document raw or several as a zip archive. The widget
// posts the action payload form-encoded under downloadInput.
func (h *Handler) Download(c *gin.Context) {
	raw := c.PostForm("downloadInput")
	if strings.TrimSpace(raw) == "" {
		c.Error(apperr.BadRequest("Missing download input", nil))
		return
	}

	var req ActionRequest
	if err := json.Unmarshal([]byte(raw), &req); err != nil {
		c.Error(apperr.BadRequest("Malformed download input", err))
		return
	}

	payload, err := h.service.Download(c.Request.Context(), req.Data)
	if err != nil {
		c.Error(err)
		return
	}

	metrics.DownloadBytes.Add(float64(len(payload.Data)))

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", payload.FileName))
	c.Data(http.StatusOK, payload.ContentType, payload.Data)
}
