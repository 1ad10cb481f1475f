package http

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/GoSim-25-26J-441/code-commenter/internal/code_commenting/domain"
	"github.com/GoSim-25-26J-441/code-commenter/internal/code_commenting/service"
	"github.com/gin-gonic/gin"
)

// StreamStatusTrailer carries the final run state after the plain-text body.
const StreamStatusTrailer = "X-Stream-Status"

type Handler struct {
	svc         *service.CommentService
	errorMarker string
}

// New builds the handler. errorMarker, when non-empty, is appended to a
// plain-text response whose generation failed after output had started.
func New(svc *service.CommentService, errorMarker string) *Handler {
	return &Handler{svc: svc, errorMarker: errorMarker}
}

func (h *Handler) Register(rg gin.IRouter) {
	rg.POST("/add-comments", h.addComments)
	rg.POST("/add-comments/events", h.addCommentsEvents)
}

type addCommentsRequest struct {
	Code *string `json:"code"`
}

func bindSubmission(c *gin.Context) (domain.CodeSubmission, error) {
	var req addCommentsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		return domain.CodeSubmission{}, fmt.Errorf("invalid request body: %w", err)
	}
	if req.Code == nil {
		return domain.CodeSubmission{}, domain.ErrMissingCode
	}
	return domain.CodeSubmission{Code: *req.Code}, nil
}

// start validates the body, opens a run and waits for its first fragment.
// It writes the error response itself and returns ok=false when the request
// cannot be streamed.
func (h *Handler) start(c *gin.Context) (run *service.Run, first domain.Fragment, more bool, ok bool) {
	sub, err := bindSubmission(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": err.Error()})
		return nil, "", false, false
	}

	run, err = h.svc.Start(c.Request.Context(), sub)
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"ok": false, "error": err.Error()})
		return nil, "", false, false
	}

	first, more = run.Next()
	if !more {
		switch run.State() {
		case domain.StateFailed:
			c.JSON(http.StatusBadGateway, gin.H{"ok": false, "error": run.Err().Error()})
			run.Close()
			return nil, "", false, false
		case domain.StateCancelled:
			// client is gone; nothing to answer
			run.Close()
			return nil, "", false, false
		}
	}
	return run, first, more, true
}

func (h *Handler) addComments(c *gin.Context) {
	logger := service.NewLogger(c.Request.Context())

	run, frag, more, ok := h.start(c)
	if !ok {
		return
	}
	defer run.Close()

	c.Header("Content-Type", "text/plain; charset=utf-8")
	c.Header("Cache-Control", "no-cache")
	c.Header("X-Accel-Buffering", "no")
	c.Header("Trailer", StreamStatusTrailer)
	c.Status(http.StatusOK)
	c.Writer.WriteHeaderNow()
	c.Writer.Flush()

	for more {
		if _, err := c.Writer.WriteString(string(frag)); err != nil {
			logger.LogWarnf("add_comments", "run_id=%s client write failed: %v", run.ID, err)
			run.Close()
			break
		}
		c.Writer.Flush()
		frag, more = run.Next()
	}

	if run.State() == domain.StateFailed && h.errorMarker != "" {
		_, _ = c.Writer.WriteString(h.errorMarker)
		c.Writer.Flush()
	}
	c.Writer.Header().Set(StreamStatusTrailer, string(run.State()))
}

func (h *Handler) addCommentsEvents(c *gin.Context) {
	logger := service.NewLogger(c.Request.Context())

	run, frag, more, ok := h.start(c)
	if !ok {
		return
	}
	defer run.Close()

	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Header("X-Accel-Buffering", "no")
	c.Status(http.StatusOK)

	if err := writeEvent(c, logger, "start", gin.H{"run_id": run.ID, "style": h.svc.Style()}); err != nil {
		return
	}

	for more {
		if err := writeEvent(c, logger, "delta", string(frag)); err != nil {
			return
		}
		frag, more = run.Next()
	}

	switch run.State() {
	case domain.StateCompleted:
		_ = writeEvent(c, logger, "done", gin.H{"ok": true, "fragments": run.Fragments()})
	case domain.StateFailed:
		_ = writeEvent(c, logger, "error", gin.H{"ok": false, "error": run.Err().Error(), "fragments": run.Fragments()})
	}
}

// writeEvent sends one SSE event, logging a failed write.
func writeEvent(c *gin.Context, logger *service.Logger, event string, payload any) error {
	data, err := json.Marshal(payload)
	if err != nil {
		logger.LogError("write_event", fmt.Errorf("event=%s: %w", event, err))
		return err
	}
	if _, err := fmt.Fprintf(c.Writer, "event: %s\ndata: %s\n\n", event, data); err != nil {
		logger.LogWarnf("write_event", "event=%s client write failed: %v", event, err)
		return err
	}
	c.Writer.Flush()
	return nil
}
