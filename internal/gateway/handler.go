package gateway

import (
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/af-corp/bfhl-service/internal/filter"
	"github.com/af-corp/bfhl-service/internal/httputil"
	"github.com/af-corp/bfhl-service/internal/telemetry"
	"github.com/af-corp/bfhl-service/internal/types"
)

// Handler holds dependencies for the bfhl HTTP handlers.
type Handler struct {
	officialEmail string
	maxBodyBytes  int64
	dispatcher    *Dispatcher
	filterChain   *filter.Chain
	metrics       *telemetry.Metrics
	logger        *slog.Logger
}

// Options configures a Handler. FilterChain and Metrics are optional.
type Options struct {
	OfficialEmail string
	MaxBodyBytes  int64
	Dispatcher    *Dispatcher
	FilterChain   *filter.Chain
	Metrics       *telemetry.Metrics
	Logger        *slog.Logger
}

func NewHandler(opts Options) *Handler {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{
		officialEmail: opts.OfficialEmail,
		maxBodyBytes:  opts.MaxBodyBytes,
		dispatcher:    opts.Dispatcher,
		filterChain:   opts.FilterChain,
		metrics:       opts.Metrics,
		logger:        logger,
	}
}

// Health handles GET /health
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	httputil.WriteJSON(w, httputil.RequestIDFromContext(r.Context()), http.StatusOK, types.Health(h.officialEmail))
}

// BFHL handles POST /bfhl
func (h *Handler) BFHL(w http.ResponseWriter, r *http.Request) {
	reqID := httputil.RequestIDFromContext(r.Context())
	receivedAt := time.Now()

	body := r.Body
	if h.maxBodyBytes > 0 {
		body = http.MaxBytesReader(w, r.Body, h.maxBodyBytes)
	}
	raw, err := io.ReadAll(body)
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			h.fail(w, r, "", receivedAt, http.StatusBadRequest, "request body too large", err)
			return
		}
		h.fail(w, r, "", receivedAt, http.StatusBadRequest, "failed to read request body", err)
		return
	}

	req, err := types.ParseRequest(raw)
	if err != nil {
		h.fail(w, r, "", receivedAt, http.StatusBadRequest, "invalid request", err)
		return
	}
	op := req.Operation()

	if h.filterChain != nil {
		results, blocked := h.filterChain.Run(r.Context(), req)
		if blocked != nil {
			if h.metrics != nil {
				h.metrics.RecordFilterAction(blocked.FilterName, string(blocked.Action))
			}
			h.finish(w, r, op, receivedAt, http.StatusBadRequest, types.Failure(),
				slog.String("blocked_by", blocked.FilterName),
				slog.Int("detections", blocked.Detections),
				slog.Float64("score", blocked.Score),
				slog.String("reason", blocked.Message),
			)
			return
		}
		for _, fr := range results {
			if fr.Action == filter.ActionFlag {
				if h.metrics != nil {
					h.metrics.RecordFilterAction(fr.FilterName, string(fr.Action))
				}
				h.logger.Info("request flagged by filter",
					"request_id", reqID,
					"filter", fr.FilterName,
					"score", fr.Score,
				)
			}
		}
	}

	data, err := h.dispatcher.Execute(r.Context(), req)
	if err != nil {
		h.fail(w, r, op, receivedAt, http.StatusInternalServerError, "operation failed", err)
		return
	}

	h.finish(w, r, op, receivedAt, http.StatusOK, types.Success(h.officialEmail, data))
}

// fail responds with the bare failure envelope. err is only logged.
func (h *Handler) fail(w http.ResponseWriter, r *http.Request, op types.Operation, receivedAt time.Time, status int, msg string, err error) {
	h.finish(w, r, op, receivedAt, status, types.Failure(), slog.String("reason", msg), slog.Any("error", err))
}

func (h *Handler) finish(w http.ResponseWriter, r *http.Request, op types.Operation, receivedAt time.Time, status int, envelope types.Envelope, attrs ...slog.Attr) {
	reqID := httputil.RequestIDFromContext(r.Context())
	duration := time.Since(receivedAt)

	level := slog.LevelInfo
	switch {
	case status >= http.StatusInternalServerError:
		level = slog.LevelError
	case status >= http.StatusBadRequest:
		level = slog.LevelWarn
	}
	attrs = append([]slog.Attr{
		slog.String("request_id", reqID),
		slog.String("operation", op.Label()),
		slog.Int("status_code", status),
		slog.Int64("duration_ms", duration.Milliseconds()),
	}, attrs...)
	h.logger.LogAttrs(r.Context(), level, "request completed", attrs...)

	if h.metrics != nil {
		h.metrics.RecordRequest(telemetry.RequestLabels{
			Operation:  op.Label(),
			Status:     strconv.Itoa(status),
			DurationMs: float64(duration.Milliseconds()),
		})
	}

	httputil.WriteJSON(w, reqID, status, envelope)
}
