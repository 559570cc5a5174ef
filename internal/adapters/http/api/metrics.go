package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"mime"
	"net/http"
	"strings"

	"github.com/signalcraft/signalcraft/internal/domain/model"
	"github.com/signalcraft/signalcraft/pkg/logger"
	"github.com/signalcraft/signalcraft/pkg/metrics"
)

// maxMetricsBodyBytes caps the POST /dashboard/metrics body.
const maxMetricsBodyBytes = 1 << 20

// MetricsDependencies accepts dashboard metrics requests.
type MetricsDependencies interface {
	SubmitMetrics(ctx context.Context, req model.MetricsRequest) model.MetricsAck
}

// MetricsHandler handles POST /dashboard/metrics.
type MetricsHandler struct {
	deps      MetricsDependencies
	validator *bodyValidator
	logger    logger.Logger
}

// NewMetricsHandler creates a new metrics handler.
func NewMetricsHandler(deps MetricsDependencies, l logger.Logger) *MetricsHandler {
	return &MetricsHandler{
		deps:      deps,
		validator: mustBodyValidator(metricsRequestSchema),
		logger:    l,
	}
}

// HandlePostMetrics type-checks the body and always acknowledges a valid one
// with {"status":"ok","data":{}}.
func (h *MetricsHandler) HandlePostMetrics(w http.ResponseWriter, r *http.Request) {
	const op = "api.post_metrics"

	if !jsonContentType(r.Header.Get("Content-Type")) {
		h.reject(w, r, op, []FieldError{{Field: "(root)", Message: "request body must be application/json"}})
		return
	}

	var doc any
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxMetricsBodyBytes))
	err := dec.Decode(&doc)
	if errors.Is(err, io.EOF) {
		h.reject(w, r, op, []FieldError{{Field: "(root)", Message: "request body is required"}})
		return
	}
	if err == nil {
		err = expectEOF(dec)
	}
	if err != nil {
		metrics.RecordValidationFailure("dashboard_metrics")
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}

	fieldErrs, err := h.validator.validate(doc)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", WrapKind(op, ErrInternal, err))
		return
	}
	if len(fieldErrs) > 0 {
		h.reject(w, r, op, fieldErrs)
		return
	}

	// The schema guarantees an object with a string business_id.
	body, _ := doc.(map[string]any)
	businessID, _ := body["business_id"].(string)

	writeJSON(w, http.StatusOK, h.deps.SubmitMetrics(r.Context(), model.MetricsRequest{BusinessID: businessID}))
}

// errTrailingData reports bytes after the first JSON value.
var errTrailingData = errors.New("unexpected data after JSON value")

// expectEOF succeeds only if nothing but whitespace follows the decoded value.
func expectEOF(dec *json.Decoder) error {
	var extra json.RawMessage
	switch err := dec.Decode(&extra); {
	case errors.Is(err, io.EOF):
		return nil
	case err != nil:
		return err
	default:
		return errTrailingData
	}
}

// jsonContentType accepts an absent Content-Type, application/json and any
// +json media type.
func jsonContentType(v string) bool {
	if strings.TrimSpace(v) == "" {
		return true
	}
	mt, _, err := mime.ParseMediaType(v)
	if err != nil {
		return false
	}
	return mt == "application/json" || (strings.HasPrefix(mt, "application/") && strings.HasSuffix(mt, "+json"))
}

func (h *MetricsHandler) reject(w http.ResponseWriter, r *http.Request, op string, fieldErrs []FieldError) {
	metrics.RecordValidationFailure("dashboard_metrics")
	h.logger.Debug(r.Context(), "metrics request rejected", logger.Int("violations", len(fieldErrs)))
	writeError(w, http.StatusUnprocessableEntity, "validation_failed", NewKind(op, ErrValidation), fieldErrs...)
}
