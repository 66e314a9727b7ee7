package server

import (
	"context"
	"net/http"
	"reflect"
	"strings"

	"github.com/go-chi/render"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/matzehuels/slidechart/pkg/buildinfo"
	"github.com/matzehuels/slidechart/pkg/chart"
	"github.com/matzehuels/slidechart/pkg/errors"
	"github.com/matzehuels/slidechart/pkg/pipeline"
	"github.com/matzehuels/slidechart/pkg/tabular"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// Report JSON field names in validation errors.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

func (s *Server) requestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(RequestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set(RequestIDHeader, id)
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), requestIDKey, id)))
	})
}

// =============================================================================
// Requests and Responses
// =============================================================================

// AnalysisRequest is the body of POST /api/analyses.
type AnalysisRequest struct {
	Kind    string           `json:"kind" validate:"required"`
	Options pipeline.Options `json:"options"`
	Columns []string         `json:"columns" validate:"required,min=1,dive,required"`
	Rows    [][]any          `json:"rows" validate:"required,min=1"`
}

// Bind implements render.Binder.
func (a *AnalysisRequest) Bind(*http.Request) error {
	if err := validate.Struct(a); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidInput, err, "invalid request")
	}
	kind, err := pipeline.ParseKind(a.Kind)
	if err != nil {
		return err
	}
	a.Options.Kind = kind
	return nil
}

// AnalysisResponse is the body returned for a successful analysis.
type AnalysisResponse struct {
	RequestID string          `json:"request_id"`
	Kind      pipeline.Kind   `json:"kind"`
	Figure    *chart.Figure   `json:"figure"`
	Table     tabular.Records `json:"table"`
	Stats     StatsResponse   `json:"stats"`
}

// StatsResponse reports execution statistics.
type StatsResponse struct {
	Rows       int     `json:"rows"`
	Bars       int     `json:"bars"`
	DurationMS float64 `json:"duration_ms"`
}

// Render implements render.Renderer.
func (*AnalysisResponse) Render(http.ResponseWriter, *http.Request) error { return nil }

// ErrResponse is the body of every error response.
type ErrResponse struct {
	Status    int    `json:"-"`
	Code      string `json:"code"`
	Message   string `json:"message"`
	RequestID string `json:"request_id,omitempty"`
}

// Render implements render.Renderer.
func (e *ErrResponse) Render(_ http.ResponseWriter, r *http.Request) error {
	render.Status(r, e.Status)
	return nil
}

func errResponse(r *http.Request, err error) *ErrResponse {
	code := errors.GetCode(err)
	if code == "" {
		code = errors.ErrCodeInternal
	}
	return &ErrResponse{
		Status:    errors.HTTPStatus(err),
		Code:      string(code),
		Message:   errors.UserMessage(err),
		RequestID: RequestIDFromContext(r.Context()),
	}
}

// =============================================================================
// Handlers
// =============================================================================

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, map[string]string{"status": "ok", "version": buildinfo.Version})
}

func (s *Server) kinds(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, map[string][]pipeline.Kind{"kinds": pipeline.Kinds()})
}

func (s *Server) analyze(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.Server.MaxBodyBytes)

	req := &AnalysisRequest{}
	if err := render.Bind(r, req); err != nil {
		if errors.GetCode(err) == "" {
			err = errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode request body")
		}
		_ = render.Render(w, r, errResponse(r, err))
		return
	}

	t, err := tabular.FromRecords(req.Columns, req.Rows)
	if err != nil {
		_ = render.Render(w, r, errResponse(r, err))
		return
	}

	opts := req.Options
	s.cfg.Apply(&opts)
	res, err := s.runner.Execute(r.Context(), t, opts)
	if err != nil {
		_ = render.Render(w, r, errResponse(r, err))
		return
	}

	_ = render.Render(w, r, &AnalysisResponse{
		RequestID: RequestIDFromContext(r.Context()),
		Kind:      res.Kind,
		Figure:    res.Figure,
		Table:     tabular.ToRecords(res.Table),
		Stats: StatsResponse{
			Rows:       res.Stats.Rows,
			Bars:       res.Stats.Bars,
			DurationMS: float64(res.Stats.Duration.Microseconds()) / 1000,
		},
	})
}
