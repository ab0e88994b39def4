package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/nexconsult/justice-tools/internal/api/middleware"
	"github.com/nexconsult/justice-tools/internal/config"
	"github.com/nexconsult/justice-tools/internal/consultation"
	"github.com/nexconsult/justice-tools/internal/identifier"
	"github.com/nexconsult/justice-tools/internal/logger"
	"github.com/nexconsult/justice-tools/internal/models"
	"github.com/nexconsult/justice-tools/internal/services"
	"github.com/nexconsult/justice-tools/internal/tools"
	"github.com/nexconsult/justice-tools/internal/worker"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type mockConsultations struct {
	mock.Mock
}

func (m *mockConsultations) Consult(ctx context.Context, text string, kind identifier.Kind) (*consultation.Result, bool) {
	args := m.Called(ctx, text, kind)
	return args.Get(0).(*consultation.Result), args.Bool(1)
}

func (m *mockConsultations) Forget(ctx context.Context, value string) (bool, error) {
	args := m.Called(ctx, value)
	return args.Bool(0), args.Error(1)
}

func (m *mockConsultations) CheckAuth(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

func (m *mockConsultations) Health(ctx context.Context) map[string]interface{} {
	return map[string]interface{}{"status": "healthy"}
}

func (m *mockConsultations) Close() error {
	return nil
}

type fakeBatch struct {
	items []worker.Item
}

func (f *fakeBatch) ProcessBatch(_ context.Context, items []worker.Item) worker.BatchResponse {
	f.items = items
	results := make([]worker.JobResult, len(items))
	for i, item := range items {
		results[i] = worker.JobResult{
			JobID:  "job",
			Input:  item.Text,
			Result: consultation.NoIdentifier(item.Kind),
		}
	}
	return worker.BatchResponse{
		Results: results,
		Stats:   worker.BatchStats{Total: len(items), Errors: len(items), Duration: time.Second},
	}
}

func (f *fakeBatch) GetStats() worker.PoolStats {
	return worker.PoolStats{Workers: 2}
}

type staticHealth map[string]interface{}

func (s staticHealth) Health(context.Context) map[string]interface{} {
	return s
}

func success(tool string) *consultation.Result {
	return &consultation.Result{
		Status:  consultation.StatusSuccess,
		Tool:    tool,
		Summary: &consultation.Summary{TotalProcesses: 1},
	}
}

func do(r *gin.Engine, method, path string, body interface{}) *httptest.ResponseRecorder {
	var reader *bytes.Reader
	switch b := body.(type) {
	case nil:
		reader = bytes.NewReader(nil)
	case string:
		reader = bytes.NewReader([]byte(b))
	default:
		payload, _ := json.Marshal(b)
		reader = bytes.NewReader(payload)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v))
	return v
}

func consultationRouter(svc services.ConsultationServiceInterface, batch services.BatchServiceInterface) *gin.Engine {
	h := NewConsultationHandler(svc, batch, 3, logger.Discard())
	r := gin.New()
	r.POST("/process", h.ConsultProcess)
	r.POST("/document", h.ConsultDocument)
	r.POST("/batch", h.ConsultBatch)
	return r
}

func TestConsultationStatusMapping(t *testing.T) {
	tests := []struct {
		name   string
		result *consultation.Result
		cached bool
		status int
	}{
		{"success", success(consultation.ToolProcess), false, http.StatusOK},
		{"cached success", success(consultation.ToolProcess), true, http.StatusOK},
		{"no identifier", consultation.NoIdentifier(identifier.KindCNJ), false, http.StatusUnprocessableEntity},
		{"initiation failed", consultation.ErrorResult(consultation.ToolProcess, consultation.CodeInitiationFailed, "no job"), false, http.StatusBadGateway},
		{"consultation error", consultation.ErrorResult(consultation.ToolProcess, consultation.CodeConsultation, "down"), false, http.StatusBadGateway},
		{"unexpected", consultation.ErrorResult(consultation.ToolProcess, consultation.CodeUnexpected, "boom"), false, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(mockConsultations)
			svc.On("Consult", mock.Anything, "processo 0001234-56.2020.8.26.0100", identifier.KindCNJ).Return(tt.result, tt.cached)

			w := do(consultationRouter(svc, &fakeBatch{}), http.MethodPost, "/process",
				models.ConsultationRequest{Text: "processo 0001234-56.2020.8.26.0100"})

			assert.Equal(t, tt.status, w.Code)
			body := decode[consultation.Result](t, w)
			assert.Equal(t, tt.result.Status, body.Status)
			if tt.cached {
				assert.Equal(t, "HIT", w.Header().Get("X-Cache"))
			} else {
				assert.Equal(t, "MISS", w.Header().Get("X-Cache"))
			}
		})
	}
}

func TestConsultDocumentUsesDocumentKind(t *testing.T) {
	svc := new(mockConsultations)
	svc.On("Consult", mock.Anything, "cpf 529.982.247-25", identifier.KindDocument).
		Return(success(consultation.ToolDocument), false)

	w := do(consultationRouter(svc, &fakeBatch{}), http.MethodPost, "/document",
		models.ConsultationRequest{Text: "cpf 529.982.247-25"})

	assert.Equal(t, http.StatusOK, w.Code)
	svc.AssertExpectations(t)
}

func TestConsultationBadInput(t *testing.T) {
	svc := new(mockConsultations)
	r := consultationRouter(svc, &fakeBatch{})

	w := do(r, http.MethodPost, "/process", "{not json")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "INVALID_REQUEST", decode[models.ErrorResponse](t, w).Code)

	w = do(r, http.MethodPost, "/process", models.ConsultationRequest{Text: "   "})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	body := decode[consultation.Result](t, w)
	require.NotNil(t, body.Error)
	assert.Equal(t, consultation.CodeMissingInput, body.Error.Code)

	svc.AssertNotCalled(t, "Consult", mock.Anything, mock.Anything, mock.Anything)
}

func TestConsultBatch(t *testing.T) {
	batch := &fakeBatch{}
	r := consultationRouter(new(mockConsultations), batch)

	w := do(r, http.MethodPost, "/batch", models.BatchRequest{Items: []models.BatchItem{
		{Text: "a", Kind: "cnj"},
		{Text: "b", Kind: "document"},
	}})
	require.Equal(t, http.StatusOK, w.Code)

	body := decode[models.BatchResponse](t, w)
	assert.Equal(t, 2, body.Total)
	assert.Equal(t, 2, body.Errors)
	assert.Equal(t, int64(1000), body.DurationMs)
	require.Len(t, batch.items, 2)
	assert.Equal(t, identifier.KindCNJ, batch.items[0].Kind)
	assert.Equal(t, identifier.KindDocument, batch.items[1].Kind)
}

func TestConsultBatchRejections(t *testing.T) {
	r := consultationRouter(new(mockConsultations), &fakeBatch{})

	w := do(r, http.MethodPost, "/batch", models.BatchRequest{})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(r, http.MethodPost, "/batch", models.BatchRequest{Items: []models.BatchItem{{Text: "a", Kind: "rg"}}})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "INVALID_KIND", decode[models.ErrorResponse](t, w).Code)

	items := make([]models.BatchItem, 4)
	for i := range items {
		items[i] = models.BatchItem{Text: "x", Kind: "any"}
	}
	w = do(r, http.MethodPost, "/batch", models.BatchRequest{Items: items})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "BATCH_TOO_LARGE", decode[models.ErrorResponse](t, w).Code)
}

func identifierRouter() *gin.Engine {
	h := NewIdentifierHandler(logger.Discard())
	r := gin.New()
	r.POST("/extract", h.Extract)
	r.GET("/validate", h.Validate)
	return r
}

func TestExtract(t *testing.T) {
	r := identifierRouter()

	w := do(r, http.MethodPost, "/extract", models.ExtractRequest{
		Text: "CPF 529.982.247-25, processo 0001234-56.2020.8.26.0100",
	})
	require.Equal(t, http.StatusOK, w.Code)
	body := decode[models.ExtractResponse](t, w)
	assert.Equal(t, identifier.KindAny, body.Kind)
	require.Equal(t, 2, body.Count)
	assert.Equal(t, "529.982.247-25", body.Identifiers[0].Formatted)
	assert.Equal(t, "0001234-56.2020.8.26.0100", body.Identifiers[1].Formatted)

	w = do(r, http.MethodPost, "/extract", models.ExtractRequest{Text: "CPF 529.982.247-25", Kind: "cnj"})
	require.Equal(t, http.StatusOK, w.Code)
	body = decode[models.ExtractResponse](t, w)
	assert.Equal(t, 0, body.Count)
	assert.NotNil(t, body.Identifiers)

	w = do(r, http.MethodPost, "/extract", models.ExtractRequest{Text: "x", Kind: "passport"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestValidate(t *testing.T) {
	r := identifierRouter()

	w := do(r, http.MethodGet, "/validate?value=52998224725&kind=cpf", nil)
	require.Equal(t, http.StatusOK, w.Code)
	body := decode[models.ValidateResponse](t, w)
	assert.True(t, body.Valid)
	assert.Equal(t, "529.982.247-25", body.Normalized)

	w = do(r, http.MethodGet, "/validate?value=123-45.2023.8.26.0100&kind=cnj", nil)
	require.Equal(t, http.StatusOK, w.Code)
	body = decode[models.ValidateResponse](t, w)
	assert.True(t, body.Valid)
	assert.Equal(t, "0000123-45.2023.8.26.0100", body.Normalized)

	w = do(r, http.MethodGet, "/validate?value=123.456.789-00", nil)
	require.Equal(t, http.StatusOK, w.Code)
	body = decode[models.ValidateResponse](t, w)
	assert.False(t, body.Valid)
	assert.Empty(t, body.Normalized)

	w = do(r, http.MethodGet, "/validate", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "MISSING_VALUE", decode[models.ErrorResponse](t, w).Code)
}

func toolsRouter(svc tools.Consulter) *gin.Engine {
	h := NewToolsHandler(tools.Default(svc), logger.Discard())
	r := gin.New()
	r.GET("/tools", h.List)
	r.GET("/tools/:name", h.Get)
	r.POST("/tools/:name", h.Execute)
	return r
}

func TestToolsEndpoints(t *testing.T) {
	svc := new(mockConsultations)
	svc.On("Consult", mock.Anything, "processo 0001234-56.2020.8.26.0100", identifier.KindCNJ).
		Return(success(consultation.ToolProcess), false)
	r := toolsRouter(svc)

	w := do(r, http.MethodGet, "/tools", nil)
	require.Equal(t, http.StatusOK, w.Code)
	list := decode[models.ToolListResponse](t, w)
	require.Equal(t, 2, list.Count)
	assert.Equal(t, "consult_document", list.Tools[0].Name)
	assert.Equal(t, "consult_legal_process", list.Tools[1].Name)

	w = do(r, http.MethodGet, "/tools/consult_legal_process", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = do(r, http.MethodPost, "/tools/consult_legal_process", models.ToolExecuteRequest{
		Arguments: map[string]interface{}{tools.InputParam: "processo 0001234-56.2020.8.26.0100"},
	})
	assert.Equal(t, http.StatusOK, w.Code)

	w = do(r, http.MethodPost, "/tools/consult_legal_process", models.ToolExecuteRequest{
		Arguments: map[string]interface{}{"other": 1},
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, consultation.CodeMissingInput, decode[consultation.Result](t, w).Error.Code)

	w = do(r, http.MethodPost, "/tools/nope", models.ToolExecuteRequest{Arguments: map[string]interface{}{}})
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = do(r, http.MethodGet, "/tools/nope", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestCacheEndpoints(t *testing.T) {
	cache := services.NewCacheService(nil, time.Minute, "test:", logger.Discard())
	require.NoError(t, cache.Set(context.Background(), "k", "v"))

	svc := new(mockConsultations)
	svc.On("Forget", mock.Anything, "52998224725").Return(true, nil)
	svc.On("Forget", mock.Anything, "11222333000181").Return(false, nil)
	svc.On("Forget", mock.Anything, "garbage").Return(false, &identifier.ValidationError{Input: "garbage", Reason: "bad"})
	svc.On("Forget", mock.Anything, "52998224725000").Return(false, errors.New("redis down"))

	h := NewCacheHandler(cache, svc, logger.Discard())
	r := gin.New()
	r.GET("/cache/stats", h.GetStats)
	r.DELETE("/cache/clear", h.Clear)
	r.DELETE("/cache/:identifier", h.Delete)

	w := do(r, http.MethodGet, "/cache/stats", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"backend":"memory"`)

	assert.Equal(t, http.StatusOK, do(r, http.MethodDelete, "/cache/52998224725", nil).Code)
	assert.Equal(t, http.StatusNotFound, do(r, http.MethodDelete, "/cache/11222333000181", nil).Code)
	assert.Equal(t, http.StatusBadRequest, do(r, http.MethodDelete, "/cache/garbage", nil).Code)
	assert.Equal(t, http.StatusInternalServerError, do(r, http.MethodDelete, "/cache/52998224725000", nil).Code)

	assert.Equal(t, http.StatusOK, do(r, http.MethodDelete, "/cache/clear", nil).Code)
	exists, err := cache.Exists(context.Background(), "k")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestHealthEndpoints(t *testing.T) {
	healthy := staticHealth{
		"redis":       map[string]interface{}{"status": "disabled"},
		"cache":       map[string]interface{}{"status": "healthy"},
		"web_justice": map[string]interface{}{"status": "healthy"},
	}
	degraded := staticHealth{
		"redis":       map[string]interface{}{"status": "degraded", "error": "connection refused"},
		"web_justice": map[string]interface{}{"status": "healthy"},
	}
	down := staticHealth{
		"web_justice": map[string]interface{}{"status": "unhealthy", "error": "timeout"},
	}

	route := func(checker HealthChecker) *gin.Engine {
		h := NewHealthHandler(checker, logger.Discard())
		r := gin.New()
		r.GET("/health", h.GetHealth)
		r.GET("/health/ready", h.GetReadiness)
		r.GET("/health/live", h.GetLiveness)
		return r
	}

	w := do(route(healthy), http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "healthy", decode[models.HealthResponse](t, w).Status)

	w = do(route(degraded), http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	body := decode[models.HealthResponse](t, w)
	assert.Equal(t, "degraded", body.Status)
	assert.Equal(t, "connection refused", body.Services["redis"].Error)

	w = do(route(down), http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)

	assert.Equal(t, http.StatusOK, do(route(healthy), http.MethodGet, "/health/ready", nil).Code)
	assert.Equal(t, http.StatusServiceUnavailable, do(route(down), http.MethodGet, "/health/ready", nil).Code)
	assert.Equal(t, http.StatusOK, do(route(down), http.MethodGet, "/health/live", nil).Code)
}

func TestStats(t *testing.T) {
	cache := services.NewCacheService(nil, time.Minute, "test:", logger.Discard())
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	limiter := middleware.NewRateLimiter(ctx, config.RateLimitConfig{
		RequestsPerMinute: 60,
		BurstSize:         5,
		CleanupInterval:   time.Minute,
	})
	h := NewStatsHandler(cache, &fakeBatch{}, limiter, logger.Discard())
	r := gin.New()
	r.GET("/stats", h.GetStats)

	w := do(r, http.MethodGet, "/stats", nil)
	require.Equal(t, http.StatusOK, w.Code)
	body := decode[models.StatsResponse](t, w)
	assert.Equal(t, 2, body.Batch.Workers)
	assert.Positive(t, body.System.Goroutines)
	assert.Equal(t, true, body.Cache["enabled"])
	require.NotNil(t, body.RateLimit)
	assert.EqualValues(t, 60, body.RateLimit["requests_per_minute"])
	assert.EqualValues(t, 0, body.RateLimit["active_clients"])

	h = NewStatsHandler(cache, &fakeBatch{}, nil, logger.Discard())
	r = gin.New()
	r.GET("/stats", h.GetStats)
	w = do(r, http.MethodGet, "/stats", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Nil(t, decode[models.StatsResponse](t, w).RateLimit)
}
