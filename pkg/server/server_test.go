package server

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/de-tools/seo-atlas/pkg/metrics"
	"github.com/de-tools/seo-atlas/pkg/models/api"
	"github.com/de-tools/seo-atlas/pkg/models/domain"
	"github.com/de-tools/seo-atlas/pkg/server/middleware"
	"github.com/de-tools/seo-atlas/pkg/services/content"
)

type mockOperations struct {
	mock.Mock
}

func (m *mockOperations) RunAudit(ctx context.Context) (domain.AuditRun, error) {
	args := m.Called(ctx)
	return args.Get(0).(domain.AuditRun), args.Error(1)
}

func (m *mockOperations) ScheduledAudit(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

func (m *mockOperations) GetAudit(ctx context.Context, id int64) (domain.AuditRun, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(domain.AuditRun), args.Error(1)
}

func (m *mockOperations) ListAudits(ctx context.Context, limit int) ([]domain.AuditRun, error) {
	args := m.Called(ctx, limit)
	return args.Get(0).([]domain.AuditRun), args.Error(1)
}

func (m *mockOperations) ExportAudit(ctx context.Context, id int64) (string, error) {
	args := m.Called(ctx, id)
	return args.String(0), args.Error(1)
}

func (m *mockOperations) FixIssues(ctx context.Context, issueKey string, ids []int64) (domain.FixResult, error) {
	args := m.Called(ctx, issueKey, ids)
	return args.Get(0).(domain.FixResult), args.Error(1)
}

func (m *mockOperations) GenerateContent(
	ctx context.Context,
	req content.GenerateRequest,
) (domain.ContentDraft, int, error) {
	args := m.Called(ctx, req)
	return args.Get(0).(domain.ContentDraft), args.Int(1), args.Error(2)
}

func (m *mockOperations) SaveContent(ctx context.Context, req content.SaveRequest) (int64, error) {
	args := m.Called(ctx, req)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockOperations) ListDrafts(ctx context.Context, limit int) ([]domain.ContentDraft, error) {
	args := m.Called(ctx, limit)
	return args.Get(0).([]domain.ContentDraft), args.Error(1)
}

func (m *mockOperations) ActivateLicense(ctx context.Context, key string) (domain.License, error) {
	args := m.Called(ctx, key)
	return args.Get(0).(domain.License), args.Error(1)
}

func (m *mockOperations) DeactivateLicense(ctx context.Context) (domain.License, error) {
	args := m.Called(ctx)
	return args.Get(0).(domain.License), args.Error(1)
}

func (m *mockOperations) License(ctx context.Context) (domain.License, error) {
	args := m.Called(ctx)
	return args.Get(0).(domain.License), args.Error(1)
}

func (m *mockOperations) Summary(ctx context.Context) (domain.DashboardSummary, error) {
	args := m.Called(ctx)
	return args.Get(0).(domain.DashboardSummary), args.Error(1)
}

func (m *mockOperations) Activity(ctx context.Context, limit int) ([]domain.Activity, error) {
	args := m.Called(ctx, limit)
	return args.Get(0).([]domain.Activity), args.Error(1)
}

func newTestServer(t *testing.T, ops *mockOperations, m *metrics.Metrics) *httptest.Server {
	logger := zerolog.New(zerolog.NewTestWriter(t))
	webAPI := NewWebAPI(logger, Config{
		Addr:            ":0",
		ShutdownTimeout: time.Second,
		Dependencies: Dependencies{
			Operations: ops,
			Metrics:    m,
		},
	})
	srv := httptest.NewServer(webAPI.Handler())
	t.Cleanup(srv.Close)
	return srv
}

func TestWebAPI_Endpoints(t *testing.T) {
	lastAudit := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

	tests := []struct {
		name           string
		method         string
		path           string
		setupMocks     func(*mockOperations)
		expectedStatus int
		expected       interface{}
		parseResponse  func([]byte) (interface{}, error)
	}{
		{
			name:   "Dashboard",
			method: http.MethodGet,
			path:   "/api/v1/dashboard",
			setupMocks: func(ops *mockOperations) {
				ops.On("Summary", mock.Anything).Return(domain.DashboardSummary{
					Score:          85,
					ScoreLabel:     "Good",
					IssueCount:     3,
					LastAuditTime:  &lastAudit,
					DocumentCounts: domain.DocumentCounts{Posts: 4, Pages: 2},
					TechnicalFlags: domain.TechnicalFlags{HasSSL: true, HasSitemap: true},
					QuotaRemaining: domain.QuotaRemaining{Audit: 2, Content: 3},
				}, nil)
			},
			expectedStatus: http.StatusOK,
			expected: api.DashboardStats{
				Score:       85,
				ScoreLabel:  "Good",
				Issues:      3,
				LastAudit:   &lastAudit,
				TotalPosts:  4,
				TotalPages:  2,
				HasSitemap:  true,
				HasSSL:      true,
				FreeAudits:  2,
				FreeContent: 3,
			},
			parseResponse: unmarshalData[api.DashboardStats](),
		},
		{
			name:   "ListDrafts",
			method: http.MethodGet,
			path:   "/api/v1/content?limit=1",
			setupMocks: func(ops *mockOperations) {
				ops.On("ListDrafts", mock.Anything, 1).Return([]domain.ContentDraft{{
					ID:          5,
					ContentType: "blog_post",
					Prompt:      "sourdough",
					Body:        "Bake.",
					CreatedAt:   lastAudit,
					Status:      domain.DraftStatusDraft,
				}}, nil)
			},
			expectedStatus: http.StatusOK,
			expected: []api.ContentDraft{{
				ID:          5,
				ContentType: "blog_post",
				Prompt:      "sourdough",
				Content:     "Bake.",
				CreatedAt:   lastAudit,
				Status:      "draft",
			}},
			parseResponse: unmarshalData[[]api.ContentDraft](),
		},
		{
			name:   "License",
			method: http.MethodGet,
			path:   "/api/v1/license",
			setupMocks: func(ops *mockOperations) {
				ops.On("License", mock.Anything).Return(domain.License{Status: domain.LicenseStatusFree}, nil)
			},
			expectedStatus: http.StatusOK,
			expected:       api.LicenseStatus{Plan: "free"},
			parseResponse:  unmarshalData[api.LicenseStatus](),
		},
		{
			name:           "UnknownRoute",
			method:         http.MethodGet,
			path:           "/api/v1/workspaces",
			setupMocks:     func(*mockOperations) {},
			expectedStatus: http.StatusNotFound,
			expected:       "404 page not found\n",
			parseResponse: func(data []byte) (interface{}, error) {
				return string(data), nil
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ops := new(mockOperations)
			tt.setupMocks(ops)
			srv := newTestServer(t, ops, nil)

			req, err := http.NewRequest(tt.method, srv.URL+tt.path, nil)
			require.NoError(t, err)
			resp, err := http.DefaultClient.Do(req)
			require.NoError(t, err)
			defer resp.Body.Close()

			assert.Equal(t, tt.expectedStatus, resp.StatusCode)

			body, err := io.ReadAll(resp.Body)
			require.NoError(t, err)

			actual, err := tt.parseResponse(body)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, actual)

			ops.AssertExpectations(t)
		})
	}
}

func TestWebAPI_RequestID(t *testing.T) {
	srv := newTestServer(t, new(mockOperations), nil)

	resp, err := http.Get(srv.URL + "/healthz")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.NotEmpty(t, resp.Header.Get(middleware.RequestIDHeader))

	req, err := http.NewRequest(http.MethodGet, srv.URL+"/healthz", nil)
	require.NoError(t, err)
	req.Header.Set(middleware.RequestIDHeader, "req-123")
	resp, err = http.DefaultClient.Do(req)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, "req-123", resp.Header.Get(middleware.RequestIDHeader))
}

func TestWebAPI_Metrics(t *testing.T) {
	m := metrics.New()
	m.ObserveFix(domain.IssueMissingAltText, 2, 1)
	srv := newTestServer(t, new(mockOperations), m)

	resp, err := http.Get(srv.URL + "/metrics")
	require.NoError(t, err)
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), "seo_atlas_")
}

func TestWebAPI_MetricsDisabled(t *testing.T) {
	srv := newTestServer(t, new(mockOperations), nil)

	resp, err := http.Get(srv.URL + "/metrics")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestWebAPI_StartStopsOnContextCancel(t *testing.T) {
	logger := zerolog.New(zerolog.NewTestWriter(t))
	webAPI := NewWebAPI(logger, Config{
		Addr:            "127.0.0.1:0",
		ShutdownTimeout: time.Second,
		Dependencies:    Dependencies{Operations: new(mockOperations)},
	})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- webAPI.Start(ctx)
	}()

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop")
	}
}

func unmarshalData[T any]() func([]byte) (interface{}, error) {
	return func(data []byte) (interface{}, error) {
		var response struct {
			Data T `json:"data"`
		}
		err := json.Unmarshal(data, &response)
		return response.Data, err
	}
}
