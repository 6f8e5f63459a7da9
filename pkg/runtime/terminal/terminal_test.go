package terminal

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/de-tools/seo-atlas/pkg/models/domain"
	"github.com/de-tools/seo-atlas/pkg/runtime/terminal/commands"
	"github.com/de-tools/seo-atlas/pkg/services/config"
	"github.com/de-tools/seo-atlas/pkg/services/content"
	contentstore "github.com/de-tools/seo-atlas/pkg/store/duckdb/content"
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

type fakeBackend struct {
	imported string
	closed   bool
}

func (f *fakeBackend) ImportCorpus(_ context.Context, path string) (contentstore.ImportStats, error) {
	f.imported = path
	return contentstore.ImportStats{Documents: 2, Images: 1, Meta: 1}, nil
}

func (f *fakeBackend) StartScheduler(context.Context) error {
	return nil
}

func (f *fakeBackend) Close() error {
	f.closed = true
	return nil
}

func runCLI(t *testing.T, ops *mockOperations, args ...string) (string, *fakeBackend, error) {
	t.Helper()
	t.Chdir(t.TempDir())

	backend := &fakeBackend{}
	var out bytes.Buffer
	cli := NewCLI(Options{
		Open: func(_ context.Context, _ config.Config) (commands.Env, io.Closer, error) {
			return commands.Env{Ops: ops, Importer: backend, Scheduler: backend}, backend, nil
		},
		Output:    &out,
		ErrOutput: io.Discard,
	})
	cli.SetArgs(args)
	err := cli.Execute(context.Background())
	return out.String(), backend, err
}

func TestCLI_AuditRun(t *testing.T) {
	ops := new(mockOperations)
	ops.On("RunAudit", mock.Anything).Return(domain.AuditRun{
		ID:        3,
		Timestamp: time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC),
		Score:     75,
		Issues: []domain.Issue{{
			Key:         domain.IssueMissingAltText,
			Severity:    domain.SeverityWarning,
			Title:       "Images missing alt text",
			AffectedIDs: []int64{10, 11},
		}},
		IssueCount: 1,
	}, nil)

	out, backend, err := runCLI(t, ops, "audit", "run")
	require.NoError(t, err)

	assert.Contains(t, out, "Audit #3 (2026-03-01 10:00:00)")
	assert.Contains(t, out, "Score: 75/100")
	assert.Contains(t, out, "Warning: 1")
	assert.Contains(t, out, "missing_alt_text")
	assert.True(t, backend.closed)
	ops.AssertExpectations(t)
}

func TestCLI_AuditRunQuotaExhausted(t *testing.T) {
	ops := new(mockOperations)
	ops.On("RunAudit", mock.Anything).
		Return(domain.AuditRun{}, fmt.Errorf("%w: free audit limit reached", domain.ErrQuotaExhausted))

	_, backend, err := runCLI(t, ops, "audit", "run")
	require.ErrorIs(t, err, domain.ErrQuotaExhausted)
	assert.True(t, backend.closed)
}

func TestCLI_AuditExport(t *testing.T) {
	ops := new(mockOperations)
	ops.On("ExportAudit", mock.Anything, int64(0)).Return("/tmp/audit-3.json", nil)
	ops.On("ExportAudit", mock.Anything, int64(3)).Return("s3://audits/audit-3.json", nil)

	out, _, err := runCLI(t, ops, "audit", "export")
	require.NoError(t, err)
	assert.Equal(t, "Audit exported to /tmp/audit-3.json\n", out)

	out, _, err = runCLI(t, ops, "audit", "export", "3")
	require.NoError(t, err)
	assert.Equal(t, "Audit exported to s3://audits/audit-3.json\n", out)

	_, _, err = runCLI(t, ops, "audit", "export", "three")
	require.Error(t, err)
}

func TestCLI_FixParsesIDs(t *testing.T) {
	ops := new(mockOperations)
	ops.On("FixIssues", mock.Anything, domain.IssueMissingMetaDescription, []int64{1, 2}).
		Return(domain.FixResult{IssueKey: domain.IssueMissingMetaDescription, Fixed: 2}, nil)

	out, _, err := runCLI(t, ops, "fix", domain.IssueMissingMetaDescription, "1", "2")
	require.NoError(t, err)
	assert.Contains(t, out, "missing_meta_description: fixed 2, failed 0")

	_, _, err = runCLI(t, ops, "fix", domain.IssueMissingMetaDescription, "-4")
	require.Error(t, err)
}

func TestCLI_JSONOutput(t *testing.T) {
	ops := new(mockOperations)
	ops.On("License", mock.Anything).Return(domain.License{Key: "ABCD-1234-EFGH-5678", Status: domain.LicenseStatusValid}, nil)

	out, _, err := runCLI(t, ops, "license", "status", "-o", "json")
	require.NoError(t, err)

	var status map[string]string
	require.NoError(t, json.Unmarshal([]byte(out), &status))
	assert.Equal(t, "pro", status["plan"])
	assert.Equal(t, "ABCD-****-****-5678", status["masked_key"])
}

func TestCLI_UnknownOutputFormat(t *testing.T) {
	_, _, err := runCLI(t, new(mockOperations), "dashboard", "-o", "xml")
	require.Error(t, err)
}

func TestCLI_ContentSave(t *testing.T) {
	ops := new(mockOperations)
	ops.On("SaveContent", mock.Anything, content.SaveRequest{DraftID: 4, Title: "Sourdough", Body: "Bake.", Status: "publish"}).
		Return(int64(42), nil)

	bodyPath := filepath.Join(t.TempDir(), "post.html")
	require.NoError(t, os.WriteFile(bodyPath, []byte("Bake."), 0o600))

	out, _, err := runCLI(t, ops, "content", "save",
		"--draft", "4", "--title", "Sourdough", "--body-file", bodyPath, "--status", "publish")
	require.NoError(t, err)
	assert.Equal(t, "Post 42 created successfully!\n", out)
}

func TestCLI_ContentGenerate(t *testing.T) {
	ops := new(mockOperations)
	ops.On("GenerateContent", mock.Anything, content.GenerateRequest{Keyword: "sourdough", Length: "short"}).
		Return(domain.ContentDraft{ID: 5, ContentType: "blog_post", Prompt: "sourdough", Body: "Bake.", Status: domain.DraftStatusDraft}, 2, nil)

	out, _, err := runCLI(t, ops, "content", "generate", "sourdough", "--length", "short")
	require.NoError(t, err)
	assert.Contains(t, out, "Draft #5 (blog_post, draft)")
	assert.Contains(t, out, "Bake.")
}

func TestCLI_Import(t *testing.T) {
	out, backend, err := runCLI(t, new(mockOperations), "import", "corpus.yaml")
	require.NoError(t, err)
	assert.Equal(t, "corpus.yaml", backend.imported)
	assert.Equal(t, "Imported 2 documents, 1 images and 1 meta fields.\n", out)
}
