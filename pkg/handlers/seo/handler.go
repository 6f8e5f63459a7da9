package seo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/de-tools/seo-atlas/pkg/adapters"
	"github.com/de-tools/seo-atlas/pkg/models/api"
	"github.com/de-tools/seo-atlas/pkg/models/domain"
	"github.com/de-tools/seo-atlas/pkg/services/content"
	"github.com/de-tools/seo-atlas/pkg/services/license"
	"github.com/de-tools/seo-atlas/pkg/services/operations"
)

const defaultListLimit = 20

// WorkflowLister exposes scheduler state. It is optional.
type WorkflowLister interface {
	List(ctx context.Context) ([]domain.Workflow, error)
}

type Handler struct {
	ops       operations.Service
	workflows WorkflowLister
}

func NewHandler(ops operations.Service, workflows WorkflowLister) *Handler {
	return &Handler{ops: ops, workflows: workflows}
}

// Routes mounts the API on r.
func (h *Handler) Routes(r chi.Router) {
	r.Get("/dashboard", h.GetDashboard)
	r.Get("/activity", h.ListActivity)

	r.Post("/audits", h.RunAudit)
	r.Get("/audits", h.ListAudits)
	r.Get("/audits/{id}", h.GetAudit)
	r.Post("/audits/{id}/export", h.ExportAudit)

	r.Post("/fixes", h.FixIssues)

	r.Post("/content", h.GenerateContent)
	r.Get("/content", h.ListDrafts)
	r.Post("/content/save", h.SaveContent)

	r.Get("/license", h.GetLicense)
	r.Post("/license", h.ActivateLicense)
	r.Delete("/license", h.DeactivateLicense)

	r.Get("/workflows", h.ListWorkflows)
}

func (h *Handler) GetDashboard(w http.ResponseWriter, r *http.Request) {
	summary, err := h.ops.Summary(r.Context())
	if err != nil {
		fail(w, r, err, "")
		return
	}
	ok(w, r, adapters.MapDashboardSummaryDomainToApi(summary))
}

func (h *Handler) ListActivity(w http.ResponseWriter, r *http.Request) {
	limit, err := queryLimit(r, 10)
	if err != nil {
		badRequest(w, r, err.Error())
		return
	}
	feed, err := h.ops.Activity(r.Context(), limit)
	if err != nil {
		fail(w, r, err, "")
		return
	}
	res := make([]api.Activity, 0, len(feed))
	for _, a := range feed {
		res = append(res, adapters.MapActivityDomainToApi(a))
	}
	ok(w, r, res)
}

func (h *Handler) RunAudit(w http.ResponseWriter, r *http.Request) {
	run, err := h.ops.RunAudit(r.Context())
	if err != nil {
		msg := ""
		if errors.Is(err, domain.ErrQuotaExhausted) {
			msg = "Free audit limit reached. Upgrade to PRO for unlimited audits."
		}
		fail(w, r, err, msg)
		return
	}
	ok(w, r, adapters.MapAuditRunDomainToApi(run))
}

func (h *Handler) ListAudits(w http.ResponseWriter, r *http.Request) {
	limit, err := queryLimit(r, defaultListLimit)
	if err != nil {
		badRequest(w, r, err.Error())
		return
	}
	runs, err := h.ops.ListAudits(r.Context(), limit)
	if err != nil {
		fail(w, r, err, "")
		return
	}
	res := make([]api.AuditRun, 0, len(runs))
	for _, run := range runs {
		res = append(res, adapters.MapAuditRunDomainToApi(run))
	}
	ok(w, r, res)
}

func (h *Handler) GetAudit(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		badRequest(w, r, "invalid audit id")
		return
	}
	run, err := h.ops.GetAudit(r.Context(), id)
	if err != nil {
		fail(w, r, err, "")
		return
	}
	ok(w, r, adapters.MapAuditRunDomainToApi(run))
}

// ExportAudit accepts a numeric id or "latest".
func (h *Handler) ExportAudit(w http.ResponseWriter, r *http.Request) {
	var id int64
	if param := chi.URLParam(r, "id"); param != "latest" {
		var err error
		if id, err = strconv.ParseInt(param, 10, 64); err != nil || id <= 0 {
			badRequest(w, r, "invalid audit id")
			return
		}
	}
	loc, err := h.ops.ExportAudit(r.Context(), id)
	if err != nil {
		fail(w, r, err, "")
		return
	}
	ok(w, r, api.ExportResult{Location: loc})
}

func (h *Handler) FixIssues(w http.ResponseWriter, r *http.Request) {
	var req api.FixRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		badRequest(w, r, "invalid request body")
		return
	}

	res, err := h.ops.FixIssues(r.Context(), req.IssueType, req.IDs)
	if err != nil {
		msg := ""
		if errors.Is(err, domain.ErrNotEntitled) {
			msg = "Auto-fix is a PRO feature."
		}
		fail(w, r, err, msg)
		return
	}
	ok(w, r, adapters.MapFixResultDomainToApi(res, fmt.Sprintf("Fixed %d issues.", res.Fixed)))
}

func (h *Handler) GenerateContent(w http.ResponseWriter, r *http.Request) {
	var req api.GenerateContentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		badRequest(w, r, "invalid request body")
		return
	}

	draft, remaining, err := h.ops.GenerateContent(r.Context(), content.GenerateRequest{
		Keyword:     req.Keyword,
		ContentType: req.ContentType,
		Length:      req.Length,
		Tone:        req.Tone,
		Language:    req.Language,
	})
	if err != nil {
		msg := ""
		switch {
		case errors.Is(err, domain.ErrQuotaExhausted):
			msg = "Free content limit reached. Upgrade to PRO for unlimited content."
		case errors.Is(err, domain.ErrValidation):
			msg = "Please enter a keyword or topic."
		}
		fail(w, r, err, msg)
		return
	}

	writeJSON(w, r, http.StatusOK, api.Response{
		Success:   true,
		Data:      api.GeneratedContent{Draft: adapters.MapContentDraftDomainToApi(draft), Remaining: remaining},
		Remaining: &remaining,
	})
}

func (h *Handler) ListDrafts(w http.ResponseWriter, r *http.Request) {
	limit, err := queryLimit(r, defaultListLimit)
	if err != nil {
		badRequest(w, r, err.Error())
		return
	}
	drafts, err := h.ops.ListDrafts(r.Context(), limit)
	if err != nil {
		fail(w, r, err, "")
		return
	}
	res := make([]api.ContentDraft, 0, len(drafts))
	for _, d := range drafts {
		res = append(res, adapters.MapContentDraftDomainToApi(d))
	}
	ok(w, r, res)
}

func (h *Handler) SaveContent(w http.ResponseWriter, r *http.Request) {
	var req api.SaveDraftRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		badRequest(w, r, "invalid request body")
		return
	}

	id, err := h.ops.SaveContent(r.Context(), content.SaveRequest{
		DraftID: req.DraftID,
		Title:   req.Title,
		Body:    req.Content,
		Status:  req.Status,
	})
	if err != nil {
		fail(w, r, err, "")
		return
	}
	ok(w, r, api.SavedDocument{DocumentID: id, Message: "Post created successfully!"})
}

func (h *Handler) GetLicense(w http.ResponseWriter, r *http.Request) {
	l, err := h.ops.License(r.Context())
	if err != nil {
		fail(w, r, err, "")
		return
	}
	ok(w, r, licenseStatus(l, ""))
}

func (h *Handler) ActivateLicense(w http.ResponseWriter, r *http.Request) {
	var req api.LicenseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		badRequest(w, r, "invalid request body")
		return
	}

	l, err := h.ops.ActivateLicense(r.Context(), req.LicenseKey)
	if err != nil {
		msg := ""
		if errors.Is(err, domain.ErrValidation) {
			msg = "Invalid license key format."
			if strings.TrimSpace(req.LicenseKey) == "" {
				msg = "Please enter a license key."
			}
		}
		fail(w, r, err, msg)
		return
	}
	ok(w, r, licenseStatus(l, "License activated successfully!"))
}

func (h *Handler) DeactivateLicense(w http.ResponseWriter, r *http.Request) {
	l, err := h.ops.DeactivateLicense(r.Context())
	if err != nil {
		fail(w, r, err, "")
		return
	}
	ok(w, r, licenseStatus(l, "License deactivated."))
}

func (h *Handler) ListWorkflows(w http.ResponseWriter, r *http.Request) {
	if h.workflows == nil {
		ok(w, r, []api.Workflow{})
		return
	}
	workflows, err := h.workflows.List(r.Context())
	if err != nil {
		fail(w, r, err, "")
		return
	}
	res := make([]api.Workflow, 0, len(workflows))
	for _, wf := range workflows {
		res = append(res, adapters.MapDomainWorkflowToApi(wf))
	}
	ok(w, r, res)
}

func licenseStatus(l domain.License, message string) api.LicenseStatus {
	return api.LicenseStatus{
		Plan:      license.Plan(l),
		MaskedKey: license.MaskKey(l.Key),
		Message:   message,
	}
}

func queryLimit(r *http.Request, def int) (int, error) {
	raw := r.URL.Query().Get("limit")
	if raw == "" {
		return def, nil
	}
	limit, err := strconv.Atoi(raw)
	if err != nil || limit <= 0 {
		return 0, fmt.Errorf("invalid limit %q", raw)
	}
	return limit, nil
}
