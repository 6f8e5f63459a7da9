package adapters

import (
	"github.com/de-tools/seo-atlas/pkg/models/api"
	"github.com/de-tools/seo-atlas/pkg/models/domain"
	"github.com/de-tools/seo-atlas/pkg/models/store"
)

func MapStoreWorkflowToDomain(w *store.Workflow) *domain.Workflow {
	if w == nil {
		return nil
	}

	return &domain.Workflow{
		Name:      w.Name,
		Status:    domain.WorkflowStatus(w.Status),
		CreatedAt: w.CreatedAt,
		LastRunAt: w.LastRunAt,
		Error:     w.Error,
	}
}

func MapDomainWorkflowToStore(dw *domain.Workflow) *store.Workflow {
	return &store.Workflow{
		Name:      dw.Name,
		Status:    string(dw.Status),
		CreatedAt: dw.CreatedAt,
		LastRunAt: dw.LastRunAt,
		Error:     dw.Error,
	}
}

func MapDomainWorkflowToApi(w domain.Workflow) api.Workflow {
	return api.Workflow{
		Name:      w.Name,
		Status:    string(w.Status),
		LastRunAt: w.LastRunAt,
		Error:     w.Error,
	}
}
