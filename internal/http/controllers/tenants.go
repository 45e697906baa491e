package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/dropDatabas3/agencyhub/internal/domain/repository"
	httperrors "github.com/dropDatabas3/agencyhub/internal/http/errors"
	"github.com/dropDatabas3/agencyhub/internal/http/helpers"
)

// TenantReader resuelve un tenant por ID.
type TenantReader interface {
	GetByID(ctx context.Context, tenantID string) (*repository.Tenant, error)
}

type TenantsController struct {
	tenants TenantReader
}

func NewTenantsController(tenants TenantReader) *TenantsController {
	return &TenantsController{tenants: tenants}
}

type tenantResponse struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Slug      string `json:"slug"`
	Plan      string `json:"plan"`
	CreatedAt string `json:"createdAt"`
}

// Get: GET /v1/tenants/{tenantID}. La ownership ya la validó el middleware Require.
func (c *TenantsController) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "tenantID")
	t, err := c.tenants.GetByID(r.Context(), id)
	if err != nil {
		logFailure(r, "tenants.get", err)
		httperrors.WriteError(w, err)
		return
	}
	helpers.WriteJSON(w, http.StatusOK, tenantResponse{
		ID:        t.ID,
		Name:      t.Name,
		Slug:      t.Slug,
		Plan:      t.Plan,
		CreatedAt: t.CreatedAt.UTC().Format(time.RFC3339),
	})
}
