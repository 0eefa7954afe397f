package middleware

import (
	"context"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pagereach/pagereach/models"
	"github.com/pagereach/pagereach/utils"
)

// stubWorkspaceRepo serves a fixed workspace from ByID
type stubWorkspaceRepo struct {
	workspace *models.Workspace
	err       error
}

func (r *stubWorkspaceRepo) ByID(ctx context.Context, id uint) (*models.Workspace, error) {
	return r.workspace, r.err
}

func (r *stubWorkspaceRepo) ByFilter(ctx context.Context, filter models.WorkspaceFilter, orderBy string, limit, offset int) ([]*models.Workspace, error) {
	return nil, nil
}

func (r *stubWorkspaceRepo) Save(ctx context.Context, entity *models.Workspace) error { return nil }

func (r *stubWorkspaceRepo) SaveBatch(ctx context.Context, entities []*models.Workspace) error {
	return nil
}

func (r *stubWorkspaceRepo) Count(ctx context.Context, filter models.WorkspaceFilter) (int64, error) {
	return 0, nil
}

func (r *stubWorkspaceRepo) Exists(ctx context.Context, filter models.WorkspaceFilter) (bool, error) {
	return false, nil
}

func (r *stubWorkspaceRepo) ByEmail(ctx context.Context, email string) (*models.Workspace, error) {
	return nil, nil
}

func (r *stubWorkspaceRepo) ByUUID(ctx context.Context, uuid string) (*models.Workspace, error) {
	return nil, nil
}

func (r *stubWorkspaceRepo) Update(ctx context.Context, workspace models.Workspace) error {
	return nil
}

func newAdminTestApp(repo *stubWorkspaceRepo, workspaceID uint) *fiber.App {
	m := NewAuthMiddleware(nil, repo)
	app := fiber.New()
	app.Get("/admin/ping",
		func(c fiber.Ctx) error {
			// stands in for Authenticate, which stores the workspace ID
			if workspaceID != 0 {
				c.Locals("workspace_id", workspaceID)
			}
			return c.Next()
		},
		m.RequireAdmin(),
		func(c fiber.Ctx) error { return c.SendString("pong") },
	)
	return app
}

func adminWorkspace(isAdmin *bool) *models.Workspace {
	return &models.Workspace{
		ID:        1,
		Name:      "Acme",
		Email:     "ops@acme.test",
		IsAdmin:   isAdmin,
		CreatedAt: time.Now().UTC(),
	}
}

func TestRequireAdmin_AllowsAdminWorkspace(t *testing.T) {
	repo := &stubWorkspaceRepo{workspace: adminWorkspace(utils.ToPtr(true))}
	app := newAdminTestApp(repo, 1)

	resp, err := app.Test(httptest.NewRequest("GET", "/admin/ping", nil))
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestRequireAdmin_RejectsNonAdminWorkspace(t *testing.T) {
	cases := []struct {
		name    string
		isAdmin *bool
	}{
		{"ExplicitlyFalse", utils.ToPtr(false)},
		{"Unset", nil},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			repo := &stubWorkspaceRepo{workspace: adminWorkspace(tc.isAdmin)}
			app := newAdminTestApp(repo, 1)

			resp, err := app.Test(httptest.NewRequest("GET", "/admin/ping", nil))
			require.NoError(t, err)
			defer resp.Body.Close()

			assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)
		})
	}
}

func TestRequireAdmin_RequiresAuthenticatedWorkspace(t *testing.T) {
	repo := &stubWorkspaceRepo{workspace: adminWorkspace(utils.ToPtr(true))}
	app := newAdminTestApp(repo, 0)

	resp, err := app.Test(httptest.NewRequest("GET", "/admin/ping", nil))
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestRequireAdmin_UnknownWorkspace(t *testing.T) {
	repo := &stubWorkspaceRepo{workspace: nil}
	app := newAdminTestApp(repo, 7)

	resp, err := app.Test(httptest.NewRequest("GET", "/admin/ping", nil))
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}
