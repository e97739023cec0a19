package http_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/capacita-api/internal/application/access"
	"github.com/jhoicas/capacita-api/internal/domain/entity"
	"github.com/jhoicas/capacita-api/internal/domain/permission"
	"github.com/jhoicas/capacita-api/internal/infrastructure/memory"
	apphttp "github.com/jhoicas/capacita-api/internal/interfaces/http"
	pkgjwt "github.com/jhoicas/capacita-api/pkg/jwt"
)

const (
	testJWTSecret = "test-secret-key-for-unit-tests"
	testUserID    = "00000000-0000-0000-0000-000000000001"
	testCompanyID = "00000000-0000-0000-0000-000000000002"
	testIssuer    = "capacita-test"
	testExpMin    = 60
)

// buildTestApp app mínima: AuthMiddleware + RequirePermission + handler dummy.
func buildTestApp(t *testing.T, perm permission.Permission) *fiber.App {
	t.Helper()
	store := memory.NewStore()
	require.NoError(t, store.Profiles().Create(context.Background(), &entity.PermissionProfile{
		ID: "p-cupons", Name: "Cupons", Permissions: []string{string(permission.ManageCoupons)},
	}))
	app := fiber.New()
	app.Get("/protected",
		apphttp.AuthMiddleware(testJWTSecret),
		apphttp.RequirePermission(perm, access.NewResolver(store.Profiles())),
		func(c *fiber.Ctx) error {
			return c.JSON(fiber.Map{"ok": true, "role": apphttp.GetRole(c)})
		},
	)
	return app
}

func token(t *testing.T, role, profileID string) string {
	t.Helper()
	tok, err := pkgjwt.Generate(testJWTSecret, testIssuer, testExpMin, pkgjwt.Subject{
		UserID: testUserID, CompanyID: testCompanyID, Role: role, ProfileID: profileID,
	})
	require.NoError(t, err)
	return "Bearer " + tok
}

func doRequest(t *testing.T, app *fiber.App, authHeader string) *http.Response {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func TestRequirePermission_AdminAccede(t *testing.T) {
	resp := doRequest(t, buildTestApp(t, permission.ManageUsers), token(t, "admin", ""))
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var body map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, true, body["ok"])
	assert.Equal(t, "admin", body["role"])
}

func TestRequirePermission_AlunoBloqueado(t *testing.T) {
	resp := doRequest(t, buildTestApp(t, permission.ManageUsers), token(t, "aluno", ""))
	defer resp.Body.Close()

	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	body, _ := io.ReadAll(resp.Body)
	assert.Contains(t, string(body), "FORBIDDEN")
	assert.Contains(t, string(body), "manage:users")
}

func TestRequirePermission_PerfilDinamico(t *testing.T) {
	app := buildTestApp(t, permission.ManageCoupons)

	resp := doRequest(t, app, token(t, "empresa", "p-cupons"))
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	// Perfil inexistente: sin permisos aunque el rol sea admin.
	resp = doRequest(t, app, token(t, "admin", "p-borrado"))
	resp.Body.Close()
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}

type brokenChecker struct{}

func (brokenChecker) HasPermission(context.Context, access.Subject, permission.Permission) (bool, error) {
	return false, errors.New("db caída")
}

func TestRequirePermission_FalloDelChecker503(t *testing.T) {
	app := fiber.New()
	app.Get("/protected", apphttp.AuthMiddleware(testJWTSecret),
		apphttp.RequirePermission(permission.ViewCourses, brokenChecker{}),
		func(c *fiber.Ctx) error { return c.SendStatus(fiber.StatusOK) })

	resp := doRequest(t, app, token(t, "aluno", ""))
	defer resp.Body.Close()
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
}

func TestAuthMiddleware_TokenSinRol_Retorna401(t *testing.T) {
	resp := doRequest(t, buildTestApp(t, permission.ViewCourses), token(t, "", ""))
	defer resp.Body.Close()

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	body, _ := io.ReadAll(resp.Body)
	assert.Contains(t, string(body), "MISSING_ROLE")
}

func TestAuthMiddleware_SinHeaderOTokenInvalido(t *testing.T) {
	app := buildTestApp(t, permission.ViewCourses)
	for _, h := range []string{"", "Bearer token.invalido.aqui", "Basic abc", "Bearer "} {
		resp := doRequest(t, app, h)
		resp.Body.Close()
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode, "header %q", h)
	}
}

func TestAuthMiddleware_ExtraeClaims(t *testing.T) {
	app := fiber.New()
	app.Get("/me", apphttp.AuthMiddleware(testJWTSecret), func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"user_id":    apphttp.GetUserID(c),
			"company_id": apphttp.GetCompanyID(c),
			"role":       apphttp.GetRole(c),
			"profile_id": apphttp.GetProfileID(c),
		})
	})

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", token(t, "empresa", "p-1"))
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)
	var body map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, testUserID, body["user_id"])
	assert.Equal(t, testCompanyID, body["company_id"])
	assert.Equal(t, "empresa", body["role"])
	assert.Equal(t, "p-1", body["profile_id"])
}

func TestAuthMiddleware_TokenExpirado(t *testing.T) {
	tok, err := pkgjwt.Generate(testJWTSecret, testIssuer, -1, pkgjwt.Subject{UserID: testUserID, Role: "admin"})
	require.NoError(t, err)

	resp := doRequest(t, buildTestApp(t, permission.ViewCourses), "Bearer "+tok)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}
