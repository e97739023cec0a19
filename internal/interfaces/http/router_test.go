package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/capacita-api/internal/application/access"
	"github.com/jhoicas/capacita-api/internal/application/auth"
	"github.com/jhoicas/capacita-api/internal/application/certificate"
	"github.com/jhoicas/capacita-api/internal/application/dto"
	"github.com/jhoicas/capacita-api/internal/application/promotion"
	"github.com/jhoicas/capacita-api/internal/domain/entity"
	"github.com/jhoicas/capacita-api/internal/infrastructure/memory"
	apphttp "github.com/jhoicas/capacita-api/internal/interfaces/http"
)

type stubPDF struct{}

func (stubPDF) GenerateCertificatePDF(context.Context, *entity.Certificate, string, string) ([]byte, error) {
	return []byte("%PDF-1.4 stub"), nil
}

type apiFixture struct {
	app   *fiber.App
	store *memory.Store
}

func newAPI(t *testing.T, rateLimit int) apiFixture {
	t.Helper()
	store := memory.NewStore()
	resolver := access.NewResolver(store.Profiles())
	app := fiber.New()
	apphttp.Router(app, apphttp.RouterDeps{
		AuthUC:          auth.NewAuthUseCase(store.Users(), resolver, auth.JWTConfig{Secret: testJWTSecret, ExpMinutes: testExpMin, Issuer: testIssuer}),
		CouponEngine:    promotion.NewCouponEngine(store.Coupons(), store, nil),
		CouponAdminUC:   promotion.NewCouponAdminUseCase(store.Coupons(), store.Redemptions()),
		Resolver:        resolver,
		ProfileUC:       access.NewProfileUseCase(store.Profiles(), store.InternalUsers()),
		InternalUserUC:  access.NewInternalUserUseCase(store.InternalUsers(), store.Profiles()),
		CertificateUC:   certificate.NewUseCase(stubPDF{}, "https://capacita.example/certificados", "Capacita", nil),
		JWTSecret:       testJWTSecret,
		CouponRateLimit: rateLimit,
	})
	return apiFixture{app: app, store: store}
}

func (f apiFixture) call(t *testing.T, method, path, auth string, body any) *http.Response {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if auth != "" {
		req.Header.Set("Authorization", auth)
	}
	resp, err := f.app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	defer resp.Body.Close()
	var out T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return out
}

func day(offset int) string { return time.Now().AddDate(0, 0, offset).Format("2006-01-02") }

func welcome20() dto.CreateCouponRequest {
	return dto.CreateCouponRequest{
		Code: "welcome20", Type: "individual", DiscountType: "percentage",
		DiscountValue: decimal.NewFromInt(20), MaxUses: 2,
		ValidFrom: day(-1), ValidUntil: day(30),
	}
}

func TestCoupons_FlujoCompleto(t *testing.T) {
	api := newAPI(t, 0)
	admin, aluno := token(t, "admin", ""), token(t, "aluno", "")

	resp := api.call(t, http.MethodPost, "/api/coupons", aluno, welcome20())
	resp.Body.Close()
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp = api.call(t, http.MethodPost, "/api/coupons", admin, welcome20())
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	created := decode[dto.CouponResponse](t, resp)
	assert.Equal(t, "WELCOME20", created.Code)

	cart := dto.ValidateCouponRequest{Code: "WELCOME20", CourseIDs: []string{"nr-35"}, TotalAmount: decimal.NewFromInt(200)}
	resp = api.call(t, http.MethodPost, "/api/coupons/validate", aluno, cart)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	val := decode[dto.CouponValidationResponse](t, resp)
	assert.True(t, val.IsValid)
	assert.True(t, decimal.NewFromInt(40).Equal(val.AppliedDiscount))

	apply := dto.ApplyCouponRequest{ValidateCouponRequest: cart, OrderID: "pedido-1"}
	resp = api.call(t, http.MethodPost, "/api/coupons/apply", aluno, apply)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	applied := decode[dto.ApplyCouponResponse](t, resp)
	assert.True(t, applied.Success)
	require.NotNil(t, applied.NewTotal)
	assert.True(t, decimal.NewFromInt(160).Equal(*applied.NewTotal))

	resp = api.call(t, http.MethodPost, "/api/coupons/apply", aluno, apply)
	resp.Body.Close()
	assert.Equal(t, http.StatusConflict, resp.StatusCode, "misma orden dos veces")

	resp = api.call(t, http.MethodGet, "/api/coupons/"+created.ID+"/redemptions", admin, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	reds := decode[[]dto.RedemptionResponse](t, resp)
	require.Len(t, reds, 1)
	assert.Equal(t, testUserID, reds[0].UserID, "el usuario sale del token")

	resp = api.call(t, http.MethodDelete, "/api/coupons/"+created.ID, admin, nil)
	resp.Body.Close()
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	resp = api.call(t, http.MethodGet, "/api/coupons/"+created.ID, admin, nil)
	resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestCoupons_CuponInvalidoNoEsErrorHTTP(t *testing.T) {
	api := newAPI(t, 0)
	resp := api.call(t, http.MethodPost, "/api/coupons/validate", token(t, "aluno", ""), dto.ValidateCouponRequest{
		Code: "NOPE", CourseIDs: []string{"nr-10"}, TotalAmount: decimal.NewFromInt(100),
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	val := decode[dto.CouponValidationResponse](t, resp)
	assert.False(t, val.IsValid)
	assert.Equal(t, "Cupom não encontrado", val.Message)
}

func TestCoupons_ValidacionDeEntrada(t *testing.T) {
	api := newAPI(t, 0)
	resp := api.call(t, http.MethodPost, "/api/coupons/validate", token(t, "aluno", ""), dto.ValidateCouponRequest{
		Code: "X", TotalAmount: decimal.NewFromInt(100),
	})
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	errBody := decode[dto.ErrorResponse](t, resp)
	assert.Equal(t, "VALIDATION", errBody.Code)
	assert.Contains(t, errBody.Message, "course_ids")

	resp = api.call(t, http.MethodPost, "/api/coupons", token(t, "admin", ""), dto.CreateCouponRequest{
		Code: "X", Type: "vip", DiscountType: "fixed", DiscountValue: decimal.NewFromInt(10),
		MaxUses: 1, ValidFrom: day(0), ValidUntil: day(1),
	})
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	errBody = decode[dto.ErrorResponse](t, resp)
	assert.Contains(t, errBody.Message, "type")
}

func TestCoupons_CuponDeEmpresa(t *testing.T) {
	api := newAPI(t, 0)
	admin := token(t, "admin", "")
	req := welcome20()
	req.Code, req.Type, req.CompanyID = "ACME10", "company", testCompanyID
	resp := api.call(t, http.MethodPost, "/api/coupons", admin, req)
	resp.Body.Close()
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	empresa := token(t, "empresa", "")
	resp = api.call(t, http.MethodGet, "/api/coupons/company/"+testCompanyID, empresa, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "ACME10", decode[dto.CouponResponse](t, resp).Code)

	resp = api.call(t, http.MethodGet, "/api/coupons/company/otra-empresa", empresa, nil)
	resp.Body.Close()
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp = api.call(t, http.MethodGet, "/api/coupons/company/otra-empresa", admin, nil)
	resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestCoupons_LimiteDeTasa(t *testing.T) {
	api := newAPI(t, 2)
	aluno := token(t, "aluno", "")
	cart := dto.ValidateCouponRequest{Code: "X", CourseIDs: []string{"c"}, TotalAmount: decimal.NewFromInt(1)}
	for i := 0; i < 2; i++ {
		resp := api.call(t, http.MethodPost, "/api/coupons/validate", aluno, cart)
		resp.Body.Close()
		require.Equal(t, http.StatusOK, resp.StatusCode)
	}
	resp := api.call(t, http.MethodPost, "/api/coupons/validate", aluno, cart)
	resp.Body.Close()
	assert.Equal(t, http.StatusTooManyRequests, resp.StatusCode)
}

func TestProfilesYUsuariosInternos(t *testing.T) {
	api := newAPI(t, 0)
	admin := token(t, "admin", "")

	resp := api.call(t, http.MethodPost, "/api/permission-profiles", admin, dto.CreateProfileRequest{
		Name: "Gestor de filial", Permissions: []string{"manage:employees", "view:reports"},
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	profile := decode[dto.ProfileResponse](t, resp)

	resp = api.call(t, http.MethodPost, "/api/internal-users", admin, dto.SaveInternalUserRequest{
		Name: "Rui", Email: "rui@acme.example", ProfileID: profile.ID,
	})
	require.Equal(t, http.StatusBadRequest, resp.StatusCode, "sin acceso total ni filiales")
	resp.Body.Close()

	resp = api.call(t, http.MethodPost, "/api/internal-users", admin, dto.SaveInternalUserRequest{
		Name: "Rui", Email: "rui@acme.example", ProfileID: profile.ID, AccessibleBranches: []string{""},
	})
	require.Equal(t, http.StatusBadRequest, resp.StatusCode, "filial en blanco")
	blank := decode[dto.ErrorResponse](t, resp)
	assert.Equal(t, "VALIDATION", blank.Code)
	assert.Contains(t, blank.Message, "accessible_branches")

	resp = api.call(t, http.MethodPost, "/api/internal-users", admin, dto.SaveInternalUserRequest{
		Name: "Rui", Email: "rui@acme.example", ProfileID: profile.ID, AccessibleBranches: []string{"sp-centro"},
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	user := decode[dto.InternalUserResponse](t, resp)
	assert.Equal(t, testCompanyID, user.CompanyID)

	resp = api.call(t, http.MethodGet, "/api/internal-users/"+user.ID+"/branches", admin, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	scope := decode[map[string]any](t, resp)
	assert.Equal(t, false, scope["all"])
	assert.Equal(t, []any{"sp-centro"}, scope["branches"])

	resp = api.call(t, http.MethodGet, "/api/internal-users?limit=500", admin, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	list := decode[dto.InternalUserListResponse](t, resp)
	assert.Len(t, list.Items, 1)
	assert.Equal(t, 100, list.Page.Limit)

	resp = api.call(t, http.MethodDelete, "/api/permission-profiles/"+profile.ID, admin, nil)
	require.Equal(t, http.StatusConflict, resp.StatusCode)
	resp.Body.Close()

	// El perfil concede sus permisos a quien lo lleva en el token.
	gestor := token(t, "empresa", profile.ID)
	resp = api.call(t, http.MethodGet, "/api/permissions/check?permission=view:reports", gestor, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.True(t, decode[dto.PermissionCheckResponse](t, resp).Allowed)

	resp = api.call(t, http.MethodGet, "/api/permissions/check?permission=purchase:courses", gestor, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.False(t, decode[dto.PermissionCheckResponse](t, resp).Allowed)

	resp = api.call(t, http.MethodGet, "/api/internal-users", gestor, nil)
	resp.Body.Close()
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}

func TestErrores_MensajesEnPortugues(t *testing.T) {
	api := newAPI(t, 0)
	admin, aluno := token(t, "admin", ""), token(t, "aluno", "")

	req := httptest.NewRequest(http.MethodPost, "/api/coupons/validate", bytes.NewBufferString("{no es json"))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", aluno)
	resp, err := api.app.Test(req, -1)
	require.NoError(t, err)
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, dto.ErrorResponse{Code: "INVALID_BODY", Message: "corpo da requisição inválido"}, decode[dto.ErrorResponse](t, resp))

	resp = api.call(t, http.MethodPost, "/api/coupons/validate", aluno, dto.ValidateCouponRequest{Code: "X", TotalAmount: decimal.NewFromInt(1)})
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	msg := decode[dto.ErrorResponse](t, resp).Message
	assert.Contains(t, msg, "course_ids")
	assert.NotContains(t, msg, "required", "mensajes del validador traducidos")

	resp = api.call(t, http.MethodPost, "/api/coupons", aluno, welcome20())
	require.Equal(t, http.StatusForbidden, resp.StatusCode)
	assert.Equal(t, "permissão necessária: manage:coupons", decode[dto.ErrorResponse](t, resp).Message)

	bad := welcome20()
	bad.DiscountValue = decimal.NewFromInt(150)
	resp = api.call(t, http.MethodPost, "/api/coupons", admin, bad)
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "discount_value percentual deve estar entre 0 e 100", decode[dto.ErrorResponse](t, resp).Message)

	resp = api.call(t, http.MethodGet, "/api/coupons/no-existe", admin, nil)
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "recurso não encontrado", decode[dto.ErrorResponse](t, resp).Message)

	resp = api.call(t, http.MethodGet, "/api/coupons/company/"+testCompanyID, token(t, "empresa", ""), nil)
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "a empresa não possui cupom vigente", decode[dto.ErrorResponse](t, resp).Message)
}

func TestCertificates(t *testing.T) {
	api := newAPI(t, 0)
	in := dto.CertificateRequest{StudentName: "Ana Souza", CourseTitle: "NR-35 Trabalho em Altura", WorkloadHours: 8}

	resp := api.call(t, http.MethodPost, "/api/certificates", token(t, "aluno", ""), in)
	resp.Body.Close()
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp = api.call(t, http.MethodPost, "/api/certificates", token(t, "instrutor", ""), in)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/pdf", resp.Header.Get("Content-Type"))
	assert.Contains(t, resp.Header.Get("Content-Disposition"), "certificado_ana-souza_")
	assert.NotEmpty(t, resp.Header.Get(apphttp.HeaderCertificateCode))
}

func TestAuth_RegistroYLogin(t *testing.T) {
	api := newAPI(t, 0)
	resp := api.call(t, http.MethodPost, "/api/auth/register", "", dto.RegisterRequest{Email: "ana@example.com", Password: "senha-forte"})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	resp.Body.Close()

	resp = api.call(t, http.MethodPost, "/api/auth/register", "", dto.RegisterRequest{Email: "ana@example.com", Password: "senha-forte"})
	resp.Body.Close()
	assert.Equal(t, http.StatusConflict, resp.StatusCode)

	resp = api.call(t, http.MethodPost, "/api/auth/register", "", dto.RegisterRequest{Email: "root@example.com", Password: "senha-forte", Role: "admin"})
	resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = api.call(t, http.MethodPost, "/api/auth/login", "", dto.LoginRequest{Email: "ana@example.com", Password: "errada"})
	resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp = api.call(t, http.MethodPost, "/api/auth/login", "", dto.LoginRequest{Email: "ana@example.com", Password: "senha-forte"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	out := decode[dto.LoginResponse](t, resp)

	resp = api.call(t, http.MethodGet, "/api/permissions/me", "Bearer "+out.Token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, decode[[]string](t, resp), "purchase:courses")
}

func TestHealth(t *testing.T) {
	api := newAPI(t, 0)
	resp := api.call(t, http.MethodGet, "/health", "", nil)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "ok", decode[map[string]string](t, resp)["status"])
}
