package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/capacita-api/internal/application/dto"
	"github.com/jhoicas/capacita-api/internal/application/promotion"
	"github.com/jhoicas/capacita-api/internal/domain/permission"
)

// CouponHandler expone el motor de cupones y su administración.
type CouponHandler struct {
	engine  *promotion.CouponEngine
	admin   *promotion.CouponAdminUseCase
	checker permissionChecker
}

// NewCouponHandler construye el handler.
func NewCouponHandler(engine *promotion.CouponEngine, admin *promotion.CouponAdminUseCase, checker permissionChecker) *CouponHandler {
	return &CouponHandler{engine: engine, admin: admin, checker: checker}
}

// Validate godoc
// @Summary      Validar cupón contra un carrito
// @Description  Un cupón rechazado responde 200 con is_valid=false y el motivo.
// @Tags         coupons
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.ValidateCouponRequest  true  "código, usuario, cursos y total"
// @Success      200   {object}  dto.CouponValidationResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/coupons/validate [post]
func (h *CouponHandler) Validate(c *fiber.Ctx) error {
	var in dto.ValidateCouponRequest
	if ok, err := bindJSON(c, &in); !ok {
		return err
	}
	in.UserID, in.CompanyID = GetUserID(c), GetCompanyID(c)
	out, err := h.engine.Validate(c.UserContext(), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Apply godoc
// @Summary      Aplicar (redimir) cupón en una orden
// @Tags         coupons
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.ApplyCouponRequest  true  "carrito + order_id"
// @Success      200   {object}  dto.ApplyCouponResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/coupons/apply [post]
func (h *CouponHandler) Apply(c *fiber.Ctx) error {
	var in dto.ApplyCouponRequest
	if ok, err := bindJSON(c, &in); !ok {
		return err
	}
	in.UserID, in.CompanyID = GetUserID(c), GetCompanyID(c)
	out, err := h.engine.Apply(c.UserContext(), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// CompanyCoupon godoc
// @Summary      Cupón vigente de una empresa
// @Tags         coupons
// @Security     Bearer
// @Produce      json
// @Param        companyId  path  string  true  "ID de la empresa"
// @Success      200  {object}  dto.CouponResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/coupons/company/{companyId} [get]
func (h *CouponHandler) CompanyCoupon(c *fiber.Ctx) error {
	companyID := c.Params("companyId")
	// Otra empresa solo la consulta quien administra cupones.
	if companyID != GetCompanyID(c) {
		ok, err := h.checker.HasPermission(c.UserContext(), subject(c), permission.ManageCoupons)
		if err != nil {
			return writeError(c, err)
		}
		if !ok {
			return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{Code: "FORBIDDEN", Message: "só é possível consultar o cupom da sua empresa"})
		}
	}
	out, err := h.engine.CheckCompanyCoupon(c.UserContext(), companyID)
	if err != nil {
		return writeError(c, err)
	}
	if out == nil {
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "a empresa não possui cupom vigente"})
	}
	return c.JSON(out)
}

// List godoc
// @Summary      Listar cupones
// @Tags         coupons
// @Security     Bearer
// @Produce      json
// @Success      200  {array}  dto.CouponResponse
// @Router       /api/coupons [get]
func (h *CouponHandler) List(c *fiber.Ctx) error {
	out, err := h.admin.List(c.UserContext())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// GetByID godoc
// @Summary      Obtener cupón
// @Tags         coupons
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del cupón"
// @Success      200  {object}  dto.CouponResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/coupons/{id} [get]
func (h *CouponHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.admin.GetByID(c.UserContext(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Create godoc
// @Summary      Crear cupón
// @Tags         coupons
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateCouponRequest  true  "Definición del cupón"
// @Success      201   {object}  dto.CouponResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/coupons [post]
func (h *CouponHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateCouponRequest
	if ok, err := bindJSON(c, &in); !ok {
		return err
	}
	out, err := h.admin.Create(c.UserContext(), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// Update godoc
// @Summary      Actualizar cupón (parcial)
// @Tags         coupons
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                   true  "ID del cupón"
// @Param        body  body  dto.UpdateCouponRequest  true  "Campos a modificar"
// @Success      200   {object}  dto.CouponResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/coupons/{id} [put]
func (h *CouponHandler) Update(c *fiber.Ctx) error {
	var in dto.UpdateCouponRequest
	if ok, err := bindJSON(c, &in); !ok {
		return err
	}
	out, err := h.admin.Update(c.UserContext(), c.Params("id"), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Delete godoc
// @Summary      Eliminar cupón
// @Tags         coupons
// @Security     Bearer
// @Param        id   path  string  true  "ID del cupón"
// @Success      204
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/coupons/{id} [delete]
func (h *CouponHandler) Delete(c *fiber.Ctx) error {
	if err := h.admin.Delete(c.UserContext(), c.Params("id")); err != nil {
		return writeError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// Redemptions godoc
// @Summary      Historial de aplicaciones de un cupón
// @Tags         coupons
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del cupón"
// @Success      200  {array}  dto.RedemptionResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/coupons/{id}/redemptions [get]
func (h *CouponHandler) Redemptions(c *fiber.Ctx) error {
	out, err := h.admin.Redemptions(c.UserContext(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}
