package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/capacita-api/internal/application/access"
	"github.com/jhoicas/capacita-api/internal/application/dto"
)

// InternalUserHandler usuarios internos de la empresa del token.
type InternalUserHandler struct {
	uc *access.InternalUserUseCase
}

// NewInternalUserHandler construye el handler.
func NewInternalUserHandler(uc *access.InternalUserUseCase) *InternalUserHandler {
	return &InternalUserHandler{uc: uc}
}

func requireCompany(c *fiber.Ctx) (string, bool) {
	companyID := GetCompanyID(c)
	if companyID == "" {
		_ = c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "company_id obrigatório"})
		return "", false
	}
	return companyID, true
}

// List godoc
// @Summary      Listar usuarios internos
// @Tags         internal-users
// @Security     Bearer
// @Produce      json
// @Param        limit   query  int  false  "Límite"  default(20)
// @Param        offset  query  int  false  "Offset"  default(0)
// @Success      200     {object}  dto.InternalUserListResponse
// @Router       /api/internal-users [get]
func (h *InternalUserHandler) List(c *fiber.Ctx) error {
	companyID, ok := requireCompany(c)
	if !ok {
		return nil
	}
	page := dto.PageRequest{Limit: c.QueryInt("limit", 20), Offset: c.QueryInt("offset", 0)}
	out, err := h.uc.List(c.UserContext(), companyID, page)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// GetByID godoc
// @Summary      Obtener usuario interno
// @Tags         internal-users
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del usuario"
// @Success      200  {object}  dto.InternalUserResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/internal-users/{id} [get]
func (h *InternalUserHandler) GetByID(c *fiber.Ctx) error {
	companyID, ok := requireCompany(c)
	if !ok {
		return nil
	}
	out, err := h.uc.GetByID(c.UserContext(), companyID, c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Create godoc
// @Summary      Crear usuario interno
// @Description  Sin acceso total debe indicar al menos una filial.
// @Tags         internal-users
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.SaveInternalUserRequest  true  "Datos del usuario"
// @Success      201   {object}  dto.InternalUserResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/internal-users [post]
func (h *InternalUserHandler) Create(c *fiber.Ctx) error {
	companyID, ok := requireCompany(c)
	if !ok {
		return nil
	}
	var in dto.SaveInternalUserRequest
	if ok, err := bindJSON(c, &in); !ok {
		return err
	}
	out, err := h.uc.Create(c.UserContext(), companyID, in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// Update godoc
// @Summary      Reemplazar usuario interno
// @Tags         internal-users
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                       true  "ID del usuario"
// @Param        body  body  dto.SaveInternalUserRequest  true  "Datos del usuario"
// @Success      200   {object}  dto.InternalUserResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/internal-users/{id} [put]
func (h *InternalUserHandler) Update(c *fiber.Ctx) error {
	companyID, ok := requireCompany(c)
	if !ok {
		return nil
	}
	var in dto.SaveInternalUserRequest
	if ok, err := bindJSON(c, &in); !ok {
		return err
	}
	out, err := h.uc.Update(c.UserContext(), companyID, c.Params("id"), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Delete godoc
// @Summary      Eliminar usuario interno
// @Tags         internal-users
// @Security     Bearer
// @Param        id   path  string  true  "ID del usuario"
// @Success      204
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/internal-users/{id} [delete]
func (h *InternalUserHandler) Delete(c *fiber.Ctx) error {
	companyID, ok := requireCompany(c)
	if !ok {
		return nil
	}
	if err := h.uc.Delete(c.UserContext(), companyID, c.Params("id")); err != nil {
		return writeError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// Branches godoc
// @Summary      Filiales accesibles del usuario interno
// @Tags         internal-users
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del usuario"
// @Success      200  {object}  permission.BranchScope
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/internal-users/{id}/branches [get]
func (h *InternalUserHandler) Branches(c *fiber.Ctx) error {
	companyID, ok := requireCompany(c)
	if !ok {
		return nil
	}
	scope, err := h.uc.Branches(c.UserContext(), companyID, c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(scope)
}
