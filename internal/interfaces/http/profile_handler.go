package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/capacita-api/internal/application/access"
	"github.com/jhoicas/capacita-api/internal/application/dto"
)

// ProfileHandler CRUD de perfiles de permisos.
type ProfileHandler struct {
	uc *access.ProfileUseCase
}

// NewProfileHandler construye el handler.
func NewProfileHandler(uc *access.ProfileUseCase) *ProfileHandler {
	return &ProfileHandler{uc: uc}
}

// List godoc
// @Summary      Listar perfiles de permisos
// @Tags         permission-profiles
// @Security     Bearer
// @Produce      json
// @Success      200  {array}  dto.ProfileResponse
// @Router       /api/permission-profiles [get]
func (h *ProfileHandler) List(c *fiber.Ctx) error {
	out, err := h.uc.List(c.UserContext())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// GetByID godoc
// @Summary      Obtener perfil
// @Tags         permission-profiles
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del perfil"
// @Success      200  {object}  dto.ProfileResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/permission-profiles/{id} [get]
func (h *ProfileHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.uc.GetByID(c.UserContext(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Create godoc
// @Summary      Crear perfil
// @Tags         permission-profiles
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateProfileRequest  true  "nombre y permisos"
// @Success      201   {object}  dto.ProfileResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/permission-profiles [post]
func (h *ProfileHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateProfileRequest
	if ok, err := bindJSON(c, &in); !ok {
		return err
	}
	out, err := h.uc.Create(c.UserContext(), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// Update godoc
// @Summary      Actualizar perfil (parcial)
// @Tags         permission-profiles
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                    true  "ID del perfil"
// @Param        body  body  dto.UpdateProfileRequest  true  "Campos a modificar"
// @Success      200   {object}  dto.ProfileResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/permission-profiles/{id} [put]
func (h *ProfileHandler) Update(c *fiber.Ctx) error {
	var in dto.UpdateProfileRequest
	if ok, err := bindJSON(c, &in); !ok {
		return err
	}
	out, err := h.uc.Update(c.UserContext(), c.Params("id"), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Delete godoc
// @Summary      Eliminar perfil
// @Description  409 si algún usuario interno todavía usa el perfil.
// @Tags         permission-profiles
// @Security     Bearer
// @Param        id   path  string  true  "ID del perfil"
// @Success      204
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/permission-profiles/{id} [delete]
func (h *ProfileHandler) Delete(c *fiber.Ctx) error {
	if err := h.uc.Delete(c.UserContext(), c.Params("id")); err != nil {
		return writeError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
