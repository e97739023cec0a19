package http

import (
	"errors"
	"reflect"
	"strings"

	ptbr "github.com/go-playground/locales/pt_BR"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	ptbr_translations "github.com/go-playground/validator/v10/translations/pt_BR"
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/capacita-api/internal/application/dto"
)

var (
	validate   *validator.Validate
	translator ut.Translator
)

func init() {
	validate = validator.New(validator.WithRequiredStructEnabled())

	locale := ptbr.New()
	uni := ut.New(locale, locale)
	var found bool
	if translator, found = uni.GetTranslator(locale.Locale()); !found {
		panic("validation: traductor pt_BR no disponible")
	}
	if err := ptbr_translations.RegisterDefaultTranslations(validate, translator); err != nil {
		panic("validation: registrar traducciones pt_BR: " + err.Error())
	}

	// Los errores usan el nombre JSON del campo.
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
}

// bindJSON parsea el body en dst y lo valida. Si falla, ya escribió la respuesta 400
// y devuelve ok=false; el handler debe retornar el error devuelto.
func bindJSON(c *fiber.Ctx, dst any) (bool, error) {
	if err := c.BodyParser(dst); err != nil {
		return false, c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "corpo da requisição inválido"})
	}
	if err := validate.Struct(dst); err != nil {
		return false, c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: validationMessage(err)})
	}
	return true, nil
}

func validationMessage(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err.Error()
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, fe.Translate(translator))
	}
	return strings.Join(msgs, "; ")
}
