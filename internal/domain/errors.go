package domain

import "errors"

// Errores de dominio (sin dependencias externas). Su texto llega al usuario final, en pt-BR.
// Las reglas de cupón NO usan estos errores: sus fallos se devuelven como resultado.
var (
	ErrNotFound     = errors.New("recurso não encontrado")
	ErrUserNotFound = errors.New("usuário não encontrado")
	ErrEmailExists  = errors.New("o e-mail já está cadastrado")
	ErrInvalidInput = errors.New("entrada inválida")
	ErrDuplicate    = errors.New("recurso duplicado")
	ErrUnauthorized = errors.New("não autorizado")
	ErrForbidden    = errors.New("acesso negado")
	ErrConflict     = errors.New("conflito com o estado atual")
)
