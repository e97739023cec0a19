package permission

// Authorization fuente de permisos de un sujeto: StaticRole o DynamicProfile.
// Es un tipo suma cerrado; ambas variantes se consultan solo vía HasPermission.
type Authorization interface {
	allows(p Permission) bool
}

// StaticRole autorización por rol fijo (tabla en código).
type StaticRole struct {
	Role Role
}

func (a StaticRole) allows(p Permission) bool {
	return roleTable[a.Role].Has(p)
}

// DynamicProfile autorización por perfil editable cargado desde almacenamiento.
type DynamicProfile struct {
	ProfileID   string
	Permissions Set
}

func (a DynamicProfile) allows(p Permission) bool {
	return a.Permissions.Has(p)
}

// HasPermission único punto de decisión. Una autorización nil o un rol desconocido niegan.
func HasPermission(a Authorization, p Permission) bool {
	if a == nil {
		return false
	}
	return a.allows(p)
}

// HasRolePermission consulta directa a la tabla estática.
func HasRolePermission(r Role, p Permission) bool {
	return HasPermission(StaticRole{Role: r}, p)
}

// Guard devuelve content() si la autorización permite p; si no, fallback() o el valor cero
// cuando fallback es nil. Es una condición pura: no reintenta ni registra.
func Guard[T any](a Authorization, p Permission, content, fallback func() T) T {
	if HasPermission(a, p) {
		return content()
	}
	if fallback == nil {
		var zero T
		return zero
	}
	return fallback()
}

// Effective etiquetas concedidas por la autorización, ordenadas.
func Effective(a Authorization) []string {
	switch v := a.(type) {
	case StaticRole:
		return RolePermissions(v.Role)
	case DynamicProfile:
		return v.Permissions.Strings()
	default:
		return []string{}
	}
}
