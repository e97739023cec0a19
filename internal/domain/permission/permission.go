// Package permission modela la autorización de la plataforma: una tabla estática
// rol → permisos y perfiles dinámicos editables, resueltos por un único punto de entrada.
package permission

import (
	"slices"
	"sort"
)

// Permission etiqueta de permiso con forma "acción:recurso".
type Permission string

// Catálogo de permisos conocidos.
const (
	ViewCourses         Permission = "view:courses"
	PurchaseCourses     Permission = "purchase:courses"
	ViewOwnCertificates Permission = "view:own-certificates"
	ViewOwnProgress     Permission = "view:own-progress"
	ManageEmployees     Permission = "manage:employees"
	ManageBranches      Permission = "manage:branches"
	ViewReports         Permission = "view:reports"
	ViewCertificates    Permission = "view:certificates"
	IssueCertificates   Permission = "issue:certificates"
	ManageClasses       Permission = "manage:classes"
	ViewStudents        Permission = "view:students"
	ManageUsers         Permission = "manage:users"
	ManageCoupons       Permission = "manage:coupons"
	ManagePermissions   Permission = "manage:permissions"
	ManageCourses       Permission = "manage:courses"
	ManageCompanies     Permission = "manage:companies"
)

// Catalog todos los permisos válidos, en orden estable.
var Catalog = []Permission{
	ViewCourses, PurchaseCourses, ViewOwnCertificates, ViewOwnProgress,
	ManageEmployees, ManageBranches, ViewReports, ViewCertificates, IssueCertificates,
	ManageClasses, ViewStudents, ManageUsers, ManageCoupons, ManagePermissions,
	ManageCourses, ManageCompanies,
}

// Known informa si la etiqueta pertenece al catálogo.
func Known(p Permission) bool {
	return slices.Contains(Catalog, p)
}

// Set conjunto de permisos. El orden de inserción y los duplicados no importan.
type Set map[Permission]struct{}

// NewSet construye un conjunto a partir de etiquetas.
func NewSet(perms ...Permission) Set {
	s := make(Set, len(perms))
	for _, p := range perms {
		s[p] = struct{}{}
	}
	return s
}

// SetFromStrings construye un conjunto desde etiquetas persistidas.
func SetFromStrings(tags []string) Set {
	s := make(Set, len(tags))
	for _, t := range tags {
		s[Permission(t)] = struct{}{}
	}
	return s
}

// Has informa si el permiso pertenece al conjunto.
func (s Set) Has(p Permission) bool {
	_, ok := s[p]
	return ok
}

// Strings devuelve las etiquetas ordenadas (forma normalizada para persistir).
func (s Set) Strings() []string {
	out := make([]string, 0, len(s))
	for p := range s {
		out = append(out, string(p))
	}
	sort.Strings(out)
	return out
}
