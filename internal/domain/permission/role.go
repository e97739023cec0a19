package permission

// Role categoría fija definida en código, con un conjunto de permisos inmutable.
type Role string

const (
	RoleAluno      Role = "aluno"
	RoleEmpresa    Role = "empresa"
	RoleFilial     Role = "filial"
	RoleAdmin      Role = "admin"
	RoleSupervisor Role = "supervisor"
	RoleInstrutor  Role = "instrutor"
)

// StudentProfileID marcador de perfil que indica "usar la tabla estática de alumno".
const StudentProfileID = "aluno"

var roleTable = map[Role]Set{
	RoleAluno: NewSet(ViewCourses, PurchaseCourses, ViewOwnCertificates, ViewOwnProgress),
	RoleEmpresa: NewSet(ViewCourses, PurchaseCourses, ManageEmployees, ManageBranches,
		ViewReports, ViewCertificates),
	RoleFilial:     NewSet(ViewCourses, PurchaseCourses, ManageEmployees, ViewReports, ViewCertificates),
	RoleInstrutor:  NewSet(ViewCourses, ManageClasses, ViewStudents, IssueCertificates),
	RoleSupervisor: NewSet(ViewCourses, ViewStudents, ViewReports, ViewCertificates, ManageClasses),
	RoleAdmin:      NewSet(Catalog...),
}

// ValidRole informa si el rol existe en la tabla estática.
func ValidRole(r Role) bool {
	_, ok := roleTable[r]
	return ok
}

// RolePermissions devuelve las etiquetas del rol (vacío si el rol no existe).
func RolePermissions(r Role) []string {
	return roleTable[r].Strings()
}
