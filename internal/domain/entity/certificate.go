package entity

import "time"

// Certificate datos de un certificado de conclusión de curso.
type Certificate struct {
	Code           string // código de verificación (UUID)
	StudentName    string
	CourseTitle    string
	WorkloadHours  int
	CompletedAt    time.Time
	CompanyName    string
	InstructorName string
	IssuedAt       time.Time
}
