package dto

// CertificateRequest body para POST /api/certificates.
type CertificateRequest struct {
	StudentName    string `json:"student_name" validate:"required,max=200"`
	CourseTitle    string `json:"course_title" validate:"required,max=300"`
	WorkloadHours  int    `json:"workload_hours" validate:"gte=0"`
	CompletedAt    string `json:"completed_at" validate:"omitempty,datetime=2006-01-02"` // YYYY-MM-DD; vacío = hoy
	CompanyName    string `json:"company_name,omitempty"`
	InstructorName string `json:"instructor_name,omitempty"`
}
