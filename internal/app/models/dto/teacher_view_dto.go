package dto

import "github.com/yigit/schoolmanager/internal/app/models"

// TeacherSessionRequest asks for a teacher token
type TeacherSessionRequest struct {
	TeacherID int64 `json:"teacher_id" form:"teacher_id" validate:"required,gt=0" example:"1"`
}

// TeacherSessionResponse carries a signed teacher token
type TeacherSessionResponse struct {
	Token     string          `json:"token"`
	TokenType string          `json:"token_type" example:"Bearer"`
	ExpiresIn int             `json:"expires_in" example:"43200"`
	Teacher   *models.Teacher `json:"teacher"`
}

// SubjectRequest is the subject create/update form
type SubjectRequest struct {
	Name string `json:"name" form:"name" validate:"required,notblank,max=255" example:"Mathematics"`
}

// MarkRequest is the mark create/update form
type MarkRequest struct {
	Value       int    `json:"value" form:"value" validate:"required,min=1,max=6" example:"5"`
	Description string `json:"description" form:"description" validate:"max=255" example:"Midterm test"`
}

// TeacherSubjectsResponse lists the subjects of the requesting teacher
type TeacherSubjectsResponse struct {
	Teacher  *models.Teacher   `json:"teacher"`
	Subjects []*models.Subject `json:"subjects"`
}

// SubjectDetails is a subject with the marks given in it
type SubjectDetails struct {
	Subject *models.Subject `json:"subject"`
	Marks   []*models.Mark  `json:"marks"`
}

// DivisionRoster is a division and its students
type DivisionRoster struct {
	Division *models.Division  `json:"division"`
	Students []*models.Student `json:"students"`
}

// MarkForm is the data for a new-mark page
type MarkForm struct {
	Student *models.Student `json:"student"`
	Subject *models.Subject `json:"subject"`
	Mark    *models.Mark    `json:"mark"`
}
