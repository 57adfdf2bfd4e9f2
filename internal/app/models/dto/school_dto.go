package dto

import "github.com/yigit/schoolmanager/internal/app/models"

// SchoolRequest is the school create/update form
type SchoolRequest struct {
	Name string `json:"name" form:"name" validate:"required,notblank,max=255" example:"Lincoln High"`
}

// DivisionRequest is the division create form
type DivisionRequest struct {
	Name     string `json:"name" form:"name" validate:"required,notblank,max=255" example:"9A"`
	SchoolID *int64 `json:"school_id" form:"school_id" validate:"omitempty,gt=0" example:"1"`
}

// StudentRequest is the student create form
type StudentRequest struct {
	FirstName  string `json:"first_name" form:"first_name" validate:"required,max=100,personname" example:"Ada"`
	LastName   string `json:"last_name" form:"last_name" validate:"required,max=100,personname" example:"Lovelace"`
	SchoolID   *int64 `json:"school_id" form:"school_id" validate:"omitempty,gt=0" example:"1"`
	DivisionID *int64 `json:"division_id" form:"division_id" validate:"omitempty,gt=0" example:"1"`
}

// TeacherRequest is the teacher create form
type TeacherRequest struct {
	FirstName string `json:"first_name" form:"first_name" validate:"required,max=100,personname" example:"Grace"`
	LastName  string `json:"last_name" form:"last_name" validate:"required,max=100,personname" example:"Hopper"`
	SchoolID  *int64 `json:"school_id" form:"school_id" validate:"omitempty,gt=0" example:"1"`
}

// SchoolDetails is a school with everything that belongs to it
type SchoolDetails struct {
	School    *models.School     `json:"school"`
	Divisions []*models.Division `json:"divisions"`
	Subjects  []*models.Subject  `json:"subjects"`
	Students  []*models.Student  `json:"students"`
	Teachers  []*models.Teacher  `json:"teachers"`
}

// SchoolListResponse is the school list, optionally in delete-confirmation mode
type SchoolListResponse struct {
	Schools []*models.School `json:"schools"`
	// Remove is the school awaiting delete confirmation
	Remove *models.School `json:"remove,omitempty"`
}

// MembershipResponse is the assign view of one relationship kind. Assigned
// and Available never share an entity.
type MembershipResponse struct {
	School    *models.School `json:"school"`
	Kind      string         `json:"kind" example:"division"`
	Assigned  interface{}    `json:"assigned"`
	Available interface{}    `json:"available"`
}

// RosterImportResponse reports a roster import
type RosterImportResponse struct {
	Created  []*models.Student `json:"created"`
	Rejected []int             `json:"rejected_rows"`
}
