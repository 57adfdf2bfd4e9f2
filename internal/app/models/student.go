package models

// Student defines the student model based on the 'students' table
type Student struct {
	ID         int64  `json:"id" db:"id" example:"1"`
	FirstName  string `json:"first_name" db:"first_name" example:"Ada"`
	LastName   string `json:"last_name" db:"last_name" example:"Lovelace"`
	SchoolID   *int64 `json:"school_id" db:"school_id" example:"1"`
	DivisionID *int64 `json:"division_id" db:"division_id" example:"1"`
}

// Clone returns a copy that shares no pointers with s.
func (s *Student) Clone() *Student {
	c := *s
	c.SchoolID = CloneRef(s.SchoolID)
	c.DivisionID = CloneRef(s.DivisionID)
	return &c
}
