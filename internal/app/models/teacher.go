package models

// Teacher defines the teacher model based on the 'teachers' table
type Teacher struct {
	ID        int64  `json:"id" db:"id" example:"1"`
	FirstName string `json:"first_name" db:"first_name" example:"Grace"`
	LastName  string `json:"last_name" db:"last_name" example:"Hopper"`
	SchoolID  *int64 `json:"school_id" db:"school_id" example:"1"`
}

// Clone returns a copy that shares no pointers with t.
func (t *Teacher) Clone() *Teacher {
	c := *t
	c.SchoolID = CloneRef(t.SchoolID)
	return &c
}
