package models

// Division is a class group (e.g. "9A") inside a school
type Division struct {
	ID       int64  `json:"id" db:"id" example:"1"`
	Name     string `json:"name" db:"name" example:"9A"`
	SchoolID *int64 `json:"school_id" db:"school_id" example:"1"`
}

// Clone returns a copy that shares no pointers with d.
func (d *Division) Clone() *Division {
	c := *d
	c.SchoolID = CloneRef(d.SchoolID)
	return &c
}
