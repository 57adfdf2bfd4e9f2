package models

// Subject is taught at a school by one teacher. The teacher relationship is
// owned here: a teacher's subjects are those whose TeacherID points at them.
type Subject struct {
	ID        int64  `json:"id" db:"id" example:"1"`
	Name      string `json:"name" db:"name" example:"Mathematics"`
	SchoolID  *int64 `json:"school_id" db:"school_id" example:"1"`
	TeacherID *int64 `json:"teacher_id" db:"teacher_id" example:"1"`
}

// Clone returns a copy that shares no pointers with s.
func (s *Subject) Clone() *Subject {
	c := *s
	c.SchoolID = CloneRef(s.SchoolID)
	c.TeacherID = CloneRef(s.TeacherID)
	return &c
}
