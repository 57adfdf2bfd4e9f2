package models

// Mark value bounds
const (
	MarkMinValue = 1
	MarkMaxValue = 6
)

// Mark is a grade given to a student for a subject. Both references are required.
type Mark struct {
	ID          int64  `json:"id" db:"id" example:"1"`
	Value       int    `json:"value" db:"value" example:"5"`
	Description string `json:"description,omitempty" db:"description" example:"Midterm test"`
	StudentID   int64  `json:"student_id" db:"student_id" example:"1"`
	SubjectID   int64  `json:"subject_id" db:"subject_id" example:"1"`
}
