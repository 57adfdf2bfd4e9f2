package models

// School is the root of the ownership tree. Divisions, subjects, students and
// teachers point at it through a nullable school_id.
type School struct {
	ID   int64  `json:"id" db:"id" example:"1"`
	Name string `json:"name" db:"name" example:"Lincoln High"`
}
