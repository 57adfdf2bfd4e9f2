package models

// Ref returns a pointer to id, for assigning an optional foreign key.
func Ref(id int64) *int64 {
	return &id
}

// RefEquals reports whether the optional foreign key ref points at id.
func RefEquals(ref *int64, id int64) bool {
	return ref != nil && *ref == id
}

// CloneRef copies an optional foreign key so the copy does not alias the original.
func CloneRef(ref *int64) *int64 {
	if ref == nil {
		return nil
	}
	v := *ref
	return &v
}
