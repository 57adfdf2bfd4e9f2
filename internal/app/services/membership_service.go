package services

import (
	"context"
	"fmt"

	"github.com/yigit/schoolmanager/internal/app/models"
	"github.com/yigit/schoolmanager/internal/app/models/dto"
	"github.com/yigit/schoolmanager/internal/app/repositories"
	"github.com/yigit/schoolmanager/internal/pkg/apperrors"
)

// MemberKind names what is being assigned to a school
type MemberKind string

// Member kinds
const (
	KindDivision MemberKind = "division"
	KindSubject  MemberKind = "subject"
	KindStudent  MemberKind = "student"
	KindTeacher  MemberKind = "teacher"
)

// MemberKinds lists every kind in route order
var MemberKinds = []MemberKind{KindDivision, KindSubject, KindStudent, KindTeacher}

// MembershipService assigns divisions, subjects, students and teachers to schools
type MembershipService interface {
	// AssignView returns the members of the school and the pool that can still be assigned
	AssignView(ctx context.Context, kind MemberKind, schoolID int64) (*dto.MembershipResponse, error)
	Assign(ctx context.Context, kind MemberKind, schoolID, memberID int64) error
	// Remove unassigns a member of the school. The member itself is kept.
	Remove(ctx context.Context, kind MemberKind, schoolID, memberID int64) error
}

// member adapts one repository to the membership operations
type member struct {
	assigned  func(ctx context.Context, schoolID int64) (interface{}, error)
	available func(ctx context.Context, schoolID int64) (interface{}, error)
	schoolOf  func(ctx context.Context, id int64) (*int64, error)
	setSchool func(ctx context.Context, id int64, schoolID *int64) error
	// movable members may be taken over from another school by Assign
	movable bool
}

type membershipServiceImpl struct {
	schoolRepo repositories.SchoolRepository
	members    map[MemberKind]member
}

// NewMembershipService creates a new membership service instance
func NewMembershipService(repos *repositories.Repositories) MembershipService {
	divisions := repos.DivisionRepository
	subjects := repos.SubjectRepository
	students := repos.StudentRepository
	teachers := repos.TeacherRepository

	return &membershipServiceImpl{
		schoolRepo: repos.SchoolRepository,
		members: map[MemberKind]member{
			KindDivision: {
				assigned: func(ctx context.Context, schoolID int64) (interface{}, error) {
					return divisions.FindAllBySchoolID(ctx, schoolID)
				},
				available: func(ctx context.Context, _ int64) (interface{}, error) {
					return divisions.FindAllBySchoolIDIsNull(ctx)
				},
				schoolOf: func(ctx context.Context, id int64) (*int64, error) {
					d, err := divisions.FindOne(ctx, id)
					if err != nil {
						return nil, err
					}
					return d.SchoolID, nil
				},
				setSchool: divisions.SetSchool,
			},
			KindSubject: {
				assigned: func(ctx context.Context, schoolID int64) (interface{}, error) {
					return subjects.FindAllBySchoolID(ctx, schoolID)
				},
				available: func(ctx context.Context, _ int64) (interface{}, error) {
					return subjects.FindAllBySchoolIDIsNull(ctx)
				},
				schoolOf: func(ctx context.Context, id int64) (*int64, error) {
					s, err := subjects.FindOne(ctx, id)
					if err != nil {
						return nil, err
					}
					return s.SchoolID, nil
				},
				setSchool: subjects.SetSchool,
			},
			KindStudent: {
				movable: true,
				assigned: func(ctx context.Context, schoolID int64) (interface{}, error) {
					return students.FindAllBySchoolID(ctx, schoolID)
				},
				// students and teachers can move between schools
				available: func(ctx context.Context, schoolID int64) (interface{}, error) {
					return students.FindAllNotInSchool(ctx, schoolID)
				},
				schoolOf: func(ctx context.Context, id int64) (*int64, error) {
					s, err := students.FindOne(ctx, id)
					if err != nil {
						return nil, err
					}
					return s.SchoolID, nil
				},
				setSchool: students.SetSchool,
			},
			KindTeacher: {
				movable: true,
				assigned: func(ctx context.Context, schoolID int64) (interface{}, error) {
					return teachers.FindAllBySchoolID(ctx, schoolID)
				},
				available: func(ctx context.Context, schoolID int64) (interface{}, error) {
					return teachers.FindAllNotInSchool(ctx, schoolID)
				},
				schoolOf: func(ctx context.Context, id int64) (*int64, error) {
					t, err := teachers.FindOne(ctx, id)
					if err != nil {
						return nil, err
					}
					return t.SchoolID, nil
				},
				setSchool: teachers.SetSchool,
			},
		},
	}
}

func (s *membershipServiceImpl) lookup(ctx context.Context, kind MemberKind, schoolID int64) (member, *models.School, error) {
	m, ok := s.members[kind]
	if !ok {
		return member{}, nil, apperrors.NewBadRequestError(fmt.Sprintf("unknown member kind %q", kind))
	}
	school, err := s.schoolRepo.FindOne(ctx, schoolID)
	if err != nil {
		return member{}, nil, err
	}
	return m, school, nil
}

// AssignView returns the members of the school and the assignable pool
func (s *membershipServiceImpl) AssignView(ctx context.Context, kind MemberKind, schoolID int64) (*dto.MembershipResponse, error) {
	m, school, err := s.lookup(ctx, kind, schoolID)
	if err != nil {
		return nil, err
	}

	assigned, err := m.assigned(ctx, schoolID)
	if err != nil {
		return nil, fmt.Errorf("error retrieving assigned %ss: %w", kind, err)
	}
	available, err := m.available(ctx, schoolID)
	if err != nil {
		return nil, fmt.Errorf("error retrieving available %ss: %w", kind, err)
	}

	return &dto.MembershipResponse{
		School:    school,
		Kind:      string(kind),
		Assigned:  assigned,
		Available: available,
	}, nil
}

// Assign points the member's school at schoolID
func (s *membershipServiceImpl) Assign(ctx context.Context, kind MemberKind, schoolID, memberID int64) error {
	m, _, err := s.lookup(ctx, kind, schoolID)
	if err != nil {
		return err
	}

	if !m.movable {
		current, err := m.schoolOf(ctx, memberID)
		if err != nil {
			return err
		}
		if current != nil && *current != schoolID {
			return otherSchoolConflict(kind, memberID, *current, schoolID)
		}
	}
	return m.setSchool(ctx, memberID, models.Ref(schoolID))
}

// Remove clears the member's school. Members of other schools are left alone.
func (s *membershipServiceImpl) Remove(ctx context.Context, kind MemberKind, schoolID, memberID int64) error {
	m, _, err := s.lookup(ctx, kind, schoolID)
	if err != nil {
		return err
	}

	current, err := m.schoolOf(ctx, memberID)
	if err != nil {
		return err
	}
	if current != nil && *current != schoolID {
		return otherSchoolConflict(kind, memberID, *current, schoolID)
	}
	return m.setSchool(ctx, memberID, nil)
}

func otherSchoolConflict(kind MemberKind, memberID, owner, schoolID int64) error {
	return apperrors.NewCustomError(apperrors.ErrConflict,
		fmt.Sprintf("%s %d belongs to school %d, not %d", kind, memberID, owner, schoolID)).
		WithDetails(map[string]interface{}{
			"kind":     string(kind),
			"memberId": memberID,
			"schoolId": owner,
		})
}
