package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/yigit/schoolmanager/internal/app/models"
	"github.com/yigit/schoolmanager/internal/app/models/dto"
	"github.com/yigit/schoolmanager/internal/app/repositories"
	"github.com/yigit/schoolmanager/internal/pkg/apperrors"
	"github.com/yigit/schoolmanager/internal/pkg/auth"
)

// TokenIssuer signs teacher tokens
type TokenIssuer interface {
	GenerateTeacherToken(teacherID int64, schoolID *int64) (string, int, error)
}

// TeacherViewService is what a teacher does with their own subjects and marks.
// Every operation but StartSession fails with ErrNoTeacherSession for a nil scope.
type TeacherViewService interface {
	StartSession(ctx context.Context, teacherID int64) (*dto.TeacherSessionResponse, error)

	GetSubjects(ctx context.Context, scope *auth.TeacherScope) (*dto.TeacherSubjectsResponse, error)
	CreateSubject(ctx context.Context, scope *auth.TeacherScope, req *dto.SubjectRequest) (*models.Subject, error)
	GetSubject(ctx context.Context, scope *auth.TeacherScope, id int64) (*dto.SubjectDetails, error)
	UpdateSubject(ctx context.Context, scope *auth.TeacherScope, id int64, req *dto.SubjectRequest) (*models.Subject, error)
	DeleteSubject(ctx context.Context, scope *auth.TeacherScope, id int64) error

	ShowDivision(ctx context.Context, scope *auth.TeacherScope, divisionID int64) (*dto.DivisionRoster, error)

	NewMarkForm(ctx context.Context, scope *auth.TeacherScope, studentID int64, subjectID *int64) (*dto.MarkForm, error)
	CreateMark(ctx context.Context, scope *auth.TeacherScope, studentID int64, subjectID *int64, req *dto.MarkRequest) (*models.Mark, error)
	GetMark(ctx context.Context, scope *auth.TeacherScope, id int64) (*dto.MarkForm, error)
	UpdateMark(ctx context.Context, scope *auth.TeacherScope, id int64, req *dto.MarkRequest) (*dto.MarkForm, error)
	DeleteMark(ctx context.Context, scope *auth.TeacherScope, id int64) error
}

type teacherViewServiceImpl struct {
	teacherRepo  repositories.TeacherRepository
	subjectRepo  repositories.SubjectRepository
	divisionRepo repositories.DivisionRepository
	studentRepo  repositories.StudentRepository
	markRepo     repositories.MarkRepository
	tokens       TokenIssuer
}

// NewTeacherViewService creates a new teacher view service instance
func NewTeacherViewService(repos *repositories.Repositories, tokens TokenIssuer) TeacherViewService {
	return &teacherViewServiceImpl{
		teacherRepo:  repos.TeacherRepository,
		subjectRepo:  repos.SubjectRepository,
		divisionRepo: repos.DivisionRepository,
		studentRepo:  repos.StudentRepository,
		markRepo:     repos.MarkRepository,
		tokens:       tokens,
	}
}

func requireTeacher(scope *auth.TeacherScope) error {
	if scope == nil || scope.TeacherID <= 0 {
		return apperrors.ErrNoTeacherSession
	}
	return nil
}

// StartSession issues a token acting for an existing teacher and their school
func (s *teacherViewServiceImpl) StartSession(ctx context.Context, teacherID int64) (*dto.TeacherSessionResponse, error) {
	teacher, err := s.teacherRepo.FindOne(ctx, teacherID)
	if err != nil {
		return nil, err
	}

	token, expiresIn, err := s.tokens.GenerateTeacherToken(teacher.ID, teacher.SchoolID)
	if err != nil {
		return nil, fmt.Errorf("error issuing teacher token: %w", err)
	}

	return &dto.TeacherSessionResponse{
		Token:     token,
		TokenType: "Bearer",
		ExpiresIn: expiresIn,
		Teacher:   teacher,
	}, nil
}

// GetSubjects lists the subjects taught by the scoped teacher
func (s *teacherViewServiceImpl) GetSubjects(ctx context.Context, scope *auth.TeacherScope) (*dto.TeacherSubjectsResponse, error) {
	if err := requireTeacher(scope); err != nil {
		return nil, err
	}

	teacher, err := s.teacherRepo.FindOne(ctx, scope.TeacherID)
	if err != nil {
		return nil, err
	}
	subjects, err := s.subjectRepo.FindAllByTeacherID(ctx, scope.TeacherID)
	if err != nil {
		return nil, fmt.Errorf("error retrieving subjects: %w", err)
	}
	return &dto.TeacherSubjectsResponse{Teacher: teacher, Subjects: subjects}, nil
}

// CreateSubject saves a subject owned by the scoped teacher and school in one write
func (s *teacherViewServiceImpl) CreateSubject(ctx context.Context, scope *auth.TeacherScope, req *dto.SubjectRequest) (*models.Subject, error) {
	if err := requireTeacher(scope); err != nil {
		return nil, err
	}
	if req == nil {
		return nil, apperrors.NewBadRequestError("subject form is missing")
	}

	subject := &models.Subject{
		Name:      strings.TrimSpace(req.Name),
		SchoolID:  models.CloneRef(scope.SchoolID),
		TeacherID: models.Ref(scope.TeacherID),
	}
	if err := s.subjectRepo.Save(ctx, subject); err != nil {
		return nil, err
	}
	return subject, nil
}

// ownedSubject loads a subject and checks that the scoped teacher teaches it
func (s *teacherViewServiceImpl) ownedSubject(ctx context.Context, scope *auth.TeacherScope, id int64) (*models.Subject, error) {
	subject, err := s.subjectRepo.FindOne(ctx, id)
	if err != nil {
		return nil, err
	}
	if !models.RefEquals(subject.TeacherID, scope.TeacherID) {
		return nil, apperrors.NewForbiddenError(fmt.Sprintf("subject %d is not taught by teacher %d", id, scope.TeacherID))
	}
	return subject, nil
}

// GetSubject returns a subject with its marks
func (s *teacherViewServiceImpl) GetSubject(ctx context.Context, scope *auth.TeacherScope, id int64) (*dto.SubjectDetails, error) {
	if err := requireTeacher(scope); err != nil {
		return nil, err
	}

	subject, err := s.ownedSubject(ctx, scope, id)
	if err != nil {
		return nil, err
	}
	marks, err := s.markRepo.FindAllBySubjectID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("error retrieving marks: %w", err)
	}
	return &dto.SubjectDetails{Subject: subject, Marks: marks}, nil
}

// UpdateSubject renames a subject, keeping its teacher and school
func (s *teacherViewServiceImpl) UpdateSubject(ctx context.Context, scope *auth.TeacherScope, id int64, req *dto.SubjectRequest) (*models.Subject, error) {
	if err := requireTeacher(scope); err != nil {
		return nil, err
	}
	if req == nil {
		return nil, apperrors.NewBadRequestError("subject form is missing")
	}

	subject, err := s.ownedSubject(ctx, scope, id)
	if err != nil {
		return nil, err
	}
	subject.Name = strings.TrimSpace(req.Name)
	if err := s.subjectRepo.Save(ctx, subject); err != nil {
		return nil, err
	}
	return subject, nil
}

// DeleteSubject deletes a subject that has no marks
func (s *teacherViewServiceImpl) DeleteSubject(ctx context.Context, scope *auth.TeacherScope, id int64) error {
	if err := requireTeacher(scope); err != nil {
		return err
	}
	if _, err := s.ownedSubject(ctx, scope, id); err != nil {
		return err
	}
	return s.subjectRepo.Delete(ctx, id)
}

// ShowDivision returns a division and its students
func (s *teacherViewServiceImpl) ShowDivision(ctx context.Context, scope *auth.TeacherScope, divisionID int64) (*dto.DivisionRoster, error) {
	if err := requireTeacher(scope); err != nil {
		return nil, err
	}

	division, err := s.divisionRepo.FindOne(ctx, divisionID)
	if err != nil {
		return nil, err
	}
	students, err := s.studentRepo.FindAllByDivisionID(ctx, divisionID)
	if err != nil {
		return nil, fmt.Errorf("error retrieving students: %w", err)
	}
	return &dto.DivisionRoster{Division: division, Students: students}, nil
}

// markTarget resolves the student and the selected subject a mark is given for
func (s *teacherViewServiceImpl) markTarget(ctx context.Context, scope *auth.TeacherScope, studentID int64, subjectID *int64) (*models.Student, *models.Subject, error) {
	if subjectID == nil {
		return nil, nil, apperrors.ErrNoSubjectSelected
	}
	subject, err := s.ownedSubject(ctx, scope, *subjectID)
	if err != nil {
		return nil, nil, err
	}
	student, err := s.studentRepo.FindOne(ctx, studentID)
	if err != nil {
		return nil, nil, err
	}
	return student, subject, nil
}

// NewMarkForm returns an empty mark bound to the student and subject
func (s *teacherViewServiceImpl) NewMarkForm(ctx context.Context, scope *auth.TeacherScope, studentID int64, subjectID *int64) (*dto.MarkForm, error) {
	if err := requireTeacher(scope); err != nil {
		return nil, err
	}

	student, subject, err := s.markTarget(ctx, scope, studentID, subjectID)
	if err != nil {
		return nil, err
	}
	return &dto.MarkForm{
		Student: student,
		Subject: subject,
		Mark:    &models.Mark{StudentID: student.ID, SubjectID: subject.ID},
	}, nil
}

// CreateMark gives the student a mark in the selected subject
func (s *teacherViewServiceImpl) CreateMark(ctx context.Context, scope *auth.TeacherScope, studentID int64, subjectID *int64, req *dto.MarkRequest) (*models.Mark, error) {
	if err := requireTeacher(scope); err != nil {
		return nil, err
	}
	if req == nil {
		return nil, apperrors.NewBadRequestError("mark form is missing")
	}

	student, subject, err := s.markTarget(ctx, scope, studentID, subjectID)
	if err != nil {
		return nil, err
	}

	mark := &models.Mark{
		Value:       req.Value,
		Description: strings.TrimSpace(req.Description),
		StudentID:   student.ID,
		SubjectID:   subject.ID,
	}
	if err := s.markRepo.Save(ctx, mark); err != nil {
		return nil, err
	}
	return mark, nil
}

// ownedMark loads a mark together with its student and subject, checking
// the subject belongs to the scoped teacher
func (s *teacherViewServiceImpl) ownedMark(ctx context.Context, scope *auth.TeacherScope, id int64) (*dto.MarkForm, error) {
	mark, err := s.markRepo.FindOne(ctx, id)
	if err != nil {
		return nil, err
	}
	subject, err := s.ownedSubject(ctx, scope, mark.SubjectID)
	if err != nil {
		return nil, err
	}
	student, err := s.studentRepo.FindOne(ctx, mark.StudentID)
	if err != nil {
		return nil, err
	}
	return &dto.MarkForm{Student: student, Subject: subject, Mark: mark}, nil
}

// GetMark returns a mark with its student and subject
func (s *teacherViewServiceImpl) GetMark(ctx context.Context, scope *auth.TeacherScope, id int64) (*dto.MarkForm, error) {
	if err := requireTeacher(scope); err != nil {
		return nil, err
	}
	return s.ownedMark(ctx, scope, id)
}

// UpdateMark changes value and description, keeping the student and subject
func (s *teacherViewServiceImpl) UpdateMark(ctx context.Context, scope *auth.TeacherScope, id int64, req *dto.MarkRequest) (*dto.MarkForm, error) {
	if err := requireTeacher(scope); err != nil {
		return nil, err
	}
	if req == nil {
		return nil, apperrors.NewBadRequestError("mark form is missing")
	}

	current, err := s.ownedMark(ctx, scope, id)
	if err != nil {
		return nil, err
	}
	current.Mark.Value = req.Value
	current.Mark.Description = strings.TrimSpace(req.Description)
	if err := s.markRepo.Save(ctx, current.Mark); err != nil {
		return nil, err
	}
	return current, nil
}

// DeleteMark deletes a mark on one of the teacher's subjects
func (s *teacherViewServiceImpl) DeleteMark(ctx context.Context, scope *auth.TeacherScope, id int64) error {
	if err := requireTeacher(scope); err != nil {
		return err
	}
	if _, err := s.ownedMark(ctx, scope, id); err != nil {
		return err
	}
	return s.markRepo.Delete(ctx, id)
}
