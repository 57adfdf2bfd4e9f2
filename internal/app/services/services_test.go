package services

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/yigit/schoolmanager/internal/app/models"
	"github.com/yigit/schoolmanager/internal/app/models/dto"
	"github.com/yigit/schoolmanager/internal/app/repositories"
	"github.com/yigit/schoolmanager/internal/app/repositories/memory"
	"github.com/yigit/schoolmanager/internal/pkg/apperrors"
	"github.com/yigit/schoolmanager/internal/pkg/auth"
	"github.com/yigit/schoolmanager/internal/pkg/cache"
)

type stubIssuer struct{}

func (stubIssuer) GenerateTeacherToken(teacherID int64, _ *int64) (string, int, error) {
	return "token-for-teacher", 60, nil
}

type fixture struct {
	repos *repositories.Repositories
	cache *cache.Memory
	svc   *Services
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	repos := memory.NewStore().Repositories()
	c := cache.NewMemory()
	return &fixture{repos: repos, cache: c, svc: NewServices(repos, c, stubIssuer{})}
}

func (f *fixture) school(t *testing.T, name string) *models.School {
	t.Helper()
	s := &models.School{Name: name}
	require.NoError(t, f.repos.SchoolRepository.Save(context.Background(), s))
	return s
}

func (f *fixture) teacher(t *testing.T, schoolID *int64) *models.Teacher {
	t.Helper()
	tc := &models.Teacher{FirstName: "Grace", LastName: "Hopper", SchoolID: schoolID}
	require.NoError(t, f.repos.TeacherRepository.Save(context.Background(), tc))
	return tc
}

func (f *fixture) student(t *testing.T, schoolID, divisionID *int64) *models.Student {
	t.Helper()
	s := &models.Student{FirstName: "Ada", LastName: "Lovelace", SchoolID: schoolID, DivisionID: divisionID}
	require.NoError(t, f.repos.StudentRepository.Save(context.Background(), s))
	return s
}

func TestSchoolCRUDKeepsCacheFresh(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	schools := f.svc.SchoolService

	created, err := schools.CreateSchool(ctx, &dto.SchoolRequest{Name: "  Lincoln High "})
	require.NoError(t, err)
	assert.Equal(t, "Lincoln High", created.Name)

	all, err := schools.GetAllSchools(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)

	got, err := schools.GetSchoolByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created, got)
	assert.Equal(t, 2, f.cache.Len())

	updated, err := schools.UpdateSchool(ctx, created.ID, &dto.SchoolRequest{Name: "Lincoln Academy"})
	require.NoError(t, err)
	assert.Equal(t, created.ID, updated.ID)

	got, err = schools.GetSchoolByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Lincoln Academy", got.Name)

	require.NoError(t, schools.DeleteSchool(ctx, created.ID))
	_, err = schools.GetSchoolByID(ctx, created.ID)
	assert.True(t, errors.Is(err, apperrors.ErrResourceNotFound))

	all, err = schools.GetAllSchools(ctx)
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestSchoolMissingAndNilForms(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.SchoolService.UpdateSchool(ctx, 99, &dto.SchoolRequest{Name: "x"})
	assert.True(t, errors.Is(err, apperrors.ErrResourceNotFound))

	_, err = f.svc.SchoolService.CreateSchool(ctx, nil)
	assert.True(t, errors.Is(err, apperrors.ErrBadRequest))

	err = f.svc.SchoolService.DeleteSchool(ctx, 99)
	assert.True(t, errors.Is(err, apperrors.ErrResourceNotFound))
}

func TestDeleteSchoolWithChildrenIsConstraintViolation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	school := f.school(t, "Lincoln High")
	division := &models.Division{Name: "9A", SchoolID: models.Ref(school.ID)}
	require.NoError(t, f.repos.DivisionRepository.Save(ctx, division))

	err := f.svc.SchoolService.DeleteSchool(ctx, school.ID)
	assert.True(t, errors.Is(err, apperrors.ErrConstraintViolation))

	details, err := f.svc.SchoolService.GetSchoolDetails(ctx, school.ID)
	require.NoError(t, err)
	assert.Equal(t, "Lincoln High", details.School.Name)
	require.Len(t, details.Divisions, 1)
	assert.Equal(t, "9A", details.Divisions[0].Name)
}

func TestAssignThenRemoveClearsSchoolForEveryKind(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	school := f.school(t, "Lincoln High")

	division := &models.Division{Name: "9A"}
	require.NoError(t, f.repos.DivisionRepository.Save(ctx, division))
	subject := &models.Subject{Name: "Mathematics"}
	require.NoError(t, f.repos.SubjectRepository.Save(ctx, subject))
	student := f.student(t, nil, nil)
	teacher := f.teacher(t, nil)

	schoolOf := map[MemberKind]func() *int64{
		KindDivision: func() *int64 { d, _ := f.repos.DivisionRepository.FindOne(ctx, division.ID); return d.SchoolID },
		KindSubject:  func() *int64 { s, _ := f.repos.SubjectRepository.FindOne(ctx, subject.ID); return s.SchoolID },
		KindStudent:  func() *int64 { s, _ := f.repos.StudentRepository.FindOne(ctx, student.ID); return s.SchoolID },
		KindTeacher:  func() *int64 { tc, _ := f.repos.TeacherRepository.FindOne(ctx, teacher.ID); return tc.SchoolID },
	}
	ids := map[MemberKind]int64{
		KindDivision: division.ID,
		KindSubject:  subject.ID,
		KindStudent:  student.ID,
		KindTeacher:  teacher.ID,
	}

	for _, kind := range MemberKinds {
		t.Run(string(kind), func(t *testing.T) {
			require.NoError(t, f.svc.MembershipService.Assign(ctx, kind, school.ID, ids[kind]))
			require.NotNil(t, schoolOf[kind]())
			assert.Equal(t, school.ID, *schoolOf[kind]())

			require.NoError(t, f.svc.MembershipService.Remove(ctx, kind, school.ID, ids[kind]))
			assert.Nil(t, schoolOf[kind]())
		})
	}
}

func TestAssignViewPartitionsThePool(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	lincoln := f.school(t, "Lincoln High")
	other := f.school(t, "Roosevelt")

	inLincoln := f.student(t, models.Ref(lincoln.ID), nil)
	free := f.student(t, nil, nil)
	elsewhere := f.student(t, models.Ref(other.ID), nil)

	view, err := f.svc.MembershipService.AssignView(ctx, KindStudent, lincoln.ID)
	require.NoError(t, err)
	assert.Equal(t, "student", view.Kind)

	assigned := view.Assigned.([]*models.Student)
	available := view.Available.([]*models.Student)
	require.Len(t, assigned, 1)
	assert.Equal(t, inLincoln.ID, assigned[0].ID)

	var availableIDs []int64
	for _, s := range available {
		availableIDs = append(availableIDs, s.ID)
	}
	assert.ElementsMatch(t, []int64{free.ID, elsewhere.ID}, availableIDs)
}

func TestDivisionPoolIsOnlyUnassigned(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	lincoln := f.school(t, "Lincoln High")
	other := f.school(t, "Roosevelt")

	require.NoError(t, f.repos.DivisionRepository.Save(ctx, &models.Division{Name: "9A"}))
	require.NoError(t, f.repos.DivisionRepository.Save(ctx, &models.Division{Name: "9B", SchoolID: models.Ref(other.ID)}))

	view, err := f.svc.MembershipService.AssignView(ctx, KindDivision, lincoln.ID)
	require.NoError(t, err)
	assert.Empty(t, view.Assigned.([]*models.Division))
	available := view.Available.([]*models.Division)
	require.Len(t, available, 1)
	assert.Equal(t, "9A", available[0].Name)
}

func TestMembershipErrors(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	lincoln := f.school(t, "Lincoln High")
	other := f.school(t, "Roosevelt")
	elsewhere := f.teacher(t, models.Ref(other.ID))

	err := f.svc.MembershipService.Remove(ctx, KindTeacher, lincoln.ID, elsewhere.ID)
	assert.True(t, errors.Is(err, apperrors.ErrConflict))
	tc, err := f.repos.TeacherRepository.FindOne(ctx, elsewhere.ID)
	require.NoError(t, err)
	assert.Equal(t, other.ID, *tc.SchoolID)

	err = f.svc.MembershipService.Assign(ctx, KindTeacher, 404, elsewhere.ID)
	assert.True(t, errors.Is(err, apperrors.ErrResourceNotFound))

	err = f.svc.MembershipService.Assign(ctx, KindDivision, lincoln.ID, 404)
	assert.True(t, errors.Is(err, apperrors.ErrResourceNotFound))

	_, err = f.svc.MembershipService.AssignView(ctx, MemberKind("janitor"), lincoln.ID)
	assert.True(t, errors.Is(err, apperrors.ErrBadRequest))
}

func TestAssignLeavesOtherSchoolsDivisionsAndSubjects(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	lincoln := f.school(t, "Lincoln High")
	other := f.school(t, "Roosevelt")

	division := &models.Division{Name: "9B", SchoolID: models.Ref(other.ID)}
	require.NoError(t, f.repos.DivisionRepository.Save(ctx, division))
	subject := &models.Subject{Name: "History", SchoolID: models.Ref(other.ID)}
	require.NoError(t, f.repos.SubjectRepository.Save(ctx, subject))

	err := f.svc.MembershipService.Assign(ctx, KindDivision, lincoln.ID, division.ID)
	assert.True(t, errors.Is(err, apperrors.ErrConflict))
	err = f.svc.MembershipService.Assign(ctx, KindSubject, lincoln.ID, subject.ID)
	assert.True(t, errors.Is(err, apperrors.ErrConflict))

	d, err := f.repos.DivisionRepository.FindOne(ctx, division.ID)
	require.NoError(t, err)
	assert.Equal(t, other.ID, *d.SchoolID)
	sub, err := f.repos.SubjectRepository.FindOne(ctx, subject.ID)
	require.NoError(t, err)
	assert.Equal(t, other.ID, *sub.SchoolID)

	// re-assigning to the owning school is fine
	require.NoError(t, f.svc.MembershipService.Assign(ctx, KindDivision, other.ID, division.ID))

	// students and teachers are offered from other schools and move over
	teacher := f.teacher(t, models.Ref(other.ID))
	require.NoError(t, f.svc.MembershipService.Assign(ctx, KindTeacher, lincoln.ID, teacher.ID))
	tc, err := f.repos.TeacherRepository.FindOne(ctx, teacher.ID)
	require.NoError(t, err)
	assert.Equal(t, lincoln.ID, *tc.SchoolID)
}

func TestCreateWithMissingParentIsFieldError(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.StudentService.CreateStudent(ctx, &dto.StudentRequest{FirstName: "Ada", LastName: "Lovelace", SchoolID: models.Ref(9)})
	var verr *apperrors.ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, "school_id", verr.Fields[0].Field)

	_, err = f.svc.StudentService.CreateStudent(ctx, &dto.StudentRequest{FirstName: "Ada", LastName: "Lovelace", DivisionID: models.Ref(9)})
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, "division_id", verr.Fields[0].Field)

	division, err := f.svc.DivisionService.CreateDivision(ctx, &dto.DivisionRequest{Name: "9A"})
	require.NoError(t, err)
	assert.Nil(t, division.SchoolID)

	teacher, err := f.svc.TeacherService.CreateTeacher(ctx, &dto.TeacherRequest{FirstName: "Grace", LastName: "Hopper"})
	require.NoError(t, err)
	assert.NotZero(t, teacher.ID)
}

func TestTeacherViewRequiresTeacher(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	tv := f.svc.TeacherViewService

	_, err := tv.GetSubjects(ctx, nil)
	assert.True(t, errors.Is(err, apperrors.ErrNoTeacherSession))
	_, err = tv.CreateSubject(ctx, nil, &dto.SubjectRequest{Name: "Mathematics"})
	assert.True(t, errors.Is(err, apperrors.ErrNoTeacherSession))
	_, err = tv.CreateMark(ctx, nil, 1, models.Ref(1), &dto.MarkRequest{Value: 5})
	assert.True(t, errors.Is(err, apperrors.ErrNoTeacherSession))
	err = tv.DeleteMark(ctx, &auth.TeacherScope{}, 1)
	assert.True(t, errors.Is(err, apperrors.ErrNoTeacherSession))
}

func TestTeacherSubjectsAndMarks(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	tv := f.svc.TeacherViewService

	school := f.school(t, "Lincoln High")
	teacher := f.teacher(t, models.Ref(school.ID))
	scope := &auth.TeacherScope{TeacherID: teacher.ID, SchoolID: models.Ref(school.ID)}
	division := &models.Division{Name: "9A", SchoolID: models.Ref(school.ID)}
	require.NoError(t, f.repos.DivisionRepository.Save(ctx, division))
	student := f.student(t, models.Ref(school.ID), models.Ref(division.ID))

	subject, err := tv.CreateSubject(ctx, scope, &dto.SubjectRequest{Name: "Mathematics"})
	require.NoError(t, err)
	assert.Equal(t, teacher.ID, *subject.TeacherID)
	assert.Equal(t, school.ID, *subject.SchoolID)

	list, err := tv.GetSubjects(ctx, scope)
	require.NoError(t, err)
	require.Len(t, list.Subjects, 1)

	_, err = tv.CreateMark(ctx, scope, student.ID, nil, &dto.MarkRequest{Value: 5})
	assert.True(t, errors.Is(err, apperrors.ErrNoSubjectSelected))

	mark, err := tv.CreateMark(ctx, scope, student.ID, models.Ref(subject.ID), &dto.MarkRequest{Value: 5, Description: "Midterm"})
	require.NoError(t, err)
	assert.Equal(t, student.ID, mark.StudentID)
	assert.Equal(t, subject.ID, mark.SubjectID)

	updated, err := tv.UpdateMark(ctx, scope, mark.ID, &dto.MarkRequest{Value: 4})
	require.NoError(t, err)
	assert.Equal(t, 4, updated.Mark.Value)
	assert.Equal(t, student.ID, updated.Mark.StudentID)
	assert.Equal(t, division.ID, *updated.Student.DivisionID)

	details, err := tv.GetSubject(ctx, scope, subject.ID)
	require.NoError(t, err)
	require.Len(t, details.Marks, 1)

	err = tv.DeleteSubject(ctx, scope, subject.ID)
	assert.True(t, errors.Is(err, apperrors.ErrConstraintViolation))

	require.NoError(t, tv.DeleteMark(ctx, scope, mark.ID))
	require.NoError(t, tv.DeleteSubject(ctx, scope, subject.ID))

	roster, err := tv.ShowDivision(ctx, scope, division.ID)
	require.NoError(t, err)
	require.Len(t, roster.Students, 1)
	assert.Equal(t, student.ID, roster.Students[0].ID)
}

func TestForeignSubjectIsForbidden(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	tv := f.svc.TeacherViewService

	owner := f.teacher(t, nil)
	intruder := f.teacher(t, nil)
	student := f.student(t, nil, nil)

	subject, err := tv.CreateSubject(ctx, &auth.TeacherScope{TeacherID: owner.ID}, &dto.SubjectRequest{Name: "History"})
	require.NoError(t, err)
	assert.Nil(t, subject.SchoolID)

	scope := &auth.TeacherScope{TeacherID: intruder.ID}
	_, err = tv.GetSubject(ctx, scope, subject.ID)
	assert.True(t, errors.Is(err, apperrors.ErrPermissionDenied))
	_, err = tv.UpdateSubject(ctx, scope, subject.ID, &dto.SubjectRequest{Name: "Mine"})
	assert.True(t, errors.Is(err, apperrors.ErrPermissionDenied))
	_, err = tv.CreateMark(ctx, scope, student.ID, models.Ref(subject.ID), &dto.MarkRequest{Value: 1})
	assert.True(t, errors.Is(err, apperrors.ErrPermissionDenied))
}

func TestStartSession(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	teacher := f.teacher(t, nil)

	session, err := f.svc.TeacherViewService.StartSession(ctx, teacher.ID)
	require.NoError(t, err)
	assert.Equal(t, "Bearer", session.TokenType)
	assert.Equal(t, "token-for-teacher", session.Token)
	assert.Equal(t, teacher.ID, session.Teacher.ID)

	_, err = f.svc.TeacherViewService.StartSession(ctx, 404)
	assert.True(t, errors.Is(err, apperrors.ErrResourceNotFound))
}

func rosterWorkbook(t *testing.T, rows [][]string) *bytes.Buffer {
	t.Helper()
	wb := excelize.NewFile()
	defer wb.Close()
	sheet := wb.GetSheetName(0)
	for i, row := range rows {
		for j, v := range row {
			cellName, err := excelize.CoordinatesToCellName(j+1, i+1)
			require.NoError(t, err)
			require.NoError(t, wb.SetCellValue(sheet, cellName, v))
		}
	}
	buf, err := wb.WriteToBuffer()
	require.NoError(t, err)
	return buf
}

func TestRosterImportCreatesStudentsInDivision(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	school := f.school(t, "Lincoln High")
	division := &models.Division{Name: "9A", SchoolID: models.Ref(school.ID)}
	require.NoError(t, f.repos.DivisionRepository.Save(ctx, division))

	wb := rosterWorkbook(t, [][]string{
		{"first_name", "last_name"},
		{"Ada", "Lovelace"},
		{"", "Nameless"},
		{"Alan", "Turing"},
		{"R2", "D2"},
	})

	resp, err := f.svc.RosterService.ImportStudents(ctx, school.ID, division.ID, wb)
	require.NoError(t, err)
	require.Len(t, resp.Created, 2)
	assert.Equal(t, []int{3, 5}, resp.Rejected)

	students, err := f.repos.StudentRepository.FindAllByDivisionID(ctx, division.ID)
	require.NoError(t, err)
	require.Len(t, students, 2)
	for _, s := range students {
		assert.Equal(t, school.ID, *s.SchoolID)
	}
}

func TestRosterImportRejectsForeignDivision(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	lincoln := f.school(t, "Lincoln High")
	other := f.school(t, "Roosevelt")
	division := &models.Division{Name: "9A", SchoolID: models.Ref(other.ID)}
	require.NoError(t, f.repos.DivisionRepository.Save(ctx, division))

	_, err := f.svc.RosterService.ImportStudents(ctx, lincoln.ID, division.ID, rosterWorkbook(t, [][]string{{"Ada", "Lovelace"}}))
	assert.True(t, errors.Is(err, apperrors.ErrConflict))

	_, err = f.svc.RosterService.ImportStudents(ctx, lincoln.ID, 404, rosterWorkbook(t, nil))
	assert.True(t, errors.Is(err, apperrors.ErrResourceNotFound))

	_, err = f.svc.RosterService.ImportStudents(ctx, other.ID, division.ID, bytes.NewBufferString("not a workbook"))
	assert.True(t, errors.Is(err, apperrors.ErrBadRequest))
}
