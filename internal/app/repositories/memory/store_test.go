package memory

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yigit/schoolmanager/internal/app/models"
	"github.com/yigit/schoolmanager/internal/pkg/apperrors"
)

func TestSaveFindOneRoundTrip(t *testing.T) {
	ctx := context.Background()
	repos := NewStore().Repositories()

	school := &models.School{Name: "Lincoln High"}
	require.NoError(t, repos.SchoolRepository.Save(ctx, school))
	require.NotZero(t, school.ID)

	teacher := &models.Teacher{FirstName: "Grace", LastName: "Hopper", SchoolID: models.Ref(school.ID)}
	require.NoError(t, repos.TeacherRepository.Save(ctx, teacher))

	division := &models.Division{Name: "9A", SchoolID: models.Ref(school.ID)}
	require.NoError(t, repos.DivisionRepository.Save(ctx, division))

	subject := &models.Subject{Name: "Mathematics", SchoolID: models.Ref(school.ID), TeacherID: models.Ref(teacher.ID)}
	require.NoError(t, repos.SubjectRepository.Save(ctx, subject))

	student := &models.Student{FirstName: "Ada", LastName: "Lovelace", SchoolID: models.Ref(school.ID), DivisionID: models.Ref(division.ID)}
	require.NoError(t, repos.StudentRepository.Save(ctx, student))

	mark := &models.Mark{Value: 5, Description: "test", StudentID: student.ID, SubjectID: subject.ID}
	require.NoError(t, repos.MarkRepository.Save(ctx, mark))

	gotSchool, err := repos.SchoolRepository.FindOne(ctx, school.ID)
	require.NoError(t, err)
	assert.Equal(t, school, gotSchool)

	gotTeacher, err := repos.TeacherRepository.FindOne(ctx, teacher.ID)
	require.NoError(t, err)
	assert.Equal(t, teacher, gotTeacher)

	gotDivision, err := repos.DivisionRepository.FindOne(ctx, division.ID)
	require.NoError(t, err)
	assert.Equal(t, division, gotDivision)

	gotSubject, err := repos.SubjectRepository.FindOne(ctx, subject.ID)
	require.NoError(t, err)
	assert.Equal(t, subject, gotSubject)

	gotStudent, err := repos.StudentRepository.FindOne(ctx, student.ID)
	require.NoError(t, err)
	assert.Equal(t, student, gotStudent)

	gotMark, err := repos.MarkRepository.FindOne(ctx, mark.ID)
	require.NoError(t, err)
	assert.Equal(t, mark, gotMark)

	// saving what was loaded is an update, not a new row
	require.NoError(t, repos.StudentRepository.Save(ctx, gotStudent))
	all, err := repos.StudentRepository.FindAll(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestReturnedRowsDoNotAliasStore(t *testing.T) {
	ctx := context.Background()
	repos := NewStore().Repositories()

	school := &models.School{Name: "Lincoln High"}
	require.NoError(t, repos.SchoolRepository.Save(ctx, school))
	division := &models.Division{Name: "9A", SchoolID: models.Ref(school.ID)}
	require.NoError(t, repos.DivisionRepository.Save(ctx, division))

	*division.SchoolID = 999
	loaded, err := repos.DivisionRepository.FindOne(ctx, division.ID)
	require.NoError(t, err)
	assert.Equal(t, school.ID, *loaded.SchoolID)
}

func TestFindOneMissingIsNotFound(t *testing.T) {
	ctx := context.Background()
	repos := NewStore().Repositories()

	_, err := repos.SchoolRepository.FindOne(ctx, 42)
	assert.True(t, errors.Is(err, apperrors.ErrResourceNotFound))

	_, err = repos.MarkRepository.FindOne(ctx, 42)
	assert.True(t, errors.Is(err, apperrors.ErrResourceNotFound))

	err = repos.DivisionRepository.Save(ctx, &models.Division{ID: 42, Name: "ghost"})
	assert.True(t, errors.Is(err, apperrors.ErrResourceNotFound))

	err = repos.TeacherRepository.Delete(ctx, 42)
	assert.True(t, errors.Is(err, apperrors.ErrResourceNotFound))
}

func TestSaveWithDanglingReferenceFails(t *testing.T) {
	ctx := context.Background()
	repos := NewStore().Repositories()

	err := repos.DivisionRepository.Save(ctx, &models.Division{Name: "9A", SchoolID: models.Ref(7)})
	assert.True(t, errors.Is(err, apperrors.ErrConstraintViolation))

	err = repos.MarkRepository.Save(ctx, &models.Mark{Value: 3, StudentID: 1, SubjectID: 1})
	assert.True(t, errors.Is(err, apperrors.ErrConstraintViolation))

	divisions, err := repos.DivisionRepository.FindAll(ctx)
	require.NoError(t, err)
	assert.Empty(t, divisions)
}

func TestDeleteReferencedParentLeavesRowsUnchanged(t *testing.T) {
	ctx := context.Background()
	repos := NewStore().Repositories()

	school := &models.School{Name: "Lincoln High"}
	require.NoError(t, repos.SchoolRepository.Save(ctx, school))
	division := &models.Division{Name: "9A", SchoolID: models.Ref(school.ID)}
	require.NoError(t, repos.DivisionRepository.Save(ctx, division))
	student := &models.Student{FirstName: "Ada", LastName: "Lovelace", DivisionID: models.Ref(division.ID)}
	require.NoError(t, repos.StudentRepository.Save(ctx, student))

	err := repos.SchoolRepository.Delete(ctx, school.ID)
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrConstraintViolation))

	err = repos.DivisionRepository.Delete(ctx, division.ID)
	assert.True(t, errors.Is(err, apperrors.ErrConstraintViolation))

	gotSchool, err := repos.SchoolRepository.FindOne(ctx, school.ID)
	require.NoError(t, err)
	assert.Equal(t, school, gotSchool)

	gotDivision, err := repos.DivisionRepository.FindOne(ctx, division.ID)
	require.NoError(t, err)
	assert.Equal(t, division, gotDivision)

	gotStudent, err := repos.StudentRepository.FindOne(ctx, student.ID)
	require.NoError(t, err)
	assert.Equal(t, student, gotStudent)
}

func TestDeleteUnreferencedSucceeds(t *testing.T) {
	ctx := context.Background()
	repos := NewStore().Repositories()

	school := &models.School{Name: "Lincoln High"}
	require.NoError(t, repos.SchoolRepository.Save(ctx, school))
	require.NoError(t, repos.SchoolRepository.Delete(ctx, school.ID))

	_, err := repos.SchoolRepository.FindOne(ctx, school.ID)
	assert.True(t, errors.Is(err, apperrors.ErrResourceNotFound))
}

func TestUnassignedPoolPartition(t *testing.T) {
	ctx := context.Background()
	repos := NewStore().Repositories()

	lincoln := &models.School{Name: "Lincoln High"}
	other := &models.School{Name: "Roosevelt"}
	require.NoError(t, repos.SchoolRepository.Save(ctx, lincoln))
	require.NoError(t, repos.SchoolRepository.Save(ctx, other))

	names := map[string]*int64{
		"9A": models.Ref(lincoln.ID),
		"9B": nil,
		"9C": models.Ref(other.ID),
		"9D": nil,
		"9E": models.Ref(lincoln.ID),
	}
	for name, schoolID := range names {
		require.NoError(t, repos.DivisionRepository.Save(ctx, &models.Division{Name: name, SchoolID: schoolID}))
	}

	assigned, err := repos.DivisionRepository.FindAllBySchoolID(ctx, lincoln.ID)
	require.NoError(t, err)
	free, err := repos.DivisionRepository.FindAllBySchoolIDIsNull(ctx)
	require.NoError(t, err)

	seen := make(map[int64]bool)
	for _, d := range free {
		assert.Nil(t, d.SchoolID, "free pool contains assigned division %s", d.Name)
		seen[d.ID] = true
	}
	for _, d := range assigned {
		assert.False(t, seen[d.ID], "division %s is both assigned and free", d.Name)
		seen[d.ID] = true
	}

	all, err := repos.DivisionRepository.FindAll(ctx)
	require.NoError(t, err)
	for _, d := range all {
		if d.SchoolID == nil || *d.SchoolID == lincoln.ID {
			assert.True(t, seen[d.ID], "division %s missing from partition", d.Name)
		}
	}
	assert.Len(t, assigned, 2)
	assert.Len(t, free, 2)
}

func TestStudentsNotInSchool(t *testing.T) {
	ctx := context.Background()
	repos := NewStore().Repositories()

	lincoln := &models.School{Name: "Lincoln High"}
	other := &models.School{Name: "Roosevelt"}
	require.NoError(t, repos.SchoolRepository.Save(ctx, lincoln))
	require.NoError(t, repos.SchoolRepository.Save(ctx, other))

	in := &models.Student{FirstName: "A", LastName: "In", SchoolID: models.Ref(lincoln.ID)}
	free := &models.Student{FirstName: "B", LastName: "Free"}
	elsewhere := &models.Student{FirstName: "C", LastName: "Elsewhere", SchoolID: models.Ref(other.ID)}
	for _, s := range []*models.Student{in, free, elsewhere} {
		require.NoError(t, repos.StudentRepository.Save(ctx, s))
	}

	outside, err := repos.StudentRepository.FindAllNotInSchool(ctx, lincoln.ID)
	require.NoError(t, err)
	assert.ElementsMatch(t, []*models.Student{free, elsewhere}, outside)
}

func TestSetSchoolAssignThenRemove(t *testing.T) {
	ctx := context.Background()
	repos := NewStore().Repositories()

	school := &models.School{Name: "Lincoln High"}
	require.NoError(t, repos.SchoolRepository.Save(ctx, school))
	student := &models.Student{FirstName: "Ada", LastName: "Lovelace"}
	require.NoError(t, repos.StudentRepository.Save(ctx, student))

	require.NoError(t, repos.StudentRepository.SetSchool(ctx, student.ID, models.Ref(school.ID)))
	got, err := repos.StudentRepository.FindOne(ctx, student.ID)
	require.NoError(t, err)
	assert.Equal(t, school.ID, *got.SchoolID)

	require.NoError(t, repos.StudentRepository.SetSchool(ctx, student.ID, nil))
	got, err = repos.StudentRepository.FindOne(ctx, student.ID)
	require.NoError(t, err)
	assert.Nil(t, got.SchoolID)
}

func TestLincolnHighScenario(t *testing.T) {
	ctx := context.Background()
	repos := NewStore().Repositories()

	school := &models.School{Name: "Lincoln High"}
	require.NoError(t, repos.SchoolRepository.Save(ctx, school))
	division := &models.Division{Name: "9A"}
	require.NoError(t, repos.DivisionRepository.Save(ctx, division))

	free, err := repos.DivisionRepository.FindAllBySchoolIDIsNull(ctx)
	require.NoError(t, err)
	require.Len(t, free, 1)

	require.NoError(t, repos.DivisionRepository.SetSchool(ctx, division.ID, models.Ref(school.ID)))

	assigned, err := repos.DivisionRepository.FindAllBySchoolID(ctx, school.ID)
	require.NoError(t, err)
	require.Len(t, assigned, 1)
	assert.Equal(t, "9A", assigned[0].Name)

	free, err = repos.DivisionRepository.FindAllBySchoolIDIsNull(ctx)
	require.NoError(t, err)
	assert.Empty(t, free)
}

func TestDivisionRosterOrder(t *testing.T) {
	ctx := context.Background()
	repos := NewStore().Repositories()

	division := &models.Division{Name: "9A"}
	require.NoError(t, repos.DivisionRepository.Save(ctx, division))
	for _, s := range []*models.Student{
		{FirstName: "Zoe", LastName: "Brown", DivisionID: models.Ref(division.ID)},
		{FirstName: "Adam", LastName: "Brown", DivisionID: models.Ref(division.ID)},
		{FirstName: "Ada", LastName: "Adams", DivisionID: models.Ref(division.ID)},
		{FirstName: "Nobody", LastName: "Else"},
	} {
		require.NoError(t, repos.StudentRepository.Save(ctx, s))
	}

	roster, err := repos.StudentRepository.FindAllByDivisionID(ctx, division.ID)
	require.NoError(t, err)
	require.Len(t, roster, 3)
	assert.Equal(t, "Adams", roster[0].LastName)
	assert.Equal(t, "Adam", roster[1].FirstName)
	assert.Equal(t, "Zoe", roster[2].FirstName)
}
