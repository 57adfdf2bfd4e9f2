package routes

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/yigit/schoolmanager/internal/app/models"
	"github.com/yigit/schoolmanager/internal/app/repositories"
	"github.com/yigit/schoolmanager/internal/app/repositories/memory"
	"github.com/yigit/schoolmanager/internal/app/services"
	"github.com/yigit/schoolmanager/internal/pkg/auth"
	"github.com/yigit/schoolmanager/internal/pkg/cache"
)

type envelope struct {
	Success  bool            `json:"success"`
	View     string          `json:"view"`
	Redirect string          `json:"redirect"`
	Data     json.RawMessage `json:"data"`
	Error    *struct {
		Code    string          `json:"code"`
		Message string          `json:"message"`
		Details json.RawMessage `json:"details"`
	} `json:"error"`
}

type harness struct {
	router *gin.Engine
	repos  *repositories.Repositories
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	gin.SetMode(gin.TestMode)

	repos := memory.NewStore().Repositories()
	jwtService := auth.NewJWTService(auth.JWTConfig{SecretKey: "test-secret", AccessTokenExp: time.Hour, TokenIssuer: "schoolmanager.test"})
	router := gin.New()
	SetupRouter(router, NewControllers(services.NewServices(repos, cache.NewMemory(), jwtService)), jwtService)
	return &harness{router: router, repos: repos}
}

func (h *harness) send(t *testing.T, req *http.Request) (int, envelope) {
	t.Helper()
	w := httptest.NewRecorder()
	h.router.ServeHTTP(w, req)

	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env), w.Body.String())
	return w.Code, env
}

func (h *harness) do(t *testing.T, method, path string, body interface{}, token string) (int, envelope) {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return h.send(t, req)
}

func decode[T any](t *testing.T, raw json.RawMessage) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(raw, &v))
	return v
}

func TestLincolnHighScenario(t *testing.T) {
	h := newHarness(t)

	status, env := h.do(t, http.MethodPost, "/school/create", map[string]string{"name": "Lincoln High"}, "")
	require.Equal(t, http.StatusCreated, status)
	assert.Equal(t, "/school/all", env.Redirect)
	school := decode[models.School](t, env.Data)

	status, env = h.do(t, http.MethodPost, "/division/create", map[string]string{"name": "9A"}, "")
	require.Equal(t, http.StatusCreated, status)
	division := decode[models.Division](t, env.Data)
	assert.Nil(t, division.SchoolID)

	status, env = h.do(t, http.MethodGet, fmt.Sprintf("/school/addDivision/%d", school.ID), nil, "")
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "school/addDivision_school", env.View)
	view := decode[struct {
		Assigned  []models.Division `json:"assigned"`
		Available []models.Division `json:"available"`
	}](t, env.Data)
	assert.Empty(t, view.Assigned)
	require.Len(t, view.Available, 1)
	assert.Equal(t, "9A", view.Available[0].Name)

	status, env = h.do(t, http.MethodGet, fmt.Sprintf("/school/addDivision/%d/%d", school.ID, division.ID), nil, "")
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, fmt.Sprintf("/school/addDivision/%d", school.ID), env.Redirect)

	status, env = h.do(t, http.MethodGet, fmt.Sprintf("/school/view/%d", school.ID), nil, "")
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "school/show_school", env.View)
	details := decode[struct {
		Divisions []models.Division `json:"divisions"`
	}](t, env.Data)
	require.Len(t, details.Divisions, 1)
	assert.Equal(t, "9A", details.Divisions[0].Name)

	pool, err := h.repos.DivisionRepository.FindAllBySchoolIDIsNull(context.Background())
	require.NoError(t, err)
	assert.Empty(t, pool)
}

func TestSchoolFormValidation(t *testing.T) {
	h := newHarness(t)

	status, env := h.do(t, http.MethodPost, "/school/create", map[string]string{"name": ""}, "")
	require.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "school/new_school", env.View)
	require.NotNil(t, env.Error)
	assert.Equal(t, "VAL_001", env.Error.Code)
	form := decode[struct {
		Fields []struct {
			Field   string `json:"field"`
			Message string `json:"message"`
		} `json:"fields"`
	}](t, env.Data)
	require.Len(t, form.Fields, 1)
	assert.Equal(t, "name", form.Fields[0].Field)
	assert.Equal(t, "name is required", form.Fields[0].Message)

	// the same form posted url-encoded
	req := httptest.NewRequest(http.MethodPost, "/school/create", strings.NewReader(url.Values{"name": {"Roosevelt"}}.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	status, env = h.send(t, req)
	require.Equal(t, http.StatusCreated, status)
	assert.Equal(t, "Roosevelt", decode[models.School](t, env.Data).Name)
}

func TestBlankNamesAreRejected(t *testing.T) {
	h := newHarness(t)
	token := h.session(t, h.teacherWithSchool(t))

	tests := []struct {
		path  string
		view  string
		token string
	}{
		{"/school/create", "school/new_school", ""},
		{"/division/create", "division/new_division", ""},
		{"/teacherView/createSubjects", "teacher_view/new_subject", token},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			status, env := h.do(t, http.MethodPost, tt.path, map[string]string{"name": "   "}, tt.token)
			require.Equal(t, http.StatusBadRequest, status)
			assert.Equal(t, tt.view, env.View)
			form := decode[struct {
				Fields []struct {
					Field string `json:"field"`
				} `json:"fields"`
			}](t, env.Data)
			require.Len(t, form.Fields, 1)
			assert.Equal(t, "name", form.Fields[0].Field)
		})
	}

	schools, err := h.repos.SchoolRepository.FindAll(context.Background())
	require.NoError(t, err)
	require.Len(t, schools, 1)
	assert.Equal(t, "Roosevelt", schools[0].Name)
	divisions, err := h.repos.DivisionRepository.FindAll(context.Background())
	require.NoError(t, err)
	assert.Empty(t, divisions)
}

func (h *harness) teacherWithSchool(t *testing.T) int64 {
	t.Helper()
	ctx := context.Background()
	school := &models.School{Name: "Roosevelt"}
	require.NoError(t, h.repos.SchoolRepository.Save(ctx, school))
	teacher := &models.Teacher{FirstName: "Grace", LastName: "Hopper", SchoolID: models.Ref(school.ID)}
	require.NoError(t, h.repos.TeacherRepository.Save(ctx, teacher))
	return teacher.ID
}

func TestSchoolNotFoundAndBadIDs(t *testing.T) {
	h := newHarness(t)

	tests := []struct {
		method string
		path   string
		status int
		code   string
	}{
		{http.MethodGet, "/school/view/99", http.StatusNotFound, "RES_001"},
		{http.MethodGet, "/school/update/99", http.StatusNotFound, "RES_001"},
		{http.MethodPost, "/school/delete/99", http.StatusNotFound, "RES_001"},
		{http.MethodGet, "/school/addTeacher/99", http.StatusNotFound, "RES_001"},
		{http.MethodGet, "/school/view/abc", http.StatusBadRequest, "BAD_REQUEST"},
		{http.MethodGet, "/school/view/0", http.StatusBadRequest, "BAD_REQUEST"},
	}
	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			status, env := h.do(t, tt.method, tt.path, nil, "")
			assert.Equal(t, tt.status, status)
			require.NotNil(t, env.Error)
			assert.Equal(t, tt.code, env.Error.Code)
		})
	}
}

func TestSchoolUpdateAndDeleteFlow(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	school := &models.School{Name: "Lincoln High"}
	require.NoError(t, h.repos.SchoolRepository.Save(ctx, school))
	require.NoError(t, h.repos.TeacherRepository.Save(ctx, &models.Teacher{FirstName: "Grace", LastName: "Hopper", SchoolID: models.Ref(school.ID)}))

	status, env := h.do(t, http.MethodPost, fmt.Sprintf("/school/update/%d", school.ID), map[string]string{"name": "Lincoln Academy"}, "")
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, school.ID, decode[models.School](t, env.Data).ID)

	status, env = h.do(t, http.MethodGet, fmt.Sprintf("/school/delete/%d", school.ID), nil, "")
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "school/all_schools", env.View)
	confirm := decode[struct {
		Remove *models.School `json:"remove"`
	}](t, env.Data)
	require.NotNil(t, confirm.Remove)
	assert.Equal(t, "Lincoln Academy", confirm.Remove.Name)

	status, env = h.do(t, http.MethodPost, fmt.Sprintf("/school/delete/%d", school.ID), nil, "")
	require.Equal(t, http.StatusConflict, status)
	assert.Equal(t, "errors/deleteException", env.View)
	assert.Equal(t, "RES_004", env.Error.Code)

	_, err := h.repos.SchoolRepository.FindOne(ctx, school.ID)
	require.NoError(t, err)
}

func TestAssignDivisionOfAnotherSchoolConflicts(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	lincoln := &models.School{Name: "Lincoln High"}
	require.NoError(t, h.repos.SchoolRepository.Save(ctx, lincoln))
	roosevelt := &models.School{Name: "Roosevelt"}
	require.NoError(t, h.repos.SchoolRepository.Save(ctx, roosevelt))
	division := &models.Division{Name: "9B", SchoolID: models.Ref(roosevelt.ID)}
	require.NoError(t, h.repos.DivisionRepository.Save(ctx, division))

	status, env := h.do(t, http.MethodGet, fmt.Sprintf("/school/addDivision/%d/%d", lincoln.ID, division.ID), nil, "")
	require.Equal(t, http.StatusConflict, status)
	assert.Equal(t, "RES_004", env.Error.Code)
	assert.Empty(t, env.View)
	details := decode[map[string]interface{}](t, env.Error.Details)
	assert.EqualValues(t, roosevelt.ID, details["schoolId"])

	stored, err := h.repos.DivisionRepository.FindOne(ctx, division.ID)
	require.NoError(t, err)
	assert.Equal(t, roosevelt.ID, *stored.SchoolID)
}

func TestRemoveStudentClearsSchool(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	school := &models.School{Name: "Lincoln High"}
	require.NoError(t, h.repos.SchoolRepository.Save(ctx, school))

	status, env := h.do(t, http.MethodPost, "/student/create", map[string]interface{}{
		"first_name": "Ada", "last_name": "Lovelace", "school_id": school.ID,
	}, "")
	require.Equal(t, http.StatusCreated, status)
	student := decode[models.Student](t, env.Data)
	require.NotNil(t, student.SchoolID)

	status, env = h.do(t, http.MethodGet, fmt.Sprintf("/school/removeStudent/%d/%d", school.ID, student.ID), nil, "")
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, fmt.Sprintf("/school/addStudent/%d", school.ID), env.Redirect)

	stored, err := h.repos.StudentRepository.FindOne(ctx, student.ID)
	require.NoError(t, err)
	assert.Nil(t, stored.SchoolID)
}

func TestTeacherViewWithoutTokenIsUnauthorized(t *testing.T) {
	h := newHarness(t)

	for _, token := range []string{"", "not.a.jwt"} {
		status, env := h.do(t, http.MethodGet, "/teacherView/subjects", nil, token)
		assert.Equal(t, http.StatusUnauthorized, status)
		require.NotNil(t, env.Error)
		assert.Equal(t, "AUTH_009", env.Error.Code)
		assert.Equal(t, "no active teacher session", env.Error.Message)
	}

	status, env := h.do(t, http.MethodPost, "/teacherView/createMark/1?subjectId=1", map[string]int{"value": 5}, "")
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Equal(t, "AUTH_009", env.Error.Code)

	status, _ = h.do(t, http.MethodGet, "/teacherView/createSubjects", nil, "")
	assert.Equal(t, http.StatusUnauthorized, status)

	// the missing session wins over an invalid form
	forms := []struct {
		path string
		body interface{}
	}{
		{"/teacherView/createSubjects", map[string]string{"name": ""}},
		{"/teacherView/updateSubject/1", map[string]string{"name": ""}},
		{"/teacherView/createMark/1?subjectId=1", map[string]int{"value": 9}},
		{"/teacherView/updateMark/1", map[string]int{"value": 0}},
	}
	for _, form := range forms {
		status, env = h.do(t, http.MethodPost, form.path, form.body, "")
		assert.Equal(t, http.StatusUnauthorized, status, form.path)
		assert.Equal(t, "AUTH_009", env.Error.Code, form.path)
	}
}

func (h *harness) session(t *testing.T, teacherID int64) string {
	t.Helper()
	status, env := h.do(t, http.MethodPost, "/teacherView/session", map[string]int64{"teacher_id": teacherID}, "")
	require.Equal(t, http.StatusCreated, status)
	return decode[struct {
		Token string `json:"token"`
	}](t, env.Data).Token
}

func TestTeacherSubjectAndMarkFlow(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	school := &models.School{Name: "Lincoln High"}
	require.NoError(t, h.repos.SchoolRepository.Save(ctx, school))
	division := &models.Division{Name: "9A", SchoolID: models.Ref(school.ID)}
	require.NoError(t, h.repos.DivisionRepository.Save(ctx, division))
	teacher := &models.Teacher{FirstName: "Grace", LastName: "Hopper", SchoolID: models.Ref(school.ID)}
	require.NoError(t, h.repos.TeacherRepository.Save(ctx, teacher))
	student := &models.Student{FirstName: "Ada", LastName: "Lovelace", SchoolID: models.Ref(school.ID), DivisionID: models.Ref(division.ID)}
	require.NoError(t, h.repos.StudentRepository.Save(ctx, student))

	token := h.session(t, teacher.ID)

	status, env := h.do(t, http.MethodPost, "/teacherView/createSubjects", map[string]string{"name": "Mathematics"}, token)
	require.Equal(t, http.StatusCreated, status)
	subject := decode[models.Subject](t, env.Data)
	assert.Equal(t, teacher.ID, *subject.TeacherID)
	assert.Equal(t, school.ID, *subject.SchoolID)

	status, env = h.do(t, http.MethodGet, "/teacherView", nil, token)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "teacher_view/teacher_subjects", env.View)

	markPath := fmt.Sprintf("/teacherView/createMark/%d", student.ID)

	status, env = h.do(t, http.MethodPost, markPath, map[string]int{"value": 5}, token)
	require.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "VAL_002", env.Error.Code)
	assert.Equal(t, "no subject selected", env.Error.Message)

	withSubject := fmt.Sprintf("%s?subjectId=%d", markPath, subject.ID)
	status, env = h.do(t, http.MethodPost, withSubject, map[string]int{"value": 9}, token)
	require.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "VAL_001", env.Error.Code)
	assert.Equal(t, "teacher_view/new_mark", env.View)

	status, env = h.do(t, http.MethodPost, withSubject, map[string]interface{}{"value": 5, "description": "Midterm"}, token)
	require.Equal(t, http.StatusCreated, status)
	assert.Equal(t, "/teacherView", env.Redirect)
	mark := decode[models.Mark](t, env.Data)
	assert.Equal(t, student.ID, mark.StudentID)

	status, env = h.do(t, http.MethodPost, fmt.Sprintf("/teacherView/updateMark/%d", mark.ID), map[string]int{"value": 4}, token)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, fmt.Sprintf("/division/inside/marks/%d/%d", division.ID, subject.ID), env.Redirect)
	assert.Equal(t, 4, decode[models.Mark](t, env.Data).Value)

	status, env = h.do(t, http.MethodGet, fmt.Sprintf("/teacherView/showDivision/%d", division.ID), nil, token)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "teacher_view/allStudents_division", env.View)

	status, env = h.do(t, http.MethodDelete, fmt.Sprintf("/teacherView/deleteSubject/%d", subject.ID), nil, token)
	require.Equal(t, http.StatusConflict, status)
	assert.Equal(t, "errors/deleteException", env.View)

	status, _ = h.do(t, http.MethodDelete, fmt.Sprintf("/teacherView/deleteMark/%d", mark.ID), nil, token)
	require.Equal(t, http.StatusOK, status)
	status, _ = h.do(t, http.MethodGet, fmt.Sprintf("/teacherView/deleteSubject/%d", subject.ID), nil, token)
	require.Equal(t, http.StatusOK, status)
}

func TestForeignSubjectIsForbidden(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	owner := &models.Teacher{FirstName: "Grace", LastName: "Hopper"}
	require.NoError(t, h.repos.TeacherRepository.Save(ctx, owner))
	other := &models.Teacher{FirstName: "Alan", LastName: "Turing"}
	require.NoError(t, h.repos.TeacherRepository.Save(ctx, other))
	subject := &models.Subject{Name: "History", TeacherID: models.Ref(owner.ID)}
	require.NoError(t, h.repos.SubjectRepository.Save(ctx, subject))

	status, env := h.do(t, http.MethodGet, fmt.Sprintf("/teacherView/viewSubject/%d", subject.ID), nil, h.session(t, other.ID))
	assert.Equal(t, http.StatusForbidden, status)
	assert.Equal(t, "FORBIDDEN", env.Error.Code)

	status, _ = h.do(t, http.MethodPost, "/teacherView/session", map[string]int64{"teacher_id": 404}, "")
	assert.Equal(t, http.StatusNotFound, status)
}

func TestImportStudentsFromWorkbook(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	school := &models.School{Name: "Lincoln High"}
	require.NoError(t, h.repos.SchoolRepository.Save(ctx, school))
	division := &models.Division{Name: "9A", SchoolID: models.Ref(school.ID)}
	require.NoError(t, h.repos.DivisionRepository.Save(ctx, division))

	wb := excelize.NewFile()
	sheet := wb.GetSheetName(0)
	require.NoError(t, wb.SetSheetRow(sheet, "A1", &[]interface{}{"first_name", "last_name"}))
	require.NoError(t, wb.SetSheetRow(sheet, "A2", &[]interface{}{"Ada", "Lovelace"}))
	require.NoError(t, wb.SetSheetRow(sheet, "A3", &[]interface{}{"Alan", "Turing"}))
	xlsx, err := wb.WriteToBuffer()
	require.NoError(t, err)
	require.NoError(t, wb.Close())

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, err := mw.CreateFormFile("file", "roster.xlsx")
	require.NoError(t, err)
	_, err = part.Write(xlsx.Bytes())
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, fmt.Sprintf("/school/importStudents/%d/%d", school.ID, division.ID), &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	status, env := h.send(t, req)
	require.Equal(t, http.StatusCreated, status)
	result := decode[struct {
		Created []models.Student `json:"created"`
	}](t, env.Data)
	assert.Len(t, result.Created, 2)

	students, err := h.repos.StudentRepository.FindAllByDivisionID(ctx, division.ID)
	require.NoError(t, err)
	require.Len(t, students, 2)
	assert.Equal(t, "Lovelace", students[0].LastName)

	// no file part
	var empty bytes.Buffer
	mw = multipart.NewWriter(&empty)
	require.NoError(t, mw.Close())
	req = httptest.NewRequest(http.MethodPost, fmt.Sprintf("/school/importStudents/%d/%d", school.ID, division.ID), &empty)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	status, env = h.send(t, req)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "VAL_001", env.Error.Code)
}
