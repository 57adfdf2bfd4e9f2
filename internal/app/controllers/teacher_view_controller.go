package controllers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yigit/schoolmanager/internal/app/models/dto"
	"github.com/yigit/schoolmanager/internal/app/services"
	"github.com/yigit/schoolmanager/internal/middleware"
	"github.com/yigit/schoolmanager/internal/pkg/apperrors"
	"github.com/yigit/schoolmanager/internal/pkg/auth"
)

// Teacher view pages
const (
	viewTeacherSubjects = "teacher_view/teacher_subjects"
	viewNewSubject      = "teacher_view/new_subject"
	viewShowSubject     = "teacher_view/show_subject"
	viewEditSubject     = "teacher_view/edit_subject"
	viewDivisionRoster  = "teacher_view/allStudents_division"
	viewNewMark         = "teacher_view/new_mark"
	viewShowMark        = "mark/show_mark"
	viewEditMark        = "mark/edit_mark"
)

const teacherViewPath = "/teacherView"

// TeacherViewController serves the pages a teacher uses for their subjects and marks
type TeacherViewController struct {
	teacherViewService services.TeacherViewService
}

// NewTeacherViewController creates a new TeacherViewController
func NewTeacherViewController(teacherViewService services.TeacherViewService) *TeacherViewController {
	return &TeacherViewController{
		teacherViewService: teacherViewService,
	}
}

// requireScope answers 401 and reports false when the request carries no
// teacher. Form handlers call it before binding.
func requireScope(ctx *gin.Context) (*auth.TeacherScope, bool) {
	scope := middleware.TeacherScope(ctx)
	if scope == nil {
		middleware.HandleAPIError(ctx, apperrors.ErrNoTeacherSession)
		return nil, false
	}
	return scope, true
}

// StartSession issues a teacher token
// @Summary Start a teacher session
// @Tags teacherView
// @Accept json,x-www-form-urlencoded
// @Produce json
// @Param request body dto.TeacherSessionRequest true "Teacher"
// @Success 201 {object} dto.APIResponse{data=dto.TeacherSessionResponse}
// @Failure 404 {object} dto.ErrorResponse
// @Router /teacherView/session [post]
func (c *TeacherViewController) StartSession(ctx *gin.Context) {
	var req dto.TeacherSessionRequest
	if err := middleware.BindAndValidate(ctx, &req); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	session, err := c.teacherViewService.StartSession(ctx, req.TeacherID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.NewRedirectResponse(teacherViewPath, session))
}

// GetSubjects lists the subjects of the teacher
// @Summary Teacher subjects
// @Tags teacherView
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=dto.TeacherSubjectsResponse}
// @Failure 401 {object} dto.ErrorResponse "No teacher session"
// @Router /teacherView [get]
// @Router /teacherView/subjects [get]
func (c *TeacherViewController) GetSubjects(ctx *gin.Context) {
	subjects, err := c.teacherViewService.GetSubjects(ctx, middleware.TeacherScope(ctx))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewViewResponse(viewTeacherSubjects, subjects))
}

// NewSubjectForm returns an empty subject form
// @Summary Subject create form
// @Tags teacherView
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=dto.SubjectRequest}
// @Failure 401 {object} dto.ErrorResponse
// @Router /teacherView/createSubjects [get]
func (c *TeacherViewController) NewSubjectForm(ctx *gin.Context) {
	if _, ok := requireScope(ctx); !ok {
		return
	}
	ctx.JSON(http.StatusOK, dto.NewViewResponse(viewNewSubject, dto.SubjectRequest{}))
}

// CreateSubject creates a subject taught by the teacher
// @Summary Create a subject
// @Tags teacherView
// @Accept json,x-www-form-urlencoded
// @Produce json
// @Security BearerAuth
// @Param request body dto.SubjectRequest true "Subject"
// @Success 201 {object} dto.APIResponse{data=models.Subject}
// @Failure 400 {object} dto.ErrorResponse
// @Failure 401 {object} dto.ErrorResponse
// @Router /teacherView/createSubjects [post]
func (c *TeacherViewController) CreateSubject(ctx *gin.Context) {
	scope, ok := requireScope(ctx)
	if !ok {
		return
	}

	var req dto.SubjectRequest
	if err := middleware.BindAndValidate(ctx, &req); err != nil {
		middleware.HandleFormError(ctx, viewNewSubject, req, err)
		return
	}

	subject, err := c.teacherViewService.CreateSubject(ctx, scope, &req)
	if err != nil {
		middleware.HandleFormError(ctx, viewNewSubject, req, err)
		return
	}
	ctx.JSON(http.StatusCreated, dto.NewRedirectResponse(teacherViewPath, subject))
}

// GetSubject shows a subject with its marks
// @Summary Show a subject
// @Tags teacherView
// @Produce json
// @Security BearerAuth
// @Param id path int true "Subject ID"
// @Success 200 {object} dto.APIResponse{data=dto.SubjectDetails}
// @Failure 401 {object} dto.ErrorResponse
// @Failure 403 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /teacherView/viewSubject/{id} [get]
func (c *TeacherViewController) GetSubject(ctx *gin.Context) {
	id, err := parseIDParam(ctx, "id")
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	details, err := c.teacherViewService.GetSubject(ctx, middleware.TeacherScope(ctx), id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewViewResponse(viewShowSubject, details))
}

// EditSubjectForm returns a subject for editing
// @Summary Subject edit form
// @Tags teacherView
// @Produce json
// @Security BearerAuth
// @Param id path int true "Subject ID"
// @Success 200 {object} dto.APIResponse{data=models.Subject}
// @Router /teacherView/updateSubject/{id} [get]
func (c *TeacherViewController) EditSubjectForm(ctx *gin.Context) {
	id, err := parseIDParam(ctx, "id")
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	details, err := c.teacherViewService.GetSubject(ctx, middleware.TeacherScope(ctx), id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewViewResponse(viewEditSubject, details.Subject))
}

// UpdateSubject renames a subject
// @Summary Update a subject
// @Tags teacherView
// @Accept json,x-www-form-urlencoded
// @Produce json
// @Security BearerAuth
// @Param id path int true "Subject ID"
// @Param request body dto.SubjectRequest true "Subject"
// @Success 200 {object} dto.APIResponse{data=models.Subject}
// @Router /teacherView/updateSubject/{id} [post]
func (c *TeacherViewController) UpdateSubject(ctx *gin.Context) {
	scope, ok := requireScope(ctx)
	if !ok {
		return
	}
	id, err := parseIDParam(ctx, "id")
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	var req dto.SubjectRequest
	if err := middleware.BindAndValidate(ctx, &req); err != nil {
		middleware.HandleFormError(ctx, viewEditSubject, req, err)
		return
	}

	subject, err := c.teacherViewService.UpdateSubject(ctx, scope, id, &req)
	if err != nil {
		middleware.HandleFormError(ctx, viewEditSubject, req, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewRedirectResponse(teacherViewPath, subject))
}

// DeleteSubject deletes a subject without marks
// @Summary Delete a subject
// @Tags teacherView
// @Produce json
// @Security BearerAuth
// @Param id path int true "Subject ID"
// @Success 200 {object} dto.APIResponse
// @Failure 409 {object} dto.ErrorResponse "Subject still has marks"
// @Router /teacherView/deleteSubject/{id} [get]
// @Router /teacherView/deleteSubject/{id} [delete]
func (c *TeacherViewController) DeleteSubject(ctx *gin.Context) {
	id, err := parseIDParam(ctx, "id")
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	if err := c.teacherViewService.DeleteSubject(ctx, middleware.TeacherScope(ctx), id); err != nil {
		middleware.HandleDeleteError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewRedirectResponse(teacherViewPath, gin.H{"id": id}))
}

// ShowDivision lists the students of a division
// @Summary Division roster
// @Tags teacherView
// @Produce json
// @Security BearerAuth
// @Param divisionId path int true "Division ID"
// @Success 200 {object} dto.APIResponse{data=dto.DivisionRoster}
// @Router /teacherView/showDivision/{divisionId} [get]
func (c *TeacherViewController) ShowDivision(ctx *gin.Context) {
	divisionID, err := parseIDParam(ctx, "divisionId")
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	roster, err := c.teacherViewService.ShowDivision(ctx, middleware.TeacherScope(ctx), divisionID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewViewResponse(viewDivisionRoster, roster))
}

// NewMarkForm returns an empty mark for the student in the selected subject
// @Summary Mark create form
// @Tags teacherView
// @Produce json
// @Security BearerAuth
// @Param studentId path int true "Student ID"
// @Param subjectId query int true "Subject ID"
// @Success 200 {object} dto.APIResponse{data=dto.MarkForm}
// @Failure 400 {object} dto.ErrorResponse "No subject selected"
// @Router /teacherView/createMark/{studentId} [get]
func (c *TeacherViewController) NewMarkForm(ctx *gin.Context) {
	studentID, err := parseIDParam(ctx, "studentId")
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	subjectID, err := optionalID(ctx, "subjectId")
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	form, err := c.teacherViewService.NewMarkForm(ctx, middleware.TeacherScope(ctx), studentID, subjectID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewViewResponse(viewNewMark, form))
}

// CreateMark gives a student a mark in the selected subject
// @Summary Create a mark
// @Tags teacherView
// @Accept json,x-www-form-urlencoded
// @Produce json
// @Security BearerAuth
// @Param studentId path int true "Student ID"
// @Param subjectId query int true "Subject ID"
// @Param request body dto.MarkRequest true "Mark"
// @Success 201 {object} dto.APIResponse{data=models.Mark}
// @Failure 400 {object} dto.ErrorResponse "Invalid value or no subject selected"
// @Failure 401 {object} dto.ErrorResponse
// @Router /teacherView/createMark/{studentId} [post]
func (c *TeacherViewController) CreateMark(ctx *gin.Context) {
	scope, ok := requireScope(ctx)
	if !ok {
		return
	}
	studentID, err := parseIDParam(ctx, "studentId")
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	var req dto.MarkRequest
	if err := middleware.BindAndValidate(ctx, &req); err != nil {
		middleware.HandleFormError(ctx, viewNewMark, req, err)
		return
	}
	subjectID, err := optionalID(ctx, "subjectId")
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	mark, err := c.teacherViewService.CreateMark(ctx, scope, studentID, subjectID, &req)
	if err != nil {
		middleware.HandleFormError(ctx, viewNewMark, req, err)
		return
	}
	ctx.JSON(http.StatusCreated, dto.NewRedirectResponse(teacherViewPath, mark))
}

// GetMark shows a mark
// @Summary Show a mark
// @Tags teacherView
// @Produce json
// @Security BearerAuth
// @Param markId path int true "Mark ID"
// @Success 200 {object} dto.APIResponse{data=dto.MarkForm}
// @Router /teacherView/viewMark/{markId} [get]
func (c *TeacherViewController) GetMark(ctx *gin.Context) {
	c.showMark(ctx, viewShowMark)
}

// EditMarkForm returns a mark for editing
// @Summary Mark edit form
// @Tags teacherView
// @Produce json
// @Security BearerAuth
// @Param markId path int true "Mark ID"
// @Success 200 {object} dto.APIResponse{data=dto.MarkForm}
// @Router /teacherView/updateMark/{markId} [get]
func (c *TeacherViewController) EditMarkForm(ctx *gin.Context) {
	c.showMark(ctx, viewEditMark)
}

func (c *TeacherViewController) showMark(ctx *gin.Context, view string) {
	id, err := parseIDParam(ctx, "markId")
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	mark, err := c.teacherViewService.GetMark(ctx, middleware.TeacherScope(ctx), id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewViewResponse(view, mark))
}

// UpdateMark changes a mark's value and description
// @Summary Update a mark
// @Tags teacherView
// @Accept json,x-www-form-urlencoded
// @Produce json
// @Security BearerAuth
// @Param markId path int true "Mark ID"
// @Param request body dto.MarkRequest true "Mark"
// @Success 200 {object} dto.APIResponse{data=models.Mark}
// @Router /teacherView/updateMark/{markId} [post]
func (c *TeacherViewController) UpdateMark(ctx *gin.Context) {
	scope, ok := requireScope(ctx)
	if !ok {
		return
	}
	id, err := parseIDParam(ctx, "markId")
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	var req dto.MarkRequest
	if err := middleware.BindAndValidate(ctx, &req); err != nil {
		middleware.HandleFormError(ctx, viewEditMark, req, err)
		return
	}

	updated, err := c.teacherViewService.UpdateMark(ctx, scope, id, &req)
	if err != nil {
		middleware.HandleFormError(ctx, viewEditMark, req, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewRedirectResponse(markListPath(updated), updated.Mark))
}

// markListPath is the marks page of the student's division for the mark's
// subject, or the subject page for a student without a division
func markListPath(form *dto.MarkForm) string {
	if form.Student.DivisionID == nil {
		return fmt.Sprintf("%s/viewSubject/%d", teacherViewPath, form.Subject.ID)
	}
	return fmt.Sprintf("/division/inside/marks/%d/%d", *form.Student.DivisionID, form.Subject.ID)
}

// DeleteMark deletes a mark
// @Summary Delete a mark
// @Tags teacherView
// @Produce json
// @Security BearerAuth
// @Param markId path int true "Mark ID"
// @Success 200 {object} dto.APIResponse
// @Router /teacherView/deleteMark/{markId} [get]
// @Router /teacherView/deleteMark/{markId} [delete]
func (c *TeacherViewController) DeleteMark(ctx *gin.Context) {
	id, err := parseIDParam(ctx, "markId")
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	if err := c.teacherViewService.DeleteMark(ctx, middleware.TeacherScope(ctx), id); err != nil {
		middleware.HandleDeleteError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewRedirectResponse(teacherViewPath, gin.H{"id": id}))
}
