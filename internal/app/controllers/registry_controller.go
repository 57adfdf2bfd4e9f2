package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yigit/schoolmanager/internal/app/models/dto"
	"github.com/yigit/schoolmanager/internal/app/services"
	"github.com/yigit/schoolmanager/internal/middleware"
)

// RegistryController lists and creates divisions, students and teachers
// so the school pools can be filled over HTTP
type RegistryController struct {
	divisionService services.DivisionService
	studentService  services.StudentService
	teacherService  services.TeacherService
}

// NewRegistryController creates a new RegistryController
func NewRegistryController(divisionService services.DivisionService, studentService services.StudentService, teacherService services.TeacherService) *RegistryController {
	return &RegistryController{
		divisionService: divisionService,
		studentService:  studentService,
		teacherService:  teacherService,
	}
}

// GetAllDivisions godoc
// @Summary List divisions
// @Tags registry
// @Produce json
// @Success 200 {object} dto.APIResponse{data=[]models.Division}
// @Router /division/all [get]
func (c *RegistryController) GetAllDivisions(ctx *gin.Context) {
	divisions, err := c.divisionService.GetAllDivisions(ctx)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewViewResponse("division/all_divisions", divisions))
}

// CreateDivision godoc
// @Summary Create a division
// @Tags registry
// @Accept json,x-www-form-urlencoded
// @Produce json
// @Param request body dto.DivisionRequest true "Division"
// @Success 201 {object} dto.APIResponse{data=models.Division}
// @Failure 400 {object} dto.ErrorResponse
// @Router /division/create [post]
func (c *RegistryController) CreateDivision(ctx *gin.Context) {
	const view = "division/new_division"
	var req dto.DivisionRequest
	if err := middleware.BindAndValidate(ctx, &req); err != nil {
		middleware.HandleFormError(ctx, view, req, err)
		return
	}

	division, err := c.divisionService.CreateDivision(ctx, &req)
	if err != nil {
		middleware.HandleFormError(ctx, view, req, err)
		return
	}
	ctx.JSON(http.StatusCreated, dto.NewRedirectResponse("/division/all", division))
}

// GetAllStudents godoc
// @Summary List students
// @Tags registry
// @Produce json
// @Success 200 {object} dto.APIResponse{data=[]models.Student}
// @Router /student/all [get]
func (c *RegistryController) GetAllStudents(ctx *gin.Context) {
	students, err := c.studentService.GetAllStudents(ctx)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewViewResponse("student/all_students", students))
}

// CreateStudent godoc
// @Summary Create a student
// @Tags registry
// @Accept json,x-www-form-urlencoded
// @Produce json
// @Param request body dto.StudentRequest true "Student"
// @Success 201 {object} dto.APIResponse{data=models.Student}
// @Failure 400 {object} dto.ErrorResponse
// @Router /student/create [post]
func (c *RegistryController) CreateStudent(ctx *gin.Context) {
	const view = "student/new_student"
	var req dto.StudentRequest
	if err := middleware.BindAndValidate(ctx, &req); err != nil {
		middleware.HandleFormError(ctx, view, req, err)
		return
	}

	student, err := c.studentService.CreateStudent(ctx, &req)
	if err != nil {
		middleware.HandleFormError(ctx, view, req, err)
		return
	}
	ctx.JSON(http.StatusCreated, dto.NewRedirectResponse("/student/all", student))
}

// GetAllTeachers godoc
// @Summary List teachers
// @Tags registry
// @Produce json
// @Success 200 {object} dto.APIResponse{data=[]models.Teacher}
// @Router /teacher/all [get]
func (c *RegistryController) GetAllTeachers(ctx *gin.Context) {
	teachers, err := c.teacherService.GetAllTeachers(ctx)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewViewResponse("teacher/all_teachers", teachers))
}

// CreateTeacher godoc
// @Summary Create a teacher
// @Tags registry
// @Accept json,x-www-form-urlencoded
// @Produce json
// @Param request body dto.TeacherRequest true "Teacher"
// @Success 201 {object} dto.APIResponse{data=models.Teacher}
// @Failure 400 {object} dto.ErrorResponse
// @Router /teacher/create [post]
func (c *RegistryController) CreateTeacher(ctx *gin.Context) {
	const view = "teacher/new_teacher"
	var req dto.TeacherRequest
	if err := middleware.BindAndValidate(ctx, &req); err != nil {
		middleware.HandleFormError(ctx, view, req, err)
		return
	}

	teacher, err := c.teacherService.CreateTeacher(ctx, &req)
	if err != nil {
		middleware.HandleFormError(ctx, view, req, err)
		return
	}
	ctx.JSON(http.StatusCreated, dto.NewRedirectResponse("/teacher/all", teacher))
}
