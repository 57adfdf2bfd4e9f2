package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yigit/schoolmanager/internal/app/models/dto"
	"github.com/yigit/schoolmanager/internal/app/services"
	"github.com/yigit/schoolmanager/internal/middleware"
)

// School views
const (
	viewAllSchools = "school/all_schools"
	viewNewSchool  = "school/new_school"
	viewShowSchool = "school/show_school"
	viewEditSchool = "school/edit_school"
)

const schoolListPath = "/school/all"

// SchoolController handles school CRUD
type SchoolController struct {
	schoolService services.SchoolService
}

// NewSchoolController creates a new SchoolController
func NewSchoolController(schoolService services.SchoolService) *SchoolController {
	return &SchoolController{
		schoolService: schoolService,
	}
}

// GetAllSchools lists all schools
// @Summary List schools
// @Tags school
// @Produce json
// @Success 200 {object} dto.APIResponse{data=dto.SchoolListResponse}
// @Failure 500 {object} dto.ErrorResponse
// @Router /school/all [get]
func (c *SchoolController) GetAllSchools(ctx *gin.Context) {
	schools, err := c.schoolService.GetAllSchools(ctx)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewViewResponse(viewAllSchools, dto.SchoolListResponse{Schools: schools}))
}

// NewSchoolForm returns an empty school form
// @Summary School create form
// @Tags school
// @Produce json
// @Success 200 {object} dto.APIResponse{data=dto.SchoolRequest}
// @Router /school/create [get]
func (c *SchoolController) NewSchoolForm(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, dto.NewViewResponse(viewNewSchool, dto.SchoolRequest{}))
}

// CreateSchool handles school creation
// @Summary Create a school
// @Tags school
// @Accept json,x-www-form-urlencoded
// @Produce json
// @Param request body dto.SchoolRequest true "School"
// @Success 201 {object} dto.APIResponse{data=models.School}
// @Failure 400 {object} dto.ErrorResponse "Form redisplayed with field errors"
// @Router /school/create [post]
func (c *SchoolController) CreateSchool(ctx *gin.Context) {
	var req dto.SchoolRequest
	if err := middleware.BindAndValidate(ctx, &req); err != nil {
		middleware.HandleFormError(ctx, viewNewSchool, req, err)
		return
	}

	school, err := c.schoolService.CreateSchool(ctx, &req)
	if err != nil {
		middleware.HandleFormError(ctx, viewNewSchool, req, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.NewRedirectResponse(schoolListPath, school))
}

// GetSchool shows a school with its divisions, subjects, students and teachers
// @Summary Show a school
// @Tags school
// @Produce json
// @Param id path int true "School ID"
// @Success 200 {object} dto.APIResponse{data=dto.SchoolDetails}
// @Failure 404 {object} dto.ErrorResponse
// @Router /school/view/{id} [get]
func (c *SchoolController) GetSchool(ctx *gin.Context) {
	id, err := parseIDParam(ctx, "id")
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	details, err := c.schoolService.GetSchoolDetails(ctx, id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewViewResponse(viewShowSchool, details))
}

// EditSchoolForm returns the school for editing
// @Summary School edit form
// @Tags school
// @Produce json
// @Param id path int true "School ID"
// @Success 200 {object} dto.APIResponse{data=models.School}
// @Failure 404 {object} dto.ErrorResponse
// @Router /school/update/{id} [get]
func (c *SchoolController) EditSchoolForm(ctx *gin.Context) {
	id, err := parseIDParam(ctx, "id")
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	school, err := c.schoolService.GetSchoolByID(ctx, id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewViewResponse(viewEditSchool, school))
}

// UpdateSchool saves an edited school
// @Summary Update a school
// @Tags school
// @Accept json,x-www-form-urlencoded
// @Produce json
// @Param id path int true "School ID"
// @Param request body dto.SchoolRequest true "School"
// @Success 200 {object} dto.APIResponse{data=models.School}
// @Failure 400 {object} dto.ErrorResponse "Form redisplayed with field errors"
// @Failure 404 {object} dto.ErrorResponse
// @Router /school/update/{id} [post]
func (c *SchoolController) UpdateSchool(ctx *gin.Context) {
	id, err := parseIDParam(ctx, "id")
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	var req dto.SchoolRequest
	if err := middleware.BindAndValidate(ctx, &req); err != nil {
		middleware.HandleFormError(ctx, viewEditSchool, req, err)
		return
	}

	school, err := c.schoolService.UpdateSchool(ctx, id, &req)
	if err != nil {
		middleware.HandleFormError(ctx, viewEditSchool, req, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewRedirectResponse(schoolListPath, school))
}

// ConfirmDeleteSchool lists the schools with the one to delete marked
// @Summary School delete confirmation
// @Tags school
// @Produce json
// @Param id path int true "School ID"
// @Success 200 {object} dto.APIResponse{data=dto.SchoolListResponse}
// @Failure 404 {object} dto.ErrorResponse
// @Router /school/delete/{id} [get]
func (c *SchoolController) ConfirmDeleteSchool(ctx *gin.Context) {
	id, err := parseIDParam(ctx, "id")
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	school, err := c.schoolService.GetSchoolByID(ctx, id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	schools, err := c.schoolService.GetAllSchools(ctx)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewViewResponse(viewAllSchools, dto.SchoolListResponse{Schools: schools, Remove: school}))
}

// DeleteSchool deletes a school
// @Summary Delete a school
// @Tags school
// @Produce json
// @Param id path int true "School ID"
// @Success 200 {object} dto.APIResponse
// @Failure 404 {object} dto.ErrorResponse
// @Failure 409 {object} dto.ErrorResponse "School is still referenced"
// @Router /school/delete/{id} [post]
func (c *SchoolController) DeleteSchool(ctx *gin.Context) {
	id, err := parseIDParam(ctx, "id")
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	if err := c.schoolService.DeleteSchool(ctx, id); err != nil {
		middleware.HandleDeleteError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewRedirectResponse(schoolListPath, gin.H{"id": id}))
}
