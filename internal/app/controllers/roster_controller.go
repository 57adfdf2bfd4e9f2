package controllers

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yigit/schoolmanager/internal/app/models/dto"
	"github.com/yigit/schoolmanager/internal/app/services"
	"github.com/yigit/schoolmanager/internal/middleware"
	"github.com/yigit/schoolmanager/internal/pkg/apperrors"
)

// RosterController imports students from uploaded workbooks
type RosterController struct {
	rosterService services.RosterService
}

// NewRosterController creates a new RosterController
func NewRosterController(rosterService services.RosterService) *RosterController {
	return &RosterController{
		rosterService: rosterService,
	}
}

// ImportStudents creates the students listed in an uploaded .xlsx roster
// @Summary Import a roster
// @Description First sheet, columns first_name and last_name
// @Tags school
// @Accept multipart/form-data
// @Produce json
// @Param schoolId path int true "School ID"
// @Param divisionId path int true "Division ID"
// @Param file formData file true "Roster workbook (.xlsx)"
// @Success 201 {object} dto.APIResponse{data=dto.RosterImportResponse}
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Failure 409 {object} dto.ErrorResponse "Division belongs to another school"
// @Router /school/importStudents/{schoolId}/{divisionId} [post]
func (c *RosterController) ImportStudents(ctx *gin.Context) {
	schoolID, err := parseIDParam(ctx, "schoolId")
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	divisionID, err := parseIDParam(ctx, "divisionId")
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	fileHeader, err := ctx.FormFile("file")
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) {
			err = apperrors.NewValidationError("file", "file is required")
		} else {
			err = apperrors.NewBadRequestError(err.Error())
		}
		middleware.HandleAPIError(ctx, err)
		return
	}
	file, err := fileHeader.Open()
	if err != nil {
		middleware.HandleAPIError(ctx, apperrors.NewBadRequestError(err.Error()))
		return
	}
	defer file.Close()

	result, err := c.rosterService.ImportStudents(ctx, schoolID, divisionID, file)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.NewRedirectResponse(fmt.Sprintf("/school/view/%d", schoolID), result))
}
