package controllers

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/yigit/schoolmanager/internal/app/models/dto"
	"github.com/yigit/schoolmanager/internal/app/services"
	"github.com/yigit/schoolmanager/internal/middleware"
)

// MembershipController toggles which divisions, subjects, students and
// teachers belong to a school. One set of handlers serves every kind.
type MembershipController struct {
	membershipService services.MembershipService
}

// NewMembershipController creates a new MembershipController
func NewMembershipController(membershipService services.MembershipService) *MembershipController {
	return &MembershipController{
		membershipService: membershipService,
	}
}

// KindSegment is the route and view segment of a kind, e.g. "Division"
func KindSegment(kind services.MemberKind) string {
	s := string(kind)
	return strings.ToUpper(s[:1]) + s[1:]
}

func assignView(kind services.MemberKind) string {
	return fmt.Sprintf("school/add%s_school", KindSegment(kind))
}

func assignPath(kind services.MemberKind, schoolID int64) string {
	return fmt.Sprintf("/school/add%s/%d", KindSegment(kind), schoolID)
}

// AssignView shows the members of a school and the assignable pool
// @Summary Membership assign view
// @Description kind is one of Division, Subject, Student, Teacher
// @Tags school
// @Produce json
// @Param schoolId path int true "School ID"
// @Success 200 {object} dto.APIResponse{data=dto.MembershipResponse}
// @Failure 404 {object} dto.ErrorResponse
// @Router /school/addDivision/{schoolId} [get]
// @Router /school/addSubject/{schoolId} [get]
// @Router /school/addStudent/{schoolId} [get]
// @Router /school/addTeacher/{schoolId} [get]
func (c *MembershipController) AssignView(kind services.MemberKind) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		schoolID, err := parseIDParam(ctx, "schoolId")
		if err != nil {
			middleware.HandleAPIError(ctx, err)
			return
		}

		view, err := c.membershipService.AssignView(ctx, kind, schoolID)
		if err != nil {
			middleware.HandleAPIError(ctx, err)
			return
		}

		ctx.JSON(http.StatusOK, dto.NewViewResponse(assignView(kind), view))
	}
}

// Assign adds a member to a school
// @Summary Assign to school
// @Tags school
// @Produce json
// @Param schoolId path int true "School ID"
// @Param childId path int true "Member ID"
// @Success 200 {object} dto.APIResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /school/addDivision/{schoolId}/{childId} [get]
// @Router /school/addSubject/{schoolId}/{childId} [get]
// @Router /school/addStudent/{schoolId}/{childId} [get]
// @Router /school/addTeacher/{schoolId}/{childId} [get]
func (c *MembershipController) Assign(kind services.MemberKind) gin.HandlerFunc {
	return c.toggle(kind, c.membershipService.Assign)
}

// Remove takes a member out of a school without deleting it
// @Summary Remove from school
// @Tags school
// @Produce json
// @Param schoolId path int true "School ID"
// @Param childId path int true "Member ID"
// @Success 200 {object} dto.APIResponse
// @Failure 404 {object} dto.ErrorResponse
// @Failure 409 {object} dto.ErrorResponse "Member belongs to another school"
// @Router /school/removeDivision/{schoolId}/{childId} [get]
// @Router /school/removeSubject/{schoolId}/{childId} [get]
// @Router /school/removeStudent/{schoolId}/{childId} [get]
// @Router /school/removeTeacher/{schoolId}/{childId} [get]
func (c *MembershipController) Remove(kind services.MemberKind) gin.HandlerFunc {
	return c.toggle(kind, c.membershipService.Remove)
}

func (c *MembershipController) toggle(kind services.MemberKind, apply func(context.Context, services.MemberKind, int64, int64) error) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		schoolID, err := parseIDParam(ctx, "schoolId")
		if err != nil {
			middleware.HandleAPIError(ctx, err)
			return
		}
		memberID, err := parseIDParam(ctx, "childId")
		if err != nil {
			middleware.HandleAPIError(ctx, err)
			return
		}

		if err := apply(ctx, kind, schoolID, memberID); err != nil {
			middleware.HandleAPIError(ctx, err)
			return
		}

		ctx.JSON(http.StatusOK, dto.NewRedirectResponse(assignPath(kind, schoolID), gin.H{
			"school_id": schoolID,
			"member_id": memberID,
		}))
	}
}
