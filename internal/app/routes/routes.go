package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/yigit/schoolmanager/internal/app/controllers"
	"github.com/yigit/schoolmanager/internal/app/services"
	"github.com/yigit/schoolmanager/internal/middleware"
	"github.com/yigit/schoolmanager/internal/pkg/auth"
)

// Controllers groups every controller the router mounts
type Controllers struct {
	School      *controllers.SchoolController
	Membership  *controllers.MembershipController
	Registry    *controllers.RegistryController
	Roster      *controllers.RosterController
	TeacherView *controllers.TeacherViewController
}

// NewControllers builds the controllers over svc
func NewControllers(svc *services.Services) *Controllers {
	return &Controllers{
		School:      controllers.NewSchoolController(svc.SchoolService),
		Membership:  controllers.NewMembershipController(svc.MembershipService),
		Registry:    controllers.NewRegistryController(svc.DivisionService, svc.StudentService, svc.TeacherService),
		Roster:      controllers.NewRosterController(svc.RosterService),
		TeacherView: controllers.NewTeacherViewController(svc.TeacherViewService),
	}
}

// SetupRouter configures all application routes
func SetupRouter(router *gin.Engine, c *Controllers, jwtService *auth.JWTService) {
	// --- School management ---
	school := router.Group("/school")
	{
		school.GET("/all", c.School.GetAllSchools)
		school.GET("/create", c.School.NewSchoolForm)
		school.POST("/create", c.School.CreateSchool)
		school.GET("/view/:id", c.School.GetSchool)
		school.GET("/update/:id", c.School.EditSchoolForm)
		school.POST("/update/:id", c.School.UpdateSchool)
		school.GET("/delete/:id", c.School.ConfirmDeleteSchool)
		school.POST("/delete/:id", c.School.DeleteSchool)

		// addDivision, removeStudent, ...
		for _, kind := range services.MemberKinds {
			segment := controllers.KindSegment(kind)
			school.GET("/add"+segment+"/:schoolId", c.Membership.AssignView(kind))
			school.GET("/add"+segment+"/:schoolId/:childId", c.Membership.Assign(kind))
			school.GET("/remove"+segment+"/:schoolId/:childId", c.Membership.Remove(kind))
		}

		school.POST("/importStudents/:schoolId/:divisionId", c.Roster.ImportStudents)
	}

	router.GET("/division/all", c.Registry.GetAllDivisions)
	router.POST("/division/create", c.Registry.CreateDivision)
	router.GET("/student/all", c.Registry.GetAllStudents)
	router.POST("/student/create", c.Registry.CreateStudent)
	router.GET("/teacher/all", c.Registry.GetAllTeachers)
	router.POST("/teacher/create", c.Registry.CreateTeacher)

	// --- Teacher view, scoped by the teacher token ---
	teacherView := router.Group("/teacherView")
	teacherView.Use(middleware.TeacherContext(jwtService))
	{
		teacherView.POST("/session", c.TeacherView.StartSession)

		teacherView.GET("", c.TeacherView.GetSubjects)
		teacherView.GET("/subjects", c.TeacherView.GetSubjects)
		teacherView.GET("/createSubjects", c.TeacherView.NewSubjectForm)
		teacherView.POST("/createSubjects", c.TeacherView.CreateSubject)
		teacherView.GET("/viewSubject/:id", c.TeacherView.GetSubject)
		teacherView.GET("/updateSubject/:id", c.TeacherView.EditSubjectForm)
		teacherView.POST("/updateSubject/:id", c.TeacherView.UpdateSubject)
		teacherView.GET("/deleteSubject/:id", c.TeacherView.DeleteSubject)
		teacherView.DELETE("/deleteSubject/:id", c.TeacherView.DeleteSubject)

		teacherView.GET("/showDivision/:divisionId", c.TeacherView.ShowDivision)

		teacherView.GET("/createMark/:studentId", c.TeacherView.NewMarkForm)
		teacherView.POST("/createMark/:studentId", c.TeacherView.CreateMark)
		teacherView.GET("/viewMark/:markId", c.TeacherView.GetMark)
		teacherView.GET("/updateMark/:markId", c.TeacherView.EditMarkForm)
		teacherView.POST("/updateMark/:markId", c.TeacherView.UpdateMark)
		teacherView.GET("/deleteMark/:markId", c.TeacherView.DeleteMark)
		teacherView.DELETE("/deleteMark/:markId", c.TeacherView.DeleteMark)
	}
}
