// Package services holds the school-management use cases. Services take
// repository interfaces, so the same code runs over Postgres and the
// in-memory store.
package services

import (
	"github.com/yigit/schoolmanager/internal/app/repositories"
	"github.com/yigit/schoolmanager/internal/pkg/cache"
)

// Services holds all the service instances
type Services struct {
	SchoolService      SchoolService
	MembershipService  MembershipService
	DivisionService    DivisionService
	StudentService     StudentService
	TeacherService     TeacherService
	TeacherViewService TeacherViewService
	RosterService      RosterService
}

// NewServices wires every service over repos
func NewServices(repos *repositories.Repositories, c cache.Cache, tokens TokenIssuer) *Services {
	return &Services{
		SchoolService:      NewSchoolService(repos, c),
		MembershipService:  NewMembershipService(repos),
		DivisionService:    NewDivisionService(repos.DivisionRepository, repos.SchoolRepository),
		StudentService:     NewStudentService(repos),
		TeacherService:     NewTeacherService(repos.TeacherRepository, repos.SchoolRepository),
		TeacherViewService: NewTeacherViewService(repos, tokens),
		RosterService:      NewRosterService(repos),
	}
}
