package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/yigit/schoolmanager/internal/pkg/auth"
	"github.com/yigit/schoolmanager/internal/pkg/logger"
)

const teacherScopeKey = "teacherScope"

// TeacherContext resolves the teacher token of a request into a
// TeacherScope. Requests without a usable token pass through unscoped and
// the teacher-view services reject them.
func TeacherContext(jwtService *auth.JWTService) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		// Swagger UI sometimes puts the token in the query
		if authHeader == "" {
			authHeader = c.Query("token")
		}
		if authHeader == "" {
			c.Next()
			return
		}

		tokenString, err := auth.ExtractBearerToken(authHeader)
		if err == nil {
			var claims *auth.TeacherClaims
			claims, err = jwtService.ValidateTeacherToken(tokenString)
			if err == nil {
				c.Set(teacherScopeKey, claims.Scope())
			}
		}
		if err != nil {
			logger.Debug().Err(err).Str("path", c.Request.URL.Path).Msg("Ignoring unusable teacher token")
		}

		c.Next()
	}
}

// TeacherScope returns the scope set by TeacherContext, or nil
func TeacherScope(c *gin.Context) *auth.TeacherScope {
	v, ok := c.Get(teacherScopeKey)
	if !ok {
		return nil
	}
	scope, _ := v.(*auth.TeacherScope)
	return scope
}
