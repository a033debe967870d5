package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/lshigami/Quizdesk/internal/auth"
	"github.com/lshigami/Quizdesk/internal/dto"
	"github.com/rs/zerolog/log"
)

const (
	principalKey = "auth.principal"
	teacherKey   = "auth.teacher"
	studentKey   = "auth.student"
)

// Authenticate verifies the bearer access token and stores the caller's
// principal. Exactly one of the teacher or student capabilities is stored
// alongside it, according to the role claim.
func Authenticate(tokens *auth.TokenService) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		scheme, token, found := strings.Cut(header, " ")
		if header == "" || !found || !strings.EqualFold(scheme, "Bearer") || strings.TrimSpace(token) == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, dto.ErrorResponse{Detail: "Authentication credentials were not provided."})
			return
		}

		principal, err := tokens.Authenticate(strings.TrimSpace(token))
		if err != nil {
			log.Debug().Err(err).Str("path", c.FullPath()).Msg("Rejected access token")
			c.AbortWithStatusJSON(http.StatusUnauthorized, dto.ErrorResponse{Detail: "Given token not valid for any token type"})
			return
		}

		c.Set(principalKey, principal)
		if t, ok := principal.Teacher(); ok {
			c.Set(teacherKey, t)
		}
		if s, ok := principal.Student(); ok {
			c.Set(studentKey, s)
		}
		c.Next()
	}
}

func RequireTeacher() gin.HandlerFunc {
	return requireKey(teacherKey)
}

func RequireStudent() gin.HandlerFunc {
	return requireKey(studentKey)
}

func requireKey(key string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := c.Get(key); !ok {
			c.AbortWithStatusJSON(http.StatusForbidden, dto.ErrorResponse{Detail: "You do not have permission to perform this action."})
			return
		}
		c.Next()
	}
}

// Teacher returns the teacher capability. Only call it behind RequireTeacher.
func Teacher(c *gin.Context) auth.Teacher {
	return c.MustGet(teacherKey).(auth.Teacher)
}

// Student returns the student capability. Only call it behind RequireStudent.
func Student(c *gin.Context) auth.Student {
	return c.MustGet(studentKey).(auth.Student)
}

// TeacherFrom is for routes open to both roles.
func TeacherFrom(c *gin.Context) (auth.Teacher, bool) {
	v, ok := c.Get(teacherKey)
	if !ok {
		return auth.Teacher{}, false
	}
	t, ok := v.(auth.Teacher)
	return t, ok
}

func StudentFrom(c *gin.Context) (auth.Student, bool) {
	v, ok := c.Get(studentKey)
	if !ok {
		return auth.Student{}, false
	}
	s, ok := v.(auth.Student)
	return s, ok
}
