package auth

import "github.com/lshigami/Quizdesk/internal/model"

// Principal is the authenticated caller as read from an access token.
type Principal struct {
	UserID uint
	Role   model.Role
}

// Teacher is a caller proven to hold the teacher role. Only the auth
// middleware constructs it from a verified token.
type Teacher struct {
	ID uint
}

// Student is a caller proven to hold the student role.
type Student struct {
	ID uint
}

// Teacher returns the teacher capability when the principal holds that role.
func (p Principal) Teacher() (Teacher, bool) {
	if p.Role != model.RoleTeacher {
		return Teacher{}, false
	}
	return Teacher{ID: p.UserID}, true
}

// Student returns the student capability when the principal holds that role.
func (p Principal) Student() (Student, bool) {
	if p.Role != model.RoleStudent {
		return Student{}, false
	}
	return Student{ID: p.UserID}, true
}
