package dto

// LoginForm is the form body for POST /login.
type LoginForm struct {
	Username string `form:"username" binding:"required"`
	Password string `form:"password" binding:"required"`
	Remember string `form:"remember"`
}

// RememberSet reports whether the remember checkbox was submitted at all;
// browsers omit the field entirely when unchecked.
func (f LoginForm) RememberSet() bool { return f.Remember != "" }

// SignupForm is the form body for POST /signup.
type SignupForm struct {
	Username string `form:"username"`
	Password string `form:"password"`
}

// UserResponse is returned when user info is needed (e.g. after login).
type UserResponse struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
}
