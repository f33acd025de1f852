package models

type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type Registration struct {
	Email          string    `json:"email"`
	Password       string    `json:"password"`
	FirstName      string    `json:"firstName"`
	LastName       string    `json:"lastName"`
	GraduationYear NumString `json:"graduationYear"`
	Major          string    `json:"major"`
}

type AuthResponse struct {
	Success  *bool    `json:"success,omitempty"`
	Token    string   `json:"token"`
	Username string   `json:"username,omitempty"`
	Message  string   `json:"message,omitempty"`
	User     *Profile `json:"user,omitempty"`
}

type PasswordReset struct {
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirmPassword,omitempty"`
}

// Message is the generic acknowledgement body ({"message": "..."}).
type Message struct {
	Success *bool  `json:"success,omitempty"`
	Message string `json:"message,omitempty"`
}
