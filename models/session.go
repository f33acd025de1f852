package models

// Session is the client-side view of an authenticated user.
// Token present implies authenticated.
type Session struct {
	Token    string `json:"token,omitempty"`
	Username string `json:"username,omitempty"`
}

func (s Session) Authenticated() bool {
	return s.Token != ""
}
