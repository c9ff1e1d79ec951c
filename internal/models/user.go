package models

const StatusOK = "ok"

// Request body for /register and /login
type Credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Response of /register, /login, /logout (status on success, error otherwise)
type StatusResponse struct {
	Status string `json:"status,omitempty"`
	Error  string `json:"error,omitempty"`
}

func (r StatusResponse) OK() bool {
	return r.Status == StatusOK
}

// Response of /profile-check
type ProfileCheckResponse struct {
	LoggedIn bool   `json:"logged_in"`
	Username string `json:"username,omitempty"`
}
