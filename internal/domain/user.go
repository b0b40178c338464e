package domain

type User struct {
	ID       int64       `json:"id,omitempty"`
	Username string      `json:"username"`
	Name     string      `json:"name"`
	LastName string      `json:"lastname"`
	Email    string      `json:"email"`
	Password Opt[string] `json:"password,omitzero"`
}

// DisplayName is the name shown next to the user's avatar.
func (u User) DisplayName() string {
	if u.LastName == "" {
		return u.Name
	}
	return u.Name + " " + u.LastName
}

type RegisterRequest struct {
	Username string `json:"username"`
	Name     string `json:"name"`
	LastName string `json:"lastname"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginRequest identifies the user by username or email.
type LoginRequest struct {
	Username string `json:"username,omitempty"`
	Email    string `json:"email,omitempty"`
	Password string `json:"password"`
}

type RegisterResponse struct {
	Message string `json:"message"`
	User    User   `json:"user"`
}

type LoginResponse struct {
	Message string `json:"message"`
	ID      int64  `json:"id"`
	User    User   `json:"user"`
}
