package core

// Identity is the account behind a bearer token, as read from its claims.
type Identity struct {
	ID       int    `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email,omitempty"`
	Role     string `json:"role,omitempty"`
}

func (id Identity) IsZero() bool {
	return id.ID == 0 && id.Username == ""
}
