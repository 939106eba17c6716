package models

// User is a mock API account. The password hash is never serialised.
type User struct {
	ID           int    `json:"id"`
	Username     string `json:"username"`
	Email        string `json:"email"`
	Region       string `json:"region"`
	PasswordHash string `json:"-"`
}

// NewUser is the POST /api/users body. Password is optional and defaults to
// the shared mock password.
type NewUser struct {
	Username string `json:"username"`
	Email    string `json:"email" validate:"omitempty,email"`
	Region   string `json:"region"`
	Password string `json:"password,omitempty"`
}

// UserPatch is the PUT /api/users/{id} body. Only fields present in the
// request are applied.
type UserPatch struct {
	Username *string `json:"username"`
	Email    *string `json:"email" validate:"omitempty,email"`
	Region   *string `json:"region"`
}

// Apply merges the present fields of p into u.
func (p UserPatch) Apply(u User) User {
	if p.Username != nil {
		u.Username = *p.Username
	}
	if p.Email != nil {
		u.Email = *p.Email
	}
	if p.Region != nil {
		u.Region = *p.Region
	}
	return u
}
