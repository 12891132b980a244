package users

import "time"

// User is an account. PasswordHash never leaves the service.
type User struct {
	ID           int64     `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	Phone        *string   `json:"phone"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"-"`
}

// SignupInput carries the fields accepted at registration.
type SignupInput struct {
	Name      string
	Email     string
	Password  string
	Phone     *string
	CreatedAt time.Time
}
