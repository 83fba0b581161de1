package models

// User is a stub identity record. No authentication is built on it.
type User struct {
	ID       int64  `json:"id" db:"id"`
	Username string `json:"username" db:"username"`
	Password string `json:"password" db:"password"`
}

// UserInput is the payload used to create a user
type UserInput struct {
	Username string `json:"username"`
	Password string `json:"password"`
}
