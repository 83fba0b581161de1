package models

import "errors"

var (
	ErrUsernameTaken     = errors.New("username already exists")
	ErrCategoryExists    = errors.New("category with this slug or name already exists")
	ErrInvalidStatus     = errors.New("invalid story status")
	ErrInvalidTransition = errors.New("story cannot be moved back to pending")
)
