// Package repository holds the query functions behind every feed and the follow store.
package repository

import (
	"errors"

	"gorm.io/gorm"
)

var (
	// ErrNotFound is returned when a slug, username or id does not resolve to a row.
	ErrNotFound = errors.New("record not found")
	// ErrUsernameTaken is returned by signup when the username already exists.
	ErrUsernameTaken = errors.New("username already exists")

	ErrSelfFollow       = errors.New("users cannot follow themselves")
	ErrAlreadyFollowing = errors.New("already following this author")
	ErrFollowNotFound   = errors.New("not following this author")
)

// notFound converts gorm's not-found error into ErrNotFound and leaves others untouched.
func notFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}
