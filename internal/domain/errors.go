package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound matches every *NotFoundError
	ErrNotFound = errors.New("not found")
	// ErrCreateFail matches every *CreateFailError
	ErrCreateFail = errors.New("create failed")
	// ErrUpdateFail matches every *UpdateFailError
	ErrUpdateFail = errors.New("update failed")
)

// NotFoundError reports a lookup miss. An empty collection is reported
// with ID 0.
type NotFoundError struct {
	Entity string `json:"entity"`
	ID     uint64 `json:"id"`
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %d not found", e.Entity, e.ID)
}

// Is reports whether target is ErrNotFound
func (e *NotFoundError) Is(target error) bool { return target == ErrNotFound }

// CreateFailError reports a payload rejected on creation
type CreateFailError struct {
	Msg string `json:"msg"`
}

func (e *CreateFailError) Error() string {
	return "create failed: " + e.Msg
}

// Is reports whether target is ErrCreateFail
func (e *CreateFailError) Is(target error) bool { return target == ErrCreateFail }

// UpdateFailError reports a payload rejected on update
type UpdateFailError struct {
	Msg string `json:"msg"`
}

func (e *UpdateFailError) Error() string {
	return "update failed: " + e.Msg
}

// Is reports whether target is ErrUpdateFail
func (e *UpdateFailError) Is(target error) bool { return target == ErrUpdateFail }

// NotFound builds a NotFoundError
func NotFound(entity string, id uint64) error {
	return &NotFoundError{Entity: entity, ID: id}
}

// CreateFail builds a CreateFailError
func CreateFail(msg string) error {
	return &CreateFailError{Msg: msg}
}

// UpdateFail builds an UpdateFailError
func UpdateFail(msg string) error {
	return &UpdateFailError{Msg: msg}
}
