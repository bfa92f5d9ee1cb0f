package authorization

import (
	"context"
	"errors"
)

type Service interface {
	// Authorize checks whether the actor in ctx may perform action on object.
	Authorize(ctx context.Context, object string, action string) error
}

var (
	ErrInvalidActor  = errors.New("invalid_actor")
	ErrInvalidObject = errors.New("invalid_object")
	ErrInvalidAction = errors.New("invalid_action")
	ErrForbidden     = errors.New("forbidden")
)
