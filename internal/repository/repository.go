// Package repository defines the storage contracts consumed by the service
// layer. Concrete drivers live in the subpackages (sqlite, mongodb).
package repository

import (
	"context"

	"github.com/Vanshsharma2405/Major-Project-Backend/internal/model"
)

// UserRepository is the credential store: the single shared resource of the
// auth subsystem.
//
// Create MUST return apperror.ErrDuplicateEmail when a record with the same
// normalized email already exists. Under concurrent registration the
// store-level unique index is the authoritative uniqueness guard — callers'
// prior existence checks are advisory only and do not eliminate the race.
//
// GetByEmail and GetByID return apperror.ErrNotFound when no record
// matches. Both return the full record including the credential hash; it is
// the handler layer's job to strip the hash (via model.User.Summary) before
// anything reaches a response.
type UserRepository interface {
	Create(ctx context.Context, user *model.User) error
	GetByEmail(ctx context.Context, email string) (*model.User, error)
	GetByID(ctx context.Context, id string) (*model.User, error)
}
