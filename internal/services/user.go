package services

import (
	"context"

	"github.com/flixhub/apiserver/types"
)

// UserRepository defines persistence operations for account management.
type UserRepository interface {
	GetByID(ctx context.Context, id int) (types.User, error)
	List(ctx context.Context, offset, limit int) ([]types.User, int, error)
	UpdateProfile(ctx context.Context, user types.User) (types.User, error)
	Delete(ctx context.Context, id int) error
}

// UserService encapsulates account-management use-cases.
type UserService struct {
	repo UserRepository
}

func NewUserService(repo UserRepository) *UserService {
	return &UserService{repo: repo}
}

func (s *UserService) GetByID(ctx context.Context, id int) (types.User, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *UserService) List(ctx context.Context, offset, limit int) ([]types.User, int, error) {
	return s.repo.List(ctx, offset, limit)
}

// UpdateProfile changes email and display name. Empty fields keep their
// stored value; the repository applies the merge as one conditional update so
// concurrent partial updates never lose a field. Role and credential state
// are out of reach here.
func (s *UserService) UpdateProfile(ctx context.Context, id int, email, name string) (types.User, error) {
	return s.repo.UpdateProfile(ctx, types.User{ID: id, Email: email, Name: name})
}

func (s *UserService) Delete(ctx context.Context, id int) error {
	return s.repo.Delete(ctx, id)
}
