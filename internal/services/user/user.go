// Package services содержит логику работы с пользователями:
// список пользователей с доступными продуктами, профиль и смена пароля.
package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/magabrotheeeer/dotpoint/internal/lib/password"
	"github.com/magabrotheeeer/dotpoint/internal/models"
)

// ErrInvalidPassword — текущий пароль указан неверно.
var ErrInvalidPassword = errors.New("current password is invalid")

// enrichLimit ограничивает число одновременных запросов при обогащении списка.
const enrichLimit = 8

// Repository описывает операции хранилища над пользователями.
type Repository interface {
	ListUsers(ctx context.Context) ([]models.User, error)
	GetUser(ctx context.Context, id int64) (models.User, error)
	// UserProducts возвращает бесплатные продукты и продукты с действующей подпиской.
	UserProducts(ctx context.Context, userID int64, asOf time.Time) ([]models.Product, error)
	UpdateUserProfile(ctx context.Context, id int64, firstName, lastName string) error
	UpdateUserPassword(ctx context.Context, id int64, passwordHash string) error
}

// UserService реализует операции над пользователями.
type UserService struct {
	repo Repository
	now  func() time.Time
}

// NewUserService создает новый экземпляр UserService.
func NewUserService(repo Repository) *UserService {
	return &UserService{
		repo: repo,
		now:  time.Now,
	}
}

// List возвращает всех пользователей, каждого со списком доступных ему продуктов.
// Продукты подгружаются параллельно, порядок пользователей сохраняется.
func (s *UserService) List(ctx context.Context) ([]models.UserWithProducts, error) {
	const op = "services.user.List"

	users, err := s.repo.ListUsers(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	today := models.DateOf(s.now().UTC())
	result := make([]models.UserWithProducts, len(users))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(enrichLimit)
	for i, u := range users {
		i, u := i, u
		g.Go(func() error {
			products, err := s.repo.UserProducts(gctx, u.ID, today)
			if err != nil {
				return err
			}
			if products == nil {
				products = make([]models.Product, 0)
			}
			result[i] = models.UserWithProducts{User: u, Products: products}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// EditProfile меняет имя и фамилию пользователя и возвращает обновлённую запись.
func (s *UserService) EditProfile(ctx context.Context, userID int64, req models.ProfileUpdate) (models.User, error) {
	const op = "services.user.EditProfile"

	if err := s.repo.UpdateUserProfile(ctx, userID, req.FirstName, req.LastName); err != nil {
		return models.User{}, fmt.Errorf("%s: %w", op, err)
	}
	user, err := s.repo.GetUser(ctx, userID)
	if err != nil {
		return models.User{}, fmt.Errorf("%s: %w", op, err)
	}
	return user, nil
}

// ChangePassword проверяет текущий пароль и сохраняет новый.
func (s *UserService) ChangePassword(ctx context.Context, userID int64, req models.PasswordChange) error {
	const op = "services.user.ChangePassword"

	user, err := s.repo.GetUser(ctx, userID)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if err := password.CompareHash(user.PasswordHash, req.CurrentPassword); err != nil {
		if errors.Is(err, password.ErrMismatch) {
			return fmt.Errorf("%s: %w", op, ErrInvalidPassword)
		}
		return fmt.Errorf("%s: %w", op, err)
	}
	hashed, err := password.GetHash(req.NewPassword)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if err := s.repo.UpdateUserPassword(ctx, userID, hashed); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}
