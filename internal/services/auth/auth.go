// Package services содержит логику бизнес-уровня для регистрации, входа
// и создания администратора при первом запуске.
package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/magabrotheeeer/dotpoint/internal/lib/jwt"
	"github.com/magabrotheeeer/dotpoint/internal/lib/password"
	"github.com/magabrotheeeer/dotpoint/internal/models"
	"github.com/magabrotheeeer/dotpoint/internal/storage"
)

// ErrInvalidCredentials — неверный email или пароль.
var ErrInvalidCredentials = errors.New("invalid email or password")

// UserRepository описывает контракт для работы с пользователями в базе данных.
type UserRepository interface {
	// CreateUser сохраняет нового пользователя и возвращает его ID.
	CreateUser(ctx context.Context, user models.User) (int64, error)

	// GetUserByEmail возвращает пользователя по email или storage.ErrNotFound.
	GetUserByEmail(ctx context.Context, email string) (models.User, error)
}

// Session — результат успешного входа.
type Session struct {
	models.User
	Token string `json:"token"`
}

// AuthService отвечает за регистрацию и вход.
type AuthService struct {
	users    UserRepository
	jwtMaker jwt.Maker
}

// NewAuthService создает новый экземпляр AuthService.
func NewAuthService(users UserRepository, jwtMaker jwt.Maker) *AuthService {
	return &AuthService{
		users:    users,
		jwtMaker: jwtMaker,
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Register создает пользователя с ролью USER. Занятый email даёт storage.ErrAlreadyExists.
func (s *AuthService) Register(ctx context.Context, req models.NewUser) (models.User, error) {
	const op = "services.auth.Register"

	hashed, err := password.GetHash(req.Password)
	if err != nil {
		return models.User{}, fmt.Errorf("%s: %w", op, err)
	}
	user := models.User{
		Email:        normalizeEmail(req.Email),
		PasswordHash: hashed,
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		Type:         models.RoleUser,
		Active:       true,
	}
	id, err := s.users.CreateUser(ctx, user)
	if err != nil {
		return models.User{}, fmt.Errorf("%s: %w", op, err)
	}
	user.ID = id
	return user, nil
}

// Login проверяет пароль пользователя и выпускает JWT.
// Неизвестный email и неверный пароль неразличимы для клиента.
func (s *AuthService) Login(ctx context.Context, email, rawPassword string) (Session, error) {
	const op = "services.auth.Login"

	user, err := s.users.GetUserByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return Session{}, fmt.Errorf("%s: %w", op, ErrInvalidCredentials)
		}
		return Session{}, fmt.Errorf("%s: %w", op, err)
	}
	if err := password.CompareHash(user.PasswordHash, rawPassword); err != nil {
		if errors.Is(err, password.ErrMismatch) {
			return Session{}, fmt.Errorf("%s: %w", op, ErrInvalidCredentials)
		}
		return Session{}, fmt.Errorf("%s: %w", op, err)
	}
	if !user.Active {
		return Session{}, fmt.Errorf("%s: user is inactive: %w", op, ErrInvalidCredentials)
	}

	token, err := s.jwtMaker.GenerateToken(user.ID, user.Type.String())
	if err != nil {
		return Session{}, fmt.Errorf("%s: %w", op, err)
	}
	return Session{User: user, Token: token}, nil
}

// EnsureAdmin создаёт администратора с указанным email, если такого пользователя нет.
// Возвращает true, если пользователь был создан.
func (s *AuthService) EnsureAdmin(ctx context.Context, email, rawPassword string) (bool, error) {
	const op = "services.auth.EnsureAdmin"

	email = normalizeEmail(email)
	_, err := s.users.GetUserByEmail(ctx, email)
	if err == nil {
		return false, nil
	}
	if !errors.Is(err, storage.ErrNotFound) {
		return false, fmt.Errorf("%s: %w", op, err)
	}

	hashed, err := password.GetHash(rawPassword)
	if err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}
	_, err = s.users.CreateUser(ctx, models.User{
		Email:        email,
		PasswordHash: hashed,
		FirstName:    "Admin",
		LastName:     "Admin",
		Type:         models.RoleAdmin,
		Active:       true,
	})
	if err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}
	return true, nil
}
