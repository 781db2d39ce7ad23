package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/magabrotheeeer/dotpoint/internal/models"
)

const userColumns = `id, email, password_hash, first_name, last_name, type, active`

func scanUser(row scanner) (models.User, error) {
	var u models.User
	var userType string
	if err := row.Scan(&u.ID, &u.Email, &u.PasswordHash, &u.FirstName, &u.LastName, &userType, &u.Active); err != nil {
		return models.User{}, err
	}
	u.Type = models.Role(userType)
	return u, nil
}

// CreateUser сохраняет пользователя и возвращает его ID.
// Занятый email даёт ErrAlreadyExists.
func (s *Storage) CreateUser(ctx context.Context, user models.User) (int64, error) {
	const op = "storage.CreateUser"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `INSERT INTO users (email, password_hash, first_name, last_name, type, active)
			  VALUES ($1, $2, $3, $4, $5, $6)
			  RETURNING id`
	var id int64
	err := s.DB.QueryRowContext(ctx, query,
		user.Email, user.PasswordHash, user.FirstName, user.LastName, user.Type.String(), user.Active).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, translate(err))
	}
	return id, nil
}

// GetUserByEmail возвращает пользователя по email.
func (s *Storage) GetUserByEmail(ctx context.Context, email string) (models.User, error) {
	const op = "storage.GetUserByEmail"

	query := `SELECT ` + userColumns + ` FROM users WHERE email = $1`
	user, err := scanUser(s.DB.QueryRowContext(ctx, query, email))
	if err != nil {
		return models.User{}, fmt.Errorf("%s: %w", op, translate(err))
	}
	return user, nil
}

// GetUser возвращает пользователя по ID.
func (s *Storage) GetUser(ctx context.Context, id int64) (models.User, error) {
	const op = "storage.GetUser"

	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	user, err := scanUser(s.DB.QueryRowContext(ctx, query, id))
	if err != nil {
		return models.User{}, fmt.Errorf("%s: %w", op, translate(err))
	}
	return user, nil
}

// ListUsers возвращает всех пользователей.
func (s *Storage) ListUsers(ctx context.Context) ([]models.User, error) {
	const op = "storage.ListUsers"

	query := `SELECT ` + userColumns + ` FROM users ORDER BY id`
	rows, err := s.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	users := make([]models.User, 0)
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		users = append(users, user)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return users, nil
}

// UpdateUserProfile меняет имя и фамилию пользователя.
func (s *Storage) UpdateUserProfile(ctx context.Context, id int64, firstName, lastName string) error {
	const op = "storage.UpdateUserProfile"

	query := `UPDATE users SET first_name = $1, last_name = $2 WHERE id = $3`
	result, err := s.DB.ExecContext(ctx, query, firstName, lastName, id)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if err := requireAffected(result); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// UpdateUserPassword сохраняет новый хэш пароля.
func (s *Storage) UpdateUserPassword(ctx context.Context, id int64, passwordHash string) error {
	const op = "storage.UpdateUserPassword"

	query := `UPDATE users SET password_hash = $1 WHERE id = $2`
	result, err := s.DB.ExecContext(ctx, query, passwordHash, id)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if err := requireAffected(result); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// UserProducts возвращает продукты, доступные пользователю в день asOf:
// бесплатные и те, на которые у него есть действующая подписка.
func (s *Storage) UserProducts(ctx context.Context, userID int64, asOf time.Time) ([]models.Product, error) {
	const op = "storage.UserProducts"

	query := `SELECT ` + productColumns + ` FROM products
			  WHERE subscription_required = FALSE
			     OR id IN (SELECT product_id FROM subscriptions
			               WHERE user_id = $1 AND expiration_date >= $2::date)
			  ORDER BY position, id`
	rows, err := s.DB.QueryContext(ctx, query, userID, asOf.Format(models.DateLayout))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	products, err := collectProducts(rows)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return products, nil
}
