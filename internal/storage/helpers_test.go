package storage

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/magabrotheeeer/dotpoint/internal/migrations"
	"github.com/magabrotheeeer/dotpoint/internal/models"
)

// TestDataFactory содержит методы для создания тестовых данных
type TestDataFactory struct {
	storage *Storage
}

// NewTestDataFactory создает новую фабрику тестовых данных
func NewTestDataFactory(storage *Storage) *TestDataFactory {
	return &TestDataFactory{storage: storage}
}

// CreateUser создает тестового пользователя
func (f *TestDataFactory) CreateUser(t *testing.T, email string, role models.Role) int64 {
	t.Helper()
	id, err := f.storage.CreateUser(context.Background(), models.User{
		Email:        email,
		PasswordHash: "hashedpassword",
		FirstName:    "Test",
		LastName:     "User",
		Type:         role,
		Active:       true,
	})
	require.NoError(t, err)
	return id
}

// CreateProduct создает тестовый продукт
func (f *TestDataFactory) CreateProduct(t *testing.T, uniqueName string, subscriptionRequired bool) int64 {
	t.Helper()
	id, err := f.storage.CreateProduct(context.Background(), models.Product{
		Title:                uniqueName,
		UniqueName:           uniqueName,
		Position:             1,
		SubscriptionRequired: subscriptionRequired,
		Active:               true,
	})
	require.NoError(t, err)
	return id
}

// CreateModule создает тестовый модуль продукта
func (f *TestDataFactory) CreateModule(t *testing.T, uniqueName string, productID int64) int64 {
	t.Helper()
	id, err := f.storage.CreateModule(context.Background(), models.Module{
		Title:       uniqueName,
		Description: "test module",
		UniqueName:  uniqueName,
		Position:    1,
		Active:      true,
		ProductID:   productID,
	})
	require.NoError(t, err)
	return id
}

// CreateResource создает тестовый ресурс с путём /static/<name>
func (f *TestDataFactory) CreateResource(t *testing.T, name string) int64 {
	t.Helper()
	id, err := f.storage.CreateResource(context.Background(), models.Resource{
		OriginalName: name,
		Name:         name,
		DisplayName:  name,
		Path:         models.StaticPrefix + name,
		FileType:     models.FileTypeVideo,
	})
	require.NoError(t, err)
	return id
}

// CreateSubscription создает тестовую подписку
func (f *TestDataFactory) CreateSubscription(t *testing.T, userID, productID int64, expiration time.Time) int64 {
	t.Helper()
	id, err := f.storage.CreateSubscription(context.Background(), models.Subscription{
		UserID:         userID,
		ProductID:      productID,
		ExpirationDate: expiration,
	})
	require.NoError(t, err)
	return id
}

// setupTestDatabase поднимает PostgreSQL в контейнере и применяет миграции.
func setupTestDatabase(t *testing.T) *Storage {
	t.Helper()
	if testing.Short() {
		t.Skip("integration test skipped in short mode")
	}
	testcontainers.SkipIfProviderIsNotHealthy(t)

	ctx := context.Background()
	pgContainer, err := postgres.Run(ctx,
		"postgres:15-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("testuser"),
		postgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(time.Minute),
		),
	)
	require.NoError(t, err, "failed to start container")
	t.Cleanup(func() {
		if err := pgContainer.Terminate(ctx); err != nil {
			t.Logf("failed to terminate container: %s", err)
		}
	})

	dsn, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	storage, err := New(dsn)
	require.NoError(t, err)
	t.Cleanup(func() { _ = storage.Close() })

	migrationsPath, err := filepath.Abs("../../migrations")
	require.NoError(t, err)
	require.NoError(t, migrations.Run(storage.DB, migrationsPath))

	return storage
}
