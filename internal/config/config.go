// Package config предоставялет структуры и функции для парсинга и загрузки конфига.
package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

// Окружения, от которых зависит формат логов.
const (
	EnvLocal = "local"
	EnvDev   = "dev"
	EnvProd  = "prod"
)

// Драйверы файлового хранилища ресурсов.
const (
	FileStorageLocal = "local"
	FileStorageMinIO = "minio"
)

// Config общая структура для хранения настроек
type Config struct {
	Env                     string `yaml:"env" env:"ENV" env-default:"local"`
	StorageConnectionString string `yaml:"storage_connection_string" env:"STORAGE_CONNECTION_STRING" env-required:"true"`
	MigrationsPath          string `yaml:"migrations_path" env:"MIGRATIONS_PATH" env-default:"./migrations"`
	HTTPServer              `yaml:"http_server"`
	JWTToken                `yaml:"jwttoken"`
	FileStorage             `yaml:"file_storage"`
	BootstrapAdmin          `yaml:"bootstrap_admin"`
}

// HTTPServer структура для настройки сервера
type HTTPServer struct {
	AddressHTTP   string        `yaml:"addresshttp" env:"HTTP_ADDRESS" env-default:":3000"`
	TimeoutHTTP   time.Duration `yaml:"timeouthttp" env-default:"10s"`
	IdleTimeout   time.Duration `yaml:"idle_timeout" env-default:"60s"`
	MaxUploadSize int64         `yaml:"max_upload_size" env-default:"536870912"`
}

// JWTToken структура для работы с jwt-токеном
type JWTToken struct {
	JWTSecretKey string        `yaml:"jwt_secret_key" env:"JWT_SECRET" env-required:"true"`
	TokenTTL     time.Duration `yaml:"token_ttl" env:"JWT_EXPIRE_IN" env-default:"720h"`
}

// FileStorage описывает, где хранятся загруженные ресурсы.
type FileStorage struct {
	Driver    string `yaml:"driver" env:"FILE_STORAGE_DRIVER" env-default:"local"`
	UploadDir string `yaml:"upload_dir" env:"UPLOAD_DIR" env-default:"./upload"`
	MinIO     MinIO  `yaml:"minio"`
}

// MinIO описывает параметры подключения к S3-совместимому хранилищу.
type MinIO struct {
	Endpoint  string `yaml:"endpoint" env:"MINIO_ENDPOINT"`
	AccessKey string `yaml:"access_key" env:"MINIO_ACCESS_KEY"`
	SecretKey string `yaml:"secret_key" env:"MINIO_SECRET_KEY"`
	Bucket    string `yaml:"bucket" env:"MINIO_BUCKET" env-default:"dotpoint"`
	UseSSL    bool   `yaml:"use_ssl" env:"MINIO_USE_SSL"`
}

// BootstrapAdmin описывает администратора, создаваемого при старте, если его ещё нет.
// Пустой Email отключает создание.
type BootstrapAdmin struct {
	Email    string `yaml:"email" env:"ADMIN_EMAIL"`
	Password string `yaml:"password" env:"ADMIN_PASSWORD"`
}

// Load читает конфиг из файла path, дополняя его переменными окружения.
func Load(path string) (*Config, error) {
	const op = "config.Load"
	if path == "" {
		return nil, fmt.Errorf("%s: config path is empty", op)
	}
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("%s: file %s does not exist", op, path)
	}

	var cfg Config
	if err := cleanenv.ReadConfig(path, &cfg); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &cfg, nil
}

// MustLoad загружает конфиг по пути из CONFIG_PATH и завершает процесс при ошибке.
func MustLoad() *Config {
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		log.Fatal("CONFIG_PATH is not set")
	}
	cfg, err := Load(configPath)
	if err != nil {
		log.Fatalf("cannot read config: %s", err)
	}
	return cfg
}

func (c *Config) validate() error {
	switch c.Env {
	case EnvLocal, EnvDev, EnvProd:
	default:
		return fmt.Errorf("unknown env %q", c.Env)
	}
	switch c.FileStorage.Driver {
	case FileStorageLocal:
		if c.UploadDir == "" {
			return errors.New("file_storage.upload_dir is required for local driver")
		}
	case FileStorageMinIO:
		if c.MinIO.Endpoint == "" {
			return errors.New("file_storage.minio.endpoint is required for minio driver")
		}
	default:
		return fmt.Errorf("unknown file storage driver %q", c.FileStorage.Driver)
	}
	if c.BootstrapAdmin.Email != "" && c.BootstrapAdmin.Password == "" {
		return errors.New("bootstrap_admin.password is required when email is set")
	}
	return nil
}

// String скрывает секреты, чтобы конфиг можно было безопасно логировать.
func (c *Config) String() string {
	return fmt.Sprintf(
		"Env: %s\n"+
			"MigrationsPath: %s\n"+
			"HTTPServer:\n"+
			"  Address: %s\n"+
			"  Timeout: %s\n"+
			"  IdleTimeout: %s\n"+
			"  MaxUploadSize: %d\n"+
			"JWTToken:\n"+
			"  TokenTTL: %s\n"+
			"FileStorage:\n"+
			"  Driver: %s\n"+
			"  UploadDir: %s\n"+
			"  MinIOEndpoint: %s\n"+
			"  MinIOBucket: %s\n",
		c.Env,
		c.MigrationsPath,
		c.AddressHTTP,
		c.TimeoutHTTP,
		c.IdleTimeout,
		c.MaxUploadSize,
		c.TokenTTL,
		c.FileStorage.Driver,
		c.UploadDir,
		c.MinIO.Endpoint,
		c.MinIO.Bucket,
	)
}
