package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"regexp"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/NYD05/StyleHub/internal/handlers"
	"github.com/NYD05/StyleHub/internal/repository"
	"github.com/NYD05/StyleHub/internal/services"
)

const (
	defaultServerAddr = ":5000"
	defaultDBDriver   = repository.DriverSQLite
	defaultDSN        = "stylehub.db"
	defaultUploadDir  = "uploads"
	defaultFrontend   = "frontend"
	defaultLogLevel   = "info"
	defaultLogFormat  = "text"

	defaultMinioEndpoint = "localhost:9000"
	defaultMinioUser     = "minioadmin"
	defaultMinioPassword = "minioadmin"
	defaultMinioBucket   = "stylehub-sketches"

	storageLocal = "local"
	storageMinio = "minio"

	// Переменные окружения.
	envConfigFile     = "CONFIG_FILE"
	envServerAddr     = "SERVER_ADDR"
	envDatabaseDriver = "DATABASE_DRIVER"
	envDatabaseDSN    = "DATABASE_DSN"
	envStorageBackend = "STORAGE_BACKEND"
	envUploadDir      = "UPLOAD_DIR"
	envMinioEndpoint  = "MINIO_ENDPOINT"
	envMinioUser      = "MINIO_USER"
	envMinioPassword  = "MINIO_PASSWORD" //nolint:gosec // Имя переменной окружения, а не пароль
	envMinioBucket    = "MINIO_BUCKET"
	envMinioUseSSL    = "MINIO_USE_SSL"
	envFrontendDir    = "FRONTEND_DIR"
	envSessionTTL     = "SESSION_TTL"
	envPasswordHasher = "PASSWORD_HASHER"
	envReaperInterval = "SESSION_REAPER_INTERVAL"
	envMaxUploadBytes = "MAX_UPLOAD_BYTES"
	envLogLevel       = "LOG_LEVEL"
	envLogFormat      = "LOG_FORMAT"
)

// config хранит конфигурацию сервера.
type config struct {
	ConfigFile string `yaml:"-"`

	Server   serverConfig   `yaml:"server"`
	Database databaseConfig `yaml:"database"`
	Storage  storageConfig  `yaml:"storage"`
	Frontend frontendConfig `yaml:"frontend"`
	Auth     authConfig     `yaml:"auth"`
	Upload   uploadConfig   `yaml:"upload"`
	Logging  loggingConfig  `yaml:"logging"`
}

type serverConfig struct {
	Addr string `yaml:"addr"`
}

type databaseConfig struct {
	Driver string `yaml:"driver"`
	DSN    string `yaml:"dsn"`
}

type storageConfig struct {
	Backend   string      `yaml:"backend"`
	UploadDir string      `yaml:"upload_dir"`
	Minio     minioConfig `yaml:"minio"`
}

type minioConfig struct {
	Endpoint string `yaml:"endpoint"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Bucket   string `yaml:"bucket"`
	UseSSL   bool   `yaml:"use_ssl"`
}

type frontendConfig struct {
	Dir string `yaml:"dir"`
}

type authConfig struct {
	SessionTTL     time.Duration `yaml:"session_ttl"`
	PasswordHasher string        `yaml:"password_hasher"`
	ReaperInterval time.Duration `yaml:"reaper_interval"`
}

type uploadConfig struct {
	MaxBytes int64 `yaml:"max_bytes"`
}

type loggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

func defaultConfig() *config {
	return &config{
		Server:   serverConfig{Addr: defaultServerAddr},
		Database: databaseConfig{Driver: defaultDBDriver, DSN: defaultDSN},
		Storage: storageConfig{
			Backend:   storageLocal,
			UploadDir: defaultUploadDir,
			Minio: minioConfig{
				Endpoint: defaultMinioEndpoint,
				User:     defaultMinioUser,
				Password: defaultMinioPassword,
				Bucket:   defaultMinioBucket,
			},
		},
		Frontend: frontendConfig{Dir: defaultFrontend},
		Auth: authConfig{
			SessionTTL:     services.DefaultSessionTTL,
			PasswordHasher: services.HasherBcrypt,
		},
		Upload:  uploadConfig{MaxBytes: handlers.DefaultMaxUploadBytes},
		Logging: loggingConfig{Level: defaultLogLevel, Format: defaultLogFormat},
	}
}

// parseConfig собирает конфигурацию. Приоритет: флаги > окружение > YAML-файл > значения по умолчанию.
func parseConfig(args []string, lookupEnv func(string) (string, bool)) (*config, error) {
	// Первый проход нужен только чтобы узнать путь к файлу конфигурации.
	probe := defaultConfig()
	if err := newFlagSet(probe).Parse(args); err != nil {
		return nil, err
	}
	if probe.ConfigFile == "" {
		probe.ConfigFile, _ = lookupEnv(envConfigFile)
	}

	cfg := defaultConfig()
	if probe.ConfigFile != "" {
		if err := loadYAML(probe.ConfigFile, cfg, lookupEnv); err != nil {
			return nil, err
		}
	}
	cfg.ConfigFile = probe.ConfigFile

	if err := applyEnv(cfg, lookupEnv); err != nil {
		return nil, err
	}

	// Второй проход: значения по умолчанию флагов равны уже собранной конфигурации,
	// поэтому перекрываются только явно переданные флаги.
	if err := newFlagSet(cfg).Parse(args); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func newFlagSet(cfg *config) *flag.FlagSet {
	fs := flag.NewFlagSet("stylehub-server", flag.ContinueOnError)

	fs.StringVar(&cfg.ConfigFile, "config", cfg.ConfigFile,
		fmt.Sprintf("Путь к YAML-файлу конфигурации (env: %s)", envConfigFile))
	fs.StringVar(&cfg.Server.Addr, "addr", cfg.Server.Addr,
		fmt.Sprintf("Адрес HTTP-сервера (env: %s)", envServerAddr))
	fs.StringVar(&cfg.Database.Driver, "db-driver", cfg.Database.Driver,
		fmt.Sprintf("Драйвер БД: sqlite или postgres (env: %s)", envDatabaseDriver))
	fs.StringVar(&cfg.Database.DSN, "database-dsn", cfg.Database.DSN,
		fmt.Sprintf("Строка подключения к базе данных (env: %s)", envDatabaseDSN))
	fs.StringVar(&cfg.Storage.Backend, "storage", cfg.Storage.Backend,
		fmt.Sprintf("Хранилище файлов: local или minio (env: %s)", envStorageBackend))
	fs.StringVar(&cfg.Storage.UploadDir, "upload-dir", cfg.Storage.UploadDir,
		fmt.Sprintf("Каталог загрузок для local (env: %s)", envUploadDir))
	fs.StringVar(&cfg.Frontend.Dir, "frontend-dir", cfg.Frontend.Dir,
		fmt.Sprintf("Каталог статического фронтенда (env: %s)", envFrontendDir))
	fs.DurationVar(&cfg.Auth.SessionTTL, "session-ttl", cfg.Auth.SessionTTL,
		fmt.Sprintf("Время жизни сессии (env: %s)", envSessionTTL))
	fs.StringVar(&cfg.Auth.PasswordHasher, "password-hasher", cfg.Auth.PasswordHasher,
		fmt.Sprintf("Схема хеширования паролей: bcrypt, argon2id, sha256 (env: %s)", envPasswordHasher))
	fs.DurationVar(&cfg.Auth.ReaperInterval, "reaper-interval", cfg.Auth.ReaperInterval,
		fmt.Sprintf("Период очистки истекших сессий, 0 - выключено (env: %s)", envReaperInterval))
	fs.Int64Var(&cfg.Upload.MaxBytes, "max-upload-bytes", cfg.Upload.MaxBytes,
		fmt.Sprintf("Максимальный размер загрузки в байтах (env: %s)", envMaxUploadBytes))
	fs.StringVar(&cfg.Logging.Level, "log-level", cfg.Logging.Level,
		fmt.Sprintf("Уровень логирования: debug, info, warn, error (env: %s)", envLogLevel))
	fs.StringVar(&cfg.Logging.Format, "log-format", cfg.Logging.Format,
		fmt.Sprintf("Формат логов: text или json (env: %s)", envLogFormat))

	return fs
}

var envVarPattern = regexp.MustCompile(`\$\{([^}]+)\}`)

// loadYAML читает файл конфигурации поверх cfg. Ссылки ${VAR} заменяются значениями окружения.
func loadYAML(path string, cfg *config, lookupEnv func(string) (string, bool)) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("ошибка чтения файла конфигурации: %w", err)
	}

	expanded := envVarPattern.ReplaceAllStringFunc(string(data), func(match string) string {
		value, _ := lookupEnv(envVarPattern.FindStringSubmatch(match)[1])
		return value
	})

	if err = yaml.Unmarshal([]byte(expanded), cfg); err != nil {
		return fmt.Errorf("ошибка разбора файла конфигурации: %w", err)
	}
	return nil
}

// applyEnv применяет переменные окружения, если они заданы.
func applyEnv(cfg *config, lookupEnv func(string) (string, bool)) error {
	strs := map[string]*string{
		envServerAddr:     &cfg.Server.Addr,
		envDatabaseDriver: &cfg.Database.Driver,
		envDatabaseDSN:    &cfg.Database.DSN,
		envStorageBackend: &cfg.Storage.Backend,
		envUploadDir:      &cfg.Storage.UploadDir,
		envMinioEndpoint:  &cfg.Storage.Minio.Endpoint,
		envMinioUser:      &cfg.Storage.Minio.User,
		envMinioPassword:  &cfg.Storage.Minio.Password,
		envMinioBucket:    &cfg.Storage.Minio.Bucket,
		envFrontendDir:    &cfg.Frontend.Dir,
		envPasswordHasher: &cfg.Auth.PasswordHasher,
		envLogLevel:       &cfg.Logging.Level,
		envLogFormat:      &cfg.Logging.Format,
	}
	for key, dst := range strs {
		if value, ok := lookupEnv(key); ok {
			*dst = value
		}
	}

	durations := map[string]*time.Duration{
		envSessionTTL:     &cfg.Auth.SessionTTL,
		envReaperInterval: &cfg.Auth.ReaperInterval,
	}
	for key, dst := range durations {
		if value, ok := lookupEnv(key); ok {
			d, err := time.ParseDuration(value)
			if err != nil {
				return fmt.Errorf("неверное значение %s=%q: %w", key, value, err)
			}
			*dst = d
		}
	}

	if value, ok := lookupEnv(envMaxUploadBytes); ok {
		n, err := strconv.ParseInt(value, 10, 64)
		if err != nil {
			return fmt.Errorf("неверное значение %s=%q: %w", envMaxUploadBytes, value, err)
		}
		cfg.Upload.MaxBytes = n
	}

	if value, ok := lookupEnv(envMinioUseSSL); ok {
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("неверное значение %s=%q: %w", envMinioUseSSL, value, err)
		}
		cfg.Storage.Minio.UseSSL = b
	}
	return nil
}

// Validate проверяет согласованность конфигурации.
func (c *config) Validate() error {
	switch c.Database.Driver {
	case repository.DriverSQLite, repository.DriverPostgres:
	default:
		return fmt.Errorf("неизвестный драйвер БД: %q", c.Database.Driver)
	}
	if c.Database.DSN == "" {
		return errors.New("не указана строка подключения к БД (--database-dsn или " + envDatabaseDSN + ")")
	}

	switch c.Storage.Backend {
	case storageLocal:
		if c.Storage.UploadDir == "" {
			return errors.New("не указан каталог загрузок (--upload-dir или " + envUploadDir + ")")
		}
	case storageMinio:
		if c.Storage.Minio.Endpoint == "" || c.Storage.Minio.Bucket == "" {
			return errors.New("для хранилища minio нужны " + envMinioEndpoint + " и " + envMinioBucket)
		}
	default:
		return fmt.Errorf("неизвестное хранилище файлов: %q", c.Storage.Backend)
	}

	if _, err := services.NewPasswordHasher(c.Auth.PasswordHasher); err != nil {
		return err
	}
	if c.Auth.SessionTTL <= 0 {
		return fmt.Errorf("время жизни сессии должно быть положительным: %s", c.Auth.SessionTTL)
	}
	if c.Auth.ReaperInterval < 0 {
		return fmt.Errorf("период очистки сессий не может быть отрицательным: %s", c.Auth.ReaperInterval)
	}
	if c.Upload.MaxBytes <= 0 {
		return fmt.Errorf("максимальный размер загрузки должен быть положительным: %d", c.Upload.MaxBytes)
	}

	if _, err := parseLogLevel(c.Logging.Level); err != nil {
		return err
	}
	switch c.Logging.Format {
	case "text", "json":
	default:
		return fmt.Errorf("неизвестный формат логов: %q", c.Logging.Format)
	}
	return nil
}
