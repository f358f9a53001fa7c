package repository

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"   // Драйвер PostgreSQL, импортируем для регистрации
	_ "modernc.org/sqlite" // Драйвер SQLite (pure Go), импортируем для регистрации
)

// Поддерживаемые драйверы БД.
const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

const (
	maxOpenConns    = 25              // Максимальное количество открытых соединений
	maxIdleConns    = 25              // Максимальное количество простаивающих соединений
	connMaxLifetime = 5 * time.Minute // Максимальное время жизни соединения
	connMaxIdleTime = 5 * time.Minute // Максимальное время простоя соединения

	// Параметры SQLite, добавляемые к DSN, если в нем нет своих.
	sqlitePragmas    = "_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"
	sqliteTimeFormat = "_time_format=sqlite"
)

// queryer - общее подмножество *sqlx.DB и *sqlx.Tx.
type queryer interface {
	sqlx.QueryerContext
	Rebind(query string) string
}

func init() {
	// sqlx не знает имени драйвера "sqlite", указываем стиль плейсхолдеров явно.
	sqlx.BindDriver(DriverSQLite, sqlx.QUESTION)
}

// NewDB создает и возвращает новое подключение к БД выбранного драйвера.
func NewDB(driver, dsn string) (*sqlx.DB, error) {
	switch driver {
	case DriverPostgres:
	case DriverSQLite:
		dsn = withSQLitePragmas(dsn)
	default:
		return nil, fmt.Errorf("неизвестный драйвер БД: %q", driver)
	}

	slog.Info("[DB] Подключение к БД...", "driver", driver)

	db, err := sqlx.Connect(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("ошибка подключения к БД: %w", err)
	}

	// Проверка соединения
	if err = db.Ping(); err != nil {
		// Закрываем соединение в случае ошибки пинга
		if closeErr := db.Close(); closeErr != nil {
			slog.Error("[DB] Ошибка закрытия соединения с БД после неудачного пинга", "error", closeErr)
		}
		return nil, fmt.Errorf("ошибка проверки соединения с БД (ping): %w", err)
	}

	// Настройка пула соединений
	if driver == DriverSQLite {
		// SQLite допускает одного писателя, сериализуем доступ на уровне пула.
		// Соединение не пересоздается, иначе теряется база ":memory:".
		db.SetMaxOpenConns(1)
		db.SetMaxIdleConns(1)
	} else {
		db.SetMaxOpenConns(maxOpenConns)
		db.SetMaxIdleConns(maxIdleConns)
		db.SetConnMaxLifetime(connMaxLifetime)
		db.SetConnMaxIdleTime(connMaxIdleTime)
	}

	slog.Info("[DB] Подключение к БД успешно установлено", "driver", driver)
	return db, nil
}

func withSQLitePragmas(dsn string) string {
	var params []string
	if !strings.Contains(dsn, "_pragma=") {
		params = append(params, sqlitePragmas)
	}
	if !strings.Contains(dsn, "_time_format=") {
		params = append(params, sqliteTimeFormat)
	}
	if len(params) == 0 {
		return dsn
	}
	sep := "?"
	if strings.Contains(dsn, "?") {
		sep = "&"
	}
	return dsn + sep + strings.Join(params, "&")
}
