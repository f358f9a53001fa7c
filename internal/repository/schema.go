package repository

import (
	"context"
	"embed"
	"fmt"
	"log/slog"

	"github.com/jmoiron/sqlx"
)

//go:embed schema/*.sql
var schemaFS embed.FS

// Migrate создает таблицы, если их еще нет. Схема выбирается по драйверу подключения.
func Migrate(ctx context.Context, db *sqlx.DB) error {
	var file string
	switch db.DriverName() {
	case DriverPostgres:
		file = "schema/postgres.sql"
	case DriverSQLite:
		file = "schema/sqlite.sql"
	default:
		return fmt.Errorf("нет схемы для драйвера %q", db.DriverName())
	}

	ddl, err := schemaFS.ReadFile(file)
	if err != nil {
		return fmt.Errorf("ошибка чтения схемы %s: %w", file, err)
	}
	if _, err = db.ExecContext(ctx, string(ddl)); err != nil {
		return fmt.Errorf("ошибка применения схемы: %w", err)
	}

	slog.Info("[DB] Схема БД применена", "driver", db.DriverName())
	return nil
}
