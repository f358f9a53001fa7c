package repository

import (
	"errors"
	"strings"

	"github.com/lib/pq"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

// Коды ошибок PostgreSQL.
const (
	pgUniqueViolationCode     = "23505"
	pgForeignKeyViolationCode = "23503"
)

// Префикс сообщения SQLite о нарушении уникальности, например
// "UNIQUE constraint failed: users.username".
const sqliteUniquePrefix = "UNIQUE constraint failed: "

// Кастомные ошибки репозитория.
var (
	ErrUserNotFound    = errors.New("пользователь не найден")
	ErrUsernameTaken   = errors.New("имя пользователя уже занято")
	ErrEmailTaken      = errors.New("email уже занят")
	ErrSessionNotFound = errors.New("сессия не найдена или истекла")
	ErrSketchNotFound  = errors.New("набросок не найден")
)

// uniqueViolation проверяет, является ли err нарушением ограничения уникальности,
// и возвращает описание нарушенного ограничения: имя constraint для PostgreSQL
// или "таблица.колонка" для SQLite.
func uniqueViolation(err error) (string, bool) {
	var pgErr *pq.Error
	if errors.As(err, &pgErr) {
		if pgErr.Code == pgUniqueViolationCode {
			return pgErr.Constraint, true
		}
		return "", false
	}

	var liteErr *sqlite.Error
	if errors.As(err, &liteErr) && isSQLiteConstraint(liteErr) {
		msg := liteErr.Error()
		i := strings.Index(msg, sqliteUniquePrefix)
		if i < 0 {
			return "", false
		}
		target := msg[i+len(sqliteUniquePrefix):]
		if j := strings.Index(target, " ("); j >= 0 {
			target = target[:j]
		}
		return target, true
	}
	return "", false
}

// foreignKeyViolation проверяет, является ли err нарушением внешнего ключа.
func foreignKeyViolation(err error) bool {
	var pgErr *pq.Error
	if errors.As(err, &pgErr) {
		return pgErr.Code == pgForeignKeyViolationCode
	}
	var liteErr *sqlite.Error
	if errors.As(err, &liteErr) && isSQLiteConstraint(liteErr) {
		return liteErr.Code() == sqlite3.SQLITE_CONSTRAINT_FOREIGNKEY ||
			strings.Contains(liteErr.Error(), "FOREIGN KEY constraint failed")
	}
	return false
}

// isSQLiteConstraint учитывает как расширенный, так и первичный код SQLITE_CONSTRAINT.
func isSQLiteConstraint(err *sqlite.Error) bool {
	return err.Code()&0xff == sqlite3.SQLITE_CONSTRAINT
}
