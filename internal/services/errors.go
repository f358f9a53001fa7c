package services

import "errors"

// Виды ошибок. Каждая конкретная ошибка сервиса разворачивается (errors.Is)
// ровно в один из них, по нему обработчик выбирает HTTP-статус.
var (
	ErrValidation   = errors.New("ошибка валидации")
	ErrUnauthorized = errors.New("ошибка аутентификации")
	ErrForbidden    = errors.New("доступ запрещен")
	ErrNotFound     = errors.New("не найдено")
	ErrConflict     = errors.New("конфликт")
	ErrStorage      = errors.New("ошибка хранилища")
)

// Кастомные ошибки сервиса. Текст ошибки уходит клиенту.
var (
	ErrMissingFields      = newKindError(ErrValidation, "Username, email, and password are required")
	ErrMissingCredentials = newKindError(ErrValidation, "Username and password are required")
	ErrTitleRequired      = newKindError(ErrValidation, "Title is required")
	ErrNoFileSelected     = newKindError(ErrValidation, "No file selected")
	ErrUnsupportedType    = newKindError(ErrValidation, "Invalid file type. Allowed: png, jpg, jpeg, gif, webp")
	ErrEmptyContent       = newKindError(ErrValidation, "Comment content is required")

	ErrInvalidCredentials = newKindError(ErrUnauthorized, "Invalid credentials")
	ErrMissingToken       = newKindError(ErrUnauthorized, "Missing authorization token")
	ErrInvalidSession     = newKindError(ErrUnauthorized, "Invalid or expired session")

	ErrNotOwner = newKindError(ErrForbidden, "Unauthorized to delete this sketch")

	ErrSketchNotFound = newKindError(ErrNotFound, "Sketch not found")
	ErrFileNotFound   = newKindError(ErrNotFound, "File not found")

	ErrDuplicateUsername = newKindError(ErrConflict, "Username already exists")
	ErrDuplicateEmail    = newKindError(ErrConflict, "Email already exists")
)

// kindError - ошибка с сообщением для клиента, относящаяся к одному виду.
type kindError struct {
	kind error
	msg  string
}

func newKindError(kind error, msg string) error {
	return &kindError{kind: kind, msg: msg}
}

func (e *kindError) Error() string { return e.msg }

func (e *kindError) Unwrap() error { return e.kind }
