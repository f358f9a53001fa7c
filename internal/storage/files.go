package storage

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

// AllowedExtensions - допустимые расширения файлов набросков (без точки, в нижнем регистре).
var AllowedExtensions = map[string]string{
	"png":  "image/png",
	"jpg":  "image/jpeg",
	"jpeg": "image/jpeg",
	"gif":  "image/gif",
	"webp": "image/webp",
}

// ErrUnsupportedExtension возвращается для файлов вне списка AllowedExtensions.
var ErrUnsupportedExtension = errors.New("недопустимое расширение файла")

// Extension возвращает расширение файла в нижнем регистре, если оно разрешено.
func Extension(filename string) (string, error) {
	idx := strings.LastIndex(filename, ".")
	if idx < 0 || idx == len(filename)-1 {
		return "", ErrUnsupportedExtension
	}
	ext := strings.ToLower(filename[idx+1:])
	if _, ok := AllowedExtensions[ext]; !ok {
		return "", ErrUnsupportedExtension
	}
	return ext, nil
}

// ContentType возвращает MIME-тип по имени файла или application/octet-stream.
func ContentType(filename string) string {
	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(filename)), ".")
	if ct, ok := AllowedExtensions[ext]; ok {
		return ct
	}
	return "application/octet-stream"
}

// SanitizeFilename оставляет в имени только ASCII-буквы, цифры, '.', '-' и '_'.
// Разделители путей и пробелы превращаются в '_', ведущие и хвостовые '.' и '_' отбрасываются.
func SanitizeFilename(name string) string {
	name = strings.NewReplacer("/", " ", "\\", " ").Replace(name)
	name = strings.Join(strings.Fields(name), "_")

	var b strings.Builder
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9',
			r == '.', r == '-', r == '_':
			b.WriteRune(r)
		}
	}
	return strings.Trim(b.String(), "._")
}

// BuildObjectName строит имя для хранения: <имя>_<unix-время>_<8 hex uuid>.<расширение>.
// Расширение должно быть разрешено.
func BuildObjectName(filename string, now time.Time, id uuid.UUID) (string, error) {
	ext, err := Extension(filename)
	if err != nil {
		return "", err
	}

	base := SanitizeFilename(filename[:strings.LastIndex(filename, ".")])
	if base == "" {
		base = "sketch"
	}

	suffix := strings.ReplaceAll(id.String(), "-", "")[:8]
	return fmt.Sprintf("%s_%d_%s.%s", base, now.Unix(), suffix, ext), nil
}

// validKey проверяет, что ключ - простое имя файла без путей.
func validKey(key string) error {
	if key == "" || key == "." || key == ".." || strings.ContainsAny(key, `/\`) || strings.ContainsRune(key, 0) {
		return fmt.Errorf("%w: %q", ErrInvalidObjectKey, key)
	}
	return nil
}
