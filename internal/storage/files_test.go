package storage

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtension(t *testing.T) {
	tests := []struct {
		name     string
		filename string
		want     string
		wantErr  bool
	}{
		{name: "png", filename: "cat.png", want: "png"},
		{name: "Верхний регистр", filename: "CAT.JPEG", want: "jpeg"},
		{name: "Несколько точек", filename: "my.cat.v2.webp", want: "webp"},
		{name: "gif", filename: "a.gif", want: "gif"},
		{name: "Без расширения", filename: "cat", wantErr: true},
		{name: "Точка в конце", filename: "cat.", wantErr: true},
		{name: "Недопустимое расширение", filename: "cat.svg", wantErr: true},
		{name: "Двойное расширение", filename: "cat.png.exe", wantErr: true},
		{name: "Пустое имя", filename: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Extension(tt.filename)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrUnsupportedExtension)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestContentType(t *testing.T) {
	assert.Equal(t, "image/png", ContentType("a.PNG"))
	assert.Equal(t, "image/jpeg", ContentType("a.jpg"))
	assert.Equal(t, "image/jpeg", ContentType("a.jpeg"))
	assert.Equal(t, "image/webp", ContentType("a.webp"))
	assert.Equal(t, "application/octet-stream", ContentType("a.txt"))
	assert.Equal(t, "application/octet-stream", ContentType("a"))
}

func TestSanitizeFilename(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{in: "cat.png", want: "cat.png"},
		{in: "My Cat  Pic.png", want: "My_Cat_Pic.png"},
		{in: "../../etc/passwd", want: "etc_passwd"},
		{in: `..\windows\evil.png`, want: "windows_evil.png"},
		{in: "котик.png", want: "png"},
		{in: "a$b%c.png", want: "abc.png"},
		{in: "_.hidden.", want: "hidden"},
		{in: "", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, SanitizeFilename(tt.in))
		})
	}
}

func TestBuildObjectName(t *testing.T) {
	now := time.Unix(1700000000, 0)
	id := uuid.MustParse("12345678-9abc-def0-1234-56789abcdef0")

	tests := []struct {
		name     string
		filename string
		want     string
		wantErr  bool
	}{
		{name: "Обычное имя", filename: "cat.png", want: "cat_1700000000_12345678.png"},
		{name: "Пробелы и регистр", filename: "My Cat.JPG", want: "My_Cat_1700000000_12345678.jpg"},
		{name: "Путь отбрасывается", filename: "../secret/cat.gif", want: "secret_cat_1700000000_12345678.gif"},
		{name: "Пустое основное имя", filename: "котик.png", want: "sketch_1700000000_12345678.png"},
		{name: "Недопустимый тип", filename: "cat.bmp", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := BuildObjectName(tt.filename, now, id)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrUnsupportedExtension)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.NoError(t, validKey(got))
		})
	}

	t.Run("Разные UUID дают разные имена", func(t *testing.T) {
		a, err := BuildObjectName("cat.png", now, uuid.New())
		require.NoError(t, err)
		b, err := BuildObjectName("cat.png", now, uuid.New())
		require.NoError(t, err)
		assert.NotEqual(t, a, b)
	})
}

func TestValidKey(t *testing.T) {
	for _, key := range []string{"", ".", "..", "a/b", `a\b`, "a\x00b"} {
		assert.ErrorIs(t, validKey(key), ErrInvalidObjectKey, "%q", key)
	}
	assert.NoError(t, validKey("cat_1_abc.png"))
}
