package services

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/argon2"
	"golang.org/x/crypto/bcrypt"
)

// Имена поддерживаемых схем хеширования паролей.
const (
	HasherBcrypt   = "bcrypt"
	HasherArgon2id = "argon2id"
	HasherSHA256   = "sha256"
)

// ErrPasswordMismatch возвращается PasswordHasher.Compare при несовпадении пароля.
var ErrPasswordMismatch = errors.New("пароль не совпадает")

// PasswordHasher изолирует одностороннее преобразование пароля.
// Вызывающий код не знает схему и не зависит от ее смены.
type PasswordHasher interface {
	Hash(password string) (string, error)
	// Compare возвращает nil при совпадении и ErrPasswordMismatch иначе.
	Compare(hash, password string) error
}

// NewPasswordHasher создает хешер по имени схемы.
func NewPasswordHasher(name string) (PasswordHasher, error) {
	switch name {
	case HasherBcrypt, "":
		return BcryptHasher{Cost: bcrypt.DefaultCost}, nil
	case HasherArgon2id:
		return DefaultArgon2idHasher(), nil
	case HasherSHA256:
		return SHA256Hasher{}, nil
	default:
		return nil, fmt.Errorf("неизвестная схема хеширования паролей: %q", name)
	}
}

// BcryptHasher - схема по умолчанию.
type BcryptHasher struct {
	Cost int
}

func (h BcryptHasher) Hash(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), h.Cost)
	if err != nil {
		return "", fmt.Errorf("ошибка хеширования пароля (bcrypt): %w", err)
	}
	return string(hashed), nil
}

func (h BcryptHasher) Compare(hash, password string) error {
	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)); err != nil {
		return ErrPasswordMismatch
	}
	return nil
}

// Argon2idHasher хранит хеш в формате $argon2id$v=19$m=<KiB>,t=<iter>,p=<threads>$<salt>$<key>.
type Argon2idHasher struct {
	Time    uint32
	Memory  uint32
	Threads uint8
	KeyLen  uint32
	SaltLen int
}

// DefaultArgon2idHasher возвращает хешер с параметрами 2 итерации, 32 MiB, 2 потока.
func DefaultArgon2idHasher() Argon2idHasher {
	return Argon2idHasher{Time: 2, Memory: 32 * 1024, Threads: 2, KeyLen: 32, SaltLen: 16}
}

func (h Argon2idHasher) Hash(password string) (string, error) {
	salt := make([]byte, h.SaltLen)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("ошибка генерации соли: %w", err)
	}
	key := argon2.IDKey([]byte(password), salt, h.Time, h.Memory, h.Threads, h.KeyLen)
	return fmt.Sprintf("$argon2id$v=%d$m=%d,t=%d,p=%d$%s$%s",
		argon2.Version, h.Memory, h.Time, h.Threads,
		base64.RawStdEncoding.EncodeToString(salt),
		base64.RawStdEncoding.EncodeToString(key),
	), nil
}

func (h Argon2idHasher) Compare(hash, password string) error {
	parts := strings.Split(hash, "$")
	// ["", "argon2id", "v=19", "m=..,t=..,p=..", salt, key]
	if len(parts) != 6 || parts[1] != "argon2id" {
		return ErrPasswordMismatch
	}
	var version int
	if _, err := fmt.Sscanf(parts[2], "v=%d", &version); err != nil || version != argon2.Version {
		return ErrPasswordMismatch
	}
	var memory, iterations uint32
	var threads uint8
	if _, err := fmt.Sscanf(parts[3], "m=%d,t=%d,p=%d", &memory, &iterations, &threads); err != nil {
		return ErrPasswordMismatch
	}
	salt, err := base64.RawStdEncoding.DecodeString(parts[4])
	if err != nil {
		return ErrPasswordMismatch
	}
	want, err := base64.RawStdEncoding.DecodeString(parts[5])
	if err != nil || len(want) == 0 {
		return ErrPasswordMismatch
	}

	got := argon2.IDKey([]byte(password), salt, iterations, memory, threads, uint32(len(want)))
	if subtle.ConstantTimeCompare(got, want) != 1 {
		return ErrPasswordMismatch
	}
	return nil
}

// SHA256Hasher - несоленый однораундовый SHA-256 в hex.
// Совместим с хешами, созданными прежней версией сервиса. Слабая схема,
// используется только для миграции существующих баз.
type SHA256Hasher struct{}

func (SHA256Hasher) Hash(password string) (string, error) {
	sum := sha256.Sum256([]byte(password))
	return hex.EncodeToString(sum[:]), nil
}

func (SHA256Hasher) Compare(hash, password string) error {
	sum := sha256.Sum256([]byte(password))
	if subtle.ConstantTimeCompare([]byte(hex.EncodeToString(sum[:])), []byte(hash)) != 1 {
		return ErrPasswordMismatch
	}
	return nil
}
