// AngelaMos | 2026
// security.go

package core

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
	"sync"
	"unicode/utf8"

	"golang.org/x/crypto/argon2"
	"golang.org/x/crypto/bcrypt"
)

var errMalformedHash = errors.New("malformed password hash")

// argonHash is the PHC-style string stored in the user table:
// $argon2id$v=19$m=65536,t=1,p=4$<salt>$<key>
type argonHash struct {
	memory  uint32
	passes  uint32
	threads uint8
	salt    []byte
	key     []byte
}

var currentArgon = argonHash{memory: 64 * 1024, passes: 1, threads: 4}

const (
	argonSaltLen = 16
	argonKeyLen  = 32
)

func (h argonHash) derive(password string, keyLen uint32) []byte {
	return argon2.IDKey([]byte(password), h.salt, h.passes, h.memory, h.threads, keyLen)
}

func (h argonHash) String() string {
	enc := base64.RawStdEncoding
	return fmt.Sprintf(
		"$argon2id$v=%d$m=%d,t=%d,p=%d$%s$%s",
		argon2.Version, h.memory, h.passes, h.threads,
		enc.EncodeToString(h.salt), enc.EncodeToString(h.key),
	)
}

func (h argonHash) outdated() bool {
	return h.memory != currentArgon.memory ||
		h.passes != currentArgon.passes ||
		h.threads != currentArgon.threads ||
		len(h.key) != argonKeyLen
}

func parseArgonHash(encoded string) (argonHash, error) {
	var h argonHash

	fields := strings.Split(encoded, "$")
	if len(fields) != 6 || fields[0] != "" || fields[1] != "argon2id" {
		return h, errMalformedHash
	}

	var version int
	if _, err := fmt.Sscanf(fields[2], "v=%d", &version); err != nil || version != argon2.Version {
		return h, fmt.Errorf("%w: version %q", errMalformedHash, fields[2])
	}

	if _, err := fmt.Sscanf(fields[3], "m=%d,t=%d,p=%d", &h.memory, &h.passes, &h.threads); err != nil {
		return h, fmt.Errorf("%w: params: %v", errMalformedHash, err)
	}

	var err error
	if h.salt, err = base64.RawStdEncoding.DecodeString(fields[4]); err != nil {
		return h, fmt.Errorf("%w: salt: %v", errMalformedHash, err)
	}
	if h.key, err = base64.RawStdEncoding.DecodeString(fields[5]); err != nil {
		return h, fmt.Errorf("%w: key: %v", errMalformedHash, err)
	}
	if len(h.key) == 0 {
		return h, errMalformedHash
	}

	return h, nil
}

// CheckPasswordLength enforces the registration policy. It runs before
// hashing so a rejected password never reaches storage.
func CheckPasswordLength(password string, minLength int) error {
	if utf8.RuneCountInString(password) < minLength {
		return ValidationError(fmt.Sprintf(
			"password must contain at least %d characters",
			minLength,
		))
	}
	return nil
}

func HashPassword(password string) (string, error) {
	h := currentArgon
	h.salt = make([]byte, argonSaltLen)
	if _, err := rand.Read(h.salt); err != nil {
		return "", fmt.Errorf("generate salt: %w", err)
	}
	h.key = h.derive(password, argonKeyLen)

	return h.String(), nil
}

// VerifyPassword accepts argon2id hashes and bcrypt hashes from accounts
// created before the switch to argon2id.
func VerifyPassword(password, stored string) (bool, error) {
	if isBcrypt(stored) {
		err := bcrypt.CompareHashAndPassword([]byte(stored), []byte(password))
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return false, nil
		}
		if err != nil {
			return false, fmt.Errorf("compare bcrypt hash: %w", err)
		}
		return true, nil
	}

	h, err := parseArgonHash(stored)
	if err != nil {
		return false, err
	}

	//nolint:gosec // G115: key length is 32 for every hash we write
	candidate := h.derive(password, uint32(len(h.key)))
	return subtle.ConstantTimeCompare(h.key, candidate) == 1, nil
}

// PasswordCheck is the outcome of a login comparison. Upgrade holds a
// fresh argon2id hash when the stored one is bcrypt or uses old params.
type PasswordCheck struct {
	Valid   bool
	Upgrade string
}

func CheckPassword(password, stored string) (PasswordCheck, error) {
	valid, err := VerifyPassword(password, stored)
	if err != nil || !valid {
		return PasswordCheck{}, err
	}

	if !needsUpgrade(stored) {
		return PasswordCheck{Valid: true}, nil
	}

	upgraded, err := HashPassword(password)
	if err != nil {
		//nolint:nilerr // the password matched; the upgrade can wait
		return PasswordCheck{Valid: true}, nil
	}
	return PasswordCheck{Valid: true, Upgrade: upgraded}, nil
}

var decoyHash = sync.OnceValue(func() string {
	h, err := HashPassword("decoy password for unknown accounts")
	if err != nil {
		panic(fmt.Sprintf("security: decoy hash: %v", err))
	}
	return h
})

// BurnPasswordCheck spends the same argon2 work as a real comparison so
// unknown mails cannot be told apart by response time.
func BurnPasswordCheck(password string) {
	//nolint:errcheck // result is discarded on purpose
	_, _ = VerifyPassword(password, decoyHash())
}

func isBcrypt(stored string) bool {
	for _, prefix := range []string{"$2a$", "$2b$", "$2y$"} {
		if strings.HasPrefix(stored, prefix) {
			return true
		}
	}
	return false
}

func needsUpgrade(stored string) bool {
	if isBcrypt(stored) {
		return true
	}
	h, err := parseArgonHash(stored)
	return err != nil || h.outdated()
}
