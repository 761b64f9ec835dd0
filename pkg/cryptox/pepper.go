package cryptox

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// Configuration for Argon2id hashing.
const (
	memory      = 19 * 1024 // Memory usage in KiB (19 MiB)
	iterations  = 2         // Iteration count
	parallelism = 1         // Number of threads
	keyLength   = 32        // Length of the generated hash
	saltLength  = 16        // Length of the salt
)

var (
	pepperMu   sync.RWMutex
	pepper     string
	pepperFile = "pepper"
)

// SetPepperPath selects the file the pepper is read from (or written to on
// first use). Any pepper already in memory is dropped.
func SetPepperPath(file string) {
	pepperMu.Lock()
	defer pepperMu.Unlock()

	pepperFile = file
	pepper = ""
}

// LoadPepper eagerly loads the pepper so a missing or unreadable file fails
// startup instead of the first request that hashes a password.
func LoadPepper() error {
	_, err := currentPepper()
	return err
}

// GetPepper returns the process pepper. Losing it makes every stored hash
// unverifiable, so failing to load it is fatal.
func GetPepper() string {
	p, err := currentPepper()
	if err != nil {
		slog.Error("failed to load or generate pepper", slog.Any("err", err))
		os.Exit(1)
	}
	return p
}

func currentPepper() (string, error) {
	pepperMu.RLock()
	p := pepper
	pepperMu.RUnlock()
	if p != "" {
		return p, nil
	}

	pepperMu.Lock()
	defer pepperMu.Unlock()

	// Another goroutine may have won the race while we waited.
	if pepper != "" {
		return pepper, nil
	}

	loaded, err := loadOrGeneratePepper(pepperFile)
	if err != nil {
		return "", err
	}
	pepper = loaded
	return pepper, nil
}

// loadOrGeneratePepper loads the pepper from a file or generates one if not found.
func loadOrGeneratePepper(file string) (string, error) {
	file = filepath.Clean(file)
	if err := os.MkdirAll(filepath.Dir(file), 0750); err != nil {
		return "", err
	}

	data, err := os.ReadFile(file)
	switch {
	case err == nil:
		p := strings.TrimSpace(string(data))
		if p == "" {
			return "", fmt.Errorf("pepper file %s is empty", file)
		}
		return p, nil
	case !os.IsNotExist(err):
		return "", err
	}

	raw := make([]byte, keyLength)
	if _, err := rand.Read(raw); err != nil {
		return "", err
	}
	generated := base64.RawURLEncoding.EncodeToString(raw)

	if err := os.WriteFile(file, []byte(generated), 0600); err != nil {
		return "", err
	}
	return generated, nil
}
