// internal/auth/credentials.go
package auth

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

var ErrNoCredentials = errors.New("no credentials found")

// Credentials is a backend session for one profile.
type Credentials struct {
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token,omitempty"`
	ExpiresAt    time.Time `json:"expires_at,omitempty"`
	Email        string    `json:"email,omitempty"`
	UserID       string    `json:"user_id,omitempty"`
}

func (c Credentials) Expired() bool {
	return c.ExpiredAt(time.Now())
}

// ExpiredAt reports whether the session has expired at now. Sessions
// without an expiry never expire client-side.
func (c Credentials) ExpiredAt(now time.Time) bool {
	if c.ExpiresAt.IsZero() {
		return false
	}
	return now.After(c.ExpiresAt)
}

type FileStore struct {
	path string
}

func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// DefaultStorePath returns credentials.json inside dir.
func DefaultStorePath(dir string) string {
	return filepath.Join(dir, "credentials.json")
}

func (s *FileStore) Save(profile string, cred Credentials) error {
	all, _ := s.loadAll()
	if all == nil {
		all = make(map[string]Credentials)
	}
	all[profile] = cred
	return s.writeAll(all)
}

func (s *FileStore) Load(profile string) (Credentials, error) {
	all, err := s.loadAll()
	if err != nil {
		return Credentials{}, ErrNoCredentials
	}
	cred, ok := all[profile]
	if !ok {
		return Credentials{}, ErrNoCredentials
	}
	return cred, nil
}

// LoadWithEnv prefers HEALTHLOG_TOKEN (or HEALTHLOG_<PROFILE>_TOKEN for
// non-default profiles) over the stored session.
func (s *FileStore) LoadWithEnv(profile string) (Credentials, error) {
	envKey := "HEALTHLOG_TOKEN"
	if profile != "" && profile != "default" {
		envKey = fmt.Sprintf("HEALTHLOG_%s_TOKEN", toUpperSnake(profile))
	}
	if token := os.Getenv(envKey); token != "" {
		return Credentials{AccessToken: token}, nil
	}
	return s.Load(profile)
}

// Delete removes a profile's session. Deleting a missing profile is not an error.
func (s *FileStore) Delete(profile string) error {
	all, err := s.loadAll()
	if err != nil {
		return nil
	}
	if _, ok := all[profile]; !ok {
		return nil
	}
	delete(all, profile)
	return s.writeAll(all)
}

func (s *FileStore) writeAll(all map[string]Credentials) error {
	data, err := json.MarshalIndent(all, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal credentials: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(s.path), 0700); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}

	if err := os.WriteFile(s.path, data, 0600); err != nil {
		return fmt.Errorf("write credentials: %w", err)
	}
	return nil
}

func (s *FileStore) loadAll() (map[string]Credentials, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil, err
	}
	var all map[string]Credentials
	if err := json.Unmarshal(data, &all); err != nil {
		return nil, err
	}
	return all, nil
}

func toUpperSnake(s string) string {
	return strings.ToUpper(strings.NewReplacer("-", "_", ".", "_", " ", "_").Replace(s))
}
