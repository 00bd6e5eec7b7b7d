package syncer

import (
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	clientTokenFile = "redoma_client_token"
	activeConvFile  = "redoma_active_conv"
)

// TokenStore persists the anonymous client token and the active
// conversation pointer across runs. When the directory is not writable it
// degrades to memory only, and Ephemeral reports true so the application
// can warn that the chat history will not survive a restart.
type TokenStore struct {
	mu        sync.Mutex
	dir       string
	ephemeral bool
	values    map[string]string
	logger    *zap.Logger
}

// NewTokenStore opens (or creates) the state directory. dir may be empty,
// in which case a per-user default is used.
func NewTokenStore(dir string, logger *zap.Logger) *TokenStore {
	if logger == nil {
		logger = zap.NewNop()
	}
	if dir == "" {
		if base, err := os.UserConfigDir(); err == nil {
			dir = filepath.Join(base, "redoma")
		}
	}

	s := &TokenStore{dir: dir, values: make(map[string]string), logger: logger}

	if dir == "" || os.MkdirAll(dir, 0o700) != nil {
		s.ephemeral = true
	} else if probe := filepath.Join(dir, ".probe"); os.WriteFile(probe, nil, 0o600) != nil {
		s.ephemeral = true
	} else {
		os.Remove(probe)
	}

	if s.ephemeral {
		logger.Warn("token store is not persistent, chat identity will be lost on restart",
			zap.String("dir", dir))
	}
	return s
}

// Ephemeral reports whether persistence failed and the store is memory
// backed only.
func (s *TokenStore) Ephemeral() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ephemeral
}

// ClientToken returns the stored token, minting and persisting a new one
// on first use.
func (s *TokenStore) ClientToken() string {
	s.mu.Lock()
	defer s.mu.Unlock()

	if token := s.read(clientTokenFile); token != "" {
		return token
	}
	token := uuid.NewString()
	s.write(clientTokenFile, token)
	return token
}

// ActiveConversation returns the saved conversation pointer, or empty.
func (s *TokenStore) ActiveConversation() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.read(activeConvFile)
}

// SetActiveConversation saves the pointer; empty clears it.
func (s *TokenStore) SetActiveConversation(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if id == "" {
		delete(s.values, activeConvFile)
		if !s.ephemeral {
			os.Remove(filepath.Join(s.dir, activeConvFile))
		}
		return
	}
	s.write(activeConvFile, id)
}

func (s *TokenStore) read(name string) string {
	if v, ok := s.values[name]; ok {
		return v
	}
	if s.ephemeral {
		return ""
	}
	data, err := os.ReadFile(filepath.Join(s.dir, name))
	if err != nil {
		return ""
	}
	v := strings.TrimSpace(string(data))
	s.values[name] = v
	return v
}

func (s *TokenStore) write(name, value string) {
	s.values[name] = value
	if s.ephemeral {
		return
	}
	if err := os.WriteFile(filepath.Join(s.dir, name), []byte(value), 0o600); err != nil {
		s.ephemeral = true
		s.logger.Warn("token store write failed, falling back to memory",
			zap.String("file", name), zap.Error(err))
	}
}
