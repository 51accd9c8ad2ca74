package auth

import (
	"errors"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/project-eman-Farah/dev-library/config"
	"github.com/project-eman-Farah/dev-library/util/hash"
)

var ErrInvalidCreds = errors.New("invalid credentials")

// Service validates the admin login against the stored salted hash and keeps
// the single in-process session.
type Service interface {
	Login(username, password string) error
	Logout()
	IsLoggedIn() bool
	CurrentUser() string
	SessionID() string
}

type service struct {
	username   string
	salt       []byte
	storedHash []byte

	currentUser string
	sessionID   string

	log zerolog.Logger
}

// New loads admin credentials from configuration. Missing or unreadable
// values fall back to a hash of "default" so startup never crashes on a bad
// config.
func New(cfg config.App, log zerolog.Logger) Service {
	s := &service{log: log}

	salt, saltErr := hash.Decode(cfg.AdminSalt)
	stored, hashErr := hash.Decode(cfg.AdminHash)

	if cfg.AdminUsername == "" || saltErr != nil || hashErr != nil || len(stored) == 0 {
		log.Warn().Msg("admin credentials missing or unreadable, using fallback")
		s.username = ""
		s.salt = []byte{1, 2, 3}
		s.storedHash = hash.Password("default", s.salt)
		return s
	}

	s.username = cfg.AdminUsername
	s.salt = salt
	s.storedHash = stored
	return s
}

func (s *service) Login(username, password string) error {
	if username != s.username {
		return ErrInvalidCreds
	}
	if !hash.Equal(s.storedHash, hash.Password(password, s.salt)) {
		return ErrInvalidCreds
	}

	s.currentUser = username
	s.sessionID = uuid.NewString()
	s.log.Info().Str("user", username).Str("session_id", s.sessionID).Msg("admin logged in")
	return nil
}

func (s *service) Logout() {
	if s.currentUser != "" {
		s.log.Info().Str("user", s.currentUser).Str("session_id", s.sessionID).Msg("admin logged out")
	}
	s.currentUser = ""
	s.sessionID = ""
}

func (s *service) IsLoggedIn() bool {
	return s.currentUser != ""
}

func (s *service) CurrentUser() string {
	return s.currentUser
}

func (s *service) SessionID() string {
	return s.sessionID
}
