// Package session reads the identity of the connected user from the local
// metadata store. The core only reads it; Save and Clear exist for the login
// and logout commands that bootstrap a session.
package session

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/billed/internal/client/models"
	"github.com/dmitrijs2005/billed/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/billed/internal/dbx"
	"github.com/go-playground/validator/v10"
	json "github.com/goccy/go-json"
	"github.com/golang-jwt/jwt/v5"
)

const (
	userKey  = "user"
	tokenKey = "jwt"
)

var (
	ErrNoSession      = errors.New("no session")
	ErrInvalidSession = errors.New("invalid session")
	ErrTokenExpired   = errors.New("token expired")
)

// Reader is the read-only view every component is constructed with.
type Reader interface {
	Load(ctx context.Context) (models.Session, error)
	Token(ctx context.Context) (string, error)
}

type Store struct {
	db       *sql.DB
	validate *validator.Validate
	now      func() time.Time
}

func NewStore(db *sql.DB) *Store {
	return &Store{db: db, validate: validator.New(validator.WithRequiredStructEnabled()), now: time.Now}
}

func (s *Store) repo(tx dbx.DBTX) metadata.Repository {
	return metadata.NewSQLiteRepository(tx)
}

// Load returns the recorded session. ErrNoSession means nobody logged in;
// ErrInvalidSession means the stored record is unreadable or fails validation.
func (s *Store) Load(ctx context.Context) (models.Session, error) {
	var sess models.Session

	raw, err := s.repo(s.db).Get(ctx, userKey)
	if errors.Is(err, metadata.ErrNotFound) {
		return sess, ErrNoSession
	}
	if err != nil {
		return sess, err
	}

	if err := json.Unmarshal(raw, &sess); err != nil {
		return models.Session{}, fmt.Errorf("%w: %v", ErrInvalidSession, err)
	}
	if err := s.validate.Struct(sess); err != nil {
		return models.Session{}, fmt.Errorf("%w: %v", ErrInvalidSession, err)
	}
	return sess, nil
}

// Token returns the stored bearer token, or "" when none was recorded.
// A token whose exp claim is in the past yields ErrTokenExpired. The
// signature is not checked here; that is the backend's job.
func (s *Store) Token(ctx context.Context) (string, error) {
	raw, err := s.repo(s.db).Get(ctx, tokenKey)
	if errors.Is(err, metadata.ErrNotFound) {
		return "", nil
	}
	if err != nil {
		return "", err
	}

	token := string(raw)
	if err := s.checkExpiry(token); err != nil {
		return "", err
	}
	return token, nil
}

func (s *Store) checkExpiry(token string) error {
	claims := jwt.RegisteredClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, &claims); err != nil {
		// opaque tokens are passed through untouched
		return nil
	}
	if claims.ExpiresAt != nil && !claims.ExpiresAt.After(s.now()) {
		return ErrTokenExpired
	}
	return nil
}

// Save records a session and, when token is not empty, its bearer token.
func (s *Store) Save(ctx context.Context, sess models.Session, token string) error {
	if err := s.validate.Struct(sess); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidSession, err)
	}
	raw, err := json.Marshal(sess)
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}

	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		r := s.repo(tx)
		if err := r.Set(ctx, userKey, raw); err != nil {
			return err
		}
		if token == "" {
			return r.Delete(ctx, tokenKey)
		}
		return r.Set(ctx, tokenKey, []byte(token))
	})
}

// Clear forgets the session and its token.
func (s *Store) Clear(ctx context.Context) error {
	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		r := s.repo(tx)
		if err := r.Delete(ctx, userKey); err != nil {
			return err
		}
		return r.Delete(ctx, tokenKey)
	})
}
