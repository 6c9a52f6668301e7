// Package auth verifies credentials and binds authenticated users to
// server-side sessions carried by a signed cookie token.
package auth

import (
	"context" // Request-scoped cancellation
	"errors"  // Error inspection
	"fmt"     // Error wrapping

	"feedback_board/internal/domain"  // Error taxonomy and models
	"feedback_board/internal/session" // Redis session store
	"feedback_board/internal/utils"   // Tokens and password hashing

	"golang.org/x/crypto/bcrypt" // Password length errors
)

// Identity is the authenticated caller of one request.
type Identity struct {
	Username  string
	SessionID string
}

// RegisterInput is a validated registration form.
type RegisterInput struct {
	Username  string
	Email     string
	Password  string
	FirstName string
	LastName  string
}

// UserRepository is the part of the identity store the authenticator needs.
type UserRepository interface {
	Create(ctx context.Context, user domain.User) (domain.User, error)
	FindByUsername(ctx context.Context, username string) (domain.User, error)
	FindByUsernameOrEmail(ctx context.Context, username, email string) (domain.Conflict, error)
}

// Authenticator handles register, login, logout and session resolution.
type Authenticator struct {
	users     UserRepository
	sessions  *session.Store
	secret    string
	cost      int
	dummyHash string
}

// NewAuthenticator wires the identity store and the session store together.
// secret signs session tokens; cost is the bcrypt cost for new passwords.
func NewAuthenticator(users UserRepository, sessions *session.Store, secret string, cost int) (*Authenticator, error) {
	if secret == "" {
		return nil, errors.New("session secret is empty")
	}
	// Compared against for unknown usernames so both login failures take as long
	dummy, err := utils.HashPassword("not-a-real-password", cost)
	if err != nil {
		return nil, fmt.Errorf("dummy hash: %w", err)
	}
	return &Authenticator{users: users, sessions: sessions, secret: secret, cost: cost, dummyHash: dummy}, nil
}

// Register creates the user and opens a session for it. Taken usernames or
// emails are reported together in a *domain.ConflictError.
func (a *Authenticator) Register(ctx context.Context, in RegisterInput) (domain.User, string, error) {
	conflict, err := a.users.FindByUsernameOrEmail(ctx, in.Username, in.Email)
	if err != nil {
		return domain.User{}, "", err
	}
	if conflict.Any() {
		return domain.User{}, "", &domain.ConflictError{Conflict: conflict}
	}
	hash, err := utils.HashPassword(in.Password, a.cost)
	if errors.Is(err, bcrypt.ErrPasswordTooLong) {
		return domain.User{}, "", &domain.ValidationError{Fields: map[string]string{
			"password": "Password cannot be longer than 72 bytes.",
		}}
	}
	if err != nil {
		return domain.User{}, "", fmt.Errorf("hash password: %w", err)
	}
	user, err := a.users.Create(ctx, domain.User{
		Username:  in.Username,
		Email:     in.Email,
		Password:  hash,
		FirstName: in.FirstName,
		LastName:  in.LastName,
	})
	if err != nil {
		return domain.User{}, "", err
	}
	token, err := a.issue(ctx, user.Username)
	if err != nil {
		return domain.User{}, "", err
	}
	return user, token, nil
}

// Login checks the password and opens a new session. Unknown users and wrong
// passwords both return domain.ErrInvalidCredentials.
func (a *Authenticator) Login(ctx context.Context, username, password string) (domain.User, string, error) {
	user, err := a.users.FindByUsername(ctx, username)
	if errors.Is(err, domain.ErrNotFound) {
		utils.CheckPassword(a.dummyHash, password)
		return domain.User{}, "", domain.ErrInvalidCredentials
	}
	if err != nil {
		return domain.User{}, "", err
	}
	if !utils.CheckPassword(user.Password, password) {
		return domain.User{}, "", domain.ErrInvalidCredentials
	}
	token, err := a.issue(ctx, user.Username)
	if err != nil {
		return domain.User{}, "", err
	}
	return user, token, nil
}

// Logout drops the session behind token. Broken or stale tokens are ignored.
func (a *Authenticator) Logout(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	claims, err := utils.ParseSessionToken(token, a.secret)
	if err != nil {
		return nil
	}
	return a.sessions.Delete(ctx, claims.SessionID)
}

// Resolve turns a cookie token into the caller's identity. It returns
// domain.ErrUnauthenticated when the token or its session is not valid.
func (a *Authenticator) Resolve(ctx context.Context, token string) (Identity, error) {
	if token == "" {
		return Identity{}, domain.ErrUnauthenticated
	}
	claims, err := utils.ParseSessionToken(token, a.secret)
	if err != nil {
		return Identity{}, domain.ErrUnauthenticated
	}
	sess, err := a.sessions.Get(ctx, claims.SessionID)
	if errors.Is(err, session.ErrNotFound) {
		return Identity{}, domain.ErrUnauthenticated
	}
	if err != nil {
		return Identity{}, err
	}
	if sess.Username != claims.Subject {
		return Identity{}, domain.ErrUnauthenticated
	}
	return Identity{Username: sess.Username, SessionID: sess.ID}, nil
}

// RevokeAll ends every session of username, e.g. after the account is deleted.
func (a *Authenticator) RevokeAll(ctx context.Context, username string) error {
	return a.sessions.DeleteAllFor(ctx, username)
}

// CookieMaxAge is the session lifetime in seconds, for the cookie carrying the token.
func (a *Authenticator) CookieMaxAge() int {
	return int(a.sessions.TTL().Seconds())
}

func (a *Authenticator) issue(ctx context.Context, username string) (string, error) {
	sess, err := a.sessions.Create(ctx, username)
	if err != nil {
		return "", err
	}
	token, err := utils.GenerateSessionToken(sess.ID, username, a.secret, a.sessions.TTL())
	if err != nil {
		_ = a.sessions.Delete(ctx, sess.ID)
		return "", fmt.Errorf("sign session token: %w", err)
	}
	return token, nil
}
