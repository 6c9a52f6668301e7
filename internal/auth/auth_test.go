package auth

import (
	"context"
	"strings"
	"testing"
	"time"

	"feedback_board/internal/domain"
	"feedback_board/internal/session"
	"feedback_board/internal/store"
	"feedback_board/internal/testutil"
	"feedback_board/internal/utils"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	authn    *Authenticator
	users    *store.UserStore
	sessions *session.Store
	mr       *miniredis.Miniredis
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	conn := testutil.SetupTestDB(t)
	mr, rdb := testutil.SetupTestRedis(t)
	users := store.NewUserStore(conn)
	sessions := session.NewStore(rdb, time.Hour)
	authn, err := NewAuthenticator(users, sessions, testutil.TestSecret, testutil.TestCost)
	require.NoError(t, err)
	return fixture{authn: authn, users: users, sessions: sessions, mr: mr}
}

func input(username, email, password string) RegisterInput {
	return RegisterInput{
		Username:  username,
		Email:     email,
		Password:  password,
		FirstName: "First",
		LastName:  "Last",
	}
}

func TestNewAuthenticator_RequiresSecret(t *testing.T) {
	_, err := NewAuthenticator(nil, nil, "", testutil.TestCost)
	assert.Error(t, err)
}

func TestRegister_OpensSession(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	user, token, err := f.authn.Register(ctx, input("alice", "alice@x.com", "pw1"))
	require.NoError(t, err)
	assert.Equal(t, "alice", user.Username)
	assert.NotEqual(t, "pw1", user.Password, "stored as a hash")

	id, err := f.authn.Resolve(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, "alice", id.Username)
	assert.NotEmpty(t, id.SessionID)

	stored, err := f.users.FindByUsername(ctx, "alice")
	require.NoError(t, err)
	assert.True(t, utils.CheckPassword(stored.Password, "pw1"))
}

func TestRegister_Conflicts(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	_, _, err := f.authn.Register(ctx, input("alice", "alice@x.com", "pw1"))
	require.NoError(t, err)

	tests := []struct {
		name     string
		in       RegisterInput
		want     domain.Conflict
		messages []string
	}{
		{
			name:     "email taken",
			in:       input("bob", "alice@x.com", "pw2"),
			want:     domain.Conflict{Email: true},
			messages: []string{"Email already exists. Please choose a different one."},
		},
		{
			name:     "username taken",
			in:       input("alice", "new@x.com", "pw2"),
			want:     domain.Conflict{Username: true},
			messages: []string{"Username already exists. Please choose a different one."},
		},
		{
			name: "both taken",
			in:   input("alice", "alice@x.com", "pw2"),
			want: domain.Conflict{Username: true, Email: true},
			messages: []string{
				"Username already exists. Please choose a different one.",
				"Email already exists. Please choose a different one.",
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, token, err := f.authn.Register(ctx, tt.in)
			var conflict *domain.ConflictError
			require.ErrorAs(t, err, &conflict)
			assert.Equal(t, tt.want, conflict.Conflict)
			assert.Equal(t, tt.messages, conflict.Messages())
			assert.Empty(t, token)
		})
	}

	// The rejected registrations left the first account untouched
	alice, err := f.users.FindByUsername(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, "alice@x.com", alice.Email)
	assert.True(t, utils.CheckPassword(alice.Password, "pw1"))
}

func TestRegister_PasswordTooLong(t *testing.T) {
	f := newFixture(t)

	_, _, err := f.authn.Register(context.Background(), input("alice", "alice@x.com", strings.Repeat("p", 73)))
	var verr *domain.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Fields, "password")

	_, err = f.users.FindByUsername(context.Background(), "alice")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestLogin(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	_, _, err := f.authn.Register(ctx, input("alice", "alice@x.com", "pw1"))
	require.NoError(t, err)

	user, token, err := f.authn.Login(ctx, "alice", "pw1")
	require.NoError(t, err)
	assert.Equal(t, "alice", user.Username)
	id, err := f.authn.Resolve(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, "alice", id.Username)

	_, _, wrongPassword := f.authn.Login(ctx, "alice", "nope")
	_, _, unknownUser := f.authn.Login(ctx, "ghost", "pw1")
	assert.ErrorIs(t, wrongPassword, domain.ErrInvalidCredentials)
	assert.ErrorIs(t, unknownUser, domain.ErrInvalidCredentials)
	assert.Equal(t, wrongPassword.Error(), unknownUser.Error(), "failures are indistinguishable")
}

func TestLogout(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	_, token, err := f.authn.Register(ctx, input("alice", "alice@x.com", "pw1"))
	require.NoError(t, err)

	require.NoError(t, f.authn.Logout(ctx, token))

	_, err = f.authn.Resolve(ctx, token)
	assert.ErrorIs(t, err, domain.ErrUnauthenticated)

	assert.NoError(t, f.authn.Logout(ctx, token), "second logout is a no-op")
	assert.NoError(t, f.authn.Logout(ctx, ""))
	assert.NoError(t, f.authn.Logout(ctx, "garbage"))
}

func TestResolve_Rejects(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	_, token, err := f.authn.Register(ctx, input("alice", "alice@x.com", "pw1"))
	require.NoError(t, err)
	claims, err := utils.ParseSessionToken(token, testutil.TestSecret)
	require.NoError(t, err)

	forgedSecret, err := utils.GenerateSessionToken(claims.SessionID, "alice", "guessed-secret", time.Hour)
	require.NoError(t, err)
	otherSubject, err := utils.GenerateSessionToken(claims.SessionID, "mallory", testutil.TestSecret, time.Hour)
	require.NoError(t, err)
	unknownSession, err := utils.GenerateSessionToken("no-such-session", "alice", testutil.TestSecret, time.Hour)
	require.NoError(t, err)

	tests := []struct {
		name  string
		token string
	}{
		{"empty", ""},
		{"garbage", "garbage"},
		{"forged signature", forgedSecret},
		{"subject mismatch", otherSubject},
		{"unknown session", unknownSession},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.authn.Resolve(ctx, tt.token)
			assert.ErrorIs(t, err, domain.ErrUnauthenticated)
		})
	}
}

func TestResolve_ExpiredSession(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	_, token, err := f.authn.Register(ctx, input("alice", "alice@x.com", "pw1"))
	require.NoError(t, err)

	// Redis forgets the session before the token itself expires
	f.mr.FastForward(2 * time.Hour)

	_, err = f.authn.Resolve(ctx, token)
	assert.ErrorIs(t, err, domain.ErrUnauthenticated)
}

func TestRevokeAll(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	_, first, err := f.authn.Register(ctx, input("alice", "alice@x.com", "pw1"))
	require.NoError(t, err)
	_, second, err := f.authn.Login(ctx, "alice", "pw1")
	require.NoError(t, err)

	require.NoError(t, f.authn.RevokeAll(ctx, "alice"))

	for _, token := range []string{first, second} {
		_, err := f.authn.Resolve(ctx, token)
		assert.ErrorIs(t, err, domain.ErrUnauthenticated)
	}
}

func TestCookieMaxAge(t *testing.T) {
	f := newFixture(t)
	assert.Equal(t, 3600, f.authn.CookieMaxAge())
}

func TestIdentityContext(t *testing.T) {
	_, ok := IdentityFrom(context.Background())
	assert.False(t, ok)

	_, ok = IdentityFrom(WithIdentity(context.Background(), Identity{}))
	assert.False(t, ok, "empty identity is anonymous")

	id, ok := IdentityFrom(WithIdentity(context.Background(), Identity{Username: "alice", SessionID: "s"}))
	require.True(t, ok)
	assert.Equal(t, "alice", id.Username)
}
