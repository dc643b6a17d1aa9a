// AngelaMos | 2026
// service_test.go

package identity

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fl1capital/liquidation-backend/internal/config"
	"github.com/fl1capital/liquidation-backend/internal/core"
)

type fakeRepo struct {
	users map[string]*User // keyed by ID
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{users: make(map[string]*User)}
}

func (f *fakeRepo) Create(_ context.Context, user *User) error {
	for _, existing := range f.users {
		if existing.Email == user.Email {
			return core.ErrDuplicateKey
		}
	}
	clone := *user
	clone.CreatedAt = time.Now()
	clone.UpdatedAt = clone.CreatedAt
	f.users[user.ID] = &clone
	return nil
}

func (f *fakeRepo) GetByID(_ context.Context, id string) (*User, error) {
	user, ok := f.users[id]
	if !ok {
		return nil, core.ErrNotFound
	}
	clone := *user
	return &clone, nil
}

func (f *fakeRepo) GetByEmail(_ context.Context, email string) (*User, error) {
	for _, user := range f.users {
		if user.Email == email {
			clone := *user
			return &clone, nil
		}
	}
	return nil, core.ErrNotFound
}

func (f *fakeRepo) SetVerificationCode(
	_ context.Context,
	id, code string,
	expires time.Time,
) error {
	user, ok := f.users[id]
	if !ok {
		return core.ErrNotFound
	}
	user.VerificationCode = &code
	user.VerificationCodeExpires = &expires
	return nil
}

func (f *fakeRepo) MarkVerified(_ context.Context, id string) error {
	user, ok := f.users[id]
	if !ok {
		return core.ErrNotFound
	}
	user.EmailVerified = true
	user.VerificationCode = nil
	user.VerificationCodeExpires = nil
	return nil
}

func (f *fakeRepo) UpdatePassword(
	_ context.Context,
	id, passwordHash string,
) error {
	user, ok := f.users[id]
	if !ok {
		return core.ErrNotFound
	}
	user.PasswordHash = passwordHash
	return nil
}

func testAuthConfig() config.AuthConfig {
	return config.AuthConfig{
		AllowedEmailDomain: "fl1capital.com",
		CodeLength:         6,
		CodeTTL:            10 * time.Minute,
	}
}

func newTestService(repo Repository) *Service {
	return NewService(repo, testAuthConfig())
}

func TestRegisterIssuesCode(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo)

	resp, err := svc.Register(context.Background(), RegisterRequest{
		Email:    "Alice@FL1Capital.com",
		Password: "correct horse battery",
		FullName: "Alice",
	})
	require.NoError(t, err)
	require.NotNil(t, resp)

	assert.Len(t, resp.VerificationCode, 6)
	assert.NotEmpty(t, resp.UserID)

	user, err := repo.GetByID(context.Background(), resp.UserID)
	require.NoError(t, err)
	assert.Equal(t, "alice@fl1capital.com", user.Email)
	assert.False(t, user.EmailVerified)
	require.True(t, user.HasPendingCode())
	assert.Equal(t, resp.VerificationCode, *user.VerificationCode)
	assert.NotEqual(t, "correct horse battery", user.PasswordHash)
}

func TestRegisterRejectsOutsideDomain(t *testing.T) {
	svc := newTestService(newFakeRepo())

	cases := []string{
		"alice@gmail.com",
		"alice@fl1capital.com.evil.com",
		"alice@sub.fl1capital.com",
		"alice@FL1CAPITALXCOM",
	}

	for _, email := range cases {
		_, err := svc.Register(context.Background(), RegisterRequest{
			Email:    email,
			Password: "password123",
			FullName: "Alice",
		})
		assert.ErrorIs(t, err, ErrEmailDomain, "email %q", email)
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo)

	req := RegisterRequest{
		Email:    "alice@fl1capital.com",
		Password: "password123",
		FullName: "Alice",
	}

	_, err := svc.Register(context.Background(), req)
	require.NoError(t, err)

	_, err = svc.Register(context.Background(), req)
	assert.ErrorIs(t, err, ErrEmailExists)
}

func TestVerifyCodeSucceedsExactlyOnce(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo)
	ctx := context.Background()

	resp, err := svc.Register(ctx, RegisterRequest{
		Email:    "alice@fl1capital.com",
		Password: "password123",
		FullName: "Alice",
	})
	require.NoError(t, err)

	err = svc.VerifyCode(ctx, "alice@fl1capital.com", resp.VerificationCode)
	require.NoError(t, err)

	user, err := repo.GetByID(ctx, resp.UserID)
	require.NoError(t, err)
	assert.True(t, user.EmailVerified)
	assert.False(t, user.HasPendingCode())

	// The code was cleared on success; replaying it finds nothing to match.
	err = svc.VerifyCode(ctx, "alice@fl1capital.com", resp.VerificationCode)
	assert.ErrorIs(t, err, ErrInvalidCode)
}

func TestVerifyCodeWrongCode(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo)
	ctx := context.Background()

	resp, err := svc.Register(ctx, RegisterRequest{
		Email:    "alice@fl1capital.com",
		Password: "password123",
		FullName: "Alice",
	})
	require.NoError(t, err)

	wrong := "000000"
	if resp.VerificationCode == wrong {
		wrong = "000001"
	}

	err = svc.VerifyCode(ctx, "alice@fl1capital.com", wrong)
	assert.ErrorIs(t, err, ErrInvalidCode)

	user, err := repo.GetByID(ctx, resp.UserID)
	require.NoError(t, err)
	assert.False(t, user.EmailVerified)
	assert.True(t, user.HasPendingCode())
}

func TestVerifyCodeExpired(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo)
	ctx := context.Background()

	resp, err := svc.Register(ctx, RegisterRequest{
		Email:    "alice@fl1capital.com",
		Password: "password123",
		FullName: "Alice",
	})
	require.NoError(t, err)

	svc.now = func() time.Time {
		return time.Now().Add(11 * time.Minute)
	}

	err = svc.VerifyCode(ctx, "alice@fl1capital.com", resp.VerificationCode)
	assert.ErrorIs(t, err, ErrCodeExpired)
}

func TestVerifyCodeUnknownUser(t *testing.T) {
	svc := newTestService(newFakeRepo())

	err := svc.VerifyCode(context.Background(), "ghost@fl1capital.com", "123456")
	assert.ErrorIs(t, err, core.ErrNotFound)
}

func TestResendInvalidatesPreviousCode(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo)
	ctx := context.Background()

	first, err := svc.Register(ctx, RegisterRequest{
		Email:    "alice@fl1capital.com",
		Password: "password123",
		FullName: "Alice",
	})
	require.NoError(t, err)

	resend, err := svc.ResendCode(ctx, "alice@fl1capital.com")
	require.NoError(t, err)
	assert.Len(t, resend.VerificationCode, 6)

	if first.VerificationCode != resend.VerificationCode {
		err = svc.VerifyCode(
			ctx,
			"alice@fl1capital.com",
			first.VerificationCode,
		)
		assert.ErrorIs(t, err, ErrInvalidCode)
	}

	err = svc.VerifyCode(ctx, "alice@fl1capital.com", resend.VerificationCode)
	assert.NoError(t, err)
}

func TestResendUnknownUser(t *testing.T) {
	svc := newTestService(newFakeRepo())

	_, err := svc.ResendCode(context.Background(), "ghost@fl1capital.com")
	assert.ErrorIs(t, err, core.ErrNotFound)
}

func TestLoginFlow(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo)
	ctx := context.Background()

	resp, err := svc.Register(ctx, RegisterRequest{
		Email:    "alice@fl1capital.com",
		Password: "password123",
		FullName: "Alice",
	})
	require.NoError(t, err)

	// Absent account.
	_, err = svc.Login(ctx, LoginRequest{
		Email:    "ghost@fl1capital.com",
		Password: "password123",
	})
	assert.ErrorIs(t, err, core.ErrNotFound)

	// Pending verification refuses before the password is even checked.
	_, err = svc.Login(ctx, LoginRequest{
		Email:    "alice@fl1capital.com",
		Password: "wrong password",
	})
	assert.ErrorIs(t, err, ErrNotVerified)

	require.NoError(
		t,
		svc.VerifyCode(ctx, "alice@fl1capital.com", resp.VerificationCode),
	)

	// Verified account, wrong password.
	_, err = svc.Login(ctx, LoginRequest{
		Email:    "alice@fl1capital.com",
		Password: "wrong password",
	})
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	// Verified account, correct password.
	login, err := svc.Login(ctx, LoginRequest{
		Email:    "Alice@FL1Capital.com",
		Password: "password123",
	})
	require.NoError(t, err)
	assert.Equal(t, "alice@fl1capital.com", login.User.Email)
	assert.True(t, login.User.EmailVerified)
}

func TestUserExists(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo)
	ctx := context.Background()

	resp, err := svc.Register(ctx, RegisterRequest{
		Email:    "alice@fl1capital.com",
		Password: "password123",
		FullName: "Alice",
	})
	require.NoError(t, err)

	exists, err := svc.UserExists(ctx, resp.UserID)
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = svc.UserExists(ctx, "missing-id")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestUserIDByEmail(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo)
	ctx := context.Background()

	resp, err := svc.Register(ctx, RegisterRequest{
		Email:    "alice@fl1capital.com",
		Password: "password123",
		FullName: "Alice",
	})
	require.NoError(t, err)

	id, err := svc.UserIDByEmail(ctx, "  ALICE@fl1capital.com ")
	require.NoError(t, err)
	assert.Equal(t, resp.UserID, id)

	_, err = svc.UserIDByEmail(ctx, "ghost@fl1capital.com")
	assert.ErrorIs(t, err, core.ErrNotFound)
}
