package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/kochabx/subook/internal/auth/jwt"
	"github.com/kochabx/subook/internal/auth/token"
	"github.com/kochabx/subook/internal/cache"
	"github.com/kochabx/subook/internal/model"
	gerrors "github.com/kochabx/subook/pkg/errors"
)

type accountFixture struct {
	accounts *mockAccountRepo
	infos    *mockInfoRepo
	cache    *cache.Memory
	mailer   *mockMailer
	tokens   *token.Service
	service  *AccountService
}

func newAccountFixture(t *testing.T) *accountFixture {
	t.Helper()

	codec, err := jwt.NewCodec(&jwt.Config{Secret: "test-secret", TTL: 3600})
	require.NoError(t, err)

	f := &accountFixture{
		accounts: newMockAccountRepo(),
		infos:    newMockInfoRepo(),
		cache:    cache.NewMemory(),
		mailer:   &mockMailer{},
	}
	f.tokens = token.NewService(codec, f.cache)
	f.service = NewAccountService(f.accounts, f.infos, f.tokens, f.cache, f.mailer,
		WithCodeGenerator(func() string { return "123456" }))
	return f
}

func (f *accountFixture) register(t *testing.T) *model.Account {
	t.Helper()
	ctx := context.Background()

	require.NoError(t, f.service.AskCode(ctx, "alice@example.com"))
	account, err := f.service.Register(ctx, &RegisterRequest{
		Username: "alice",
		Email:    "alice@example.com",
		Code:     "123456",
		Password: "secret-pass",
	})
	require.NoError(t, err)
	return account
}

func TestAskCode(t *testing.T) {
	f := newAccountFixture(t)
	ctx := context.Background()

	require.NoError(t, f.service.AskCode(ctx, "alice@example.com"))

	// 验证码以邮箱为键缓存
	code, err := f.cache.Get(ctx, "alice@example.com")
	require.NoError(t, err)
	assert.Equal(t, "123456", code)

	msg := f.mailer.last()
	require.NotNil(t, msg)
	assert.Equal(t, "alice@example.com", msg.To)
	assert.Contains(t, msg.PlainBody, "123456")
}

func TestAskCodeMailFailure(t *testing.T) {
	f := newAccountFixture(t)
	f.mailer.fail = errors.New("sendgrid unavailable")

	err := f.service.AskCode(context.Background(), "alice@example.com")
	require.Error(t, err)
	assert.Equal(t, 503, gerrors.FromError(err).Code)
}

func TestRegister(t *testing.T) {
	f := newAccountFixture(t)
	ctx := context.Background()

	account := f.register(t)
	assert.Equal(t, "alice", account.Username)
	assert.Equal(t, model.RoleUser, account.Role)

	// 密码以 bcrypt 存储
	stored, err := f.accounts.FindByUsername(ctx, "alice")
	require.NoError(t, err)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored.Password), []byte("secret-pass")))

	// 资料同步建立
	info, err := f.infos.FindByAccountID(ctx, account.ID)
	require.NoError(t, err)
	assert.Equal(t, "alice", info.Name)

	// 验证码一次性使用
	_, err = f.cache.Get(ctx, "alice@example.com")
	assert.ErrorIs(t, err, cache.ErrNotFound)
}

func TestRegisterWrongCode(t *testing.T) {
	f := newAccountFixture(t)
	ctx := context.Background()

	require.NoError(t, f.service.AskCode(ctx, "alice@example.com"))

	_, err := f.service.Register(ctx, &RegisterRequest{
		Username: "alice",
		Email:    "alice@example.com",
		Code:     "654321",
		Password: "secret-pass",
	})
	assert.ErrorIs(t, err, ErrCodeMismatch)
}

func TestRegisterWithoutCode(t *testing.T) {
	f := newAccountFixture(t)

	_, err := f.service.Register(context.Background(), &RegisterRequest{
		Username: "alice",
		Email:    "alice@example.com",
		Code:     "123456",
		Password: "secret-pass",
	})
	assert.ErrorIs(t, err, ErrCodeMismatch)
}

func TestRegisterDuplicate(t *testing.T) {
	f := newAccountFixture(t)
	ctx := context.Background()
	f.register(t)

	require.NoError(t, f.service.AskCode(ctx, "alice@other.com"))
	_, err := f.service.Register(ctx, &RegisterRequest{
		Username: "alice",
		Email:    "alice@other.com",
		Code:     "123456",
		Password: "secret-pass",
	})
	assert.ErrorIs(t, err, ErrUsernameTaken)

	require.NoError(t, f.service.AskCode(ctx, "alice@example.com"))
	_, err = f.service.Register(ctx, &RegisterRequest{
		Username: "alice2",
		Email:    "alice@example.com",
		Code:     "123456",
		Password: "secret-pass",
	})
	assert.ErrorIs(t, err, ErrEmailTaken)
}

func TestLogin(t *testing.T) {
	f := newAccountFixture(t)
	ctx := context.Background()
	f.register(t)

	// 用户名和邮箱都可登录
	for _, text := range []string{"alice", "alice@example.com"} {
		tokenString, account, err := f.service.Login(ctx, text, "secret-pass")
		require.NoError(t, err, "login by %s", text)
		assert.Equal(t, "alice", account.Username)

		claims, err := f.tokens.Validate(ctx, tokenString)
		require.NoError(t, err)
		assert.Equal(t, "alice", claims.Subject)
		assert.Equal(t, model.RoleUser, claims.Role)
	}
}

func TestLoginBadCredentials(t *testing.T) {
	f := newAccountFixture(t)
	ctx := context.Background()
	f.register(t)

	_, _, err := f.service.Login(ctx, "alice", "wrong-pass")
	assert.ErrorIs(t, err, ErrBadCredentials)

	_, _, err = f.service.Login(ctx, "nobody", "secret-pass")
	assert.ErrorIs(t, err, ErrBadCredentials)
}

func TestLogout(t *testing.T) {
	f := newAccountFixture(t)
	ctx := context.Background()
	f.register(t)

	tokenString, _, err := f.service.Login(ctx, "alice", "secret-pass")
	require.NoError(t, err)

	require.NoError(t, f.service.Logout(ctx, tokenString))

	_, err = f.tokens.Validate(ctx, tokenString)
	assert.ErrorIs(t, err, token.ErrRevoked)
}
