// Package service 业务逻辑层
package service

import (
	"context"
	"fmt"
	"math/rand/v2"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/kochabx/subook/internal/auth/token"
	"github.com/kochabx/subook/internal/cache"
	"github.com/kochabx/subook/internal/mail"
	"github.com/kochabx/subook/internal/model"
	"github.com/kochabx/subook/internal/repository"
	"github.com/kochabx/subook/pkg/errors"
	"github.com/kochabx/subook/pkg/log"
)

const (
	// 验证码有效期
	verifyCodeTTL = 3 * time.Minute

	bcryptCost = 12
)

var (
	ErrCodeMismatch    = errors.BadRequest("verification code incorrect or expired")
	ErrUsernameTaken   = errors.Conflict("username already taken")
	ErrEmailTaken      = errors.Conflict("email already registered")
	ErrBadCredentials  = errors.Unauthorized("invalid username or password")
	ErrAccountNotFound = errors.NotFound("account not found")
)

// AccountService 账号注册与登录
type AccountService struct {
	accounts repository.AccountRepository
	infos    repository.AccountInfoRepository
	tokens   *token.Service
	cache    cache.Cache
	mailer   mail.Sender
	randCode func() string
}

// AccountOption AccountService 选项
type AccountOption func(*AccountService)

// WithCodeGenerator 注入验证码生成器，便于测试
func WithCodeGenerator(fn func() string) AccountOption {
	return func(s *AccountService) {
		s.randCode = fn
	}
}

// NewAccountService 创建账号服务
func NewAccountService(
	accounts repository.AccountRepository,
	infos repository.AccountInfoRepository,
	tokens *token.Service,
	c cache.Cache,
	mailer mail.Sender,
	opts ...AccountOption,
) *AccountService {
	s := &AccountService{
		accounts: accounts,
		infos:    infos,
		tokens:   tokens,
		cache:    c,
		mailer:   mailer,
		randCode: sixDigitCode,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// sixDigitCode 生成 100000 到 999999 的验证码
func sixDigitCode() string {
	return fmt.Sprintf("%d", 100000+rand.IntN(900000))
}

// AskCode 生成注册验证码并发送到邮箱
// 验证码以邮箱为键缓存 3 分钟，重复请求会覆盖旧码
func (s *AccountService) AskCode(ctx context.Context, email string) error {
	code := s.randCode()

	if err := s.cache.Set(ctx, email, code, verifyCodeTTL); err != nil {
		return errors.ServiceUnavailable("verification code unavailable").WithCause(err)
	}

	msg := &mail.Message{
		To:        email,
		Subject:   "注册验证码",
		PlainBody: fmt.Sprintf("您的验证码是 %s，3 分钟内有效。", code),
	}
	if err := s.mailer.Send(ctx, msg); err != nil {
		return errors.ServiceUnavailable("send verification mail failed").WithCause(err)
	}

	log.Info().Str("email", email).Msg("verification code issued")
	return nil
}

// RegisterRequest 注册参数
type RegisterRequest struct {
	Username string `json:"username" form:"username" validate:"required,min=2,max=32"`
	Email    string `json:"email" form:"email" validate:"required,email"`
	Code     string `json:"code" form:"code" validate:"required,len=6"`
	Password string `json:"password" form:"password" validate:"required,min=6,max=32"`
}

// Register 校验验证码并创建账号，同时初始化账号资料
func (s *AccountService) Register(ctx context.Context, req *RegisterRequest) (*model.Account, error) {
	cached, err := s.cache.Get(ctx, req.Email)
	if errors.Is(err, cache.ErrNotFound) {
		return nil, ErrCodeMismatch
	}
	if err != nil {
		return nil, errors.ServiceUnavailable("verification code unavailable").WithCause(err)
	}
	if cached != req.Code {
		return nil, ErrCodeMismatch
	}

	if taken, err := s.accounts.ExistsByUsername(ctx, req.Username); err != nil {
		return nil, err
	} else if taken {
		return nil, ErrUsernameTaken
	}
	if taken, err := s.accounts.ExistsByEmail(ctx, req.Email); err != nil {
		return nil, err
	} else if taken {
		return nil, ErrEmailTaken
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcryptCost)
	if err != nil {
		return nil, err
	}

	account := &model.Account{
		Username: req.Username,
		Email:    req.Email,
		Password: string(hashed),
		Role:     model.RoleUser,
	}
	if err := s.accounts.Create(ctx, account); err != nil {
		return nil, err
	}

	if err := s.infos.Create(ctx, &model.AccountInfo{AccountID: account.ID, Name: req.Username}); err != nil {
		return nil, err
	}

	// 验证码一次性使用
	if err := s.cache.Delete(ctx, req.Email); err != nil {
		log.Warn().Err(err).Str("email", req.Email).Msg("clear verification code failed")
	}

	log.Info().Str("username", req.Username).Msg("account registered")
	return account, nil
}

// Login 用用户名或邮箱登录，成功后签发 Token
// 重复登录会作废先前的会话
func (s *AccountService) Login(ctx context.Context, text, password string) (string, *model.Account, error) {
	account, err := s.accounts.FindByNameOrEmail(ctx, text)
	if errors.Is(err, repository.ErrNotFound) {
		return "", nil, ErrBadCredentials
	}
	if err != nil {
		return "", nil, err
	}

	if bcrypt.CompareHashAndPassword([]byte(account.Password), []byte(password)) != nil {
		return "", nil, ErrBadCredentials
	}

	tokenString, err := s.tokens.Issue(ctx, account.ID, account.Username, account.Role)
	if err != nil {
		return "", nil, err
	}

	log.Info().Str("username", account.Username).Msg("login")
	return tokenString, account, nil
}

// Logout 注销当前 Token
func (s *AccountService) Logout(ctx context.Context, tokenString string) error {
	return s.tokens.Invalidate(ctx, tokenString)
}
