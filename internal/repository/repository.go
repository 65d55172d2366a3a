// Package repository 数据访问层
package repository

import (
	"context"
	"errors"

	"github.com/kochabx/subook/internal/model"
)

// ErrNotFound 记录不存在
var ErrNotFound = errors.New("repository: record not found")

// AccountRepository 账号存取接口
type AccountRepository interface {
	Create(ctx context.Context, account *model.Account) error
	FindByID(ctx context.Context, id int64) (*model.Account, error)
	FindByUsername(ctx context.Context, username string) (*model.Account, error)
	FindByEmail(ctx context.Context, email string) (*model.Account, error)
	// FindByNameOrEmail 登录入口，用户名和邮箱都可作为登录名
	FindByNameOrEmail(ctx context.Context, text string) (*model.Account, error)
	ExistsByUsername(ctx context.Context, username string) (bool, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
}

// AccountInfoRepository 账号资料存取接口
type AccountInfoRepository interface {
	Create(ctx context.Context, info *model.AccountInfo) error
	FindByAccountID(ctx context.Context, accountID int64) (*model.AccountInfo, error)
	Update(ctx context.Context, info *model.AccountInfo) error
}

// CarouselRepository 轮播图存取接口
type CarouselRepository interface {
	Create(ctx context.Context, carousel *model.Carousel) error
	List(ctx context.Context) ([]*model.Carousel, error)
}
