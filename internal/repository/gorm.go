package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/kochabx/subook/internal/model"
)

// accountRepo GORM 账号仓库
type accountRepo struct {
	db *gorm.DB
}

// NewAccountRepository 创建账号仓库
func NewAccountRepository(db *gorm.DB) AccountRepository {
	return &accountRepo{db: db}
}

func (r *accountRepo) Create(ctx context.Context, account *model.Account) error {
	return r.db.WithContext(ctx).Create(account).Error
}

func (r *accountRepo) FindByID(ctx context.Context, id int64) (*model.Account, error) {
	var account model.Account
	err := r.db.WithContext(ctx).First(&account, id).Error
	return wrapFind(&account, err)
}

func (r *accountRepo) FindByUsername(ctx context.Context, username string) (*model.Account, error) {
	var account model.Account
	err := r.db.WithContext(ctx).Where("username = ?", username).First(&account).Error
	return wrapFind(&account, err)
}

func (r *accountRepo) FindByEmail(ctx context.Context, email string) (*model.Account, error) {
	var account model.Account
	err := r.db.WithContext(ctx).Where("email = ?", email).First(&account).Error
	return wrapFind(&account, err)
}

func (r *accountRepo) FindByNameOrEmail(ctx context.Context, text string) (*model.Account, error) {
	var account model.Account
	err := r.db.WithContext(ctx).Where("username = ? OR email = ?", text, text).First(&account).Error
	return wrapFind(&account, err)
}

func (r *accountRepo) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Account{}).Where("username = ?", username).Count(&count).Error
	return count > 0, err
}

func (r *accountRepo) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Account{}).Where("email = ?", email).Count(&count).Error
	return count > 0, err
}

// accountInfoRepo GORM 账号资料仓库
type accountInfoRepo struct {
	db *gorm.DB
}

// NewAccountInfoRepository 创建账号资料仓库
func NewAccountInfoRepository(db *gorm.DB) AccountInfoRepository {
	return &accountInfoRepo{db: db}
}

func (r *accountInfoRepo) Create(ctx context.Context, info *model.AccountInfo) error {
	return r.db.WithContext(ctx).Create(info).Error
}

func (r *accountInfoRepo) FindByAccountID(ctx context.Context, accountID int64) (*model.AccountInfo, error) {
	var info model.AccountInfo
	err := r.db.WithContext(ctx).Where("aid = ?", accountID).First(&info).Error
	return wrapFind(&info, err)
}

func (r *accountInfoRepo) Update(ctx context.Context, info *model.AccountInfo) error {
	return r.db.WithContext(ctx).Save(info).Error
}

// carouselRepo GORM 轮播图仓库
type carouselRepo struct {
	db *gorm.DB
}

// NewCarouselRepository 创建轮播图仓库
func NewCarouselRepository(db *gorm.DB) CarouselRepository {
	return &carouselRepo{db: db}
}

func (r *carouselRepo) Create(ctx context.Context, carousel *model.Carousel) error {
	return r.db.WithContext(ctx).Create(carousel).Error
}

func (r *carouselRepo) List(ctx context.Context) ([]*model.Carousel, error) {
	var items []*model.Carousel
	err := r.db.WithContext(ctx).Order("id DESC").Find(&items).Error
	return items, err
}

// wrapFind 统一把 gorm.ErrRecordNotFound 转成 ErrNotFound
func wrapFind[T any](record *T, err error) (*T, error) {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return record, nil
}
