package service

import (
	"context"
	"fmt"
	"io"
	"path"

	"github.com/google/uuid"

	"github.com/kochabx/subook/internal/model"
	"github.com/kochabx/subook/internal/repository"
	"github.com/kochabx/subook/pkg/errors"
	"github.com/kochabx/subook/pkg/log"
)

// ObjectStore 图片对象存储接口
type ObjectStore interface {
	Put(ctx context.Context, objectName string, reader io.Reader, size int64, contentType string) (string, error)
}

// ErrUnsupportedImage 只接受 jpeg 和 png
var ErrUnsupportedImage = errors.BadRequest("only jpeg and png images are accepted")

// imageExtensions 允许的图片类型及存储扩展名
var imageExtensions = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
}

// ProfileService 账号资料维护
type ProfileService struct {
	infos repository.AccountInfoRepository
	store ObjectStore
}

// NewProfileService 创建资料服务
func NewProfileService(infos repository.AccountInfoRepository, store ObjectStore) *ProfileService {
	return &ProfileService{infos: infos, store: store}
}

// Info 查询账号资料
func (s *ProfileService) Info(ctx context.Context, accountID int64) (*model.AccountInfo, error) {
	info, err := s.infos.FindByAccountID(ctx, accountID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrAccountNotFound
	}
	return info, err
}

// UpdateRequest 资料更新参数
type UpdateRequest struct {
	Name string `json:"name" form:"name" validate:"omitempty,max=64"`
	Sex  int    `json:"sex" form:"sex" validate:"gte=0,lte=2"`
	Age  int    `json:"age" form:"age" validate:"gte=0,lte=150"`
	Text string `json:"text" form:"text" validate:"omitempty,max=2048"`
}

// Update 更新账号资料
func (s *ProfileService) Update(ctx context.Context, accountID int64, req *UpdateRequest) (*model.AccountInfo, error) {
	info, err := s.Info(ctx, accountID)
	if err != nil {
		return nil, err
	}

	info.Name = req.Name
	info.Sex = req.Sex
	info.Age = req.Age
	info.Text = req.Text

	if err := s.infos.Update(ctx, info); err != nil {
		return nil, err
	}
	return info, nil
}

// UpdateWithImage 更新资料并上传新头像
func (s *ProfileService) UpdateWithImage(ctx context.Context, accountID int64, req *UpdateRequest,
	image io.Reader, size int64, contentType string) (*model.AccountInfo, error) {

	ext, ok := imageExtensions[contentType]
	if !ok {
		return nil, ErrUnsupportedImage
	}

	info, err := s.Info(ctx, accountID)
	if err != nil {
		return nil, err
	}

	objectName := path.Join("avatar", uuid.NewString()+ext)
	url, err := s.store.Put(ctx, objectName, image, size, contentType)
	if err != nil {
		return nil, fmt.Errorf("upload avatar: %w", err)
	}

	info.Name = req.Name
	info.Sex = req.Sex
	info.Age = req.Age
	info.Text = req.Text
	info.AvatarURL = url

	if err := s.infos.Update(ctx, info); err != nil {
		return nil, err
	}

	log.Info().Int64("aid", accountID).Str("object", objectName).Msg("avatar updated")
	return info, nil
}
