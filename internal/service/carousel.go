package service

import (
	"context"
	"fmt"
	"io"
	"path"

	"github.com/google/uuid"

	"github.com/kochabx/subook/internal/model"
	"github.com/kochabx/subook/internal/repository"
	"github.com/kochabx/subook/pkg/log"
)

// CarouselService 首页轮播图管理
type CarouselService struct {
	carousels repository.CarouselRepository
	store     ObjectStore
}

// NewCarouselService 创建轮播图服务
func NewCarouselService(carousels repository.CarouselRepository, store ObjectStore) *CarouselService {
	return &CarouselService{carousels: carousels, store: store}
}

// AddRequest 新增轮播图参数
type AddRequest struct {
	Title string `json:"title" form:"title" validate:"required,max=128"`
	Text  string `json:"text" form:"text" validate:"omitempty,max=2048"`
}

// Add 上传图片并登记轮播图记录
func (s *CarouselService) Add(ctx context.Context, req *AddRequest,
	image io.Reader, size int64, contentType string) (*model.Carousel, error) {

	ext, ok := imageExtensions[contentType]
	if !ok {
		return nil, ErrUnsupportedImage
	}

	id := uuid.NewString()
	objectName := path.Join("carousel", id+ext)
	url, err := s.store.Put(ctx, objectName, image, size, contentType)
	if err != nil {
		return nil, fmt.Errorf("upload carousel image: %w", err)
	}

	carousel := &model.Carousel{
		UUID:     id,
		Title:    req.Title,
		Text:     req.Text,
		ImageURL: url,
	}
	if err := s.carousels.Create(ctx, carousel); err != nil {
		return nil, err
	}

	log.Info().Str("uuid", id).Str("title", req.Title).Msg("carousel added")
	return carousel, nil
}

// List 列出全部轮播图，新的在前
func (s *CarouselService) List(ctx context.Context) ([]*model.Carousel, error) {
	return s.carousels.List(ctx)
}
