package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kochabx/subook/internal/model"
)

func newProfileFixture(t *testing.T) (*ProfileService, *mockInfoRepo, *mockStore) {
	t.Helper()
	infos := newMockInfoRepo()
	store := newMockStore()
	return NewProfileService(infos, store), infos, store
}

func TestProfileInfo(t *testing.T) {
	s, infos, _ := newProfileFixture(t)
	ctx := context.Background()

	require.NoError(t, infos.Create(ctx, &model.AccountInfo{AccountID: 1, Name: "alice"}))

	info, err := s.Info(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, "alice", info.Name)

	_, err = s.Info(ctx, 99)
	assert.ErrorIs(t, err, ErrAccountNotFound)
}

func TestProfileUpdate(t *testing.T) {
	s, infos, _ := newProfileFixture(t)
	ctx := context.Background()

	require.NoError(t, infos.Create(ctx, &model.AccountInfo{AccountID: 1, Name: "alice"}))

	updated, err := s.Update(ctx, 1, &UpdateRequest{Name: "Alice Liu", Sex: 2, Age: 25, Text: "hello"})
	require.NoError(t, err)
	assert.Equal(t, "Alice Liu", updated.Name)
	assert.Equal(t, 2, updated.Sex)

	stored, err := infos.FindByAccountID(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, 25, stored.Age)
	assert.Equal(t, "hello", stored.Text)
}

func TestProfileUpdateWithImage(t *testing.T) {
	s, infos, store := newProfileFixture(t)
	ctx := context.Background()

	require.NoError(t, infos.Create(ctx, &model.AccountInfo{AccountID: 1, Name: "alice"}))

	data := "fake-png-bytes"
	info, err := s.UpdateWithImage(ctx, 1, &UpdateRequest{Name: "alice", Age: 20},
		bytesReader(data), int64(len(data)), "image/png")
	require.NoError(t, err)
	assert.Contains(t, info.AvatarURL, "/avatar/")
	assert.Contains(t, info.AvatarURL, ".png")

	// 对象确实上传了
	assert.Len(t, store.objects, 1)
}

func TestProfileUpdateWithUnsupportedImage(t *testing.T) {
	s, infos, store := newProfileFixture(t)
	ctx := context.Background()

	require.NoError(t, infos.Create(ctx, &model.AccountInfo{AccountID: 1}))

	_, err := s.UpdateWithImage(ctx, 1, &UpdateRequest{},
		bytesReader("<svg/>"), 6, "image/svg+xml")
	assert.ErrorIs(t, err, ErrUnsupportedImage)
	assert.Empty(t, store.objects)
}

func TestCarouselAddAndList(t *testing.T) {
	carousels := newMockCarouselRepo()
	store := newMockStore()
	s := NewCarouselService(carousels, store)
	ctx := context.Background()

	first, err := s.Add(ctx, &AddRequest{Title: "spring sale", Text: "..."},
		bytesReader("jpeg-bytes"), 10, "image/jpeg")
	require.NoError(t, err)
	assert.NotEmpty(t, first.UUID)
	assert.Contains(t, first.ImageURL, "/carousel/")
	assert.Contains(t, first.ImageURL, ".jpg")

	second, err := s.Add(ctx, &AddRequest{Title: "new arrivals"},
		bytesReader("png-bytes"), 9, "image/png")
	require.NoError(t, err)

	items, err := s.List(ctx)
	require.NoError(t, err)
	require.Len(t, items, 2)
	// 新的在前
	assert.Equal(t, second.UUID, items[0].UUID)
	assert.Equal(t, first.UUID, items[1].UUID)
}

func TestCarouselRejectsUnsupportedImage(t *testing.T) {
	s := NewCarouselService(newMockCarouselRepo(), newMockStore())

	_, err := s.Add(context.Background(), &AddRequest{Title: "bad"},
		bytesReader("gif-bytes"), 9, "image/gif")
	assert.ErrorIs(t, err, ErrUnsupportedImage)
}
