package service

import (
	"bytes"
	"context"
	"io"
	"sync"

	"github.com/kochabx/subook/internal/mail"
	"github.com/kochabx/subook/internal/model"
	"github.com/kochabx/subook/internal/repository"
)

// mockAccountRepo 基于 map 的账号仓库
type mockAccountRepo struct {
	mu   sync.Mutex
	seq  int64
	byID map[int64]*model.Account
}

func newMockAccountRepo() *mockAccountRepo {
	return &mockAccountRepo{byID: make(map[int64]*model.Account)}
}

func (m *mockAccountRepo) Create(ctx context.Context, account *model.Account) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.seq++
	account.ID = m.seq
	clone := *account
	m.byID[account.ID] = &clone
	return nil
}

func (m *mockAccountRepo) FindByID(ctx context.Context, id int64) (*model.Account, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if a, ok := m.byID[id]; ok {
		clone := *a
		return &clone, nil
	}
	return nil, repository.ErrNotFound
}

func (m *mockAccountRepo) FindByUsername(ctx context.Context, username string) (*model.Account, error) {
	return m.findBy(func(a *model.Account) bool { return a.Username == username })
}

func (m *mockAccountRepo) FindByEmail(ctx context.Context, email string) (*model.Account, error) {
	return m.findBy(func(a *model.Account) bool { return a.Email == email })
}

func (m *mockAccountRepo) FindByNameOrEmail(ctx context.Context, text string) (*model.Account, error) {
	return m.findBy(func(a *model.Account) bool { return a.Username == text || a.Email == text })
}

func (m *mockAccountRepo) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	_, err := m.FindByUsername(ctx, username)
	return err == nil, nil
}

func (m *mockAccountRepo) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	_, err := m.FindByEmail(ctx, email)
	return err == nil, nil
}

func (m *mockAccountRepo) findBy(match func(*model.Account) bool) (*model.Account, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, a := range m.byID {
		if match(a) {
			clone := *a
			return &clone, nil
		}
	}
	return nil, repository.ErrNotFound
}

// mockInfoRepo 基于 map 的账号资料仓库
type mockInfoRepo struct {
	mu    sync.Mutex
	seq   int64
	byAID map[int64]*model.AccountInfo
}

func newMockInfoRepo() *mockInfoRepo {
	return &mockInfoRepo{byAID: make(map[int64]*model.AccountInfo)}
}

func (m *mockInfoRepo) Create(ctx context.Context, info *model.AccountInfo) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.seq++
	info.ID = m.seq
	clone := *info
	m.byAID[info.AccountID] = &clone
	return nil
}

func (m *mockInfoRepo) FindByAccountID(ctx context.Context, accountID int64) (*model.AccountInfo, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if info, ok := m.byAID[accountID]; ok {
		clone := *info
		return &clone, nil
	}
	return nil, repository.ErrNotFound
}

func (m *mockInfoRepo) Update(ctx context.Context, info *model.AccountInfo) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	clone := *info
	m.byAID[info.AccountID] = &clone
	return nil
}

// mockCarouselRepo 基于切片的轮播图仓库
type mockCarouselRepo struct {
	mu    sync.Mutex
	seq   int64
	items []*model.Carousel
}

func newMockCarouselRepo() *mockCarouselRepo {
	return &mockCarouselRepo{}
}

func (m *mockCarouselRepo) Create(ctx context.Context, carousel *model.Carousel) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.seq++
	carousel.ID = m.seq
	clone := *carousel
	m.items = append(m.items, &clone)
	return nil
}

func (m *mockCarouselRepo) List(ctx context.Context) ([]*model.Carousel, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	// 新的在前
	out := make([]*model.Carousel, 0, len(m.items))
	for i := len(m.items) - 1; i >= 0; i-- {
		clone := *m.items[i]
		out = append(out, &clone)
	}
	return out, nil
}

// mockStore 记录上传对象的对象存储
type mockStore struct {
	mu      sync.Mutex
	objects map[string][]byte
}

func newMockStore() *mockStore {
	return &mockStore{objects: make(map[string][]byte)}
}

func (m *mockStore) Put(ctx context.Context, objectName string, reader io.Reader, size int64, contentType string) (string, error) {
	data, err := io.ReadAll(reader)
	if err != nil {
		return "", err
	}
	m.mu.Lock()
	m.objects[objectName] = data
	m.mu.Unlock()
	return "http://oss.test/subook/" + objectName, nil
}

// mockMailer 记录发出的邮件
type mockMailer struct {
	mu       sync.Mutex
	messages []*mail.Message
	fail     error
}

func (m *mockMailer) Send(ctx context.Context, msg *mail.Message) error {
	if m.fail != nil {
		return m.fail
	}
	m.mu.Lock()
	m.messages = append(m.messages, msg)
	m.mu.Unlock()
	return nil
}

func (m *mockMailer) last() *mail.Message {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.messages) == 0 {
		return nil
	}
	return m.messages[len(m.messages)-1]
}

var _ repository.AccountRepository = (*mockAccountRepo)(nil)
var _ repository.AccountInfoRepository = (*mockInfoRepo)(nil)
var _ repository.CarouselRepository = (*mockCarouselRepo)(nil)
var _ ObjectStore = (*mockStore)(nil)
var _ mail.Sender = (*mockMailer)(nil)

func bytesReader(s string) *bytes.Reader {
	return bytes.NewReader([]byte(s))
}
