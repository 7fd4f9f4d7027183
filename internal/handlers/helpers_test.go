package handlers_test

import (
	"WebCarros/internal/config"
	"WebCarros/internal/handlers"
	"WebCarros/internal/middleware"
	"WebCarros/internal/model"
	"WebCarros/internal/repo"
	"WebCarros/internal/service"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"
)

// Minimal mocks
type mockUserRepo struct{ mock.Mock }

func (m *mockUserRepo) CreateUser(ctx context.Context, user *model.User) (*model.User, error) {
	args := m.Called(ctx, user)
	if u, ok := args.Get(0).(*model.User); ok {
		return u, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockUserRepo) GetUserByEmail(ctx context.Context, email string) (*model.User, error) {
	args := m.Called(ctx, email)
	if u, ok := args.Get(0).(*model.User); ok {
		return u, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockUserRepo) GetUserByID(ctx context.Context, id string) (*model.User, error) {
	args := m.Called(ctx, id)
	if u, ok := args.Get(0).(*model.User); ok {
		return u, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockUserRepo) UpdateDisplayName(ctx context.Context, id, displayName string) error {
	return m.Called(ctx, id, displayName).Error(0)
}

var _ repo.UserRepository = (*mockUserRepo)(nil)

type mockBlobRepo struct{ mock.Mock }

func (m *mockBlobRepo) Put(ctx context.Context, b *model.Blob) (bool, error) {
	args := m.Called(ctx, b)
	return args.Bool(0), args.Error(1)
}

func (m *mockBlobRepo) Get(ctx context.Context, path string) (*model.Blob, error) {
	args := m.Called(ctx, path)
	if b, ok := args.Get(0).(*model.Blob); ok {
		return b, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockBlobRepo) Delete(ctx context.Context, path string) (bool, error) {
	args := m.Called(ctx, path)
	return args.Bool(0), args.Error(1)
}

var _ repo.BlobRepository = (*mockBlobRepo)(nil)

type mockDocRepo struct{ mock.Mock }

func (m *mockDocRepo) Create(ctx context.Context, doc *model.Document) error {
	return m.Called(ctx, doc).Error(0)
}

func (m *mockDocRepo) Get(ctx context.Context, collection, id string) (*model.Document, error) {
	args := m.Called(ctx, collection, id)
	if d, ok := args.Get(0).(*model.Document); ok {
		return d, args.Error(1)
	}
	return nil, args.Error(1)
}

var _ repo.DocumentRepository = (*mockDocRepo)(nil)

type testRepos struct {
	users *mockUserRepo
	blobs *mockBlobRepo
	docs  *mockDocRepo
}

// --- Helpers ---
func newTestRouter(t *testing.T) (http.Handler, *config.Config, *testRepos) {
	t.Helper()
	cfg := &config.Config{
		AuthSecret:     "test-secret",
		BlobMaxSizeMB:  1,
		AuthRatePerMin: 100,
		PublicURL:      "http://files.test",
	}
	logger := zap.NewNop().Sugar()
	repos := &testRepos{users: &mockUserRepo{}, blobs: &mockBlobRepo{}, docs: &mockDocRepo{}}

	userSvc := service.NewUserService(repos.users, nil)
	blobSvc := service.NewBlobService(repos.blobs, logger, nil, cfg.PublicURL, int64(cfg.BlobMaxSizeMB)<<20)
	docSvc := service.NewDocumentService(repos.docs, nil)

	h := handlers.NewHandler(userSvc, blobSvc, docSvc, logger, cfg, nil)
	return h.Router, cfg, repos
}

func addAuthCookie(t *testing.T, req *http.Request, userID string, secret string) {
	t.Helper()
	rr := httptest.NewRecorder()
	_ = middleware.SetLoginCookie(rr, userID, secret)
	for _, c := range rr.Result().Cookies() {
		req.AddCookie(c)
	}
}

func hasAuthCookie(rr *httptest.ResponseRecorder) bool {
	for _, c := range rr.Result().Cookies() {
		if c.Name == middleware.AuthCookieName && c.Value != "" {
			return true
		}
	}
	return false
}
