package impl

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	"warden/config"
	"warden/internal/domain/entity"
	domainerrors "warden/internal/domain/errors"
	"warden/internal/domain/repository"
	"warden/internal/domain/service"
	"warden/internal/usecase"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

func newDiscardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestAuthConfig() *config.Config {
	return &config.Config{
		Auth: &config.AuthConfig{
			BcryptCost:      12,
			AccessTokenTTL:  15 * time.Minute,
			SessionCacheTTL: time.Minute,
		},
	}
}

// fakeUserRepo is an in-memory UserRepository with injectable failures and
// call counters, standing in for the generated persistence layer.
type fakeUserRepo struct {
	mu             sync.Mutex
	byID           map[uuid.UUID]*entity.User
	byEmail        map[string]*entity.User
	findByIDCalls  int
	findByIDErr    error
	findByEmailErr error
	createErr      error
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{
		byID:    make(map[uuid.UUID]*entity.User),
		byEmail: make(map[string]*entity.User),
	}
}

func (r *fakeUserRepo) seed(user *entity.User) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.byID[user.ID] = user
	r.byEmail[user.Email] = user
}

func (r *fakeUserRepo) remove(id uuid.UUID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if user, ok := r.byID[id]; ok {
		delete(r.byEmail, user.Email)
		delete(r.byID, id)
	}
}

func (r *fakeUserRepo) FindByID(_ context.Context, id uuid.UUID) (*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.findByIDCalls++
	if r.findByIDErr != nil {
		return nil, r.findByIDErr
	}
	user, ok := r.byID[id]
	if !ok {
		return nil, repository.ErrUserNotFound
	}

	return user, nil
}

func (r *fakeUserRepo) FindByEmail(_ context.Context, email string) (*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.findByEmailErr != nil {
		return nil, r.findByEmailErr
	}
	user, ok := r.byEmail[email]
	if !ok {
		return nil, repository.ErrUserNotFound
	}

	return user, nil
}

func (r *fakeUserRepo) Create(_ context.Context, user *entity.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.createErr != nil {
		return r.createErr
	}
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	user.CreatedAt = time.Now()
	user.UpdatedAt = user.CreatedAt
	r.byID[user.ID] = user
	r.byEmail[user.Email] = user

	return nil
}

func (r *fakeUserRepo) List(_ context.Context, limit, offset int) ([]*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	users := make([]*entity.User, 0, len(r.byID))
	for _, user := range r.byID {
		users = append(users, user)
	}
	if offset >= len(users) {
		return nil, nil
	}
	users = users[offset:]
	if limit > 0 && limit < len(users) {
		users = users[:limit]
	}

	return users, nil
}

// fakeTxManager runs the callback immediately against a factory that hands
// back the shared fake repository.
type fakeTxManager struct {
	repo *fakeUserRepo
	err  error
}

func (m *fakeTxManager) Execute(_ context.Context, fn func(repository.RepositoryFactory) error) error {
	if m.err != nil {
		return m.err
	}

	return fn(fakeRepoFactory{repo: m.repo})
}

type fakeRepoFactory struct {
	repo *fakeUserRepo
}

func (f fakeRepoFactory) NewUserRepository() repository.UserRepository {
	return f.repo
}

// fakeSessionCache records puts and serves gets from a plain map; TTL
// bookkeeping is the real cache's concern and is tested there.
type fakeSessionCache struct {
	mu      sync.Mutex
	entries map[string]*entity.User
	ttls    map[string]time.Duration
	getErr  error
	putErr  error
}

func newFakeSessionCache() *fakeSessionCache {
	return &fakeSessionCache{
		entries: make(map[string]*entity.User),
		ttls:    make(map[string]time.Duration),
	}
}

func (c *fakeSessionCache) Get(_ context.Context, key string) (*entity.User, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.getErr != nil {
		return nil, c.getErr
	}
	user, ok := c.entries[key]
	if !ok {
		return nil, repository.ErrCacheMiss
	}

	return user, nil
}

func (c *fakeSessionCache) Put(_ context.Context, key string, user *entity.User, ttl time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.putErr != nil {
		return c.putErr
	}
	if user == nil || ttl <= 0 {
		return nil
	}
	c.entries[key] = user
	c.ttls[key] = ttl

	return nil
}

func (c *fakeSessionCache) Invalidate(_ context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, key)
	delete(c.ttls, key)

	return nil
}

// fakeHasher makes hashing deterministic and cheap for the orchestration tests.
type fakeHasher struct {
	strengthErr error
	hashErr     error
}

func (h *fakeHasher) Hash(password string) (string, error) {
	if h.hashErr != nil {
		return "", h.hashErr
	}

	return "hashed:" + password, nil
}

func (h *fakeHasher) Check(password, hash string) bool {
	return hash == "hashed:"+password
}

func (h *fakeHasher) ValidateStrength(string) error {
	return h.strengthErr
}

// errUnknownTestToken mirrors what the real codec reports for a token it
// never issued.
var errUnknownTestToken = domainerrors.ErrTokenMalformed.WrapMessage("unknown test token")

// fakeCodec issues opaque handles and remembers the claims behind them, so
// tests exercise the authenticator without real signing.
type fakeCodec struct {
	mu          sync.Mutex
	issued      map[string]*service.Claims
	counter     int
	ttl         time.Duration
	issueErr    error
	validateErr error
}

func newFakeCodec(ttl time.Duration) *fakeCodec {
	return &fakeCodec{
		issued: make(map[string]*service.Claims),
		ttl:    ttl,
	}
}

func (c *fakeCodec) Issue(userID uuid.UUID, role string) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.issueErr != nil {
		return "", c.issueErr
	}
	c.counter++
	token := fmt.Sprintf("token-%d", c.counter)
	now := time.Now()
	c.issued[token] = &service.Claims{
		Role: role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(c.ttl)),
		},
	}

	return token, nil
}

// issueWithSubject plants a token whose subject is not a user ID.
func (c *fakeCodec) issueWithSubject(subject string) string {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.counter++
	token := fmt.Sprintf("token-%d", c.counter)
	now := time.Now()
	c.issued[token] = &service.Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(c.ttl)),
		},
	}

	return token
}

func (c *fakeCodec) Validate(tokenString string) (*service.Claims, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.validateErr != nil {
		return nil, c.validateErr
	}
	claims, ok := c.issued[tokenString]
	if !ok {
		return nil, errUnknownTestToken
	}

	return claims, nil
}

func (c *fakeCodec) AccessTokenDuration() time.Duration {
	return c.ttl
}

// authServiceFixtures holds all test dependencies for authenticator tests.
type authServiceFixtures struct {
	service      usecase.AuthUsecase
	userRepo     *fakeUserRepo
	sessionCache *fakeSessionCache
	hasher       *fakeHasher
	codec        *fakeCodec
}

func createTestAuthService() authServiceFixtures {
	userRepo := newFakeUserRepo()
	sessionCache := newFakeSessionCache()
	hasher := &fakeHasher{}
	cfg := newTestAuthConfig()
	codec := newFakeCodec(cfg.Auth.AccessTokenTTL)

	authSvc := NewAuthService(
		&fakeTxManager{repo: userRepo},
		userRepo,
		sessionCache,
		hasher,
		codec,
		cfg,
		newDiscardLogger(),
	)

	return authServiceFixtures{
		service:      authSvc,
		userRepo:     userRepo,
		sessionCache: sessionCache,
		hasher:       hasher,
		codec:        codec,
	}
}
