package auth

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/spectral-labs/auth-api/internal/domain"
	"github.com/spectral-labs/auth-api/internal/logger"
)

func TestMain(m *testing.M) {
	logger.InitWithWriter(io.Discard)
	m.Run()
}

// ---------- fakes ----------

type fakeUserRepo struct {
	byID    map[string]domain.User
	byEmail map[string]domain.User

	createErr error
	getErr    error
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{
		byID:    map[string]domain.User{},
		byEmail: map[string]domain.User{},
	}
}

func (f *fakeUserRepo) GetByEmail(_ context.Context, email string) (domain.User, error) {
	if f.getErr != nil {
		return domain.User{}, f.getErr
	}
	u, ok := f.byEmail[email]
	if !ok {
		return domain.User{}, domain.ErrUserNotFound()
	}
	return u, nil
}

func (f *fakeUserRepo) GetByID(_ context.Context, id string) (domain.User, error) {
	u, ok := f.byID[id]
	if !ok {
		return domain.User{}, domain.ErrUserNotFound()
	}
	return u, nil
}

func (f *fakeUserRepo) Create(_ context.Context, u domain.User) (domain.User, error) {
	if f.createErr != nil {
		return domain.User{}, f.createErr
	}
	if _, exists := f.byEmail[u.Email]; exists {
		return domain.User{}, domain.ErrEmailAlreadyExists()
	}
	u.CreatedAt = time.Now().UTC()
	f.byID[u.ID] = u
	f.byEmail[u.Email] = u
	return u, nil
}

type fakeHasher struct {
	hashErr error
}

func (f *fakeHasher) Hash(password string) (string, error) {
	if f.hashErr != nil {
		return "", f.hashErr
	}
	return "hashed:" + password, nil
}

func (f *fakeHasher) Compare(hash, password string) error {
	if hash != "hashed:"+password {
		return errors.New("mismatch")
	}
	return nil
}

type fakeSigner struct {
	signErr error
	signed  int
}

func (f *fakeSigner) Sign(userID, role string, ttl time.Duration) (string, error) {
	if f.signErr != nil {
		return "", f.signErr
	}
	f.signed++
	return "token-for-" + userID, nil
}

func (f *fakeSigner) Verify(token string) (TokenClaims, error) {
	return TokenClaims{}, domain.ErrTokenInvalid()
}

type fakePublisher struct {
	events []UserRegisteredEvent
	err    error
}

func (f *fakePublisher) PublishUserRegistered(_ context.Context, ev UserRegisteredEvent) error {
	if f.err != nil {
		return f.err
	}
	f.events = append(f.events, ev)
	return nil
}

func newTestService(repo *fakeUserRepo, hasher *fakeHasher, signer *fakeSigner, pub *fakePublisher) *Service {
	return NewService(repo, hasher, signer, pub, Config{TokenTTL: time.Hour})
}

// ---------- Register ----------

func TestRegister_Success(t *testing.T) {
	t.Parallel()

	repo := newFakeUserRepo()
	pub := &fakePublisher{}
	svc := newTestService(repo, &fakeHasher{}, &fakeSigner{}, pub)

	res, err := svc.Register(context.Background(), " Alice@Example.COM ", "longenough1", "")
	if err != nil {
		t.Fatalf("Register: %v", err)
	}

	if res.User.Email != "alice@example.com" {
		t.Errorf("email = %q", res.User.Email)
	}
	if res.User.Role != "user" {
		t.Errorf("role = %q", res.User.Role)
	}
	if res.User.ID == "" {
		t.Error("id not assigned")
	}
	if res.User.PasswordHash != "hashed:longenough1" {
		t.Errorf("hash = %q", res.User.PasswordHash)
	}
	if res.Token.Token == "" || res.Token.ExpiresIn != 3600 {
		t.Errorf("token = %+v", res.Token)
	}
	if len(pub.events) != 1 || pub.events[0].Email != "alice@example.com" {
		t.Errorf("events = %+v", pub.events)
	}
}

func TestRegister_AdminRole(t *testing.T) {
	t.Parallel()

	svc := newTestService(newFakeUserRepo(), &fakeHasher{}, &fakeSigner{}, &fakePublisher{})

	res, err := svc.Register(context.Background(), "root@example.com", "longenough1", "admin")
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	if res.User.Role != "admin" {
		t.Fatalf("role = %q", res.User.Role)
	}
}

func TestRegister_InvalidRole(t *testing.T) {
	t.Parallel()

	svc := newTestService(newFakeUserRepo(), &fakeHasher{}, &fakeSigner{}, &fakePublisher{})

	_, err := svc.Register(context.Background(), "a@b.co", "longenough1", "moderator")
	if !domain.Is(err, "invalid_role") {
		t.Fatalf("want invalid_role, got %v", err)
	}
}

func TestRegister_DuplicateEmail(t *testing.T) {
	t.Parallel()

	repo := newFakeUserRepo()
	svc := newTestService(repo, &fakeHasher{}, &fakeSigner{}, &fakePublisher{})
	ctx := context.Background()

	if _, err := svc.Register(ctx, "dup@example.com", "longenough1", ""); err != nil {
		t.Fatalf("first Register: %v", err)
	}
	_, err := svc.Register(ctx, "dup@example.com", "longenough1", "")
	if !domain.Is(err, "email_already_exists") {
		t.Fatalf("want email_already_exists, got %v", err)
	}
}

func TestRegister_HashFailure(t *testing.T) {
	t.Parallel()

	svc := newTestService(newFakeUserRepo(), &fakeHasher{hashErr: errors.New("boom")}, &fakeSigner{}, &fakePublisher{})

	_, err := svc.Register(context.Background(), "a@b.co", "longenough1", "")
	if !domain.Is(err, "hash_failed") {
		t.Fatalf("want hash_failed, got %v", err)
	}
}

func TestRegister_PublishFailure_DoesNotFailSignup(t *testing.T) {
	t.Parallel()

	pub := &fakePublisher{err: errors.New("broker down")}
	svc := newTestService(newFakeUserRepo(), &fakeHasher{}, &fakeSigner{}, pub)

	if _, err := svc.Register(context.Background(), "a@b.co", "longenough1", ""); err != nil {
		t.Fatalf("Register must tolerate publish failure, got %v", err)
	}
}

func TestRegister_SignFailure(t *testing.T) {
	t.Parallel()

	svc := newTestService(newFakeUserRepo(), &fakeHasher{}, &fakeSigner{signErr: errors.New("no key")}, &fakePublisher{})

	if _, err := svc.Register(context.Background(), "a@b.co", "longenough1", ""); err == nil {
		t.Fatal("want error when signing fails")
	}
}

// ---------- Login ----------

func TestLogin_Success(t *testing.T) {
	t.Parallel()

	repo := newFakeUserRepo()
	svc := newTestService(repo, &fakeHasher{}, &fakeSigner{}, &fakePublisher{})
	ctx := context.Background()

	reg, err := svc.Register(ctx, "bob@example.com", "longenough1", "")
	if err != nil {
		t.Fatalf("Register: %v", err)
	}

	res, err := svc.Login(ctx, "Bob@Example.com", "longenough1")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if res.User.ID != reg.User.ID {
		t.Fatalf("user id = %q, want %q", res.User.ID, reg.User.ID)
	}
	if res.Token.Token == "" {
		t.Fatal("no token issued")
	}
}

func TestLogin_WrongPassword(t *testing.T) {
	t.Parallel()

	repo := newFakeUserRepo()
	svc := newTestService(repo, &fakeHasher{}, &fakeSigner{}, &fakePublisher{})
	ctx := context.Background()

	svc.Register(ctx, "bob@example.com", "longenough1", "")

	_, err := svc.Login(ctx, "bob@example.com", "wrongpassword")
	if !domain.Is(err, "invalid_credentials") {
		t.Fatalf("want invalid_credentials, got %v", err)
	}
}

func TestLogin_UnknownEmail_SameError(t *testing.T) {
	t.Parallel()

	svc := newTestService(newFakeUserRepo(), &fakeHasher{}, &fakeSigner{}, &fakePublisher{})

	_, err := svc.Login(context.Background(), "ghost@example.com", "longenough1")
	if !domain.Is(err, "invalid_credentials") {
		t.Fatalf("want invalid_credentials, got %v", err)
	}
}

func TestLogin_RepoFailure_Propagates(t *testing.T) {
	t.Parallel()

	repo := newFakeUserRepo()
	repo.getErr = domain.ErrDBUnavailable(errors.New("conn refused"))
	svc := newTestService(repo, &fakeHasher{}, &fakeSigner{}, &fakePublisher{})

	_, err := svc.Login(context.Background(), "a@b.co", "longenough1")
	if !domain.Is(err, "db_unavailable") {
		t.Fatalf("want db_unavailable, got %v", err)
	}
}

func TestLogin_EmptyInput(t *testing.T) {
	t.Parallel()

	svc := newTestService(newFakeUserRepo(), &fakeHasher{}, &fakeSigner{}, &fakePublisher{})

	if _, err := svc.Login(context.Background(), "", ""); !domain.Is(err, "invalid_credentials") {
		t.Fatalf("want invalid_credentials, got %v", err)
	}
}

// ---------- GetUserByID ----------

func TestGetUserByID(t *testing.T) {
	t.Parallel()

	repo := newFakeUserRepo()
	svc := newTestService(repo, &fakeHasher{}, &fakeSigner{}, &fakePublisher{})
	ctx := context.Background()

	reg, _ := svc.Register(ctx, "carol@example.com", "longenough1", "")

	u, err := svc.GetUserByID(ctx, reg.User.ID)
	if err != nil {
		t.Fatalf("GetUserByID: %v", err)
	}
	if u.Email != "carol@example.com" {
		t.Fatalf("email = %q", u.Email)
	}

	if _, err := svc.GetUserByID(ctx, "missing"); !domain.Is(err, "user_not_found") {
		t.Fatalf("want user_not_found, got %v", err)
	}
}
