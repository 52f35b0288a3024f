package user

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"

	"eshop-api/internal/domain"
	userrepo "eshop-api/internal/repository/user"
)

type stubUserRepo struct {
	byID    map[string]*domain.User
	byEmail map[string]*domain.User
	nextID  int
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{byID: map[string]*domain.User{}, byEmail: map[string]*domain.User{}}
}

func (s *stubUserRepo) Create(_ context.Context, u domain.User) (*domain.User, error) {
	if _, ok := s.byEmail[u.Email]; ok {
		return nil, domain.ErrAlreadyExists
	}
	s.nextID++
	u.ID = "u" + strconv.Itoa(s.nextID)
	stored := u
	s.byID[u.ID] = &stored
	s.byEmail[u.Email] = &stored
	return &stored, nil
}

func (s *stubUserRepo) GetByID(_ context.Context, id string) (*domain.User, error) {
	if u, ok := s.byID[id]; ok {
		return u, nil
	}
	return nil, domain.ErrNotFound
}

func (s *stubUserRepo) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	if u, ok := s.byEmail[email]; ok {
		return u, nil
	}
	return nil, domain.ErrNotFound
}

func (s *stubUserRepo) Update(_ context.Context, id string, in userrepo.UpdateInput) (*domain.User, error) {
	u, ok := s.byID[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	if in.Name != nil {
		u.Name = *in.Name
	}
	if in.Email != nil {
		u.Email = *in.Email
	}
	if in.Address != nil {
		u.Address = in.Address
	}
	if in.PaymentMethod != nil {
		u.PaymentMethod = *in.PaymentMethod
	}
	return u, nil
}

func (s *stubUserRepo) UpdateRole(_ context.Context, id, role string) (*domain.User, error) {
	u, ok := s.byID[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	u.Role = role
	return u, nil
}

func (s *stubUserRepo) List(_ context.Context) ([]domain.User, error) {
	var out []domain.User
	for _, u := range s.byID {
		out = append(out, *u)
	}
	return out, nil
}

func (s *stubUserRepo) Delete(_ context.Context, id string) error {
	u, ok := s.byID[id]
	if !ok {
		return domain.ErrNotFound
	}
	delete(s.byEmail, u.Email)
	delete(s.byID, id)
	return nil
}

type stubMailer struct {
	welcome chan string
}

func (m *stubMailer) SendWelcome(_ context.Context, to, _ string) error {
	m.welcome <- to
	return nil
}

func (m *stubMailer) SendOrderReceipt(context.Context, string, *domain.Order) error { return nil }

func testService(repo *stubUserRepo, mailer *stubMailer) *Service {
	tokens := NewTokenManager("test-secret", time.Hour, 24*time.Hour)
	if mailer == nil {
		return New(repo, tokens, nil, nil)
	}
	return New(repo, tokens, mailer, nil)
}

func TestSignup(t *testing.T) {
	repo := newStubUserRepo()
	mailer := &stubMailer{welcome: make(chan string, 1)}
	svc := testService(repo, mailer)

	u, pair, err := svc.Signup(context.Background(), SignupInput{
		Name: "Ada", Email: "  Ada@Example.COM ", Password: "hunter22",
	})
	if err != nil {
		t.Fatalf("signup: %v", err)
	}
	if u.Email != "ada@example.com" {
		t.Fatalf("email must be normalized, got %q", u.Email)
	}
	if u.Role != domain.RoleUser {
		t.Fatalf("new accounts get the user role, got %q", u.Role)
	}
	if u.PasswordHash == "hunter22" || u.PasswordHash == "" {
		t.Fatalf("password must be hashed")
	}
	if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte("hunter22")) != nil {
		t.Fatalf("stored hash does not match the password")
	}
	if pair.AccessToken == "" || pair.RefreshToken == "" {
		t.Fatalf("signup must issue a token pair")
	}

	select {
	case to := <-mailer.welcome:
		if to != "ada@example.com" {
			t.Fatalf("welcome mail to wrong address: %q", to)
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("welcome mail never sent")
	}
}

func TestSignupDuplicateEmail(t *testing.T) {
	repo := newStubUserRepo()
	svc := testService(repo, nil)
	ctx := context.Background()

	if _, _, err := svc.Signup(ctx, SignupInput{Name: "Ada", Email: "a@b.c", Password: "secret1"}); err != nil {
		t.Fatalf("first signup: %v", err)
	}
	_, _, err := svc.Signup(ctx, SignupInput{Name: "Eve", Email: "a@b.c", Password: "secret2"})
	if !errors.Is(err, domain.ErrAlreadyExists) {
		t.Fatalf("expected already exists, got %v", err)
	}
}

func TestSignupShortPassword(t *testing.T) {
	svc := testService(newStubUserRepo(), nil)
	if _, _, err := svc.Signup(context.Background(), SignupInput{Name: "Ada", Email: "a@b.c", Password: "123"}); err == nil {
		t.Fatalf("short password must be rejected")
	}
}

func TestLogin(t *testing.T) {
	repo := newStubUserRepo()
	svc := testService(repo, nil)
	ctx := context.Background()

	if _, _, err := svc.Signup(ctx, SignupInput{Name: "Ada", Email: "a@b.c", Password: "secret1"}); err != nil {
		t.Fatalf("signup: %v", err)
	}

	u, pair, err := svc.Login(ctx, LoginInput{Email: "A@B.C", Password: "secret1"})
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if u.Email != "a@b.c" || pair.AccessToken == "" {
		t.Fatalf("unexpected login result: %+v", u)
	}

	if _, _, err := svc.Login(ctx, LoginInput{Email: "a@b.c", Password: "wrong"}); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("wrong password: expected invalid credentials, got %v", err)
	}
	if _, _, err := svc.Login(ctx, LoginInput{Email: "nobody@b.c", Password: "secret1"}); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("unknown email: expected invalid credentials, got %v", err)
	}
}

func TestRefresh(t *testing.T) {
	repo := newStubUserRepo()
	svc := testService(repo, nil)
	ctx := context.Background()

	_, pair, err := svc.Signup(ctx, SignupInput{Name: "Ada", Email: "a@b.c", Password: "secret1"})
	if err != nil {
		t.Fatalf("signup: %v", err)
	}

	u, next, err := svc.Refresh(ctx, pair.RefreshToken)
	if err != nil {
		t.Fatalf("refresh: %v", err)
	}
	if u.Email != "a@b.c" || next.AccessToken == "" || next.RefreshToken == "" {
		t.Fatalf("refresh must issue a full pair")
	}

	// An access token must not pass as a refresh token.
	if _, _, err := svc.Refresh(ctx, pair.AccessToken); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("access token accepted as refresh token: %v", err)
	}
	if _, _, err := svc.Refresh(ctx, "garbage"); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("garbage token: expected invalid credentials, got %v", err)
	}
}

func TestAuthenticate(t *testing.T) {
	repo := newStubUserRepo()
	svc := testService(repo, nil)
	ctx := context.Background()

	created, pair, err := svc.Signup(ctx, SignupInput{Name: "Ada", Email: "a@b.c", Password: "secret1"})
	if err != nil {
		t.Fatalf("signup: %v", err)
	}

	u, err := svc.Authenticate(ctx, pair.AccessToken)
	if err != nil {
		t.Fatalf("authenticate: %v", err)
	}
	if u.ID != created.ID {
		t.Fatalf("authenticated wrong user: %q", u.ID)
	}

	if _, err := svc.Authenticate(ctx, pair.RefreshToken); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("refresh token accepted as access token: %v", err)
	}
}

func TestAuthenticateRejectsForgedToken(t *testing.T) {
	repo := newStubUserRepo()
	svc := testService(repo, nil)
	ctx := context.Background()

	if _, _, err := svc.Signup(ctx, SignupInput{Name: "Ada", Email: "a@b.c", Password: "secret1"}); err != nil {
		t.Fatalf("signup: %v", err)
	}

	other := NewTokenManager("other-secret", time.Hour, time.Hour)
	forged, err := other.Issue("u1", "a@b.c", domain.RoleAdmin)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if _, err := svc.Authenticate(ctx, forged.AccessToken); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("forged token must be rejected, got %v", err)
	}
}

func TestUpdatePaymentMethod(t *testing.T) {
	repo := newStubUserRepo()
	svc := testService(repo, nil)
	ctx := context.Background()

	u, _, err := svc.Signup(ctx, SignupInput{Name: "Ada", Email: "a@b.c", Password: "secret1"})
	if err != nil {
		t.Fatalf("signup: %v", err)
	}

	updated, err := svc.UpdatePaymentMethod(ctx, u.ID, "Stripe")
	if err != nil {
		t.Fatalf("update payment method: %v", err)
	}
	if updated.PaymentMethod != "Stripe" {
		t.Fatalf("payment method not stored: %q", updated.PaymentMethod)
	}

	if _, err := svc.UpdatePaymentMethod(ctx, u.ID, "Barter"); err == nil {
		t.Fatalf("unknown payment method must be rejected")
	}
}

func TestUpdateAddressRequiresAllFields(t *testing.T) {
	repo := newStubUserRepo()
	svc := testService(repo, nil)
	ctx := context.Background()

	u, _, err := svc.Signup(ctx, SignupInput{Name: "Ada", Email: "a@b.c", Password: "secret1"})
	if err != nil {
		t.Fatalf("signup: %v", err)
	}

	_, err = svc.UpdateAddress(ctx, u.ID, domain.Address{FullName: "Ada", City: "Berlin"})
	if err == nil {
		t.Fatalf("partial address must be rejected")
	}

	updated, err := svc.UpdateAddress(ctx, u.ID, domain.Address{
		FullName: "Ada", StreetAddress: "1 Main St", City: "Berlin", PostalCode: "10115", Country: "DE",
	})
	if err != nil {
		t.Fatalf("update address: %v", err)
	}
	if updated.Address == nil || updated.Address.City != "Berlin" {
		t.Fatalf("address not stored: %+v", updated.Address)
	}
}

func TestAdminUpdateRole(t *testing.T) {
	repo := newStubUserRepo()
	svc := testService(repo, nil)
	ctx := context.Background()

	u, _, err := svc.Signup(ctx, SignupInput{Name: "Ada", Email: "a@b.c", Password: "secret1"})
	if err != nil {
		t.Fatalf("signup: %v", err)
	}

	role := domain.RoleAdmin
	updated, err := svc.AdminUpdate(ctx, u.ID, AdminUpdateInput{Role: &role})
	if err != nil {
		t.Fatalf("admin update: %v", err)
	}
	if !updated.IsAdmin() {
		t.Fatalf("role not updated: %q", updated.Role)
	}

	bad := "superuser"
	if _, err := svc.AdminUpdate(ctx, u.ID, AdminUpdateInput{Role: &bad}); err == nil {
		t.Fatalf("invalid role must be rejected")
	}
}

func TestProfileUpdateNormalizesEmail(t *testing.T) {
	repo := newStubUserRepo()
	svc := testService(repo, nil)
	ctx := context.Background()

	u, _, err := svc.Signup(ctx, SignupInput{Name: "Ada", Email: "a@b.c", Password: "secret1"})
	if err != nil {
		t.Fatalf("signup: %v", err)
	}

	newEmail := " New@B.C "
	updated, err := svc.UpdateProfile(ctx, u.ID, UpdateProfileInput{Email: &newEmail})
	if err != nil {
		t.Fatalf("update profile: %v", err)
	}
	if updated.Email != strings.ToLower(strings.TrimSpace(newEmail)) {
		t.Fatalf("email not normalized: %q", updated.Email)
	}
}
