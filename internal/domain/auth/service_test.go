package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/shubhvenue/shubhvenue-api/internal/domain/user"
	"github.com/shubhvenue/shubhvenue-api/internal/pkg/firebase"
	"github.com/shubhvenue/shubhvenue-api/internal/pkg/jwt"
	"github.com/shubhvenue/shubhvenue-api/internal/pkg/password"
)

type fakeUserRepo struct {
	byID    map[uuid.UUID]*user.User
	byEmail map[string]*user.User
	byUID   map[string]*user.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{
		byID:    make(map[uuid.UUID]*user.User),
		byEmail: make(map[string]*user.User),
		byUID:   make(map[string]*user.User),
	}
}

func (f *fakeUserRepo) Create(_ context.Context, u *user.User) error {
	if _, ok := f.byEmail[u.Email]; ok {
		return user.ErrEmailTaken
	}
	f.byID[u.ID] = u
	f.byEmail[u.Email] = u
	if u.FirebaseUID.Valid {
		f.byUID[u.FirebaseUID.String] = u
	}
	return nil
}

func (f *fakeUserRepo) GetByID(_ context.Context, id uuid.UUID) (*user.User, error) {
	return f.byID[id], nil
}

func (f *fakeUserRepo) GetByEmail(_ context.Context, email string) (*user.User, error) {
	return f.byEmail[email], nil
}

func (f *fakeUserRepo) GetByFirebaseUID(_ context.Context, uid string) (*user.User, error) {
	return f.byUID[uid], nil
}

func (f *fakeUserRepo) Update(_ context.Context, u *user.User) error {
	f.byID[u.ID] = u
	f.byEmail[u.Email] = u
	if u.FirebaseUID.Valid {
		f.byUID[u.FirebaseUID.String] = u
	}
	return nil
}

func (f *fakeUserRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(f.byID, id)
	return nil
}

func (f *fakeUserRepo) UpdatePassword(_ context.Context, id uuid.UUID, hash string) error {
	if u, ok := f.byID[id]; ok {
		u.PasswordHash = hash
	}
	return nil
}

func (f *fakeUserRepo) UpdateBanned(_ context.Context, id uuid.UUID, banned bool) error {
	if u, ok := f.byID[id]; ok {
		u.IsBanned = banned
	}
	return nil
}

func (f *fakeUserRepo) UpdateLastLogin(_ context.Context, _ uuid.UUID, _ string) error {
	return nil
}

func (f *fakeUserRepo) List(_ context.Context, _ string, _, _ int) ([]*user.User, int, error) {
	return nil, 0, nil
}

type fakeTokenStore struct {
	tokens map[string]uuid.UUID
}

func newFakeTokenStore() *fakeTokenStore {
	return &fakeTokenStore{tokens: make(map[string]uuid.UUID)}
}

func (f *fakeTokenStore) Save(_ context.Context, hash string, userID uuid.UUID, _ time.Duration) error {
	f.tokens[hash] = userID
	return nil
}

func (f *fakeTokenStore) Get(_ context.Context, hash string) (uuid.UUID, error) {
	id, ok := f.tokens[hash]
	if !ok {
		return uuid.Nil, ErrInvalidRefreshToken
	}
	return id, nil
}

func (f *fakeTokenStore) Delete(_ context.Context, hash string) error {
	delete(f.tokens, hash)
	return nil
}

type fakeFirebase struct {
	info *firebase.TokenInfo
	err  error
}

func (f *fakeFirebase) VerifyIDToken(_ context.Context, _ string) (*firebase.TokenInfo, error) {
	return f.info, f.err
}

func newTestService(repo *fakeUserRepo, tokens *fakeTokenStore, fb FirebaseVerifier) *Service {
	jwtService := jwt.NewService("test-secret", 15*time.Minute, 7*24*time.Hour)
	return NewService(repo, tokens, jwtService, fb)
}

func TestRegister(t *testing.T) {
	repo := newFakeUserRepo()
	svc := newTestService(repo, newFakeTokenStore(), nil)

	resp, err := svc.Register(context.Background(), RegisterRequest{
		Email:    "Guest@Example.COM",
		Password: "password123",
		FullName: "Test Guest",
	}, "127.0.0.1")
	if err != nil {
		t.Fatalf("Register failed: %v", err)
	}

	if resp.User.Email != "guest@example.com" {
		t.Errorf("expected normalized email, got %s", resp.User.Email)
	}
	if resp.User.Role != "guest" {
		t.Errorf("expected guest role, got %s", resp.User.Role)
	}
	if resp.Tokens.AccessToken == "" || resp.Tokens.RefreshToken == "" {
		t.Error("expected tokens to be issued")
	}

	stored := repo.byEmail["guest@example.com"]
	if stored == nil {
		t.Fatal("user not stored")
	}
	if stored.PasswordHash == "password123" {
		t.Error("password stored in plain text")
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	repo := newFakeUserRepo()
	svc := newTestService(repo, newFakeTokenStore(), nil)

	req := RegisterRequest{Email: "dup@example.com", Password: "password123", FullName: "First"}
	if _, err := svc.Register(context.Background(), req, ""); err != nil {
		t.Fatalf("first register failed: %v", err)
	}

	_, err := svc.Register(context.Background(), req, "")
	if !errors.Is(err, user.ErrEmailTaken) {
		t.Errorf("expected ErrEmailTaken, got %v", err)
	}
}

func TestRegisterVendorRole(t *testing.T) {
	svc := newTestService(newFakeUserRepo(), newFakeTokenStore(), nil)

	resp, err := svc.RegisterVendor(context.Background(), RegisterRequest{
		Email:    "vendor@example.com",
		Password: "password123",
		FullName: "Test Vendor",
	}, "")
	if err != nil {
		t.Fatalf("RegisterVendor failed: %v", err)
	}
	if resp.User.Role != "vendor" {
		t.Errorf("expected vendor role, got %s", resp.User.Role)
	}
}

func TestLogin(t *testing.T) {
	repo := newFakeUserRepo()
	svc := newTestService(repo, newFakeTokenStore(), nil)

	ctx := context.Background()
	if _, err := svc.Register(ctx, RegisterRequest{
		Email: "login@example.com", Password: "password123", FullName: "Login Test",
	}, ""); err != nil {
		t.Fatalf("register failed: %v", err)
	}

	tests := []struct {
		name     string
		email    string
		password string
		wantErr  error
	}{
		{"valid credentials", "login@example.com", "password123", nil},
		{"case insensitive email", "LOGIN@example.com", "password123", nil},
		{"wrong password", "login@example.com", "wrongpass", ErrInvalidCredentials},
		{"unknown email", "missing@example.com", "password123", ErrInvalidCredentials},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Login(ctx, LoginRequest{Email: tt.email, Password: tt.password}, "")
			if tt.wantErr == nil {
				if err != nil {
					t.Errorf("unexpected error: %v", err)
				}
			} else if !errors.Is(err, tt.wantErr) {
				t.Errorf("expected %v, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestLoginBannedUser(t *testing.T) {
	repo := newFakeUserRepo()
	svc := newTestService(repo, newFakeTokenStore(), nil)

	ctx := context.Background()
	resp, err := svc.Register(ctx, RegisterRequest{
		Email: "banned@example.com", Password: "password123", FullName: "Banned",
	}, "")
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}

	id := uuid.MustParse(resp.User.ID)
	repo.byID[id].IsBanned = true

	_, err = svc.Login(ctx, LoginRequest{Email: "banned@example.com", Password: "password123"}, "")
	if !errors.Is(err, ErrUserBanned) {
		t.Errorf("expected ErrUserBanned, got %v", err)
	}
}

func TestRefreshRotation(t *testing.T) {
	repo := newFakeUserRepo()
	tokens := newFakeTokenStore()
	svc := newTestService(repo, tokens, nil)

	ctx := context.Background()
	resp, err := svc.Register(ctx, RegisterRequest{
		Email: "refresh@example.com", Password: "password123", FullName: "Refresh",
	}, "")
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}

	pair, err := svc.Refresh(ctx, resp.Tokens.RefreshToken)
	if err != nil {
		t.Fatalf("refresh failed: %v", err)
	}
	if pair.RefreshToken == resp.Tokens.RefreshToken {
		t.Error("refresh token was not rotated")
	}

	// Old token must be dead after rotation
	if _, err := svc.Refresh(ctx, resp.Tokens.RefreshToken); !errors.Is(err, ErrInvalidRefreshToken) {
		t.Errorf("expected ErrInvalidRefreshToken for rotated token, got %v", err)
	}

	// New token must work
	if _, err := svc.Refresh(ctx, pair.RefreshToken); err != nil {
		t.Errorf("new refresh token rejected: %v", err)
	}
}

func TestLogout(t *testing.T) {
	repo := newFakeUserRepo()
	tokens := newFakeTokenStore()
	svc := newTestService(repo, tokens, nil)

	ctx := context.Background()
	resp, err := svc.Register(ctx, RegisterRequest{
		Email: "logout@example.com", Password: "password123", FullName: "Logout",
	}, "")
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}

	if err := svc.Logout(ctx, resp.Tokens.RefreshToken); err != nil {
		t.Fatalf("logout failed: %v", err)
	}

	if _, err := svc.Refresh(ctx, resp.Tokens.RefreshToken); !errors.Is(err, ErrInvalidRefreshToken) {
		t.Errorf("expected ErrInvalidRefreshToken after logout, got %v", err)
	}
}

func TestFirebaseLoginCreatesUser(t *testing.T) {
	repo := newFakeUserRepo()
	fb := &fakeFirebase{info: &firebase.TokenInfo{
		UID:   "firebase-uid-1",
		Email: "social@example.com",
		Name:  "Social User",
	}}
	svc := newTestService(repo, newFakeTokenStore(), fb)

	resp, err := svc.FirebaseLogin(context.Background(), "some-id-token", "")
	if err != nil {
		t.Fatalf("FirebaseLogin failed: %v", err)
	}
	if resp.User.Email != "social@example.com" {
		t.Errorf("unexpected email: %s", resp.User.Email)
	}
	if resp.User.Role != "guest" {
		t.Errorf("expected guest role, got %s", resp.User.Role)
	}
	if !resp.User.EmailVerified {
		t.Error("firebase accounts should be email verified")
	}

	// Second login must reuse the same account
	resp2, err := svc.FirebaseLogin(context.Background(), "some-id-token", "")
	if err != nil {
		t.Fatalf("second FirebaseLogin failed: %v", err)
	}
	if resp2.User.ID != resp.User.ID {
		t.Error("second firebase login created a new account")
	}
}

func TestFirebaseLoginLinksExistingEmail(t *testing.T) {
	repo := newFakeUserRepo()
	fb := &fakeFirebase{info: &firebase.TokenInfo{
		UID:   "firebase-uid-2",
		Email: "existing@example.com",
		Name:  "Existing User",
	}}
	svc := newTestService(repo, newFakeTokenStore(), fb)

	ctx := context.Background()
	reg, err := svc.Register(ctx, RegisterRequest{
		Email: "existing@example.com", Password: "password123", FullName: "Existing",
	}, "")
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}

	resp, err := svc.FirebaseLogin(ctx, "some-id-token", "")
	if err != nil {
		t.Fatalf("FirebaseLogin failed: %v", err)
	}
	if resp.User.ID != reg.User.ID {
		t.Error("firebase login did not link existing email account")
	}
}

func TestFirebaseLoginInvalidToken(t *testing.T) {
	fb := &fakeFirebase{err: firebase.ErrInvalidIDToken}
	svc := newTestService(newFakeUserRepo(), newFakeTokenStore(), fb)

	_, err := svc.FirebaseLogin(context.Background(), "bad-token", "")
	if !errors.Is(err, firebase.ErrInvalidIDToken) {
		t.Errorf("expected ErrInvalidIDToken, got %v", err)
	}
}

func TestChangePassword(t *testing.T) {
	repo := newFakeUserRepo()
	svc := newTestService(repo, newFakeTokenStore(), nil)

	ctx := context.Background()
	resp, err := svc.Register(ctx, RegisterRequest{
		Email: "pw@example.com", Password: "oldpassword", FullName: "PW Test",
	}, "")
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}
	id := uuid.MustParse(resp.User.ID)

	err = svc.ChangePassword(ctx, id, ChangePasswordRequest{
		CurrentPassword: "wrongpassword",
		NewPassword:     "newpassword1",
	})
	if !errors.Is(err, ErrWrongPassword) {
		t.Errorf("expected ErrWrongPassword, got %v", err)
	}

	err = svc.ChangePassword(ctx, id, ChangePasswordRequest{
		CurrentPassword: "oldpassword",
		NewPassword:     "newpassword1",
	})
	if err != nil {
		t.Fatalf("ChangePassword failed: %v", err)
	}

	if !password.Verify("newpassword1", repo.byID[id].PasswordHash) {
		t.Error("new password does not verify")
	}
}
