package services

import (
	"context"
	"testing"
	"time"

	"matchpredict-go/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeUserRepo struct {
	users  map[int64]*models.User
	nextID int64
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[int64]*models.User), nextID: 1}
}

func (r *fakeUserRepo) GetUserByEmail(_ context.Context, email string) (*models.User, error) {
	for _, u := range r.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *fakeUserRepo) GetUserByID(_ context.Context, id int64) (*models.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, nil
	}
	cp := *u
	return &cp, nil
}

func (r *fakeUserRepo) CreateUser(_ context.Context, user *models.User) error {
	user.ID = r.nextID
	r.nextID++
	cp := *user
	r.users[user.ID] = &cp
	return nil
}

func newTestAuthService() *AuthService {
	return NewAuthService(newFakeUserRepo(), "test-secret", time.Hour)
}

func TestRegisterAndLogin(t *testing.T) {
	svc := newTestAuthService()

	resp, err := svc.Register(context.Background(), models.RegisterRequest{
		Name: "Alex", Email: "alex@example.com", Password: "s3cret",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.Token)
	assert.Empty(t, resp.User.Password, "password must never leave the service")

	login, err := svc.Login(context.Background(), "alex@example.com", "s3cret")
	require.NoError(t, err)
	assert.Equal(t, resp.User.ID, login.User.ID)
}

func TestRegisterRejectsDuplicateEmail(t *testing.T) {
	svc := newTestAuthService()
	req := models.RegisterRequest{Name: "Alex", Email: "alex@example.com", Password: "s3cret"}

	_, err := svc.Register(context.Background(), req)
	require.NoError(t, err)

	_, err = svc.Register(context.Background(), req)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already registered")
}

func TestRegisterRequiresAllFields(t *testing.T) {
	svc := newTestAuthService()
	_, err := svc.Register(context.Background(), models.RegisterRequest{Email: "alex@example.com"})
	require.Error(t, err)
}

func TestLoginRejectsWrongPassword(t *testing.T) {
	svc := newTestAuthService()
	_, err := svc.Register(context.Background(), models.RegisterRequest{
		Name: "Alex", Email: "alex@example.com", Password: "s3cret",
	})
	require.NoError(t, err)

	_, err = svc.Login(context.Background(), "alex@example.com", "wrong")
	require.Error(t, err)

	_, err = svc.Login(context.Background(), "nobody@example.com", "s3cret")
	require.Error(t, err)
}

func TestTokenRoundTrip(t *testing.T) {
	repo := newFakeUserRepo()
	svc := NewAuthService(repo, "test-secret", time.Hour)

	user := &models.User{Name: "Alex", Email: "alex@example.com"}
	require.NoError(t, user.HashPassword("s3cret"))
	require.NoError(t, repo.CreateUser(context.Background(), user))

	token, err := svc.GenerateToken(user)
	require.NoError(t, err)

	claims, err := svc.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.UserID)
	assert.Equal(t, user.Email, claims.Email)

	loaded, err := svc.GetUserFromToken(context.Background(), token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, loaded.ID)
}

func TestValidateTokenRejectsWrongSecret(t *testing.T) {
	svc := NewAuthService(newFakeUserRepo(), "test-secret", time.Hour)
	other := NewAuthService(newFakeUserRepo(), "other-secret", time.Hour)

	token, err := svc.GenerateToken(&models.User{ID: 1, Email: "alex@example.com"})
	require.NoError(t, err)

	_, err = other.ValidateToken(token)
	require.Error(t, err)
}

func TestValidateTokenRejectsGarbage(t *testing.T) {
	svc := newTestAuthService()
	_, err := svc.ValidateToken("not-a-token")
	require.Error(t, err)
}
