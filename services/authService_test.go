package services

import (
	"ChemoOrder/models"
	"ChemoOrder/utils"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeUserStore struct {
	users   map[string]*models.User
	updated map[string]string
}

func (f *fakeUserStore) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	user, ok := f.users[username]
	if !ok {
		return nil, models.ErrNotFound
	}
	return user, nil
}

func (f *fakeUserStore) UpdatePassword(ctx context.Context, userID, hashedPassword string) error {
	if f.updated == nil {
		f.updated = map[string]string{}
	}
	f.updated[userID] = hashedPassword
	return nil
}

func nurseUser(t *testing.T, password string) *models.User {
	t.Helper()
	hashed, err := utils.HashPassword(password)
	require.NoError(t, err)
	wardID := "ward-med"
	return &models.User{
		ID:       "user-1",
		Username: "somying_n",
		Password: hashed,
		Email:    "somying_n@hospital.example",
		FullName: "Somying Jaidee",
		Role:     models.RoleNurse,
		WardID:   &wardID,
		Ward:     &models.Ward{ID: wardID, Name: "Medicine"},
	}
}

func TestLoginIssuesWardedToken(t *testing.T) {
	t.Setenv("SYMMETRIC_KEY", "0123456789abcdef0123456789abcdef")
	store := &fakeUserStore{users: map[string]*models.User{"somying_n": nurseUser(t, "secret123")}}
	service := NewAuthService(store)

	result, err := service.Login(context.Background(), "somying_n", "secret123")
	require.NoError(t, err)
	assert.NotEmpty(t, result.Token)
	assert.Equal(t, "Medicine", result.User.WardName)
	assert.Equal(t, models.RoleNurse, result.User.Role)

	claims, err := utils.ValidateToken(result.Token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.UserID)
	assert.Equal(t, "ward-med", claims.WardID)
}

func TestLoginBadCredentialsIndistinguishable(t *testing.T) {
	t.Setenv("SYMMETRIC_KEY", "0123456789abcdef0123456789abcdef")
	store := &fakeUserStore{users: map[string]*models.User{"somying_n": nurseUser(t, "secret123")}}
	service := NewAuthService(store)

	_, err := service.Login(context.Background(), "somying_n", "not-the-password")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = service.Login(context.Background(), "no_such_user", "secret123")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestSendResetCodeUnknownUsernameSucceedsSilently(t *testing.T) {
	service := NewAuthService(&fakeUserStore{users: map[string]*models.User{}})

	assert.NoError(t, service.SendResetCode(context.Background(), "no_such_user"))
}

func TestSendResetCodeSkipsUserWithoutEmail(t *testing.T) {
	user := nurseUser(t, "secret123")
	user.Email = ""
	store := &fakeUserStore{users: map[string]*models.User{"somying_n": user}}
	service := NewAuthService(store)

	// Must return before touching redis or SMTP; with no redis client wired
	// in tests, any attempt to store a code would surface as an error.
	assert.NoError(t, service.SendResetCode(context.Background(), "somying_n"))
}
