package services

import (
	"ChemoOrder/models"
	"ChemoOrder/utils"
	"context"
	"errors"
	"fmt"
	"log"
)

var ErrInvalidCredentials = errors.New("invalid username or password")

// LoginResult is the login response: the access token plus the identity the
// client renders without another round trip.
type LoginResult struct {
	Token string    `json:"token"`
	User  LoginUser `json:"user"`
}

type LoginUser struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	FullName string `json:"fullName"`
	Role     string `json:"role"`
	WardID   string `json:"wardId,omitempty"`
	WardName string `json:"wardName,omitempty"`
}

// UserStore is the user lookup surface the auth flows need; the repository
// satisfies it, tests swap in an in-memory one.
type UserStore interface {
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	UpdatePassword(ctx context.Context, userID, hashedPassword string) error
}

type AuthService struct {
	users UserStore
}

func NewAuthService(users UserStore) *AuthService {
	return &AuthService{users: users}
}

// Login checks the credentials and mints an access token carrying the
// user's role and ward. Unknown usernames and wrong passwords are
// indistinguishable to the caller.
func (s *AuthService) Login(ctx context.Context, username, password string) (*LoginResult, error) {
	if err := utils.ValidateLogin(username, password); err != nil {
		return nil, fmt.Errorf("%w: %v", models.ErrValidation, err)
	}

	user, err := s.users.GetByUsername(ctx, username)
	if errors.Is(err, models.ErrNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}
	if !utils.CheckPassword(user.Password, password) {
		return nil, ErrInvalidCredentials
	}

	wardID := ""
	wardName := ""
	if user.WardID != nil {
		wardID = *user.WardID
	}
	if user.Ward != nil {
		wardName = user.Ward.Name
	}

	token, err := utils.GenerateAccessToken(user.ID, user.FullName, user.Role, wardID)
	if err != nil {
		return nil, err
	}

	return &LoginResult{
		Token: token,
		User: LoginUser{
			ID:       user.ID,
			Username: user.Username,
			FullName: user.FullName,
			Role:     user.Role,
			WardID:   wardID,
			WardName: wardName,
		},
	}, nil
}

// SendResetCode generates, stores and mails a password reset code. An
// unknown username succeeds silently so the endpoint cannot be used to
// probe for accounts.
func (s *AuthService) SendResetCode(ctx context.Context, username string) error {
	user, err := s.users.GetByUsername(ctx, username)
	if errors.Is(err, models.ErrNotFound) {
		log.Printf("Reset code requested for unknown username %q", username)
		return nil
	}
	if err != nil {
		return err
	}
	if user.Email == "" {
		log.Printf("No email on file for %q; skipping reset code", username)
		return nil
	}

	code := utils.GenerateResetCode()
	if err := utils.SetResetCode(ctx, username, code); err != nil {
		return err
	}
	return utils.SendResetCodeEmail(user.Email, code)
}

// ChangePassword consumes a pending reset code and rotates the password.
func (s *AuthService) ChangePassword(ctx context.Context, username, resetCode, newPassword string) error {
	if err := utils.ValidatePasswordReset(resetCode, newPassword); err != nil {
		return fmt.Errorf("%w: %v", models.ErrValidation, err)
	}

	user, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		return err
	}

	stored, err := utils.GetResetCode(ctx, username)
	if err != nil {
		return err
	}
	if stored == nil || *stored != resetCode {
		return fmt.Errorf("%w: invalid or expired reset code", models.ErrValidation)
	}

	hashed, err := utils.HashPassword(newPassword)
	if err != nil {
		return err
	}
	if err := s.users.UpdatePassword(ctx, user.ID, hashed); err != nil {
		return err
	}

	if err := utils.DeleteResetCode(ctx, username); err != nil {
		log.Printf("Failed to delete consumed reset code for %q: %v", username, err)
	}
	return nil
}
