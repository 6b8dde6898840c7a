package users_services

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"pocketprc/internal/config"
	"pocketprc/internal/features/mail"
	users_dto "pocketprc/internal/features/users/dto"
	users_enums "pocketprc/internal/features/users/enums"
	users_interfaces "pocketprc/internal/features/users/interfaces"
	users_models "pocketprc/internal/features/users/models"
	users_repositories "pocketprc/internal/features/users/repositories"
	"pocketprc/internal/storage"
	"pocketprc/internal/util/api_errors"
)

const (
	AccessTokenTTL       = 15 * time.Minute
	RefreshTokenTTL      = 7 * 24 * time.Hour
	passwordResetTTL     = 1 * time.Hour
	InitialAdminEmail    = "admin@pocketprc.com"
	tokenTypeAccess      = "access"
	tokenTypeRefresh     = "refresh"
	forgotPasswordAnswer = "If an account exists for that email, a reset link has been sent"
)

var (
	errInvalidCredentials = api_errors.Unauthorized("Invalid email or password")
	errInvalidInvite      = api_errors.Validation("Invalid or expired invite token")
	errInvalidResetToken  = api_errors.Validation("Invalid or expired reset token")
	errInvalidSession     = api_errors.Unauthorized("Invalid or expired session")
)

type UserService struct {
	userRepository          *users_repositories.UserRepository
	secretKeyRepository     *users_repositories.SecretKeyRepository
	passwordResetRepository *users_repositories.PasswordResetRepository
	mailService             *mail.MailService
	logger                  *slog.Logger

	// both are never nil after DI
	activityLogWriter users_interfaces.ActivityLogWriter
	inviteRedeemer    users_interfaces.InviteRedeemer

	dummyHashOnce sync.Once
	dummyHash     []byte
}

func (s *UserService) SetActivityLogWriter(writer users_interfaces.ActivityLogWriter) {
	s.activityLogWriter = writer
}

func (s *UserService) SetInviteRedeemer(redeemer users_interfaces.InviteRedeemer) {
	s.inviteRedeemer = redeemer
}

func (s *UserService) Register(request *users_dto.RegisterRequestDTO) (*users_dto.SignInResponseDTO, error) {
	email := NormalizeEmail(request.Email)
	name := strings.TrimSpace(request.Name)
	if name == "" {
		return nil, api_errors.Validation("Name is required")
	}

	existingUser, err := s.userRepository.GetUserByEmail(email)
	if err != nil {
		return nil, fmt.Errorf("failed to check existing user: %w", err)
	}

	if existingUser != nil {
		return nil, api_errors.Conflict("Email already registered")
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(request.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	// microsecond precision matches what postgres stores
	now := time.Now().UTC().Truncate(time.Microsecond)
	user := &users_models.User{
		ID:                   uuid.New(),
		Name:                 name,
		Email:                email,
		HashedPassword:       string(hashedPassword),
		PasswordCreationTime: now,
		Role:                 users_enums.UserRoleAgent,
		IsActive:             true,
		CreatedAt:            now,
		UpdatedAt:            now,
	}

	var grant *users_dto.InviteGrant
	inviteToken := strings.TrimSpace(request.InviteToken)

	err = storage.GetDb().Transaction(func(tx *gorm.DB) error {
		if err := s.userRepository.CreateUser(tx, user); err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return api_errors.Conflict("Email already registered")
			}

			return fmt.Errorf("failed to create user: %w", err)
		}

		if inviteToken == "" {
			return nil
		}

		// registration accepts an invite forwarded to another address
		grant, err = s.inviteRedeemer.RedeemInvite(tx, inviteToken, "", user.ID)
		if err != nil {
			return fmt.Errorf("failed to redeem invite: %w", err)
		}

		if grant == nil {
			return errInvalidInvite
		}

		return s.userRepository.UpdateUserTeamAndRole(tx, user.ID, &grant.TeamID, grant.Role)
	})
	if err != nil {
		return nil, err
	}

	details := map[string]any{"email": user.Email}
	if grant != nil {
		user.TeamID = &grant.TeamID
		user.Role = grant.Role
		details["teamId"] = grant.TeamID.String()
		details["role"] = string(grant.Role)
	}

	s.activityLogWriter.WriteActivity("user_registered", &user.ID, nil, details)

	return s.GenerateTokens(user)
}

func (s *UserService) Login(request *users_dto.LoginRequestDTO) (*users_dto.SignInResponseDTO, error) {
	user, err := s.userRepository.GetUserByEmail(NormalizeEmail(request.Email))
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	if user == nil {
		// keeps response time independent of whether the email exists
		_ = bcrypt.CompareHashAndPassword(s.getDummyHash(), []byte(request.Password))
		return nil, errInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.HashedPassword), []byte(request.Password)); err != nil {
		return nil, errInvalidCredentials
	}

	if !user.IsActive {
		return nil, api_errors.Forbidden("Account is deactivated")
	}

	return s.GenerateTokens(user)
}

// Refresh validates a refresh token and issues a fresh pair.
func (s *UserService) Refresh(refreshToken string) (*users_dto.SignInResponseDTO, error) {
	if refreshToken == "" {
		return nil, errInvalidSession
	}

	user, err := s.getUserFromTokenOfType(refreshToken, tokenTypeRefresh)
	if err != nil {
		return nil, errInvalidSession
	}

	return s.GenerateTokens(user)
}

func (s *UserService) ForgotPassword(request *users_dto.ForgotPasswordRequestDTO) (*users_dto.MessageResponseDTO, error) {
	response := &users_dto.MessageResponseDTO{Message: forgotPasswordAnswer}

	user, err := s.userRepository.GetUserByEmail(NormalizeEmail(request.Email))
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	if user == nil || !user.IsActive {
		return response, nil
	}

	rawToken, err := s.IssuePasswordResetToken(user.ID)
	if err != nil {
		return nil, err
	}

	link := fmt.Sprintf("%s/reset-password?token=%s", config.GetEnv().AppURL, rawToken)
	s.mailService.EnqueueOrLog(&mail.Message{
		To:      user.Email,
		Subject: "Reset your Pocket PRC password",
		Text: fmt.Sprintf(
			"Hi %s,\n\nWe received a request to reset your password. Open the link below within one hour:\n\n%s\n\n"+
				"If you did not request this, you can ignore this email.",
			user.Name, link,
		),
	})

	return response, nil
}

// IssuePasswordResetToken stores the hash of a new token and returns the raw
// token. Only the raw token can reset the password.
func (s *UserService) IssuePasswordResetToken(userID uuid.UUID) (string, error) {
	rawToken, err := GenerateRandomToken(32)
	if err != nil {
		return "", err
	}

	now := time.Now().UTC()
	err = s.passwordResetRepository.Create(&users_models.PasswordResetToken{
		UserID:    userID,
		TokenHash: HashToken(rawToken),
		ExpiresAt: now.Add(passwordResetTTL),
		CreatedAt: now,
	})
	if err != nil {
		return "", fmt.Errorf("failed to store reset token: %w", err)
	}

	return rawToken, nil
}

func (s *UserService) ResetPassword(request *users_dto.ResetPasswordRequestDTO) error {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(request.Password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	var userID *uuid.UUID
	err = storage.GetDb().Transaction(func(tx *gorm.DB) error {
		userID, err = s.passwordResetRepository.Consume(tx, HashToken(strings.TrimSpace(request.Token)))
		if err != nil {
			return fmt.Errorf("failed to consume reset token: %w", err)
		}

		if userID == nil {
			return errInvalidResetToken
		}

		return s.userRepository.UpdateUserPassword(tx, *userID, string(hashedPassword))
	})
	if err != nil {
		return err
	}

	s.activityLogWriter.WriteActivity("password_reset", userID, nil, nil)

	return nil
}

func (s *UserService) AcceptInvite(
	user *users_models.User,
	request *users_dto.AcceptInviteRequestDTO,
) (*users_dto.UserProfileResponseDTO, error) {
	if user.IsSuperAdmin() {
		return nil, api_errors.Validation("Super admins cannot join a team")
	}

	var grant *users_dto.InviteGrant
	err := storage.GetDb().Transaction(func(tx *gorm.DB) error {
		var err error
		grant, err = s.inviteRedeemer.RedeemInvite(tx, strings.TrimSpace(request.Token), user.Email, user.ID)
		if err != nil {
			return fmt.Errorf("failed to redeem invite: %w", err)
		}

		if grant == nil {
			return errInvalidInvite
		}

		return s.userRepository.UpdateUserTeamAndRole(tx, user.ID, &grant.TeamID, grant.Role)
	})
	if err != nil {
		return nil, err
	}

	s.activityLogWriter.WriteActivity("invite_accepted", &user.ID, nil, map[string]any{
		"teamId": grant.TeamID.String(),
		"role":   string(grant.Role),
	})

	updatedUser, err := s.userRepository.GetUserByID(user.ID)
	if err != nil {
		return nil, err
	}

	return s.GetCurrentUserProfile(updatedUser), nil
}

func (s *UserService) UpdateProfile(
	user *users_models.User,
	request *users_dto.UpdateProfileRequestDTO,
) (*users_dto.UserProfileResponseDTO, error) {
	fields := map[string]any{}
	changed := []string{}

	if request.Name != nil {
		name := strings.TrimSpace(*request.Name)
		if name == "" {
			return nil, api_errors.Validation("Name cannot be empty")
		}

		fields["name"] = name
		changed = append(changed, "name")
	}

	if request.AvatarURL != nil {
		avatarURL := strings.TrimSpace(*request.AvatarURL)
		if avatarURL == "" {
			fields["avatar_url"] = nil
		} else {
			fields["avatar_url"] = avatarURL
		}
		changed = append(changed, "avatarUrl")
	}

	if request.NewPassword != "" {
		if len(request.NewPassword) < 6 {
			return nil, api_errors.Validation("Password must be at least 6 characters")
		}

		if request.CurrentPassword == "" {
			return nil, api_errors.Validation("Current password is required to set a new password")
		}

		if err := bcrypt.CompareHashAndPassword([]byte(user.HashedPassword), []byte(request.CurrentPassword)); err != nil {
			return nil, api_errors.Validation("Current password is incorrect")
		}

		hashedPassword, err := bcrypt.GenerateFromPassword([]byte(request.NewPassword), bcrypt.DefaultCost)
		if err != nil {
			return nil, fmt.Errorf("failed to hash password: %w", err)
		}

		fields["hashed_password"] = string(hashedPassword)
		fields["password_creation_time"] = time.Now().UTC().Truncate(time.Microsecond)
		changed = append(changed, "password")
	}

	if len(fields) == 0 {
		return s.GetCurrentUserProfile(user), nil
	}

	if err := s.userRepository.UpdateUserFields(nil, user.ID, fields); err != nil {
		return nil, fmt.Errorf("failed to update profile: %w", err)
	}

	s.activityLogWriter.WriteActivity("profile_updated", &user.ID, nil, map[string]any{"fields": changed})

	updatedUser, err := s.userRepository.GetUserByID(user.ID)
	if err != nil {
		return nil, err
	}

	return s.GetCurrentUserProfile(updatedUser), nil
}

// GetUserFromToken resolves an access token. The user is always reloaded so
// role changes and deactivation apply immediately.
func (s *UserService) GetUserFromToken(token string) (*users_models.User, error) {
	return s.getUserFromTokenOfType(token, tokenTypeAccess)
}

func (s *UserService) getUserFromTokenOfType(token string, expectedType string) (*users_models.User, error) {
	secretKey, err := s.secretKeyRepository.GetSecretKey()
	if err != nil {
		return nil, fmt.Errorf("failed to get secret key: %w", err)
	}

	parsedToken, err := jwt.Parse(token, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(secretKey), nil
	})
	if err != nil {
		return nil, fmt.Errorf("invalid token: %w", err)
	}

	claims, ok := parsedToken.Claims.(jwt.MapClaims)
	if !ok || !parsedToken.Valid {
		return nil, errors.New("invalid token")
	}

	if tokenType, _ := claims["type"].(string); tokenType != expectedType {
		return nil, errors.New("invalid token type")
	}

	userIDStr, ok := claims["sub"].(string)
	if !ok {
		return nil, errors.New("invalid token claims")
	}

	userID, err := uuid.Parse(userIDStr)
	if err != nil {
		return nil, errors.New("invalid token claims")
	}

	user, err := s.userRepository.GetUserByID(userID)
	if err != nil {
		return nil, err
	}

	if !user.IsActive {
		return nil, errors.New("user account is deactivated")
	}

	passwordCreationTimeMilli, ok := claims["passwordCreationTime"].(float64)
	if !ok {
		return nil, errors.New("invalid token claims: missing password creation time")
	}

	if int64(passwordCreationTimeMilli) != user.PasswordCreationTime.UnixMilli() {
		return nil, errors.New("password has been changed, please sign in again")
	}

	return user, nil
}

func (s *UserService) GenerateTokens(user *users_models.User) (*users_dto.SignInResponseDTO, error) {
	secretKey, err := s.secretKeyRepository.GetSecretKey()
	if err != nil {
		return nil, fmt.Errorf("failed to get secret key: %w", err)
	}

	now := time.Now().UTC()

	accessToken, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":                  user.ID.String(),
		"email":                user.Email,
		"role":                 string(user.Role),
		"type":                 tokenTypeAccess,
		"passwordCreationTime": user.PasswordCreationTime.UnixMilli(),
		"iat":                  now.Unix(),
		"exp":                  now.Add(AccessTokenTTL).Unix(),
	}).SignedString([]byte(secretKey))
	if err != nil {
		return nil, fmt.Errorf("failed to generate access token: %w", err)
	}

	refreshToken, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":                  user.ID.String(),
		"type":                 tokenTypeRefresh,
		"passwordCreationTime": user.PasswordCreationTime.UnixMilli(),
		"iat":                  now.Unix(),
		"exp":                  now.Add(RefreshTokenTTL).Unix(),
	}).SignedString([]byte(secretKey))
	if err != nil {
		return nil, fmt.Errorf("failed to generate refresh token: %w", err)
	}

	return &users_dto.SignInResponseDTO{
		UserID:       user.ID,
		Email:        user.Email,
		Token:        accessToken,
		RefreshToken: refreshToken,
		User:         s.GetCurrentUserProfile(user),
	}, nil
}

// CreateInitialAdmin seeds the super admin once. Without a configured
// password nothing is created.
func (s *UserService) CreateInitialAdmin() error {
	count, err := s.userRepository.CountSuperAdmins()
	if err != nil {
		return fmt.Errorf("failed to count super admins: %w", err)
	}

	if count > 0 {
		return nil
	}

	password := config.GetEnv().InitialAdminPassword
	if password == "" {
		s.logger.Warn("No super admin exists and INITIAL_ADMIN_PASSWORD is empty, skipping seed")
		return nil
	}

	return s.createSuperAdmin(InitialAdminEmail, password)
}

func (s *UserService) createSuperAdmin(email, password string) error {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	now := time.Now().UTC().Truncate(time.Microsecond)
	admin := &users_models.User{
		ID:                   uuid.New(),
		Name:                 "Admin",
		Email:                email,
		HashedPassword:       string(hashedPassword),
		PasswordCreationTime: now,
		Role:                 users_enums.UserRoleSuperAdmin,
		IsActive:             true,
		CreatedAt:            now,
		UpdatedAt:            now,
	}

	if err := s.userRepository.CreateUser(nil, admin); err != nil {
		return fmt.Errorf("failed to create initial admin: %w", err)
	}

	s.logger.Info("Initial super admin created", slog.String("email", email))

	return nil
}

func (s *UserService) ChangeUserPasswordByEmail(email string, newPassword string) error {
	if len(newPassword) < 6 {
		return errors.New("password must be at least 6 characters")
	}

	user, err := s.userRepository.GetUserByEmail(NormalizeEmail(email))
	if err != nil {
		return fmt.Errorf("failed to get user: %w", err)
	}

	if user == nil {
		return fmt.Errorf("user %s does not exist", email)
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash new password: %w", err)
	}

	if err := s.userRepository.UpdateUserPassword(nil, user.ID, string(hashedPassword)); err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}

	s.activityLogWriter.WriteActivity("password_reset", &user.ID, nil, map[string]any{"source": "cli"})

	return nil
}

func (s *UserService) GetUserByID(userID uuid.UUID) (*users_models.User, error) {
	return s.userRepository.GetUserByID(userID)
}

func (s *UserService) GetUserByEmail(email string) (*users_models.User, error) {
	return s.userRepository.GetUserByEmail(NormalizeEmail(email))
}

func (s *UserService) GetCurrentUserProfile(user *users_models.User) *users_dto.UserProfileResponseDTO {
	return &users_dto.UserProfileResponseDTO{
		ID:        user.ID,
		Name:      user.Name,
		Email:     user.Email,
		Role:      user.Role,
		TeamID:    user.TeamID,
		AvatarURL: user.AvatarURL,
		IsActive:  user.IsActive,
		CreatedAt: user.CreatedAt,
	}
}

func (s *UserService) getDummyHash() []byte {
	s.dummyHashOnce.Do(func() {
		hash, err := bcrypt.GenerateFromPassword([]byte("pocketprc-dummy-password"), bcrypt.DefaultCost)
		if err != nil {
			s.logger.Error("failed to build dummy hash", slog.String("error", err.Error()))
			return
		}
		s.dummyHash = hash
	})

	return s.dummyHash
}

func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// GenerateRandomToken returns size random bytes as hex.
func GenerateRandomToken(size int) (string, error) {
	buf := make([]byte, size)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to generate token: %w", err)
	}

	return hex.EncodeToString(buf), nil
}

func HashToken(rawToken string) string {
	sum := sha256.Sum256([]byte(rawToken))
	return hex.EncodeToString(sum[:])
}
