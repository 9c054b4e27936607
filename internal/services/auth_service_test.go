package services

import (
	"log/slog"
	"testing"
	"time"

	"koinsave/internal/config"
	"koinsave/internal/database"
	"koinsave/internal/dto"
	"koinsave/internal/models"
	"koinsave/internal/repositories"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
)

type AuthServiceSuite struct {
	suite.Suite
	db      *database.DB
	service AuthServiceInterface
	tokens  TokenServiceInterface
}

func (s *AuthServiceSuite) SetupTest() {
	s.db = database.SetupTestDB(s.T())

	privateKey, publicKey, err := config.GenerateRSAKeyPair()
	s.Require().NoError(err)

	s.tokens = NewTokenService(&config.JWTConfig{
		AccessTokenDuration: time.Hour,
		PrivateKey:          privateKey,
		PublicKey:           publicKey,
		Issuer:              "koinsave-test",
	})

	userRepo := repositories.NewUserRepository(s.db.DB)
	blacklistRepo := repositories.NewBlacklistedTokenRepository(s.db.DB)
	s.service = NewAuthService(userRepo, blacklistRepo, NewPasswordService(testSecurityConfig()), s.tokens, slog.Default())
}

func (s *AuthServiceSuite) TearDownTest() {
	database.CleanupTestDB(s.T(), s.db)
}

func TestAuthServiceSuite(t *testing.T) {
	suite.Run(t, new(AuthServiceSuite))
}

func (s *AuthServiceSuite) signup() *dto.TokenResponse {
	tokens, err := s.service.Signup(&dto.SignupRequest{
		Name:     "Jordan Reyes",
		Email:    "jordan@example.com",
		Password: "Secure1Pass!",
	})
	s.Require().NoError(err)
	return tokens
}

func (s *AuthServiceSuite) TestSignup_CreatesUserWithZeroBalance() {
	tokens := s.signup()

	s.NotEmpty(tokens.AccessToken)
	s.Equal("Bearer", tokens.TokenType)
	s.Equal("jordan@example.com", tokens.User.Email)
	s.True(tokens.User.Balance.IsZero())
	s.Len(tokens.User.AccountNumber, 10)
}

func (s *AuthServiceSuite) TestSignup_DuplicateEmailRejected() {
	s.signup()

	_, err := s.service.Signup(&dto.SignupRequest{
		Name:     "Jordan Again",
		Email:    "jordan@example.com",
		Password: "Secure1Pass!",
	})
	s.ErrorIs(err, ErrUserAlreadyExists)
}

func (s *AuthServiceSuite) TestSignup_WeakPasswordRejected() {
	_, err := s.service.Signup(&dto.SignupRequest{
		Name:     "Jordan Reyes",
		Email:    "weak@example.com",
		Password: "short",
	})
	s.Error(err)
}

func (s *AuthServiceSuite) TestLogin_Success() {
	s.signup()

	tokens, err := s.service.Login(&dto.LoginRequest{
		Email:    "jordan@example.com",
		Password: "Secure1Pass!",
	})
	s.Require().NoError(err)
	s.NotEmpty(tokens.AccessToken)

	claims, err := s.tokens.ValidateAccessToken(tokens.AccessToken)
	s.Require().NoError(err)
	s.Equal("jordan@example.com", claims.Email)
}

func (s *AuthServiceSuite) TestLogin_WrongPassword() {
	s.signup()

	_, err := s.service.Login(&dto.LoginRequest{
		Email:    "jordan@example.com",
		Password: "WrongPass1!",
	})
	s.ErrorIs(err, ErrInvalidCredentials)
}

func (s *AuthServiceSuite) TestLogin_UnknownEmail() {
	_, err := s.service.Login(&dto.LoginRequest{
		Email:    "nobody@example.com",
		Password: "Secure1Pass!",
	})
	s.ErrorIs(err, ErrInvalidCredentials)
}

func (s *AuthServiceSuite) TestLogout_BlacklistsToken() {
	tokens := s.signup()

	s.Require().NoError(s.service.Logout(tokens.AccessToken))

	jti, err := s.tokens.GetJTI(tokens.AccessToken)
	s.Require().NoError(err)

	var blacklisted models.BlacklistedToken
	s.Require().NoError(s.db.First(&blacklisted, "jti = ?", jti).Error)
	s.Equal(jti, blacklisted.JTI)
}

func (s *AuthServiceSuite) TestLogout_InvalidToken() {
	s.ErrorIs(s.service.Logout("not-a-token"), ErrInvalidToken)
}

func (s *AuthServiceSuite) TestCurrentUser() {
	tokens := s.signup()

	claims, err := s.tokens.ValidateAccessToken(tokens.AccessToken)
	s.Require().NoError(err)

	userID, err := uuid.Parse(claims.UserID)
	s.Require().NoError(err)

	user, err := s.service.CurrentUser(userID)
	s.Require().NoError(err)
	s.Equal("jordan@example.com", user.Email)
}

func (s *AuthServiceSuite) TestCurrentUser_Unknown() {
	_, err := s.service.CurrentUser(uuid.New())
	s.ErrorIs(err, ErrUserNotFound)
}
