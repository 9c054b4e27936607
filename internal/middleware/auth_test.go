package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"koinsave/internal/config"
	"koinsave/internal/database"
	"koinsave/internal/models"
	"koinsave/internal/repositories"
	"koinsave/internal/services"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
)

type RequireAuthSuite struct {
	suite.Suite
	db            *database.DB
	tokenService  services.TokenServiceInterface
	blacklistRepo repositories.BlacklistedTokenRepositoryInterface
	user          *models.User
	echo          *echo.Echo
}

func (s *RequireAuthSuite) SetupTest() {
	s.db = database.SetupTestDB(s.T())

	privateKey, publicKey, err := config.GenerateRSAKeyPair()
	s.Require().NoError(err)

	s.tokenService = services.NewTokenService(&config.JWTConfig{
		AccessTokenDuration: time.Hour,
		PrivateKey:          privateKey,
		PublicKey:           publicKey,
		Issuer:              "koinsave-test",
	})
	s.blacklistRepo = repositories.NewBlacklistedTokenRepository(s.db.DB)
	s.user = database.CreateTestUser(s.T(), s.db, "auth@example.com", decimal.NewFromInt(100))
	s.echo = echo.New()
}

func (s *RequireAuthSuite) TearDownTest() {
	database.CleanupTestDB(s.T(), s.db)
}

func TestRequireAuthSuite(t *testing.T) {
	suite.Run(t, new(RequireAuthSuite))
}

func (s *RequireAuthSuite) request(authHeader string) (*httptest.ResponseRecorder, echo.Context) {
	req := httptest.NewRequest(http.MethodGet, "/api/v1/auth/me", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	rec := httptest.NewRecorder()
	return rec, s.echo.NewContext(req, rec)
}

func (s *RequireAuthSuite) handler() echo.HandlerFunc {
	middleware := RequireAuth(s.tokenService, s.blacklistRepo)
	return middleware(func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	})
}

func (s *RequireAuthSuite) TestValidToken() {
	token, _, err := s.tokenService.GenerateAccessToken(s.user)
	s.Require().NoError(err)

	rec, c := s.request("Bearer " + token)
	s.Require().NoError(s.handler()(c))

	s.Equal(http.StatusOK, rec.Code)
	s.Equal(s.user.ID, c.Get("user_id"))
	s.Equal(s.user.Email, c.Get("user_email"))
	s.Equal(token, c.Get("token"))
	s.NotEmpty(c.Get("token_jti"))
}

func (s *RequireAuthSuite) TestMissingHeader() {
	rec, c := s.request("")
	s.Require().NoError(s.handler()(c))
	s.Equal(http.StatusUnauthorized, rec.Code)
	s.Contains(rec.Body.String(), "AUTH_002")
}

func (s *RequireAuthSuite) TestMalformedHeader() {
	rec, c := s.request("Token abc")
	s.Require().NoError(s.handler()(c))
	s.Equal(http.StatusUnauthorized, rec.Code)
	s.Contains(rec.Body.String(), "AUTH_004")
}

func (s *RequireAuthSuite) TestTamperedToken() {
	token, _, err := s.tokenService.GenerateAccessToken(s.user)
	s.Require().NoError(err)

	rec, c := s.request("Bearer " + token + "x")
	s.Require().NoError(s.handler()(c))
	s.Equal(http.StatusUnauthorized, rec.Code)
}

func (s *RequireAuthSuite) TestRevokedToken() {
	token, expiresAt, err := s.tokenService.GenerateAccessToken(s.user)
	s.Require().NoError(err)

	jti, err := s.tokenService.GetJTI(token)
	s.Require().NoError(err)
	s.Require().NoError(s.blacklistRepo.Create(&models.BlacklistedToken{
		JTI:       jti,
		UserID:    s.user.ID,
		ExpiresAt: expiresAt,
	}))

	rec, c := s.request("Bearer " + token)
	s.Require().NoError(s.handler()(c))
	s.Equal(http.StatusUnauthorized, rec.Code)
	s.Contains(rec.Body.String(), "revoked")
}

func (s *RequireAuthSuite) TestBlacklistLookupFailureRejectsToken() {
	token, _, err := s.tokenService.GenerateAccessToken(s.user)
	s.Require().NoError(err)

	s.Require().NoError(s.db.Exec("DROP TABLE blacklisted_tokens").Error)

	rec, c := s.request("Bearer " + token)
	s.Require().NoError(s.handler()(c))
	s.Equal(http.StatusInternalServerError, rec.Code)
	s.Contains(rec.Body.String(), "SYSTEM_002")
	s.Nil(c.Get("user_id"))
}

func TestRequestIDGeneratesTraceID(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	handler := RequestID()(func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	})
	if err := handler(c); err != nil {
		t.Fatal(err)
	}

	traceID := rec.Header().Get(TraceIDHeader)
	if traceID == "" {
		t.Fatal("expected trace ID header")
	}
	if _, err := uuid.Parse(traceID); err != nil {
		t.Fatalf("trace ID is not a UUID: %v", err)
	}
	if GetTraceID(c) != traceID {
		t.Fatal("context trace ID does not match header")
	}
}

func TestRequestIDPreservesIncomingTraceID(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(TraceIDHeader, "upstream-trace")
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	handler := RequestID()(func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	})
	if err := handler(c); err != nil {
		t.Fatal(err)
	}

	if GetTraceID(c) != "upstream-trace" {
		t.Fatal("expected incoming trace ID to be preserved")
	}
}
