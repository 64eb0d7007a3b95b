package services

import (
	"crypto/rsa"
	"testing"
	"time"

	"finance-tracker/internal/config"
	"finance-tracker/internal/models"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/suite"
)

const testIssuer = "https://clerk.example.com"

type SessionVerifierSuite struct {
	suite.Suite
	privateKey *rsa.PrivateKey
	verifier   SessionVerifierInterface
}

func (s *SessionVerifierSuite) SetupSuite() {
	privateKey, publicKey, err := config.GenerateRSAKeyPair()
	s.Require().NoError(err)
	s.privateKey = privateKey

	s.verifier = NewSessionVerifier(config.AuthConfig{
		PublicKey:         publicKey,
		Issuer:            testIssuer,
		AuthorizedParties: []string{"http://localhost:3000"},
		ClockSkew:         5 * time.Second,
	})
}

func TestSessionVerifierSuite(t *testing.T) {
	suite.Run(t, new(SessionVerifierSuite))
}

func (s *SessionVerifierSuite) claims() *models.SessionClaims {
	now := time.Now()
	return &models.SessionClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "user_2abc",
			Issuer:    testIssuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Minute)),
		},
		Email:           "jane@example.com",
		AuthorizedParty: "http://localhost:3000",
		SessionID:       "sess_1",
	}
}

func (s *SessionVerifierSuite) sign(claims *models.SessionClaims) string {
	token, err := jwt.NewWithClaims(jwt.SigningMethodRS256, claims).SignedString(s.privateKey)
	s.Require().NoError(err)
	return token
}

func (s *SessionVerifierSuite) TestVerify_Valid() {
	claims, err := s.verifier.Verify(s.sign(s.claims()))
	s.NoError(err)
	s.Equal("user_2abc", claims.Subject)
	s.Equal("jane@example.com", claims.Email)
	s.Equal("sess_1", claims.SessionID)
}

func (s *SessionVerifierSuite) TestVerify_NoAuthorizedPartyClaim() {
	c := s.claims()
	c.AuthorizedParty = ""

	_, err := s.verifier.Verify(s.sign(c))
	s.NoError(err)
}

func (s *SessionVerifierSuite) TestVerify_Rejections() {
	expired := s.claims()
	expired.ExpiresAt = jwt.NewNumericDate(time.Now().Add(-time.Hour))

	wrongIssuer := s.claims()
	wrongIssuer.Issuer = "https://evil.example.com"

	foreignParty := s.claims()
	foreignParty.AuthorizedParty = "https://evil.example.com"

	noSubject := s.claims()
	noSubject.Subject = ""

	noExpiry := s.claims()
	noExpiry.ExpiresAt = nil

	otherKey, _, err := config.GenerateRSAKeyPair()
	s.Require().NoError(err)
	forged, err := jwt.NewWithClaims(jwt.SigningMethodRS256, s.claims()).SignedString(otherKey)
	s.Require().NoError(err)

	hmac, err := jwt.NewWithClaims(jwt.SigningMethodHS256, s.claims()).SignedString([]byte("secret"))
	s.Require().NoError(err)

	cases := []struct {
		name  string
		token string
		err   error
	}{
		{"empty", "", ErrEmptyToken},
		{"garbage", "not.a.jwt", ErrInvalidToken},
		{"expired", s.sign(expired), ErrExpiredToken},
		{"wrong issuer", s.sign(wrongIssuer), ErrInvalidIssuer},
		{"unauthorized party", s.sign(foreignParty), ErrUnauthorizedParty},
		{"missing subject", s.sign(noSubject), ErrMissingSubject},
		{"missing expiry", s.sign(noExpiry), ErrInvalidToken},
		{"foreign key", forged, ErrInvalidToken},
		{"hmac algorithm", hmac, ErrInvalidToken},
	}

	for _, tc := range cases {
		s.Run(tc.name, func() {
			claims, err := s.verifier.Verify(tc.token)
			s.Nil(claims)
			s.ErrorIs(err, tc.err)
		})
	}
}

func (s *SessionVerifierSuite) TestVerify_NoKeyConfigured() {
	_, err := NewSessionVerifier(config.AuthConfig{}).Verify("token")
	s.ErrorIs(err, ErrSessionKeyNotAvailable)
}

func (s *SessionVerifierSuite) TestExtractTokenFromHeader() {
	cases := []struct {
		header string
		token  string
		err    error
	}{
		{"Bearer abc.def.ghi", "abc.def.ghi", nil},
		{"bearer   abc", "abc", nil},
		{"", "", ErrInvalidAuthHeader},
		{"Basic dXNlcjpwYXNz", "", ErrInvalidAuthHeader},
		{"Bearer ", "", ErrInvalidAuthHeader},
	}

	for _, tc := range cases {
		token, err := s.verifier.ExtractTokenFromHeader(tc.header)
		s.Equal(tc.token, token, tc.header)
		if tc.err != nil {
			s.ErrorIs(err, tc.err, tc.header)
		} else {
			s.NoError(err, tc.header)
		}
	}
}
