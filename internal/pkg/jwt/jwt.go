package jwt

import (
	"time"

	"github.com/cmlabs-hris/presence-backend-go/internal/domain/user"
	"github.com/go-chi/jwtauth/v5"
	"github.com/lestrrat-go/jwx/v2/jwt"
)

// Claim keys carried by access tokens.
const (
	ClaimUserID = "user_id"
	ClaimRole   = "role"
	ClaimType   = "type"

	TokenTypeAccess = "access"
)

// Service verifies access tokens issued by the identity service. GenerateAccessToken mints
// tokens with the same claims for tooling and tests.
type Service interface {
	GenerateAccessToken(userID string, role user.Role) (token string, expiresAt int64, err error)
	JWTAuth() *jwtauth.JWTAuth
}

type JWTService struct {
	accessTokenExpiration time.Duration
	tokenAuth             *jwtauth.JWTAuth
	now                   func() time.Time
}

func (j *JWTService) JWTAuth() *jwtauth.JWTAuth {
	return j.tokenAuth
}

func NewJWTService(secretKey string, accessTokenExpiration time.Duration) Service {
	return &JWTService{
		accessTokenExpiration: accessTokenExpiration,
		tokenAuth:             jwtauth.New("HS256", []byte(secretKey), nil, jwt.WithAcceptableSkew(30*time.Second)),
		now:                   time.Now,
	}
}

func (j *JWTService) GenerateAccessToken(userID string, role user.Role) (token string, expiresAt int64, err error) {
	expiresAt = j.now().Add(j.accessTokenExpiration).Unix()

	claims := map[string]interface{}{
		ClaimUserID: userID,
		ClaimRole:   string(role),
		ClaimType:   TokenTypeAccess,
		"exp":       expiresAt,
	}

	_, tokenString, err := j.tokenAuth.Encode(claims)
	return tokenString, expiresAt, err
}

// PrincipalFromClaims extracts the caller from verified access token claims.
func PrincipalFromClaims(claims map[string]interface{}) (user.Principal, error) {
	if tokenType, ok := claims[ClaimType].(string); !ok || tokenType != TokenTypeAccess {
		return user.Principal{}, user.ErrInvalidToken
	}

	userID, _ := claims[ClaimUserID].(string)
	role, _ := claims[ClaimRole].(string)
	if userID == "" || role == "" {
		return user.Principal{}, user.ErrPrincipalClaimsIncomplete
	}

	return user.Principal{UserID: userID, Role: user.Role(role)}, nil
}
