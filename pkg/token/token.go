package token

import (
	"time"

	"taskrewards-platform/pkg/config"
	"taskrewards-platform/pkg/errutil"

	"github.com/go-jose/go-jose/v4"
	"github.com/go-jose/go-jose/v4/jwt"
	"go.uber.org/fx"
)

// Claims is the bearer credential payload carried by every protected call.
type Claims struct {
	UserID   string `json:"user_id"`
	Username string `json:"username"`
	IsAdmin  bool   `json:"is_admin"`
	jwt.Claims
}

type Manager struct {
	secret []byte
	expiry time.Duration
}

var Module = fx.Module("token", fx.Provide(NewManager))

func NewManager(cfg *config.Config) *Manager {
	expiry := cfg.Auth.TokenExpiry
	if expiry <= 0 {
		expiry = 24 * time.Hour
	}
	return &Manager{
		secret: []byte(cfg.Auth.Secret),
		expiry: expiry,
	}
}

func (m *Manager) Issue(userID, username string, isAdmin bool) (string, error) {
	signer, err := jose.NewSigner(
		jose.SigningKey{Algorithm: jose.HS256, Key: m.secret},
		(&jose.SignerOptions{}).WithType("JWT"),
	)
	if err != nil {
		return "", err
	}

	now := time.Now()
	claims := Claims{
		UserID:   userID,
		Username: username,
		IsAdmin:  isAdmin,
		Claims: jwt.Claims{
			IssuedAt: jwt.NewNumericDate(now),
			Expiry:   jwt.NewNumericDate(now.Add(m.expiry)),
		},
	}

	return jwt.Signed(signer).Claims(claims).Serialize()
}

func (m *Manager) Verify(raw string) (*Claims, error) {
	tok, err := jwt.ParseSigned(raw, []jose.SignatureAlgorithm{jose.HS256})
	if err != nil {
		return nil, errutil.Unauthorized("Invalid token", err)
	}

	var claims Claims
	if err := tok.Claims(m.secret, &claims); err != nil {
		return nil, errutil.Unauthorized("Invalid token", err)
	}

	if err := claims.Validate(jwt.Expected{Time: time.Now()}); err != nil {
		return nil, errutil.Unauthorized("Invalid token", err)
	}

	return &claims, nil
}
