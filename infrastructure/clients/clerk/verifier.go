package clerk

import (
	"context"
	"crypto/rsa"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"slices"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"github.com/golang-jwt/jwt/v5"

	"nhl-fan-insights/domain/model"
	"nhl-fan-insights/domain/repository"
	"nhl-fan-insights/infrastructure/logger"
)

const DefaultAPIBaseURL = "https://api.clerk.com"

// DevIdentity is returned for every token when no secret key is configured.
var DevIdentity = model.Identity{
	UserID:   "dev_user_123",
	Username: "Dev User",
	Email:    strPtr("dev@example.com"),
}

type Config struct {
	SecretKey    string
	JWTKey       string
	APIBaseURL   string
	AdminUserIDs []string
	Timeout      time.Duration
}

// Verifier resolves Clerk session tokens.
type Verifier struct {
	secretKey  string
	publicKey  *rsa.PublicKey
	baseURL    string
	admins     []string
	httpClient *http.Client
}

func NewVerifier(cfg Config) (*Verifier, error) {
	if cfg.APIBaseURL == "" {
		cfg.APIBaseURL = DefaultAPIBaseURL
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 15 * time.Second
	}
	v := &Verifier{
		secretKey:  cfg.SecretKey,
		baseURL:    strings.TrimRight(cfg.APIBaseURL, "/"),
		admins:     cfg.AdminUserIDs,
		httpClient: &http.Client{Timeout: cfg.Timeout},
	}
	if cfg.JWTKey != "" {
		key, err := jwt.ParseRSAPublicKeyFromPEM([]byte(strings.ReplaceAll(cfg.JWTKey, `\n`, "\n")))
		if err != nil {
			return nil, fmt.Errorf("parsing clerk jwt key: %w", err)
		}
		v.publicKey = key
	}
	if v.secretKey == "" && v.publicKey == nil {
		logger.GetLogger().Warn("Clerk is not configured, every bearer token maps to the development user")
	}
	return v, nil
}

// IsAdmin reports whether userID is listed as an administrator.
func (v *Verifier) IsAdmin(userID string) bool {
	return slices.Contains(v.admins, userID)
}

func (v *Verifier) Verify(ctx context.Context, token string) (*model.Identity, error) {
	var (
		identity *model.Identity
		err      error
	)
	switch {
	case v.publicKey != nil:
		identity, err = v.verifyLocal(token)
	case v.secretKey != "":
		identity, err = v.verifyRemote(ctx, token)
	default:
		dev := DevIdentity
		identity = &dev
	}
	if err != nil {
		return nil, err
	}
	identity.IsAdmin = identity.IsAdmin || v.IsAdmin(identity.UserID)
	return identity, nil
}

type sessionClaims struct {
	Username string `json:"username,omitempty"`
	ImageURL string `json:"image_url,omitempty"`
	Email    string `json:"email,omitempty"`
	jwt.RegisteredClaims
}

func (v *Verifier) verifyLocal(token string) (*model.Identity, error) {
	claims := &sessionClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		return v.publicKey, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodRS256.Alg()}), jwt.WithLeeway(5*time.Second))
	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenExpired), errors.Is(err, jwt.ErrTokenNotValidYet):
			return nil, fmt.Errorf("session token expired: %w", model.ErrUnauthorized)
		case errors.Is(err, jwt.ErrTokenMalformed):
			return nil, fmt.Errorf("malformed session token: %w", model.ErrUnauthorized)
		default:
			return nil, fmt.Errorf("invalid session token: %w", model.ErrUnauthorized)
		}
	}
	if !parsed.Valid || claims.Subject == "" {
		return nil, fmt.Errorf("invalid session token: %w", model.ErrUnauthorized)
	}
	identity := &model.Identity{UserID: claims.Subject, Username: claims.Username}
	if identity.Username == "" {
		identity.Username = "Anonymous"
	}
	if claims.ImageURL != "" {
		identity.ImageURL = strPtr(claims.ImageURL)
	}
	if claims.Email != "" {
		identity.Email = strPtr(claims.Email)
	}
	return identity, nil
}

type sessionResponse struct {
	UserID string `json:"user_id"`
	User   struct {
		Username       string `json:"username"`
		ImageURL       string `json:"image_url"`
		EmailAddresses []struct {
			EmailAddress string `json:"email_address"`
		} `json:"email_addresses"`
	} `json:"user"`
}

func (v *Verifier) verifyRemote(ctx context.Context, token string) (*model.Identity, error) {
	endpoint := fmt.Sprintf("%s/v1/sessions/%s/verify", v.baseURL, url.PathEscape(token))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+v.secretKey)

	resp, err := v.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("could not verify token: %w", model.ErrUnauthorized)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("clerk verify status=%d: %w", resp.StatusCode, model.ErrUnauthorized)
	}

	var session sessionResponse
	if err := json.NewDecoder(resp.Body).Decode(&session); err != nil {
		return nil, fmt.Errorf("decoding clerk session: %w", model.ErrUnauthorized)
	}
	if session.UserID == "" {
		return nil, fmt.Errorf("clerk session without user: %w", model.ErrUnauthorized)
	}
	identity := &model.Identity{UserID: session.UserID, Username: session.User.Username}
	if identity.Username == "" {
		identity.Username = "Anonymous"
	}
	if session.User.ImageURL != "" {
		identity.ImageURL = strPtr(session.User.ImageURL)
	}
	if len(session.User.EmailAddresses) > 0 && session.User.EmailAddresses[0].EmailAddress != "" {
		identity.Email = strPtr(session.User.EmailAddresses[0].EmailAddress)
	}
	return identity, nil
}

func strPtr(s string) *string { return &s }

var _ repository.IAuthVerifier = (*Verifier)(nil)
