package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	jose "gopkg.in/square/go-jose.v2"

	"github.com/opaldesk/accounts-backend/internal/types"
)

// DefaultJWKSCacheTTL is how long a fetched key set stays fresh.
const DefaultJWKSCacheTTL = 10 * time.Minute

// TokenVerifier validates bearer tokens against the identity provider's
// published signing keys. Only the key fetch is cached; every Verify call
// performs a full signature check.
type TokenVerifier struct {
	issuer  string
	jwksURL string
	ttl     time.Duration
	client  *http.Client

	mu        sync.Mutex
	keys      map[string]interface{}
	fetchedAt time.Time
}

// NewTokenVerifier builds a verifier for a Cognito-style user pool. The
// issuer is https://cognito-idp.{region}.amazonaws.com/{poolID} and the
// key set lives under its .well-known path.
func NewTokenVerifier(region, userPoolID string, ttl time.Duration) *TokenVerifier {
	issuer := fmt.Sprintf("https://cognito-idp.%s.amazonaws.com/%s", region, userPoolID)
	return NewTokenVerifierForIssuer(issuer, issuer+"/.well-known/jwks.json", ttl)
}

// NewTokenVerifierForIssuer builds a verifier with an explicit JWKS
// endpoint. Tests point this at a local server.
func NewTokenVerifierForIssuer(issuer, jwksURL string, ttl time.Duration) *TokenVerifier {
	if ttl <= 0 {
		ttl = DefaultJWKSCacheTTL
	}
	return &TokenVerifier{
		issuer:  issuer,
		jwksURL: jwksURL,
		ttl:     ttl,
		client:  &http.Client{Timeout: 10 * time.Second},
	}
}

// Verify checks the token's signature, issuer, expiry and declared use
// and returns the identity it carries. Failures are classified as
// ErrTokenExpired, ErrInvalidToken or ErrVerificationFailed.
func (v *TokenVerifier) Verify(ctx context.Context, tokenString string) (*types.Identity, error) {
	claims := jwt.MapClaims{}
	_, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		kid, _ := token.Header["kid"].(string)
		if kid == "" {
			return nil, fmt.Errorf("%w: missing kid header", ErrInvalidToken)
		}
		return v.signingKey(ctx, kid)
	},
		jwt.WithValidMethods([]string{"RS256"}),
		jwt.WithIssuer(v.issuer),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenExpired):
			return nil, ErrTokenExpired
		case errors.Is(err, ErrVerificationFailed):
			return nil, fmt.Errorf("%w: %v", ErrVerificationFailed, err)
		default:
			return nil, ErrInvalidToken
		}
	}

	tokenUse, _ := claims["token_use"].(string)
	if tokenUse != "id" && tokenUse != "access" {
		return nil, ErrInvalidToken
	}

	sub, _ := claims["sub"].(string)
	if sub == "" {
		return nil, ErrInvalidToken
	}
	email, _ := claims["email"].(string)
	nickname, _ := claims["preferred_username"].(string)

	return &types.Identity{
		Sub:      sub,
		Email:    email,
		Nickname: nickname,
		TokenUse: tokenUse,
		Claims:   claims,
	}, nil
}

// signingKey returns the public key for kid, refreshing the cached key
// set when it is stale or does not know the kid.
func (v *TokenVerifier) signingKey(ctx context.Context, kid string) (interface{}, error) {
	v.mu.Lock()
	defer v.mu.Unlock()

	if key, ok := v.keys[kid]; ok && time.Since(v.fetchedAt) < v.ttl {
		return key, nil
	}

	if err := v.refreshLocked(ctx); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrVerificationFailed, err)
	}

	key, ok := v.keys[kid]
	if !ok {
		return nil, fmt.Errorf("%w: unknown signing key %q", ErrInvalidToken, kid)
	}
	return key, nil
}

func (v *TokenVerifier) refreshLocked(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, v.jwksURL, nil)
	if err != nil {
		return err
	}

	resp, err := v.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to fetch key set: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("key set endpoint returned status %d", resp.StatusCode)
	}

	var set jose.JSONWebKeySet
	if err := json.NewDecoder(resp.Body).Decode(&set); err != nil {
		return fmt.Errorf("failed to decode key set: %w", err)
	}

	keys := make(map[string]interface{}, len(set.Keys))
	for _, k := range set.Keys {
		if k.KeyID == "" || !k.Valid() {
			continue
		}
		keys[k.KeyID] = k.Key
	}
	if len(keys) == 0 {
		return fmt.Errorf("key set contains no usable keys")
	}

	v.keys = keys
	v.fetchedAt = time.Now()
	log.Printf("[TokenVerifier] Refreshed signing key set (%d keys)", len(keys))
	return nil
}
