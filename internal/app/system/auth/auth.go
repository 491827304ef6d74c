package auth

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/dalemusser/disputehub/internal/app/system/respond"
	"github.com/dalemusser/disputehub/internal/domain/models"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

/*─────────────────────────────────────────────────────────────────────────────*
| Current-User helper                                                        |
*─────────────────────────────────────────────────────────────────────────────*/

// User is the authenticated caller as injected into r.Context().
// It is loaded fresh from the database on every request.
type User struct {
	ID    primitive.ObjectID
	Name  string
	Email string
	Role  models.Role
}

type ctxKey string

const currentUserKey ctxKey = "currentUser"

// CurrentUser returns the user & "found?" flag.
func CurrentUser(r *http.Request) (*User, bool) {
	u, ok := r.Context().Value(currentUserKey).(*User)
	return u, ok
}

// WithTestUser injects u into the request context, bypassing token checks.
func WithTestUser(r *http.Request, u *User) *http.Request {
	return withUser(r, u)
}

func withUser(r *http.Request, u *User) *http.Request {
	return r.WithContext(context.WithValue(r.Context(), currentUserKey, u))
}

/*─────────────────────────────────────────────────────────────────────────────*
| Bearer credentials                                                         |
*─────────────────────────────────────────────────────────────────────────────*/

// DefaultTTL is how long an issued credential stays valid.
const DefaultTTL = 24 * time.Hour

// ErrInvalidToken covers every reason a credential is rejected.
var ErrInvalidToken = errors.New("invalid or expired token")

// Claims is the credential payload. Exactly one of Subject (internal user
// id) or GoogleID is set: google-auth sign-ins are keyed by the external id.
type Claims struct {
	GoogleID string `json:"gid,omitempty"`
	jwt.RegisteredClaims
}

// UserFetcher loads the current user for a verified credential.
// Returning nil rejects the request.
type UserFetcher interface {
	FetchUser(ctx context.Context, userID primitive.ObjectID) *User
	FetchUserByGoogleID(ctx context.Context, googleID string) *User
}

// TokenManager issues and verifies HS256 bearer credentials.
type TokenManager struct {
	secret  []byte
	ttl     time.Duration
	fetcher UserFetcher
	log     *zap.Logger
	now     func() time.Time
}

// NewTokenManager builds a TokenManager. ttl <= 0 selects DefaultTTL.
func NewTokenManager(secret string, ttl time.Duration, logger *zap.Logger) (*TokenManager, error) {
	if secret == "" {
		return nil, fmt.Errorf("jwt secret is empty; provide ≥32 random chars")
	}
	if len(secret) < 32 {
		logger.Warn("jwt secret is short; 32+ chars recommended",
			zap.Int("length", len(secret)))
	}
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &TokenManager{
		secret: []byte(secret),
		ttl:    ttl,
		log:    logger,
		now:    time.Now,
	}, nil
}

// SetUserFetcher sets the lookup Authenticate uses to resolve credentials.
func (tm *TokenManager) SetUserFetcher(f UserFetcher) {
	tm.fetcher = f
}

// TTL returns the lifetime of issued credentials.
func (tm *TokenManager) TTL() time.Duration {
	return tm.ttl
}

// IssueForUser returns a credential keyed by the internal user id.
func (tm *TokenManager) IssueForUser(userID primitive.ObjectID) (string, error) {
	return tm.issue(Claims{RegisteredClaims: jwt.RegisteredClaims{Subject: userID.Hex()}})
}

// IssueForGoogleID returns a credential keyed by the Google account id.
func (tm *TokenManager) IssueForGoogleID(googleID string) (string, error) {
	return tm.issue(Claims{GoogleID: googleID})
}

func (tm *TokenManager) issue(c Claims) (string, error) {
	now := tm.now()
	c.ID = uuid.NewString()
	c.IssuedAt = jwt.NewNumericDate(now)
	c.ExpiresAt = jwt.NewNumericDate(now.Add(tm.ttl))
	return jwt.NewWithClaims(jwt.SigningMethodHS256, c).SignedString(tm.secret)
}

// Parse verifies signature and expiry and returns the claims.
func (tm *TokenManager) Parse(token string) (*Claims, error) {
	claims := &Claims{}
	_, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return tm.secret, nil
	}, jwt.WithExpirationRequired(), jwt.WithIssuedAt())
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if (claims.Subject == "") == (claims.GoogleID == "") {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

/*─────────────────────────────────────────────────────────────────────────────*
| Middleware                                                                 |
*─────────────────────────────────────────────────────────────────────────────*/

// Authenticate requires a valid bearer credential that resolves to an
// existing user, and injects that user into the request context.
func (tm *TokenManager) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw, ok := bearerToken(r)
		if !ok {
			respond.Fail(w, tm.log, respond.Unauthorized("No token, authorization denied"))
			return
		}
		claims, err := tm.Parse(raw)
		if err != nil {
			respond.Fail(w, tm.log, respond.Unauthorized("Token is not valid"))
			return
		}

		var u *User
		if tm.fetcher != nil {
			if claims.GoogleID != "" {
				u = tm.fetcher.FetchUserByGoogleID(r.Context(), claims.GoogleID)
			} else if oid, err := primitive.ObjectIDFromHex(claims.Subject); err == nil {
				u = tm.fetcher.FetchUser(r.Context(), oid)
			}
		}
		if u == nil {
			respond.Fail(w, tm.log, respond.Unauthorized("Token is not valid"))
			return
		}
		next.ServeHTTP(w, withUser(r, u))
	})
}

func bearerToken(r *http.Request) (string, bool) {
	h := r.Header.Get("Authorization")
	scheme, token, found := strings.Cut(h, " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}
