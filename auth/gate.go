package auth

import (
	"context"
	"crypto/rand"
	"crypto/subtle"
	"errors"
	"fmt"
	"log/slog"
	"math/big"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	"github.com/itbasis/go-clock"
)

// RememberFlagKey задаёт имя флага "запомнить меня" в клиентском хранилище.
const RememberFlagKey = "hc_admin"

// SessionFlagKey хранит идентификатор серверной сессии. Живёт до закрытия браузера.
const SessionFlagKey = "hc_session"

const codeDigits = 6

var (
	ErrUnauthorized       = errors.New("admin login required")
	ErrInvalidCredentials = errors.New("invalid admin secret")
	ErrOTPDisabled        = errors.New("one-time passcode login is not configured")
	ErrAddressNotAllowed  = errors.New("address is not on the admin allow list")
	ErrNoPendingCode      = errors.New("no passcode was requested for this session")
	ErrCodeExpired        = errors.New("passcode has expired")
	ErrInvalidCode        = errors.New("invalid passcode")
	ErrMailSend           = errors.New("failed to send passcode")
)

// FlagStore is client-scoped key/value persistence, e.g. cookies.
type FlagStore interface {
	GetFlag(key string) (string, bool)
	SetFlag(key, value string)
	ClearFlag(key string)
}

// Mailer delivers one-time passcodes.
type Mailer interface {
	SendCode(ctx context.Context, address, code string) error
}

type GateConfig struct {
	Secret      SecretVerifier
	SigningKey  []byte
	RememberTTL time.Duration
	OTPTTL      time.Duration
	// Mailer == nil отключает вход по одноразовому коду.
	Mailer       Mailer
	AllowedEmail []string
	Sessions     *SessionStore
	Clock        clock.Clock
	Logger       *slog.Logger
	// GenerateCode переопределяется в тестах.
	GenerateCode func() (string, error)
}

// Gate is the admin authorization state machine. Each client owns one
// Session; the gate moves it between LoggedOut and LoggedIn and keeps the
// remember flag in step.
type Gate struct {
	secret       SecretVerifier
	signingKey   []byte
	rememberTTL  time.Duration
	otpTTL       time.Duration
	mailer       Mailer
	allowed      map[string]struct{}
	sessions     *SessionStore
	clock        clock.Clock
	logger       *slog.Logger
	generateCode func() (string, error)
}

func NewGate(cfg GateConfig) *Gate {
	g := &Gate{
		secret:       cfg.Secret,
		signingKey:   cfg.SigningKey,
		rememberTTL:  cfg.RememberTTL,
		otpTTL:       cfg.OTPTTL,
		mailer:       cfg.Mailer,
		allowed:      make(map[string]struct{}, len(cfg.AllowedEmail)),
		sessions:     cfg.Sessions,
		clock:        cfg.Clock,
		logger:       cfg.Logger,
		generateCode: cfg.GenerateCode,
	}
	for _, addr := range cfg.AllowedEmail {
		g.allowed[normalizeAddress(addr)] = struct{}{}
	}
	if g.clock == nil {
		g.clock = clock.New()
	}
	if g.logger == nil {
		g.logger = slog.Default()
	}
	if g.sessions == nil {
		g.sessions = NewSessionStore(0, g.clock)
	}
	if g.generateCode == nil {
		g.generateCode = randomCode
	}
	return g
}

// Resume returns the session with the given id, starting a new one when it
// is unknown. A new session boots LoggedIn when the remember flag carries a
// valid token.
func (g *Gate) Resume(id string, flags FlagStore) *Session {
	if sess := g.sessions.Lookup(id); sess != nil {
		return sess
	}
	sess := g.Boot(flags)
	g.sessions.Save(sess)
	return sess
}

// Boot starts a fresh session seeded from the remember flag.
func (g *Gate) Boot(flags FlagStore) *Session {
	sess := NewSession(uuid.NewString())
	if token, ok := flags.GetFlag(RememberFlagKey); ok {
		if g.validRememberToken(token) {
			sess.authenticated = true
		} else {
			flags.ClearFlag(RememberFlagKey)
		}
	}
	return sess
}

// Authorize reports whether mutating operations may run for sess.
func (g *Gate) Authorize(sess *Session) error {
	if sess == nil || sess.State() != LoggedIn {
		return ErrUnauthorized
	}
	return nil
}

// Login checks candidate against the shared secret. A mismatch leaves the
// session untouched; there is no lockout.
func (g *Gate) Login(sess *Session, flags FlagStore, candidate string) error {
	if g.secret == nil || !g.secret.VerifySecret(candidate) {
		g.logger.Info("admin login failed", slog.String("session_id", sess.ID()))
		return ErrInvalidCredentials
	}
	return g.signIn(sess, flags)
}

// Logout clears both the in-memory state and the remember flag.
func (g *Gate) Logout(sess *Session, flags FlagStore) {
	sess.mu.Lock()
	sess.authenticated = false
	sess.pending = nil
	sess.mu.Unlock()
	flags.ClearFlag(RememberFlagKey)
	g.logger.Info("admin logged out", slog.String("session_id", sess.ID()))
}

// RequestCode generates a passcode for an allow-listed address and mails it.
// The code replaces any earlier one only after it was sent successfully.
func (g *Gate) RequestCode(ctx context.Context, sess *Session, address string) error {
	if g.mailer == nil {
		return ErrOTPDisabled
	}
	address = normalizeAddress(address)
	if _, ok := g.allowed[address]; !ok {
		g.logger.Info("passcode requested for address not on allow list", slog.String("session_id", sess.ID()))
		return ErrAddressNotAllowed
	}

	code, err := g.generateCode()
	if err != nil {
		return fmt.Errorf("failed to generate passcode: %w", err)
	}
	if err := g.mailer.SendCode(ctx, address, code); err != nil {
		g.logger.Error("failed to send passcode", slog.Any("error", err))
		return fmt.Errorf("%w: %v", ErrMailSend, err)
	}

	sess.mu.Lock()
	sess.pending = &pendingCode{address: address, code: code, issuedAt: g.clock.Now()}
	sess.mu.Unlock()
	return nil
}

// VerifyCode checks code against the most recently issued passcode. The
// passcode is consumed by the attempt whatever the outcome.
func (g *Gate) VerifyCode(sess *Session, flags FlagStore, code string) error {
	sess.mu.Lock()
	pending := sess.pending
	sess.pending = nil
	sess.mu.Unlock()

	if pending == nil {
		return ErrNoPendingCode
	}
	if g.otpTTL > 0 && g.clock.Now().Sub(pending.issuedAt) > g.otpTTL {
		return ErrCodeExpired
	}
	if subtle.ConstantTimeCompare([]byte(pending.code), []byte(strings.TrimSpace(code))) != 1 {
		g.logger.Info("admin passcode rejected", slog.String("session_id", sess.ID()))
		return ErrInvalidCode
	}
	return g.signIn(sess, flags)
}

// OTPEnabled reports whether a mailer is configured.
func (g *Gate) OTPEnabled() bool {
	return g.mailer != nil
}

func (g *Gate) signIn(sess *Session, flags FlagStore) error {
	token, err := g.rememberToken()
	if err != nil {
		return fmt.Errorf("failed to sign remember token: %w", err)
	}
	flags.SetFlag(RememberFlagKey, token)

	// новый id после входа: id, выданный до входа, больше не действует
	g.sessions.Rotate(sess, uuid.NewString())
	flags.SetFlag(SessionFlagKey, sess.ID())
	sess.setAuthenticated(true)
	g.logger.Info("admin logged in", slog.String("session_id", sess.ID()))
	return nil
}

func (g *Gate) rememberToken() (string, error) {
	now := g.clock.Now()
	claims := jwt.RegisteredClaims{
		Subject:  "admin",
		IssuedAt: jwt.NewNumericDate(now),
	}
	if g.rememberTTL > 0 {
		claims.ExpiresAt = jwt.NewNumericDate(now.Add(g.rememberTTL))
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(g.signingKey)
}

func (g *Gate) validRememberToken(token string) bool {
	var claims jwt.RegisteredClaims
	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithoutClaimsValidation(),
	)
	_, err := parser.ParseWithClaims(token, &claims, func(*jwt.Token) (interface{}, error) {
		return g.signingKey, nil
	})
	if err != nil {
		return false
	}
	if claims.Subject != "admin" {
		return false
	}
	return claims.VerifyExpiresAt(g.clock.Now(), g.rememberTTL > 0)
}

func randomCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1_000_000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%0*d", codeDigits, n.Int64()), nil
}

func normalizeAddress(addr string) string {
	return strings.ToLower(strings.TrimSpace(addr))
}
