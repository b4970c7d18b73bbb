package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/example/sereno-rh/internal/entity"
	"github.com/example/sereno-rh/internal/persistence"
)

// DefaultSessionTTL bounds a session when no TTL is configured.
const DefaultSessionTTL = 12 * time.Hour

const sessionIssuer = "serenorh"

// sessionClaims is the payload of a session token. The subject is the employee id.
type sessionClaims struct {
	Role entity.Role `json:"role"`
	jwt.RegisteredClaims
}

// AuthService issues and validates signed session tokens.
type AuthService struct {
	employees   persistence.EmployeeRepository
	credentials persistence.CredentialRepository
	verify      SecretVerifier
	secret      []byte
	sessionTTL  time.Duration
	now         func() time.Time
	logger      *slog.Logger
}

// NewAuthService constructs an AuthService signing tokens with secret.
func NewAuthService(employees persistence.EmployeeRepository, credentials persistence.CredentialRepository, verify SecretVerifier, secret []byte, sessionTTL time.Duration, now func() time.Time, logger *slog.Logger) *AuthService {
	if verify == nil {
		verify = VerifySecret
	}
	if now == nil {
		now = time.Now
	}
	if sessionTTL <= 0 {
		sessionTTL = DefaultSessionTTL
	}
	return &AuthService{
		employees:   employees,
		credentials: credentials,
		verify:      verify,
		secret:      secret,
		sessionTTL:  sessionTTL,
		now:         now,
		logger:      defaultLogger(logger),
	}
}

func (s *AuthService) loggerWith(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	return serviceLogger(ctx, s.logger, "AuthService", operation, attrs...)
}

// Authenticate checks an email and secret and issues a session token.
func (s *AuthService) Authenticate(ctx context.Context, params AuthenticateParams) (result AuthenticateResult, err error) {
	if s == nil {
		err = fmt.Errorf("AuthService is nil")
		return
	}
	if len(s.secret) == 0 {
		err = fmt.Errorf("session secret not configured")
		return
	}

	email := strings.TrimSpace(params.Email)
	logger := s.loggerWith(ctx, "Authenticate", "email", strings.ToLower(email))
	defer func() {
		if err != nil {
			logger.WarnContext(ctx, "authentication failed", "error", err, "error_kind", ErrorKind(err))
			return
		}
		logger.InfoContext(ctx, "authentication succeeded", "employee_id", result.Employee.ID)
	}()

	if email == "" || params.Secret == "" {
		err = ErrInvalidCredentials
		return
	}

	var employee entity.Employee
	employee, err = s.employees.GetEmployeeByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, persistence.ErrNotFound) {
			err = ErrInvalidCredentials
		}
		return
	}

	var credential entity.Credential
	credential, err = s.credentials.GetCredential(ctx, employee.ID)
	if err != nil {
		if errors.Is(err, persistence.ErrNotFound) {
			err = ErrInvalidCredentials
		}
		return
	}

	if verifyErr := s.verify(credential.SecretHash, params.Secret); verifyErr != nil {
		if !errors.Is(verifyErr, ErrInvalidCredentials) {
			logger.ErrorContext(ctx, "stored secret unreadable", "error", verifyErr, "employee_id", employee.ID)
		}
		err = ErrInvalidCredentials
		return
	}

	if !employee.Active {
		err = ErrAccountDisabled
		return
	}

	var session Session
	session, err = s.issue(employee)
	if err != nil {
		return
	}

	result = AuthenticateResult{Employee: employee, Session: session}
	return
}

func (s *AuthService) issue(employee entity.Employee) (Session, error) {
	now := s.now()
	expiresAt := now.Add(s.sessionTTL)
	claims := sessionClaims{
		Role: employee.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   employee.ID,
			Issuer:    sessionIssuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return Session{}, fmt.Errorf("sign session token: %w", err)
	}
	return Session{Token: token, ExpiresAt: claims.ExpiresAt.Time}, nil
}

// ValidateSession verifies a session token and reloads its employee. Tokens
// of deleted employees are unauthorized; those of inactive employees are
// refused with ErrAccountDisabled.
func (s *AuthService) ValidateSession(ctx context.Context, token string) (principal Principal, err error) {
	if s == nil {
		err = fmt.Errorf("AuthService is nil")
		return
	}

	trimmed := strings.TrimSpace(token)
	logger := s.loggerWith(ctx, "ValidateSession", "token_provided", trimmed != "")
	defer func() {
		if err != nil {
			logger.WarnContext(ctx, "session validation failed", "error", err, "error_kind", ErrorKind(err))
			return
		}
		logger.DebugContext(ctx, "session validated", "principal_id", principal.EmployeeID)
	}()

	if trimmed == "" {
		err = ErrUnauthorized
		return
	}

	claims := &sessionClaims{}
	_, parseErr := jwt.ParseWithClaims(trimmed, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return s.secret, nil
	}, jwt.WithTimeFunc(s.now), jwt.WithIssuer(sessionIssuer), jwt.WithExpirationRequired())
	if parseErr != nil {
		if errors.Is(parseErr, jwt.ErrTokenExpired) {
			err = ErrSessionExpired
			return
		}
		err = fmt.Errorf("%w: %v", ErrUnauthorized, parseErr)
		return
	}

	var employee entity.Employee
	employee, err = s.employees.GetEmployee(ctx, claims.Subject)
	if err != nil {
		if errors.Is(err, persistence.ErrNotFound) {
			err = ErrUnauthorized
		}
		return
	}
	if !employee.Active {
		err = ErrAccountDisabled
		return
	}

	// The stored role wins over the claim so demotions apply immediately.
	principal = Principal{EmployeeID: employee.ID, Role: employee.Role}
	return
}
