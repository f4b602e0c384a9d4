package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"campus_media/internal/common"
	"campus_media/internal/common/security"
	"campus_media/internal/domain/model"
	"campus_media/internal/domain/repository"
	"campus_media/internal/platform/lock"
	"campus_media/internal/platform/metrics"

	"github.com/google/uuid"
)

const defaultLockWait = 5 * time.Second

type AuthService struct {
	principals repository.PrincipalRepository
	hasher     *security.PasswordHasher
	tokens     *security.TokenIssuer
	locker     lock.Locker
	lockWait   time.Duration
	metrics    *metrics.Metrics
}

func NewAuthService(
	principals repository.PrincipalRepository,
	hasher *security.PasswordHasher,
	tokens *security.TokenIssuer,
	locker lock.Locker,
	m *metrics.Metrics,
) *AuthService {
	return &AuthService{
		principals: principals,
		hasher:     hasher,
		tokens:     tokens,
		locker:     locker,
		lockWait:   defaultLockWait,
		metrics:    m,
	}
}

// WithLockWait bounds how long a signup waits for a concurrent signup on the
// same mobile or email to finish.
func (s *AuthService) WithLockWait(d time.Duration) *AuthService {
	if d > 0 {
		s.lockWait = d
	}
	return s
}

type SignupRequest struct {
	Name     string       `json:"name"`
	Mobile   model.Mobile `json:"mobile"`
	Email    string       `json:"email"`
	Password string       `json:"password"`
}

// Validate trims the identifying fields and checks presence. Student mobiles
// must be numeric.
func (r *SignupRequest) Validate(kind model.PrincipalKind) error {
	r.Name = strings.TrimSpace(r.Name)
	r.Email = strings.TrimSpace(r.Email)
	if r.Name == "" || r.Mobile == "" || r.Email == "" || r.Password == "" {
		return fmt.Errorf("name, mobile, email and password are required: %w", common.ErrBadRequest)
	}
	if kind == model.KindStudent {
		if !r.Mobile.IsNumeric() {
			return fmt.Errorf("student mobile must be numeric: %w", common.ErrBadRequest)
		}
		r.Mobile = r.Mobile.Canonical()
	}
	return nil
}

type LoginRequest struct {
	Username string `json:"username"` // mobile or email
	Password string `json:"password"`
}

func (r *LoginRequest) Validate() error {
	r.Username = strings.TrimSpace(r.Username)
	if r.Username == "" || r.Password == "" {
		return fmt.Errorf("username and password are required: %w", common.ErrBadRequest)
	}
	return nil
}

type LoginResponse struct {
	JWTToken string `json:"jwtToken"`
}

// Signup registers a principal of kind unless one already uses the mobile or
// the email. Both identifiers are locked for the duration of the check and
// insert so concurrent signups cannot both pass the duplicate check.
func (s *AuthService) Signup(ctx context.Context, kind model.PrincipalKind, req SignupRequest) (*model.Principal, error) {
	p, err := s.signup(ctx, kind, req)
	s.metrics.ObserveAuth(string(kind), "signup", outcomeOf(err))
	return p, err
}

func (s *AuthService) signup(ctx context.Context, kind model.PrincipalKind, req SignupRequest) (*model.Principal, error) {
	if err := req.Validate(kind); err != nil {
		return nil, err
	}
	mobile := req.Mobile.String()

	lockCtx, cancel := context.WithTimeout(ctx, s.lockWait)
	defer cancel()
	release, err := s.locker.Acquire(lockCtx, lockKey(kind, "mobile", mobile), lockKey(kind, "email", req.Email))
	if err != nil {
		if errors.Is(err, lock.ErrLocked) || lockCtx.Err() != nil {
			return nil, fmt.Errorf("signup for %s mobile or email still in progress: %v: %w", kind, err, common.ErrServiceUnavailable)
		}
		return nil, fmt.Errorf("failed to acquire signup lock: %w", err)
	}
	defer release()

	existing, err := s.principals.FindByMobileOrEmail(ctx, kind, mobile, req.Email)
	if err != nil && !errors.Is(err, common.ErrNotFound) {
		return nil, fmt.Errorf("failed to check existing %s: %w", kind, err)
	}
	if existing != nil {
		return nil, fmt.Errorf("%s mobile or email already exists: %w", kind, common.ErrConflict)
	}

	hashedPassword, err := s.hasher.Hash(req.Password)
	if err != nil {
		if errors.Is(err, security.ErrPasswordTooLong) {
			return nil, fmt.Errorf("%v: %w", err, common.ErrBadRequest)
		}
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	p := &model.Principal{
		ID:             uuid.NewString(),
		Kind:           kind,
		Name:           req.Name,
		Mobile:         mobile,
		Email:          req.Email,
		HashedPassword: hashedPassword,
	}
	if err := s.principals.Create(ctx, p); err != nil {
		return nil, fmt.Errorf("failed to create %s: %w", kind, err)
	}
	p.HashedPassword = "" // Clear password before returning
	return p, nil
}

// Login resolves username against both mobile and email, verifies the
// password and issues a bearer token.
func (s *AuthService) Login(ctx context.Context, kind model.PrincipalKind, req LoginRequest) (*LoginResponse, error) {
	resp, err := s.login(ctx, kind, req)
	s.metrics.ObserveAuth(string(kind), "login", outcomeOf(err))
	return resp, err
}

func (s *AuthService) login(ctx context.Context, kind model.PrincipalKind, req LoginRequest) (*LoginResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	mobile := req.Username
	if kind == model.KindStudent {
		mobile = model.Mobile(mobile).Canonical().String()
	}
	p, err := s.principals.FindByMobileOrEmail(ctx, kind, mobile, req.Username)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to find %s: %w", kind, err)
	}

	if !s.hasher.Verify(req.Password, p.HashedPassword) {
		return nil, common.ErrUnauthorized
	}

	token, err := s.tokens.Issue(p.ID, p.Mobile, p.Email)
	if err != nil {
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}
	return &LoginResponse{JWTToken: token}, nil
}

func lockKey(kind model.PrincipalKind, field, value string) string {
	return string(kind) + ":" + field + ":" + value
}

func outcomeOf(err error) string {
	switch {
	case err == nil:
		return metrics.OutcomeSuccess
	case errors.Is(err, common.ErrConflict), common.IsUniqueViolation(err):
		return metrics.OutcomeConflict
	case errors.Is(err, common.ErrNotFound):
		return metrics.OutcomeNotFound
	case errors.Is(err, common.ErrUnauthorized):
		return metrics.OutcomeBadCreds
	case errors.Is(err, common.ErrBadRequest):
		return metrics.OutcomeInvalid
	case errors.Is(err, common.ErrServiceUnavailable):
		return metrics.OutcomeBusy
	default:
		return metrics.OutcomeError
	}
}
