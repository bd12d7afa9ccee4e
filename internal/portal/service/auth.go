package service

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/aussiebroadwan/borrowsmart/internal/portal/domain"
	"github.com/aussiebroadwan/borrowsmart/internal/portal/mail"
	"github.com/aussiebroadwan/borrowsmart/internal/portal/store"
	"github.com/aussiebroadwan/borrowsmart/pkg/cryptox"
	"github.com/aussiebroadwan/borrowsmart/pkg/idx"
	"github.com/aussiebroadwan/borrowsmart/pkg/jwtx"
	"github.com/aussiebroadwan/borrowsmart/pkg/slogx"
)

// Login attempt outcomes reported to the Recorder.
const (
	OutcomeSuccess   = "success"
	OutcomeFailure   = "failure"
	OutcomeChallenge = "challenge"
	OutcomeBlocked   = "blocked"
	OutcomeLocked    = "locked"
	OutcomeInactive  = "inactive"
)

type AuthConfig struct {
	// BaseURL prefixes the links sent by email, e.g. https://borrow.example.edu.
	BaseURL string

	EmailVerificationTTL     time.Duration
	VerificationResendLimit  int
	VerificationResendWindow time.Duration

	ResetRequestLimit  int
	ResetRequestWindow time.Duration
}

func DefaultAuthConfig() AuthConfig {
	return AuthConfig{
		BaseURL:                  "http://localhost:8080",
		EmailVerificationTTL:     24 * time.Hour,
		VerificationResendLimit:  3,
		VerificationResendWindow: 15 * time.Minute,
		ResetRequestLimit:        3,
		ResetRequestWindow:       15 * time.Minute,
	}
}

// AuthService implements the account flows: registration, email
// verification, login with an optional emailed second factor, logout and
// password reset.
type AuthService struct {
	Store      store.Store
	Hasher     Hasher
	Mailer     mail.Mailer
	Links      *jwtx.LinkSigner
	Sessions   *SessionManager
	BruteForce *BruteForceGuard
	TwoFactor  *TwoFactorService
	Tokens     *TokenService
	Audit      *AuditLog
	Recorder   Recorder
	Config     AuthConfig
	Now        func() time.Time

	dummyOnce sync.Once
	dummyHash string

	// background tracks mail deliveries running off the request path.
	background sync.WaitGroup
}

type RegisterInput struct {
	Name            string
	Email           string
	MatricNumber    string
	Department      string
	Password        string
	ConfirmPassword string
	AcceptTerms     bool
}

type LoginInput struct {
	Email    string
	Password string
	Remember bool
}

// LoginResult is the outcome of a successful credential check. Either
// TwoFactorRequired is set and PreAuth carries the pending challenge, or a
// session was started.
type LoginResult struct {
	User domain.User

	TwoFactorRequired bool
	PreAuth           domain.Session
	PreAuthToken      string

	Session       domain.Session
	SessionToken  string
	RememberToken string
	Redirect      string
}

// Register creates a pending student account and emails a verification link.
func (s *AuthService) Register(ctx context.Context, in RegisterInput, client domain.ClientInfo) (domain.User, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = NormalizeEmail(in.Email)
	in.MatricNumber = strings.ToUpper(strings.TrimSpace(in.MatricNumber))
	in.Department = strings.ToUpper(strings.TrimSpace(in.Department))

	if err := validateName(in.Name); err != nil {
		return domain.User{}, err
	}
	if err := validateEmail(in.Email); err != nil {
		return domain.User{}, err
	}
	if err := validateMatric(in.MatricNumber); err != nil {
		return domain.User{}, err
	}
	if err := validateDepartment(in.Department); err != nil {
		return domain.User{}, err
	}
	if !in.AcceptTerms {
		return domain.User{}, invalid("accept_terms", "You must accept the terms and conditions.")
	}
	if in.Password != in.ConfirmPassword {
		return domain.User{}, invalid("confirm_password", "Passwords do not match.")
	}
	if err := validatePassword("password", in.Password); err != nil {
		return domain.User{}, err
	}

	users := s.Store.Users()
	if taken, err := users.EmailExists(ctx, in.Email); err != nil {
		return domain.User{}, err
	} else if taken {
		return domain.User{}, invalid("email", "Email already registered.")
	}
	if taken, err := users.MatricExists(ctx, in.MatricNumber); err != nil {
		return domain.User{}, err
	} else if taken {
		return domain.User{}, invalid("matric_number", "Matric number already registered.")
	}

	hash, err := s.Hasher.Hash(in.Password)
	if err != nil {
		return domain.User{}, fmt.Errorf("hash password: %w", err)
	}

	now := clockNow(s.Now)
	user := domain.User{
		ID:           idx.NewAt(now).String(),
		Name:         in.Name,
		Email:        in.Email,
		MatricNumber: in.MatricNumber,
		Department:   in.Department,
		PasswordHash: hash,
		Role:         domain.RoleStudent,
		Status:       domain.StatusPending,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := users.CreateUser(ctx, user); err != nil {
		if errors.Is(err, store.ErrAlreadyExists) {
			return domain.User{}, invalid("email", "Email or matric number already registered.")
		}
		return domain.User{}, fmt.Errorf("create user: %w", err)
	}

	if err := s.sendVerification(ctx, &user); err != nil {
		// The account exists; the user can ask for another link.
		slogx.FromContext(ctx).Error("failed to send verification email", "user_id", user.ID, "error", err)
	}
	s.Audit.Record(ctx, user.ID, domain.EventRegister, "New student registration: "+user.Email, client)
	return user, nil
}

func (s *AuthService) sendVerification(ctx context.Context, user *domain.User) error {
	now := clockNow(s.Now)
	token, jti, err := s.Links.Sign(user.ID, jwtx.PurposeEmailVerification, user.Email, s.Config.EmailVerificationTTL, now)
	if err != nil {
		return err
	}
	fp := cryptox.FingerprintToken(jti)
	if err := s.Store.Users().SetVerificationToken(ctx, user.ID, fp, now); err != nil {
		return err
	}
	user.VerificationTokenHash = fp
	user.VerificationSentAt = &now

	msg, err := mail.VerificationEmail(user.Email, user.Name, s.link("/verify-email", token), s.Config.EmailVerificationTTL)
	if err != nil {
		return err
	}
	return s.Mailer.Send(ctx, msg)
}

func (s *AuthService) link(path, token string) string {
	return strings.TrimRight(s.Config.BaseURL, "/") + path + "?token=" + url.QueryEscape(token)
}

// VerifyEmail activates the account named by a verification link. Only the
// most recently sent link is accepted.
func (s *AuthService) VerifyEmail(ctx context.Context, token string, client domain.ClientInfo) (domain.User, error) {
	claims, err := s.Links.Verify(token, jwtx.PurposeEmailVerification, clockNow(s.Now))
	if err != nil {
		return domain.User{}, ErrInvalidToken
	}

	user, err := s.Store.Users().GetUserByID(ctx, claims.Subject)
	if errors.Is(err, store.ErrNotFound) {
		return domain.User{}, ErrInvalidToken
	}
	if err != nil {
		return domain.User{}, err
	}
	if !cryptox.EqualTokens(user.VerificationTokenHash, cryptox.FingerprintToken(claims.ID)) || claims.Email != user.Email {
		return domain.User{}, ErrInvalidToken
	}

	now := clockNow(s.Now)
	if err := s.Store.Users().ActivateVerifiedUser(ctx, user.ID, now); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.User{}, ErrInvalidToken
		}
		return domain.User{}, fmt.Errorf("activate user: %w", err)
	}
	user.Status = domain.StatusActive
	user.EmailVerified = true
	user.VerificationTokenHash = ""

	s.Audit.Record(ctx, user.ID, domain.EventEmailVerified, "Email address verified", client)
	return user, nil
}

// ResendVerification sends a fresh verification link to a pending account.
// The caller always reports the same generic answer, so unknown, verified and
// throttled addresses all return nil.
func (s *AuthService) ResendVerification(ctx context.Context, email string, client domain.ClientInfo) error {
	email = NormalizeEmail(email)
	if err := validateEmail(email); err != nil {
		return err
	}

	user, err := s.Store.Users().GetUserByEmail(ctx, email)
	if errors.Is(err, store.ErrNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	if user.EmailVerified || user.Status != domain.StatusPending {
		return nil
	}

	since := clockNow(s.Now).Add(-s.Config.VerificationResendWindow)
	n, err := s.Audit.Count(ctx, user.ID, domain.EventVerificationResent, since)
	if err != nil {
		return err
	}
	if n >= s.Config.VerificationResendLimit {
		slogx.FromContext(ctx).Warn("verification resend throttled", "user_id", user.ID)
		return nil
	}

	if err := s.sendVerification(ctx, &user); err != nil {
		slogx.FromContext(ctx).Error("failed to resend verification email", "user_id", user.ID, "error", err)
		return nil
	}
	s.Audit.Record(ctx, user.ID, domain.EventVerificationResent, "Verification email resent", client)
	return nil
}

func (s *AuthService) dummy() string {
	s.dummyOnce.Do(func() {
		h, err := s.Hasher.Hash("borrowsmart-timing-equaliser")
		if err == nil {
			s.dummyHash = h
		}
	})
	return s.dummyHash
}

// Login checks primary credentials. preauth is the caller's pre-authentication
// session (it may be nil); it is replaced by whatever session the login
// produces.
func (s *AuthService) Login(ctx context.Context, in LoginInput, client domain.ClientInfo, preauth *domain.Session) (LoginResult, error) {
	rec := recorderOr(s.Recorder)
	email := NormalizeEmail(in.Email)
	if email == "" {
		return LoginResult{}, invalid("email", "Email is required.")
	}
	if in.Password == "" {
		return LoginResult{}, invalid("password", "Password is required.")
	}
	if err := validateEmail(email); err != nil {
		return LoginResult{}, err
	}

	blocked, err := s.BruteForce.IsAddressBlocked(ctx, client.SourceAddr)
	if err != nil {
		return LoginResult{}, err
	}
	if blocked {
		rec.LoginAttempt(OutcomeBlocked)
		s.Audit.Record(ctx, "", domain.EventLoginBlocked, "Login attempt from blocked address for "+email, client)
		return LoginResult{}, ErrAddressBlocked
	}

	var user *domain.User
	u, err := s.Store.Users().GetUserByEmail(ctx, email)
	switch {
	case err == nil:
		user = &u
	case errors.Is(err, store.ErrNotFound):
	default:
		return LoginResult{}, err
	}

	subject := s.BruteForce.Subject(user, email)
	locked, err := s.BruteForce.IsAccountLocked(ctx, subject)
	if err != nil {
		return LoginResult{}, err
	}
	if locked {
		rec.LoginAttempt(OutcomeLocked)
		s.Audit.Record(ctx, userID(user), domain.EventLoginBlocked, "Login attempt on locked account "+email, client)
		return LoginResult{}, ErrAccountLocked
	}

	var verifyErr error
	if user == nil {
		_ = s.Hasher.Verify(in.Password, s.dummy())
		verifyErr = ErrInvalidCredentials
	} else {
		verifyErr = s.Hasher.Verify(in.Password, user.PasswordHash)
	}
	if verifyErr != nil {
		rec.LoginAttempt(OutcomeFailure)
		desc := "Invalid password for " + email
		if user == nil {
			desc = "Login attempt for unknown email " + email
		}
		return LoginResult{}, s.failAttempt(ctx, subject, userID(user), domain.EventLoginFailed, desc, client, ErrInvalidCredentials)
	}

	if user.Status == domain.StatusPending || !user.EmailVerified {
		rec.LoginAttempt(OutcomeInactive)
		return LoginResult{}, ErrEmailNotVerified
	}
	if !user.IsActive() {
		rec.LoginAttempt(OutcomeInactive)
		s.Audit.Record(ctx, user.ID, domain.EventLoginFailed, "Login attempt on "+string(user.Status)+" account", client)
		return LoginResult{}, ErrAccountInactive
	}

	if err := s.BruteForce.Reset(ctx, subject); err != nil {
		return LoginResult{}, fmt.Errorf("reset failed logins: %w", err)
	}

	if user.TwoFactorEnabled {
		res, err := s.challenge(ctx, *user, client, preauth, in.Remember)
		if err != nil {
			return LoginResult{}, err
		}
		rec.LoginAttempt(OutcomeChallenge)
		return res, nil
	}

	rec.LoginAttempt(OutcomeSuccess)
	return s.StartSession(ctx, *user, client, preauth, in.Remember, domain.EventLoginSuccess)
}

// failAttempt records a brute-force failure and its audit trail and returns
// the error to report: cause, or ErrAccountLocked once the subject is locked.
func (s *AuthService) failAttempt(ctx context.Context, subject, uid string, kind domain.EventKind, desc string, client domain.ClientInfo, cause error) error {
	out, err := s.BruteForce.RecordFailure(ctx, subject, client.SourceAddr)
	if err != nil {
		return err
	}
	s.Audit.Record(ctx, uid, kind, fmt.Sprintf("%s (attempt %d)", desc, out.Attempts), client)
	if out.NewlyLocked {
		s.Audit.Record(ctx, uid, domain.EventAccountLocked, "Account locked after repeated failures", client)
	}
	if out.AddressBlocked {
		s.Audit.Record(ctx, uid, domain.EventIPBlocked, "Address blocked after repeated failures", client)
	}
	if out.AccountLocked {
		return ErrAccountLocked
	}
	return cause
}

func userID(u *domain.User) string {
	if u == nil {
		return ""
	}
	return u.ID
}

// challenge emails a code and moves the pending user onto a fresh
// pre-authentication session.
func (s *AuthService) challenge(ctx context.Context, user domain.User, client domain.ClientInfo, preauth *domain.Session, remember bool) (LoginResult, error) {
	if err := s.sendCode(ctx, user); err != nil {
		return LoginResult{}, err
	}

	sess, token, err := s.Sessions.Create(ctx, "", client, preauth)
	if err != nil {
		return LoginResult{}, err
	}
	if preauth != nil && preauth.IntendedURL != "" {
		if err := s.Sessions.SetIntendedURL(ctx, &sess, preauth.IntendedURL); err != nil {
			return LoginResult{}, err
		}
	}
	if err := s.Sessions.SetPending(ctx, &sess, user.ID, remember); err != nil {
		return LoginResult{}, fmt.Errorf("store pending challenge: %w", err)
	}

	s.Audit.Record(ctx, user.ID, domain.EventTwoFactorSent, "Two-factor code sent", client)
	return LoginResult{
		User:              user,
		TwoFactorRequired: true,
		PreAuth:           sess,
		PreAuthToken:      token,
		Redirect:          "/verify-2fa",
	}, nil
}

func (s *AuthService) sendCode(ctx context.Context, user domain.User) error {
	code, err := s.TwoFactor.IssueCode(ctx, user.ID)
	if err != nil {
		return fmt.Errorf("issue two-factor code: %w", err)
	}
	msg, err := mail.TwoFactorEmail(user.Email, user.Name, code, s.TwoFactor.Config.CodeTTL)
	if err != nil {
		return err
	}
	if err := s.Mailer.Send(ctx, msg); err != nil {
		return fmt.Errorf("send two-factor code: %w", err)
	}
	return nil
}

// StartSession signs user in on a new session that replaces preauth, issuing
// a remember-me token when asked. The redirect target is the URL stored before
// login, or the role's dashboard.
func (s *AuthService) StartSession(ctx context.Context, user domain.User, client domain.ClientInfo, preauth *domain.Session, remember bool, kind domain.EventKind) (LoginResult, error) {
	intended := ""
	if preauth != nil {
		intended = preauth.IntendedURL
	}

	sess, token, err := s.Sessions.Create(ctx, user.ID, client, preauth)
	if err != nil {
		return LoginResult{}, err
	}

	res := LoginResult{User: user, Session: sess, SessionToken: token, Redirect: user.Role.Dashboard()}
	if LocalPath(intended) {
		res.Redirect = intended
	}

	if remember {
		res.RememberToken, err = s.Tokens.IssueRemember(ctx, user.ID, client)
		if err != nil {
			return LoginResult{}, err
		}
	}

	if err := s.Store.Users().TouchLastLogin(ctx, user.ID, clockNow(s.Now)); err != nil {
		slogx.FromContext(ctx).Warn("failed to update last login", "user_id", user.ID, "error", err)
	}

	desc := "Successful login"
	switch kind {
	case domain.EventLoginSuccess2FA:
		desc = "Successful login with two-factor verification"
	case domain.EventRememberLogin:
		desc = "Signed in with remember-me token"
	}
	s.Audit.Record(ctx, user.ID, kind, desc, client)
	return res, nil
}

// LocalPath reports whether u is a same-origin absolute path that is safe to
// redirect to.
func LocalPath(u string) bool {
	if !strings.HasPrefix(u, "/") || strings.HasPrefix(u, "//") || strings.ContainsAny(u, "\\\r\n") {
		return false
	}
	parsed, err := url.Parse(u)
	return err == nil && parsed.Scheme == "" && parsed.Host == ""
}

// ResumeFromRemember exchanges a remember-me cookie for a new session and a
// rotated token.
func (s *AuthService) ResumeFromRemember(ctx context.Context, token string, client domain.ClientInfo, preauth *domain.Session) (LoginResult, error) {
	user, next, err := s.Tokens.AuthenticateRemember(ctx, token, client)
	if err != nil {
		if errors.Is(err, ErrAuthentication) {
			s.Audit.Record(ctx, user.ID, domain.EventRememberRejected, "Remember-me token rejected", client)
		}
		return LoginResult{}, err
	}

	res, err := s.StartSession(ctx, user, client, preauth, false, domain.EventRememberLogin)
	if err != nil {
		return LoginResult{}, err
	}
	res.RememberToken = next
	return res, nil
}

// CompleteTwoFactor checks the emailed code for the user pending on preauth
// and starts their session.
func (s *AuthService) CompleteTwoFactor(ctx context.Context, preauth *domain.Session, code string, client domain.ClientInfo) (LoginResult, error) {
	rec := recorderOr(s.Recorder)
	if preauth == nil || preauth.PendingUserID == "" {
		return LoginResult{}, ErrNoPendingChallenge
	}
	code = strings.TrimSpace(code)
	if code == "" {
		return LoginResult{}, invalid("code", "Verification code is required.")
	}

	blocked, err := s.BruteForce.IsAddressBlocked(ctx, client.SourceAddr)
	if err != nil {
		return LoginResult{}, err
	}
	if blocked {
		rec.TwoFactorAttempt(OutcomeBlocked)
		return LoginResult{}, ErrAddressBlocked
	}

	user, err := s.Store.Users().GetUserByID(ctx, preauth.PendingUserID)
	if errors.Is(err, store.ErrNotFound) {
		return LoginResult{}, ErrNoPendingChallenge
	}
	if err != nil {
		return LoginResult{}, err
	}

	locked, err := s.BruteForce.IsAccountLocked(ctx, user.ID)
	if err != nil {
		return LoginResult{}, err
	}
	if locked {
		rec.TwoFactorAttempt(OutcomeLocked)
		return LoginResult{}, s.abandonChallenge(ctx, preauth, ErrAccountLocked)
	}

	ok, err := s.TwoFactor.Verify(ctx, user.ID, code)
	if err != nil {
		return LoginResult{}, err
	}
	if !ok {
		rec.TwoFactorAttempt(OutcomeFailure)
		err := s.failAttempt(ctx, user.ID, user.ID, domain.EventLoginFailed2FA, "Invalid two-factor code", client, ErrInvalidCode)
		if errors.Is(err, ErrAccountLocked) {
			return LoginResult{}, s.abandonChallenge(ctx, preauth, err)
		}
		return LoginResult{}, err
	}

	if !user.IsActive() {
		rec.TwoFactorAttempt(OutcomeInactive)
		return LoginResult{}, s.abandonChallenge(ctx, preauth, ErrAccountInactive)
	}
	if err := s.BruteForce.Reset(ctx, user.ID); err != nil {
		return LoginResult{}, fmt.Errorf("reset failed logins: %w", err)
	}

	rec.TwoFactorAttempt(OutcomeSuccess)
	return s.StartSession(ctx, user, client, preauth, preauth.PendingRemember, domain.EventLoginSuccess2FA)
}

func (s *AuthService) abandonChallenge(ctx context.Context, preauth *domain.Session, cause error) error {
	if err := s.Sessions.SetPending(ctx, preauth, "", false); err != nil {
		return err
	}
	return cause
}

// ResendTwoFactor emails a new code to the pending user, subject to the
// resend throttle.
func (s *AuthService) ResendTwoFactor(ctx context.Context, preauth *domain.Session, client domain.ClientInfo) error {
	if preauth == nil || preauth.PendingUserID == "" {
		return ErrNoPendingChallenge
	}
	user, err := s.Store.Users().GetUserByID(ctx, preauth.PendingUserID)
	if errors.Is(err, store.ErrNotFound) {
		return ErrNoPendingChallenge
	}
	if err != nil {
		return err
	}

	allowed, err := s.TwoFactor.ResendAllowed(ctx, user.ID)
	if err != nil {
		return err
	}
	if !allowed {
		return ErrTooManyRequests
	}

	if err := s.sendCode(ctx, user); err != nil {
		return err
	}
	s.Audit.Record(ctx, user.ID, domain.EventResend2FA, "Two-factor code resent", client)
	return nil
}

// Logout ends the session identified by sessionToken. For signed-in users every
// remember-me token is revoked as well. kind is EventUserLogout for a user's
// own request and EventSecurityLogout or EventSessionExpired when a check
// forced it.
func (s *AuthService) Logout(ctx context.Context, uid, sessionToken string, kind domain.EventKind, client domain.ClientInfo) error {
	if err := s.Sessions.Destroy(ctx, sessionToken); err != nil {
		return fmt.Errorf("destroy session: %w", err)
	}
	if uid == "" {
		return nil
	}
	if err := s.Tokens.RevokeAllRemember(ctx, uid); err != nil {
		return fmt.Errorf("revoke remember tokens: %w", err)
	}
	if err := s.Store.Users().TouchLastLogout(ctx, uid, clockNow(s.Now)); err != nil {
		slogx.FromContext(ctx).Warn("failed to update last logout", "user_id", uid, "error", err)
	}

	desc := "User logged out"
	switch kind {
	case domain.EventSecurityLogout:
		desc = "Session ended by a security check"
	case domain.EventSessionExpired:
		desc = "Session expired"
	}
	s.Audit.Record(ctx, uid, kind, desc, client)
	return nil
}

// RequestPasswordReset emails a reset link to an active account. It returns
// nil for unknown, inactive and throttled accounts alike. Every outcome pays
// one password verification and none waits for mail delivery.
func (s *AuthService) RequestPasswordReset(ctx context.Context, email string, client domain.ClientInfo) error {
	email = NormalizeEmail(email)
	if err := validateEmail(email); err != nil {
		return err
	}

	_ = s.Hasher.Verify(email, s.dummy())

	user, err := s.Store.Users().GetUserByEmail(ctx, email)
	if errors.Is(err, store.ErrNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	if !user.IsActive() {
		return nil
	}

	since := clockNow(s.Now).Add(-s.Config.ResetRequestWindow)
	n, err := s.Audit.Count(ctx, user.ID, domain.EventPasswordResetRequest, since)
	if err != nil {
		return err
	}
	if n >= s.Config.ResetRequestLimit {
		slogx.FromContext(ctx).Warn("password reset request throttled", "user_id", user.ID)
		return nil
	}

	token, err := s.Tokens.IssueReset(ctx, user.ID)
	if err != nil {
		return err
	}
	msg, err := mail.PasswordResetEmail(user.Email, user.Name, s.link("/reset-password", token), s.Tokens.Config.ResetTTL)
	if err != nil {
		return err
	}

	s.Audit.Record(ctx, user.ID, domain.EventPasswordResetRequest, "Password reset requested", client)
	s.sendInBackground(ctx, msg, user.ID)
	return nil
}

// sendInBackground delivers msg on its own goroutine. The request context
// keeps its values but not its cancellation.
func (s *AuthService) sendInBackground(ctx context.Context, msg mail.Message, uid string) {
	ctx = context.WithoutCancel(ctx)
	s.background.Add(1)
	go func() {
		defer s.background.Done()
		if err := s.Mailer.Send(ctx, msg); err != nil {
			slogx.FromContext(ctx).Error("failed to send email", "user_id", uid, "subject", msg.Subject, "error", err)
		}
	}()
}

// WaitForMail blocks until background deliveries have finished.
func (s *AuthService) WaitForMail() {
	s.background.Wait()
}

// PeekReset reports whether a reset link is still usable.
func (s *AuthService) PeekReset(ctx context.Context, token string) error {
	_, err := s.Tokens.PeekReset(ctx, token)
	return err
}

// ResetPassword sets a new password through a reset link. Every session and
// remember-me token of the user is revoked.
func (s *AuthService) ResetPassword(ctx context.Context, token, password, confirm string, client domain.ClientInfo) error {
	if token == "" {
		return ErrInvalidToken
	}
	if password != confirm {
		return invalid("confirm_password", "Passwords do not match.")
	}
	if err := validatePassword("password", password); err != nil {
		return err
	}

	hash, err := s.Hasher.Hash(password)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	uid, err := s.Tokens.ConsumeReset(ctx, token, hash)
	if err != nil {
		return err
	}

	if err := s.BruteForce.Reset(ctx, uid); err != nil {
		slogx.FromContext(ctx).Warn("failed to clear failed logins", "user_id", uid, "error", err)
	}
	s.Audit.Record(ctx, uid, domain.EventPasswordReset, "Password reset completed", client)

	user, err := s.Store.Users().GetUserByID(ctx, uid)
	if err != nil {
		slogx.FromContext(ctx).Warn("failed to load user for reset confirmation", "user_id", uid, "error", err)
		return nil
	}
	msg, err := mail.PasswordChangedEmail(user.Email, user.Name)
	if err == nil {
		err = s.Mailer.Send(ctx, msg)
	}
	if err != nil {
		slogx.FromContext(ctx).Error("failed to send password changed email", "user_id", uid, "error", err)
	}
	return nil
}

// SetTwoFactor turns the emailed second factor on or off for the user after
// re-checking their password.
func (s *AuthService) SetTwoFactor(ctx context.Context, uid string, enabled bool, currentPassword string, client domain.ClientInfo) error {
	if currentPassword == "" {
		return invalid("current_password", "Current password is required.")
	}
	user, err := s.Store.Users().GetUserByID(ctx, uid)
	if err != nil {
		return err
	}
	if err := s.Hasher.Verify(currentPassword, user.PasswordHash); err != nil {
		return ErrWrongPassword
	}
	if user.TwoFactorEnabled == enabled {
		return nil
	}
	if err := s.Store.Users().SetTwoFactorEnabled(ctx, uid, enabled, clockNow(s.Now)); err != nil {
		return fmt.Errorf("update two-factor setting: %w", err)
	}

	desc := "Two-factor authentication disabled"
	if enabled {
		desc = "Two-factor authentication enabled"
	}
	s.Audit.Record(ctx, uid, domain.EventTwoFactorChanged, desc, client)
	return nil
}
