package auth

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/Windi-Fikriyansyah/platform_be_freelance/internal/apperr"
	"github.com/Windi-Fikriyansyah/platform_be_freelance/internal/authz"
	"github.com/Windi-Fikriyansyah/platform_be_freelance/internal/models"
	"github.com/Windi-Fikriyansyah/platform_be_freelance/internal/notify"
	"github.com/Windi-Fikriyansyah/platform_be_freelance/internal/stores"
	"github.com/Windi-Fikriyansyah/platform_be_freelance/internal/utils"
)

const (
	otpDigits     = 6
	resetTokenLen = 32
	minPassword   = 6
)

var errBadCredentials = fmt.Errorf("%w: invalid email or password", apperr.ErrUnauthorized)

type Config struct {
	JWTSecret       string
	ExpiresMin      int
	OTPTTL          time.Duration
	ResetTTL        time.Duration
	FrontendBaseURL string
}

type Service struct {
	users    stores.UserStore
	codes    stores.CodeStore
	jobs     stores.JobStore
	bids     stores.BidStore
	notifier notify.Notifier
	cfg      Config
}

func NewService(users stores.UserStore, codes stores.CodeStore, jobs stores.JobStore, bids stores.BidStore, n notify.Notifier, cfg Config) *Service {
	return &Service{users: users, codes: codes, jobs: jobs, bids: bids, notifier: n, cfg: cfg}
}

type RegisterInput struct {
	Name     string `json:"name" form:"name"`
	Email    string `json:"email" form:"email"`
	Password string `json:"password" form:"password"`
	Role     string `json:"role" form:"role"`
	Country  string `json:"country" form:"country"`
	PhotoURL string `json:"-" form:"-"`
}

// Session is what a successful sign-in hands back to the transport.
type Session struct {
	Token string       `json:"token"`
	User  *models.User `json:"user"`
}

func normalizeEmail(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

func checkEmail(errs apperr.FieldErrors, email string) {
	if email == "" {
		errs.Add("email", "Email is required")
	} else if !strings.Contains(email, "@") || strings.HasPrefix(email, "@") || strings.HasSuffix(email, "@") {
		errs.Add("email", "Email format is invalid")
	}
}

func checkPassword(errs apperr.FieldErrors, field, pw string) {
	if pw == "" {
		errs.Add(field, "Password is required")
	} else if len(pw) < minPassword {
		errs.Add(field, fmt.Sprintf("Password must be at least %d characters", minPassword))
	}
}

// Register stores an unverified user and mails a one-time code.
func (s *Service) Register(ctx context.Context, in RegisterInput) (*models.User, error) {
	name := strings.TrimSpace(in.Name)
	email := normalizeEmail(in.Email)
	password := strings.TrimSpace(in.Password)

	errs := apperr.FieldErrors{}
	if name == "" {
		errs.Add("name", "Name is required")
	}
	checkEmail(errs, email)
	checkPassword(errs, "password", password)
	role, ok := models.ParseRole(in.Role)
	if !ok {
		errs.Add("role", "Role must be client or freelancer")
	}
	if err := errs.Err(); err != nil {
		return nil, err
	}

	if err := s.ensureEmailFree(ctx, email); err != nil {
		return nil, err
	}

	hash, err := utils.HashPassword(password)
	if err != nil {
		return nil, err
	}
	u := &models.User{
		Name:     name,
		Email:    email,
		Password: hash,
		Role:     role,
		Country:  strings.TrimSpace(in.Country),
		PhotoURL: in.PhotoURL,
	}
	if err := s.users.Create(ctx, u); err != nil {
		return nil, err
	}

	if err := s.sendOTP(ctx, u, false); err != nil {
		return nil, err
	}
	log.Printf("[auth] registered %s as %s", u.ID, u.Role)
	return u, nil
}

func (s *Service) ensureEmailFree(ctx context.Context, email string) error {
	_, err := s.users.FindByEmail(ctx, email)
	switch {
	case err == nil:
		return apperr.Field("email", "Email already registered")
	case errors.Is(err, apperr.ErrNotFound):
		return nil
	default:
		return err
	}
}

func (s *Service) sendOTP(ctx context.Context, u *models.User, resend bool) error {
	code, err := utils.NumericCode(otpDigits)
	if err != nil {
		return err
	}
	if err := s.codes.SaveOTP(ctx, u.Email, code, s.cfg.OTPTTL); err != nil {
		return err
	}
	s.notifier.Notify(notify.OTPMail(u, code, s.cfg.OTPTTL, resend))
	return nil
}

// ResendOTP replaces any outstanding code.
func (s *Service) ResendOTP(ctx context.Context, email string) error {
	email = normalizeEmail(email)
	if email == "" {
		return apperr.Field("email", "Email is required")
	}
	u, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		return err
	}
	if u.IsVerified {
		return apperr.InvalidState("account is already verified")
	}
	return s.sendOTP(ctx, u, true)
}

func (s *Service) ValidateOTP(ctx context.Context, email, otp string) error {
	email = normalizeEmail(email)
	otp = strings.TrimSpace(otp)

	errs := apperr.FieldErrors{}
	if email == "" {
		errs.Add("email", "Email is required")
	}
	if otp == "" {
		errs.Add("otp", "OTP is required")
	}
	if err := errs.Err(); err != nil {
		return err
	}

	u, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		return err
	}

	want, err := s.codes.OTP(ctx, email)
	if errors.Is(err, apperr.ErrNotFound) {
		return apperr.Field("otp", "OTP has expired. Please request a new one.")
	}
	if err != nil {
		return err
	}
	if subtle.ConstantTimeCompare([]byte(want), []byte(otp)) != 1 {
		return apperr.Field("otp", "Invalid OTP")
	}

	if err := s.users.MarkVerified(ctx, u.ID); err != nil {
		return err
	}
	if err := s.codes.ClearOTP(ctx, email); err != nil {
		log.Printf("[auth] clear otp for %s: %v", u.ID, err)
	}
	s.notifier.Notify(notify.VerifiedMail(u))
	return nil
}

func (s *Service) Login(ctx context.Context, email, password string) (*Session, error) {
	email = normalizeEmail(email)
	password = strings.TrimSpace(password)

	errs := apperr.FieldErrors{}
	if email == "" {
		errs.Add("email", "Email is required")
	}
	if password == "" {
		errs.Add("password", "Password is required")
	}
	if err := errs.Err(); err != nil {
		return nil, err
	}

	u, err := s.users.FindByEmail(ctx, email)
	if errors.Is(err, apperr.ErrNotFound) {
		return nil, errBadCredentials
	}
	if err != nil {
		return nil, err
	}
	if !utils.CheckPassword(u.Password, password) {
		return nil, errBadCredentials
	}
	if !u.IsVerified {
		return nil, apperr.ErrUnverified
	}
	return s.session(u)
}

func (s *Service) session(u *models.User) (*Session, error) {
	token, err := utils.SignJWT(s.cfg.JWTSecret, u.ID.String(), string(u.Role), s.cfg.ExpiresMin)
	if err != nil {
		return nil, err
	}
	return &Session{Token: token, User: u}, nil
}

// ForgotPassword mails a single-use reset link.
func (s *Service) ForgotPassword(ctx context.Context, email string) error {
	email = normalizeEmail(email)
	if email == "" {
		return apperr.Field("email", "Email is required")
	}
	u, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		return err
	}

	token, err := utils.RandomToken(resetTokenLen)
	if err != nil {
		return err
	}
	if err := s.codes.SaveResetToken(ctx, token, u.ID, s.cfg.ResetTTL); err != nil {
		return err
	}
	link := s.cfg.FrontendBaseURL + "/reset-password/" + token
	s.notifier.Notify(notify.PasswordResetMail(u, link, s.cfg.ResetTTL))
	return nil
}

func (s *Service) ResetPassword(ctx context.Context, token, password, confirm string) error {
	password = strings.TrimSpace(password)

	errs := apperr.FieldErrors{}
	if strings.TrimSpace(token) == "" {
		errs.Add("token", "Reset token is required")
	}
	checkPassword(errs, "password", password)
	if password != strings.TrimSpace(confirm) {
		errs.Add("confirm_password", "Passwords do not match")
	}
	if err := errs.Err(); err != nil {
		return err
	}

	userID, err := s.codes.ConsumeResetToken(ctx, token)
	if errors.Is(err, apperr.ErrNotFound) {
		return apperr.Field("token", "Reset link is invalid or has expired")
	}
	if err != nil {
		return err
	}

	hash, err := utils.HashPassword(password)
	if err != nil {
		return err
	}
	return s.users.UpdatePassword(ctx, userID, hash)
}

func (s *Service) UpdatePassword(ctx context.Context, caller authz.Identity, current, next string) error {
	if err := authz.RequireRole(caller); err != nil {
		return err
	}

	errs := apperr.FieldErrors{}
	if strings.TrimSpace(current) == "" {
		errs.Add("current_password", "Current password is required")
	}
	checkPassword(errs, "new_password", strings.TrimSpace(next))
	if err := errs.Err(); err != nil {
		return err
	}

	u, err := s.users.FindByID(ctx, caller.UserID)
	if err != nil {
		return err
	}
	if !utils.CheckPassword(u.Password, strings.TrimSpace(current)) {
		return apperr.Field("current_password", "Current password is incorrect")
	}

	hash, err := utils.HashPassword(strings.TrimSpace(next))
	if err != nil {
		return err
	}
	return s.users.UpdatePassword(ctx, u.ID, hash)
}

// ProfileInput fields left nil are not changed.
type ProfileInput struct {
	Name     *string `json:"name" form:"name"`
	Email    *string `json:"email" form:"email"`
	Country  *string `json:"country" form:"country"`
	PhotoURL *string `json:"-" form:"-"`
}

func (s *Service) UpdateProfile(ctx context.Context, caller authz.Identity, in ProfileInput) (*models.User, error) {
	if err := authz.RequireRole(caller); err != nil {
		return nil, err
	}
	u, err := s.users.FindByID(ctx, caller.UserID)
	if err != nil {
		return nil, err
	}

	errs := apperr.FieldErrors{}
	if in.Name != nil {
		u.Name = strings.TrimSpace(*in.Name)
		if u.Name == "" {
			errs.Add("name", "Name is required")
		}
	}
	if in.Country != nil {
		u.Country = strings.TrimSpace(*in.Country)
	}
	if in.PhotoURL != nil {
		u.PhotoURL = *in.PhotoURL
	}
	emailChanged := false
	if in.Email != nil {
		email := normalizeEmail(*in.Email)
		checkEmail(errs, email)
		emailChanged = email != u.Email
		u.Email = email
	}
	if err := errs.Err(); err != nil {
		return nil, err
	}

	if emailChanged {
		if err := s.ensureEmailFree(ctx, u.Email); err != nil {
			return nil, err
		}
	}
	if err := s.users.Save(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

func (s *Service) Me(ctx context.Context, caller authz.Identity) (*models.User, error) {
	if err := authz.RequireRole(caller); err != nil {
		return nil, err
	}
	return s.users.FindByID(ctx, caller.UserID)
}

type Dashboard struct {
	User *models.User `json:"user"`
	Jobs []models.Job `json:"jobs,omitempty"`
	Bids []models.Bid `json:"bids"`
}

// Dashboard shows a client their jobs and the bids received on them, and a
// freelancer the bids they placed.
func (s *Service) Dashboard(ctx context.Context, caller authz.Identity) (*Dashboard, error) {
	u, err := s.Me(ctx, caller)
	if err != nil {
		return nil, err
	}

	d := &Dashboard{User: u}
	switch u.Role {
	case models.RoleClient:
		if d.Jobs, err = s.jobs.ListByClient(ctx, u.ID); err != nil {
			return nil, err
		}
		if d.Bids, err = s.bids.ListForClient(ctx, u.ID); err != nil {
			return nil, err
		}
	case models.RoleFreelancer:
		if d.Bids, err = s.bids.ListByFreelancer(ctx, u.ID); err != nil {
			return nil, err
		}
	}
	return d, nil
}

type GoogleProfile struct {
	Email   string
	Name    string
	Picture string
}

// GoogleSignIn finds the account by email or creates a verified one with the
// requested role and an unusable random password.
func (s *Service) GoogleSignIn(ctx context.Context, p GoogleProfile, role string) (*Session, error) {
	email := normalizeEmail(p.Email)
	if email == "" {
		return nil, apperr.Field("email", "Email not found from Google")
	}
	name := strings.TrimSpace(p.Name)

	u, err := s.users.FindByEmail(ctx, email)
	switch {
	case err == nil:
		changed := false
		if !u.IsVerified {
			// Google has verified the address
			if err := s.users.MarkVerified(ctx, u.ID); err != nil {
				return nil, err
			}
			u.IsVerified = true
		}
		if name != "" && u.Name == "" {
			u.Name, changed = name, true
		}
		if p.Picture != "" && u.PhotoURL == "" {
			u.PhotoURL, changed = p.Picture, true
		}
		if changed {
			if err := s.users.Save(ctx, u); err != nil {
				return nil, err
			}
		}
	case errors.Is(err, apperr.ErrNotFound):
		r, ok := models.ParseRole(role)
		if !ok {
			r = models.RoleClient
		}
		raw, err := utils.RandomToken(24)
		if err != nil {
			return nil, err
		}
		hash, err := utils.HashPassword(raw)
		if err != nil {
			return nil, err
		}
		if name == "" {
			name, _, _ = strings.Cut(email, "@")
		}
		u = &models.User{
			Name:       name,
			Email:      email,
			Password:   hash,
			Role:       r,
			PhotoURL:   p.Picture,
			IsVerified: true,
		}
		if err := s.users.Create(ctx, u); err != nil {
			return nil, err
		}
		log.Printf("[auth] created %s via Google as %s", u.ID, u.Role)
	default:
		return nil, err
	}

	return s.session(u)
}
