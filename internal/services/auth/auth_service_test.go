package auth

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/Windi-Fikriyansyah/platform_be_freelance/internal/apperr"
	"github.com/Windi-Fikriyansyah/platform_be_freelance/internal/authz"
	"github.com/Windi-Fikriyansyah/platform_be_freelance/internal/mocks"
	"github.com/Windi-Fikriyansyah/platform_be_freelance/internal/models"
	"github.com/Windi-Fikriyansyah/platform_be_freelance/internal/stores"
	"github.com/Windi-Fikriyansyah/platform_be_freelance/internal/utils"
)

const secret = "test-secret"

type fixture struct {
	svc      *Service
	users    *mocks.UserStore
	jobs     *mocks.JobStore
	bids     *mocks.BidStore
	codes    *stores.RedisCodeStore
	mr       *miniredis.Miniredis
	notifier *mocks.Notifier
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	f := &fixture{
		users:    new(mocks.UserStore),
		jobs:     new(mocks.JobStore),
		bids:     new(mocks.BidStore),
		codes:    &stores.RedisCodeStore{RDB: rdb},
		mr:       mr,
		notifier: &mocks.Notifier{},
	}
	f.svc = NewService(f.users, f.codes, f.jobs, f.bids, f.notifier, Config{
		JWTSecret:       secret,
		ExpiresMin:      60,
		OTPTTL:          5 * time.Minute,
		ResetTTL:        time.Hour,
		FrontendBaseURL: "http://localhost:3000",
	})
	return f
}

func hashed(t *testing.T, pw string) string {
	t.Helper()
	h, err := utils.HashPassword(pw)
	require.NoError(t, err)
	return h
}

func TestRegisterStoresUnverifiedUserAndSendsOTP(t *testing.T) {
	f := newFixture(t)
	f.users.On("FindByEmail", mock.Anything, "ana@example.com").Return(nil, apperr.NotFound("user"))
	f.users.On("Create", mock.Anything, mock.AnythingOfType("*models.User")).
		Run(func(args mock.Arguments) { args.Get(1).(*models.User).ID = uuid.New() }).
		Return(nil)

	u, err := f.svc.Register(context.Background(), RegisterInput{
		Name: "Ana", Email: " Ana@Example.com ", Password: "secret1", Role: "Freelancer",
	})
	require.NoError(t, err)
	assert.Equal(t, "ana@example.com", u.Email)
	assert.Equal(t, models.RoleFreelancer, u.Role)
	assert.False(t, u.IsVerified)
	assert.True(t, utils.CheckPassword(u.Password, "secret1"))

	code, err := f.codes.OTP(context.Background(), "ana@example.com")
	require.NoError(t, err)
	assert.Len(t, code, 6)
	assert.Equal(t, 5*time.Minute, f.mr.TTL("otp:ana@example.com"))

	sent := f.notifier.All()
	require.Len(t, sent, 1)
	assert.Equal(t, models.NotifyOTP, sent[0].Kind)
	assert.Contains(t, sent[0].Body, code)
}

func TestRegisterValidation(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.Register(context.Background(), RegisterInput{Email: "nope", Password: "123", Role: "admin"})
	var verr *apperr.ValidationError
	require.ErrorAs(t, err, &verr)
	for _, field := range []string{"name", "email", "password", "role"} {
		assert.Contains(t, verr.Fields, field)
	}
	f.users.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	f := newFixture(t)
	f.users.On("FindByEmail", mock.Anything, "ana@example.com").Return(&models.User{}, nil)

	_, err := f.svc.Register(context.Background(), RegisterInput{
		Name: "Ana", Email: "ana@example.com", Password: "secret1", Role: "client",
	})
	var verr *apperr.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, []string{"Email already registered"}, verr.Fields["email"])
}

func TestValidateOTP(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	u := &models.User{ID: uuid.New(), Email: "ana@example.com"}
	f.users.On("FindByEmail", mock.Anything, u.Email).Return(u, nil)
	f.users.On("MarkVerified", mock.Anything, u.ID).Return(nil).Once()
	require.NoError(t, f.codes.SaveOTP(ctx, u.Email, "123456", time.Minute))

	err := f.svc.ValidateOTP(ctx, u.Email, "000000")
	require.True(t, errors.Is(err, apperr.ErrValidation))
	assert.Equal(t, "validation error: otp: Invalid OTP", err.Error())

	require.NoError(t, f.svc.ValidateOTP(ctx, u.Email, "123456"))
	f.users.AssertExpectations(t)
	assert.False(t, f.mr.Exists("otp:ana@example.com"))
	assert.Equal(t, []models.NotificationKind{models.NotifyVerified}, f.notifier.Kinds())
}

func TestValidateExpiredOTP(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	u := &models.User{ID: uuid.New(), Email: "ana@example.com"}
	f.users.On("FindByEmail", mock.Anything, u.Email).Return(u, nil)
	require.NoError(t, f.codes.SaveOTP(ctx, u.Email, "123456", 5*time.Minute))
	f.mr.FastForward(6 * time.Minute)

	err := f.svc.ValidateOTP(ctx, u.Email, "123456")
	var verr *apperr.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Fields["otp"][0], "expired")
	f.users.AssertNotCalled(t, "MarkVerified", mock.Anything, mock.Anything)
}

func TestResendOTPReplacesCode(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	u := &models.User{ID: uuid.New(), Email: "ana@example.com"}
	f.users.On("FindByEmail", mock.Anything, u.Email).Return(u, nil)
	require.NoError(t, f.codes.SaveOTP(ctx, u.Email, "old-code", time.Minute))

	require.NoError(t, f.svc.ResendOTP(ctx, u.Email))
	code, err := f.codes.OTP(ctx, u.Email)
	require.NoError(t, err)
	assert.NotEqual(t, "old-code", code)
	assert.Equal(t, "Resend OTP", f.notifier.All()[0].Subject)

	f.users.On("FindByEmail", mock.Anything, "ghost@example.com").Return(nil, apperr.NotFound("user"))
	assert.True(t, errors.Is(f.svc.ResendOTP(ctx, "ghost@example.com"), apperr.ErrNotFound))
}

func TestLogin(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	u := &models.User{ID: uuid.New(), Email: "ana@example.com", Role: models.RoleClient, Password: hashed(t, "secret1"), IsVerified: true}
	f.users.On("FindByEmail", mock.Anything, u.Email).Return(u, nil)
	f.users.On("FindByEmail", mock.Anything, "ghost@example.com").Return(nil, apperr.NotFound("user"))

	sess, err := f.svc.Login(ctx, "ANA@example.com", "secret1")
	require.NoError(t, err)
	claims, err := utils.ParseJWT(secret, sess.Token)
	require.NoError(t, err)
	assert.Equal(t, u.ID.String(), claims.UserID)
	assert.Equal(t, "client", claims.Role)

	_, err = f.svc.Login(ctx, u.Email, "wrong-pass")
	assert.True(t, errors.Is(err, apperr.ErrUnauthorized))

	_, err = f.svc.Login(ctx, "ghost@example.com", "secret1")
	assert.True(t, errors.Is(err, apperr.ErrUnauthorized))
}

func TestLoginUnverified(t *testing.T) {
	f := newFixture(t)
	u := &models.User{ID: uuid.New(), Email: "ana@example.com", Password: hashed(t, "secret1")}
	f.users.On("FindByEmail", mock.Anything, u.Email).Return(u, nil)

	_, err := f.svc.Login(context.Background(), u.Email, "secret1")
	assert.ErrorIs(t, err, apperr.ErrUnverified)
}

func TestForgotAndResetPassword(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	u := &models.User{ID: uuid.New(), Name: "Ana", Email: "ana@example.com"}
	f.users.On("FindByEmail", mock.Anything, u.Email).Return(u, nil)
	f.users.On("UpdatePassword", mock.Anything, u.ID, mock.MatchedBy(func(h string) bool {
		return utils.CheckPassword(h, "brand-new")
	})).Return(nil).Once()

	require.NoError(t, f.svc.ForgotPassword(ctx, u.Email))

	sent := f.notifier.All()
	require.Len(t, sent, 1)
	assert.Equal(t, models.NotifyPasswordReset, sent[0].Kind)
	i := strings.Index(sent[0].Body, "/reset-password/")
	require.Greater(t, i, 0)
	token := sent[0].Body[i+len("/reset-password/"):]
	token = token[:strings.Index(token, "\"")]

	err := f.svc.ResetPassword(ctx, token, "brand-new", "different")
	assert.True(t, errors.Is(err, apperr.ErrValidation))

	require.NoError(t, f.svc.ResetPassword(ctx, token, "brand-new", "brand-new"))

	// single use
	err = f.svc.ResetPassword(ctx, token, "brand-new", "brand-new")
	var verr *apperr.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Fields, "token")
	f.users.AssertExpectations(t)
}

func TestUpdatePassword(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	caller := authz.Identity{UserID: uuid.New(), Role: models.RoleFreelancer}
	f.users.On("FindByID", mock.Anything, caller.UserID).
		Return(&models.User{ID: caller.UserID, Password: hashed(t, "secret1")}, nil)
	f.users.On("UpdatePassword", mock.Anything, caller.UserID, mock.Anything).Return(nil).Once()

	err := f.svc.UpdatePassword(ctx, caller, "nope-nope", "another1")
	var verr *apperr.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Fields, "current_password")

	require.NoError(t, f.svc.UpdatePassword(ctx, caller, "secret1", "another1"))
	f.users.AssertExpectations(t)
}

func TestUpdateProfileEmailMustStayUnique(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	caller := authz.Identity{UserID: uuid.New(), Role: models.RoleClient}
	f.users.On("FindByID", mock.Anything, caller.UserID).
		Return(&models.User{ID: caller.UserID, Name: "Ana", Email: "ana@example.com"}, nil)
	f.users.On("FindByEmail", mock.Anything, "taken@example.com").Return(&models.User{}, nil)
	f.users.On("Save", mock.Anything, mock.AnythingOfType("*models.User")).Return(nil)

	taken := "taken@example.com"
	_, err := f.svc.UpdateProfile(ctx, caller, ProfileInput{Email: &taken})
	assert.True(t, errors.Is(err, apperr.ErrValidation))
	f.users.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)

	country := " Indonesia "
	u, err := f.svc.UpdateProfile(ctx, caller, ProfileInput{Country: &country})
	require.NoError(t, err)
	assert.Equal(t, "Indonesia", u.Country)
	assert.Equal(t, "ana@example.com", u.Email)
}

func TestDashboardByRole(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	client := authz.Identity{UserID: uuid.New(), Role: models.RoleClient}
	fl := authz.Identity{UserID: uuid.New(), Role: models.RoleFreelancer}
	f.users.On("FindByID", mock.Anything, client.UserID).Return(&models.User{ID: client.UserID, Role: models.RoleClient}, nil)
	f.users.On("FindByID", mock.Anything, fl.UserID).Return(&models.User{ID: fl.UserID, Role: models.RoleFreelancer}, nil)
	f.jobs.On("ListByClient", mock.Anything, client.UserID).Return([]models.Job{{}}, nil)
	f.bids.On("ListForClient", mock.Anything, client.UserID).Return([]models.Bid{{}, {}}, nil)
	f.bids.On("ListByFreelancer", mock.Anything, fl.UserID).Return([]models.Bid{{}}, nil)

	d, err := f.svc.Dashboard(ctx, client)
	require.NoError(t, err)
	assert.Len(t, d.Jobs, 1)
	assert.Len(t, d.Bids, 2)

	d, err = f.svc.Dashboard(ctx, fl)
	require.NoError(t, err)
	assert.Nil(t, d.Jobs)
	assert.Len(t, d.Bids, 1)
}

func TestGoogleSignInCreatesVerifiedUser(t *testing.T) {
	f := newFixture(t)
	f.users.On("FindByEmail", mock.Anything, "g@example.com").Return(nil, apperr.NotFound("user"))
	f.users.On("Create", mock.Anything, mock.MatchedBy(func(u *models.User) bool {
		return u.IsVerified && u.Role == models.RoleFreelancer && u.PhotoURL == "http://pic"
	})).Run(func(args mock.Arguments) { args.Get(1).(*models.User).ID = uuid.New() }).Return(nil)

	sess, err := f.svc.GoogleSignIn(context.Background(),
		GoogleProfile{Email: "G@example.com", Name: "Gee", Picture: "http://pic"}, "freelancer")
	require.NoError(t, err)
	assert.NotEmpty(t, sess.Token)
	assert.Equal(t, "Gee", sess.User.Name)
	f.users.AssertExpectations(t)
}

func TestGoogleSignInExistingUnverified(t *testing.T) {
	f := newFixture(t)
	u := &models.User{ID: uuid.New(), Name: "Ana", Email: "ana@example.com", Role: models.RoleClient}
	f.users.On("FindByEmail", mock.Anything, u.Email).Return(u, nil)
	f.users.On("MarkVerified", mock.Anything, u.ID).Return(nil)

	sess, err := f.svc.GoogleSignIn(context.Background(), GoogleProfile{Email: u.Email}, "freelancer")
	require.NoError(t, err)
	assert.True(t, sess.User.IsVerified)
	// role is fixed at creation
	assert.Equal(t, models.RoleClient, sess.User.Role)
	f.users.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}
