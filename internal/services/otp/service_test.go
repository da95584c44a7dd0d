// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package otp_test

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"regexp"
	"sync"
	"testing"
	"time"

	"codeberg.org/zblogs/zblogs-api/internal/apperror"
	"codeberg.org/zblogs/zblogs-api/internal/i18n"
	"codeberg.org/zblogs/zblogs-api/internal/models"
	"codeberg.org/zblogs/zblogs-api/internal/repository"
	"codeberg.org/zblogs/zblogs-api/internal/services/auth"
	"codeberg.org/zblogs/zblogs-api/internal/services/email"
	"codeberg.org/zblogs/zblogs-api/internal/services/otp"
	"codeberg.org/zblogs/zblogs-api/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vinovest/sqlx"
	"golang.org/x/crypto/bcrypt"
)

type sentMessage struct {
	msg      email.Message
	priority email.Priority
}

type fakeNotifier struct {
	mu   sync.Mutex
	sent []sentMessage
	err  error
}

func (n *fakeNotifier) Notify(_ context.Context, msg email.Message, p email.Priority) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.sent = append(n.sent, sentMessage{msg: msg, priority: p})
	if p == email.Critical {
		return n.err
	}
	return nil
}

func (n *fakeNotifier) last() sentMessage {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.sent[len(n.sent)-1]
}

func (n *fakeNotifier) count() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.sent)
}

type fixture struct {
	db       *sqlx.DB
	svc      *otp.Service
	repo     *repository.Repository
	store    *repository.OTPStore
	clock    *testutil.Clock
	notifier *fakeNotifier
	ctx      context.Context
}

func fastHash(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	return string(hash), err
}

func newFixture(t *testing.T, opts ...otp.Option) *fixture {
	t.Helper()
	require.NoError(t, i18n.Init())

	db, repo := testutil.NewTestDB(t)
	clock := testutil.NewClock()
	store := repository.NewOTPStore(db, repository.WithOTPClock(clock.Now))
	notifier := &fakeNotifier{}

	opts = append([]otp.Option{otp.WithPasswordHasher(fastHash, auth.CheckPassword)}, opts...)
	return &fixture{
		db:       db,
		svc:      otp.NewService(repo, store, notifier, opts...),
		repo:     repo,
		store:    store,
		clock:    clock,
		notifier: notifier,
		ctx:      context.Background(),
	}
}

func (f *fixture) code(t *testing.T, addr string, purpose models.Purpose) string {
	t.Helper()
	rec, err := f.store.FindLatest(f.ctx, addr, purpose)
	require.NoError(t, err)
	return rec.Code
}

func (f *fixture) count(t *testing.T, addr string, purpose models.Purpose) int {
	t.Helper()
	return testutil.CountOTPs(t, f.db, addr, purpose)
}

func assertAppError(t *testing.T, err error, status int, message string) {
	t.Helper()
	require.Error(t, err)
	appErr := apperror.From(err)
	assert.Equal(t, status, appErr.StatusCode)
	assert.Equal(t, message, appErr.Message)
}

var signup = otp.SignupRequest{Username: "alice", Email: "a@x.com", Password: "secret1"}

func TestGenerateCode(t *testing.T) {
	six := regexp.MustCompile(`^[1-9][0-9]{5}$`)
	for range 200 {
		code, err := otp.GenerateCode()
		require.NoError(t, err)
		assert.Regexp(t, six, code)
	}
}

func TestSendSignupOTP(t *testing.T) {
	f := newFixture(t)

	require.NoError(t, f.svc.SendSignupOTP(f.ctx, signup))

	rec, err := f.store.FindLatest(f.ctx, "a@x.com", models.PurposeSignup)
	require.NoError(t, err)
	assert.Regexp(t, `^[0-9]{6}$`, rec.Code)
	assert.Equal(t, "alice", rec.Payload[models.PayloadUsername])
	assert.NotEqual(t, "secret1", rec.Payload[models.PayloadPasswordHash])
	assert.True(t, auth.CheckPassword(rec.Payload[models.PayloadPasswordHash], "secret1"))

	sent := f.notifier.last()
	assert.Equal(t, email.BestEffort, sent.priority)
	assert.Equal(t, "a@x.com", sent.msg.To)
	assert.Contains(t, sent.msg.Text, rec.Code)

	n, err := f.repo.CountAccounts(f.ctx)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func sequence(codes ...string) otp.Option {
	i := 0
	return otp.WithCodeGenerator(func() (string, error) {
		code := codes[i%len(codes)]
		i++
		return code, nil
	})
}

func TestSendSignupOTP_ReplacesPriorRecord(t *testing.T) {
	f := newFixture(t, sequence("111111", "222222"))

	require.NoError(t, f.svc.SendSignupOTP(f.ctx, signup))
	require.NoError(t, f.svc.SendSignupOTP(f.ctx, signup))

	assert.Equal(t, 1, f.count(t, "a@x.com", models.PurposeSignup))
	assert.Equal(t, "222222", f.code(t, "a@x.com", models.PurposeSignup))

	_, err := f.svc.VerifySignupOTP(f.ctx, "a@x.com", "111111")
	assert.True(t, apperror.Is(err, apperror.InvalidOrExpired))
}

func TestSendSignupOTP_Validation(t *testing.T) {
	f := newFixture(t)
	testutil.NewTestAccount(t, f.repo, "taken", "taken@x.com")

	tests := []struct {
		name    string
		req     otp.SignupRequest
		message string
	}{
		{"missing username", otp.SignupRequest{Email: "a@x.com", Password: "secret1"}, "All fields are required"},
		{"missing email", otp.SignupRequest{Username: "alice", Password: "secret1"}, "All fields are required"},
		{"missing password", otp.SignupRequest{Username: "alice", Email: "a@x.com"}, "All fields are required"},
		{"short password", otp.SignupRequest{Username: "alice", Email: "a@x.com", Password: "abc"}, "Password must be at least 6 characters"},
		{"bad email", otp.SignupRequest{Username: "alice", Email: "nope", Password: "secret1"}, "Invalid email address"},
		{"taken username", otp.SignupRequest{Username: "taken", Email: "a@x.com", Password: "secret1"}, "Username already exists"},
		{"taken email", otp.SignupRequest{Username: "alice", Email: "Taken@x.com", Password: "secret1"}, "Email already exists"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := f.svc.SendSignupOTP(f.ctx, tt.req)
			assertAppError(t, err, http.StatusBadRequest, tt.message)
		})
	}

	assert.Zero(t, f.count(t, "a@x.com", models.PurposeSignup))
	assert.Zero(t, f.notifier.count())
}

func TestSendSignupOTP_EmailFailureTolerated(t *testing.T) {
	require.NoError(t, i18n.Init())
	db, repo := testutil.NewTestDB(t)
	store := repository.NewOTPStore(db)
	notifier := email.NewNotifier(failingMailer{})
	svc := otp.NewService(repo, store, notifier, otp.WithPasswordHasher(fastHash, auth.CheckPassword))
	ctx := context.Background()

	require.NoError(t, svc.SendSignupOTP(ctx, signup))
	notifier.Close()

	rec, err := store.FindLatest(ctx, "a@x.com", models.PurposeSignup)
	require.NoError(t, err)

	acc, err := svc.VerifySignupOTP(ctx, "a@x.com", rec.Code)
	require.NoError(t, err)
	assert.Equal(t, "alice", acc.Username)
}

type failingMailer struct{}

func (failingMailer) Send(context.Context, email.Message) error {
	return errors.New("smtp down")
}

func TestVerifySignupOTP(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.svc.SendSignupOTP(f.ctx, signup))
	code := f.code(t, "a@x.com", models.PurposeSignup)

	f.clock.Advance(299 * time.Second)
	acc, err := f.svc.VerifySignupOTP(f.ctx, " A@x.com", code)
	require.NoError(t, err)

	assert.Equal(t, "alice", acc.Username)
	assert.Equal(t, "a@x.com", acc.Email)
	assert.Equal(t, models.DefaultProfilePicture, acc.ProfilePicture)
	assert.Zero(t, f.count(t, "a@x.com", models.PurposeSignup))

	stored, err := f.repo.GetAccountByUsername(f.ctx, "alice")
	require.NoError(t, err)
	assert.True(t, auth.CheckPassword(stored.PasswordHash, "secret1"))

	welcome := f.notifier.last()
	assert.Equal(t, email.KindWelcome, welcome.msg.Kind)
	assert.Equal(t, email.BestEffort, welcome.priority)
}

func TestVerifySignupOTP_Expired(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.svc.SendSignupOTP(f.ctx, signup))
	code := f.code(t, "a@x.com", models.PurposeSignup)

	f.clock.Advance(300 * time.Second)
	_, err := f.svc.VerifySignupOTP(f.ctx, "a@x.com", code)
	assertAppError(t, err, http.StatusBadRequest, "Invalid or expired OTP")

	n, err := f.repo.CountAccounts(f.ctx)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestVerifySignupOTP_WrongCodeKeepsRecord(t *testing.T) {
	f := newFixture(t, sequence("111111"))
	require.NoError(t, f.svc.SendSignupOTP(f.ctx, signup))

	_, err := f.svc.VerifySignupOTP(f.ctx, "a@x.com", "222222")
	assertAppError(t, err, http.StatusBadRequest, "Invalid or expired OTP")

	assert.Equal(t, 1, f.count(t, "a@x.com", models.PurposeSignup))
	n, err := f.repo.CountAccounts(f.ctx)
	require.NoError(t, err)
	assert.Zero(t, n)

	_, err = f.svc.VerifySignupOTP(f.ctx, "a@x.com", "111111")
	require.NoError(t, err)
}

func TestVerifySignupOTP_OnlyOnce(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.svc.SendSignupOTP(f.ctx, signup))
	code := f.code(t, "a@x.com", models.PurposeSignup)

	_, err := f.svc.VerifySignupOTP(f.ctx, "a@x.com", code)
	require.NoError(t, err)

	_, err = f.svc.VerifySignupOTP(f.ctx, "a@x.com", code)
	assertAppError(t, err, http.StatusBadRequest, "Invalid or expired OTP")

	n, err := f.repo.CountAccounts(f.ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}

func TestVerifySignupOTP_StaleRecordsCannotDuplicate(t *testing.T) {
	f := newFixture(t)

	// Two records for the same email, as left by racing sends.
	for _, code := range []string{"111111", "222222"} {
		require.NoError(t, f.store.Put(f.ctx, &models.OTP{
			Email:   "a@x.com",
			Code:    code,
			Purpose: models.PurposeSignup,
			Payload: models.Payload{models.PayloadUsername: "alice", models.PayloadPasswordHash: "hash"},
		}))
	}

	_, err := f.svc.VerifySignupOTP(f.ctx, "a@x.com", "111111")
	require.NoError(t, err)

	_, err = f.svc.VerifySignupOTP(f.ctx, "a@x.com", "222222")
	assert.True(t, apperror.Is(err, apperror.Conflict))

	n, err := f.repo.CountAccounts(f.ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}

func TestVerifySignupOTP_MissingFields(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.VerifySignupOTP(f.ctx, "a@x.com", "")
	assertAppError(t, err, http.StatusBadRequest, "Email and OTP are required")
}

func TestResendSignupOTP_RestartsWindow(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.svc.SendSignupOTP(f.ctx, signup))

	f.clock.Advance(250 * time.Second)
	require.NoError(t, f.svc.ResendSignupOTP(f.ctx, "a@x.com"))
	code := f.code(t, "a@x.com", models.PurposeSignup)
	assert.Equal(t, email.Critical, f.notifier.last().priority)
	assert.Contains(t, f.notifier.last().msg.Text, code)

	f.clock.Advance(250 * time.Second)
	acc, err := f.svc.VerifySignupOTP(f.ctx, "a@x.com", code)
	require.NoError(t, err)
	assert.Equal(t, "alice", acc.Username)
}

func TestResendSignupOTP_NoPending(t *testing.T) {
	f := newFixture(t)

	err := f.svc.ResendSignupOTP(f.ctx, "a@x.com")
	assertAppError(t, err, http.StatusBadRequest, "No pending verification found. Please sign up again.")
	assert.True(t, apperror.Is(err, apperror.NotFound))

	err = f.svc.ResendSignupOTP(f.ctx, "")
	assertAppError(t, err, http.StatusBadRequest, "Email is required")
}

func TestResendSignupOTP_SendFailureSurfaced(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.svc.SendSignupOTP(f.ctx, signup))
	f.notifier.err = errors.New("smtp down")

	err := f.svc.ResendSignupOTP(f.ctx, "a@x.com")
	assertAppError(t, err, http.StatusInternalServerError, "Failed to resend OTP. Please try again.")
}

func TestSendEmailChangeOTP(t *testing.T) {
	f := newFixture(t)
	acc := testutil.NewTestAccount(t, f.repo, "alice", "a@x.com")

	require.NoError(t, f.svc.SendEmailChangeOTP(f.ctx, acc.ID, "New@x.com"))

	assert.Equal(t, 1, f.count(t, "new@x.com", models.PurposeEmailChange))
	sent := f.notifier.last()
	assert.Equal(t, "new@x.com", sent.msg.To)
	assert.Equal(t, email.KindEmailChangeOTP, sent.msg.Kind)
}

func TestSendEmailChangeOTP_Rejections(t *testing.T) {
	f := newFixture(t)
	acc := testutil.NewTestAccount(t, f.repo, "alice", "a@x.com")
	testutil.NewTestAccount(t, f.repo, "bob", "b@x.com")

	err := f.svc.SendEmailChangeOTP(f.ctx, acc.ID, "")
	assertAppError(t, err, http.StatusBadRequest, "New email is required")

	err = f.svc.SendEmailChangeOTP(f.ctx, acc.ID, "A@X.com")
	assertAppError(t, err, http.StatusBadRequest, "New email is same as current email")

	err = f.svc.SendEmailChangeOTP(f.ctx, acc.ID, "b@x.com")
	assertAppError(t, err, http.StatusBadRequest, "Email is already in use")
	assert.True(t, apperror.Is(err, apperror.Conflict))
	assert.Zero(t, f.count(t, "b@x.com", models.PurposeEmailChange))

	err = f.svc.SendEmailChangeOTP(f.ctx, "missing", "c@x.com")
	assertAppError(t, err, http.StatusNotFound, "User not found")
}

func TestVerifyEmailChangeOTP(t *testing.T) {
	f := newFixture(t)
	acc := testutil.NewTestAccount(t, f.repo, "alice", "a@x.com")
	require.NoError(t, f.svc.SendEmailChangeOTP(f.ctx, acc.ID, "new@x.com"))
	code := f.code(t, "new@x.com", models.PurposeEmailChange)

	_, err := f.svc.VerifyEmailChangeOTP(f.ctx, acc.ID, "new@x.com", "000000")
	assertAppError(t, err, http.StatusBadRequest, "Invalid or expired OTP")

	updated, err := f.svc.VerifyEmailChangeOTP(f.ctx, acc.ID, "new@x.com", code)
	require.NoError(t, err)
	assert.Equal(t, "new@x.com", updated.Email)
	assert.Zero(t, f.count(t, "new@x.com", models.PurposeEmailChange))

	_, err = f.repo.GetAccountByEmail(f.ctx, "a@x.com")
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestVerifyEmailChangeOTP_OtherAccount(t *testing.T) {
	f := newFixture(t)
	alice := testutil.NewTestAccount(t, f.repo, "alice", "a@x.com")
	bob := testutil.NewTestAccount(t, f.repo, "bob", "b@x.com")
	require.NoError(t, f.svc.SendEmailChangeOTP(f.ctx, alice.ID, "new@x.com"))
	code := f.code(t, "new@x.com", models.PurposeEmailChange)

	_, err := f.svc.VerifyEmailChangeOTP(f.ctx, bob.ID, "new@x.com", code)
	assertAppError(t, err, http.StatusBadRequest, "Invalid or expired OTP")
	assert.Equal(t, 1, f.count(t, "new@x.com", models.PurposeEmailChange))
}

func TestVerifyEmailChangeOTP_AddressClaimedMeanwhile(t *testing.T) {
	f := newFixture(t)
	acc := testutil.NewTestAccount(t, f.repo, "alice", "a@x.com")
	require.NoError(t, f.svc.SendEmailChangeOTP(f.ctx, acc.ID, "new@x.com"))
	code := f.code(t, "new@x.com", models.PurposeEmailChange)
	testutil.NewTestAccount(t, f.repo, "carol", "new@x.com")

	_, err := f.svc.VerifyEmailChangeOTP(f.ctx, acc.ID, "new@x.com", code)
	assertAppError(t, err, http.StatusBadRequest, "Email is already in use")
}

func TestVerifyPassword(t *testing.T) {
	f := newFixture(t)
	acc := testutil.NewTestAccount(t, f.repo, "alice", "a@x.com")

	require.NoError(t, f.svc.VerifyPassword(f.ctx, acc.ID, "secret1"))
	assertAppError(t, f.svc.VerifyPassword(f.ctx, acc.ID, "nope"), http.StatusBadRequest, "Invalid password")
	assertAppError(t, f.svc.VerifyPassword(f.ctx, acc.ID, ""), http.StatusBadRequest, "Password is required")
	assertAppError(t, f.svc.VerifyPassword(f.ctx, "missing", "secret1"), http.StatusNotFound, "User not found")
}

func TestSendProfileUpdateOTP(t *testing.T) {
	f := newFixture(t)
	acc := testutil.NewTestAccount(t, f.repo, "alice", "a@x.com")

	err := f.svc.SendProfileUpdateOTP(f.ctx, acc.ID, "a@x.com", models.ProfileUpdates{Username: "alice2"})
	require.NoError(t, err)

	rec, err := f.store.FindLatest(f.ctx, "a@x.com", models.PurposeProfileUpdate)
	require.NoError(t, err)
	assert.Equal(t, "alice2", rec.Payload[models.PayloadUsername])
	assert.Equal(t, acc.ID, rec.Payload[models.PayloadAccountID])
	assert.Equal(t, email.KindProfileUpdateOTP, f.notifier.last().msg.Kind)

	stored, err := f.repo.GetAccountByID(f.ctx, acc.ID)
	require.NoError(t, err)
	assert.Equal(t, "alice", stored.Username)
}

func TestSendProfileUpdateOTP_Rejections(t *testing.T) {
	f := newFixture(t)
	acc := testutil.NewTestAccount(t, f.repo, "alice", "a@x.com")
	testutil.NewTestAccount(t, f.repo, "taken", "taken@x.com")

	tests := []struct {
		name    string
		email   string
		updates models.ProfileUpdates
		message string
	}{
		{"missing email", "", models.ProfileUpdates{Username: "bob"}, "Current email is required"},
		{"wrong email", "other@x.com", models.ProfileUpdates{Username: "bob"}, "Email does not match"},
		{"taken username", "a@x.com", models.ProfileUpdates{Username: "taken"}, "Username already taken"},
		{"taken email", "a@x.com", models.ProfileUpdates{Email: "taken@x.com"}, "Email already in use"},
		{"invalid username", "a@x.com", models.ProfileUpdates{Username: "Bob"}, "Username must be lowercase"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := f.svc.SendProfileUpdateOTP(f.ctx, acc.ID, tt.email, tt.updates)
			assertAppError(t, err, http.StatusBadRequest, tt.message)
		})
	}

	assert.Zero(t, f.count(t, "a@x.com", models.PurposeProfileUpdate))
}

func TestSendProfileUpdateOTP_UnchangedFieldsSkipUniqueness(t *testing.T) {
	f := newFixture(t)
	acc := testutil.NewTestAccount(t, f.repo, "alice", "a@x.com")

	err := f.svc.SendProfileUpdateOTP(f.ctx, acc.ID, "a@x.com", models.ProfileUpdates{Username: "alice", Email: "a@x.com"})
	require.NoError(t, err)
}

func TestVerifyProfileUpdateOTP_AppliesStagedUpdates(t *testing.T) {
	f := newFixture(t)
	acc := testutil.NewTestAccount(t, f.repo, "alice", "a@x.com")
	staged := models.ProfileUpdates{Username: "alice2", ProfilePicture: "https://img.example/a.png"}
	require.NoError(t, f.svc.SendProfileUpdateOTP(f.ctx, acc.ID, "a@x.com", staged))
	code := f.code(t, "a@x.com", models.PurposeProfileUpdate)

	// Request updates are ignored when the code carries its own.
	updated, err := f.svc.VerifyProfileUpdateOTP(f.ctx, acc.ID, "a@x.com", code, models.ProfileUpdates{Username: "mallory"})
	require.NoError(t, err)

	assert.Equal(t, "alice2", updated.Username)
	assert.Equal(t, "https://img.example/a.png", updated.ProfilePicture)
	assert.Equal(t, "a@x.com", updated.Email)
	assert.Zero(t, f.count(t, "a@x.com", models.PurposeProfileUpdate))
}

func TestVerifyProfileUpdateOTP_RequestUpdatesFallback(t *testing.T) {
	f := newFixture(t)
	acc := testutil.NewTestAccount(t, f.repo, "alice", "a@x.com")
	require.NoError(t, f.svc.SendProfileUpdateOTP(f.ctx, acc.ID, "a@x.com", models.ProfileUpdates{}))
	code := f.code(t, "a@x.com", models.PurposeProfileUpdate)

	updated, err := f.svc.VerifyProfileUpdateOTP(f.ctx, acc.ID, "a@x.com", code, models.ProfileUpdates{Email: "New@x.com"})
	require.NoError(t, err)
	assert.Equal(t, "new@x.com", updated.Email)
}

func TestVerifyProfileUpdateOTP_Rejections(t *testing.T) {
	f := newFixture(t)
	acc := testutil.NewTestAccount(t, f.repo, "alice", "a@x.com")
	bob := testutil.NewTestAccount(t, f.repo, "bob", "b@x.com")
	require.NoError(t, f.svc.SendProfileUpdateOTP(f.ctx, acc.ID, "a@x.com", models.ProfileUpdates{Username: "alice2"}))
	code := f.code(t, "a@x.com", models.PurposeProfileUpdate)

	_, err := f.svc.VerifyProfileUpdateOTP(f.ctx, acc.ID, "", code, models.ProfileUpdates{})
	assertAppError(t, err, http.StatusBadRequest, "Email and OTP are required")

	_, err = f.svc.VerifyProfileUpdateOTP(f.ctx, bob.ID, "a@x.com", code, models.ProfileUpdates{})
	assertAppError(t, err, http.StatusBadRequest, "Invalid or expired verification code")

	f.clock.Advance(5 * time.Minute)
	_, err = f.svc.VerifyProfileUpdateOTP(f.ctx, acc.ID, "a@x.com", code, models.ProfileUpdates{})
	assertAppError(t, err, http.StatusBadRequest, "Invalid or expired verification code")
}

func TestService_StorageFailure(t *testing.T) {
	require.NoError(t, i18n.Init())
	db, repo := testutil.NewTestDB(t)
	store := repository.NewOTPStore(db)
	svc := otp.NewService(repo, store, &fakeNotifier{}, otp.WithPasswordHasher(fastHash, auth.CheckPassword))
	require.NoError(t, db.Close())

	err := svc.SendSignupOTP(context.Background(), signup)
	assertAppError(t, err, http.StatusInternalServerError, "Failed to send OTP. Please try again.")
}

func TestService_CodeGeneratorFailure(t *testing.T) {
	f := newFixture(t, otp.WithCodeGenerator(func() (string, error) {
		return "", fmt.Errorf("entropy exhausted")
	}))

	err := f.svc.SendSignupOTP(f.ctx, signup)
	assertAppError(t, err, http.StatusInternalServerError, "Failed to send OTP. Please try again.")
}
