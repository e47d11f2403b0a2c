package seller

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"com.martdev.sellerhub/internal/auth"
	"com.martdev.sellerhub/internal/auth/password"
	"com.martdev.sellerhub/internal/crypto"
	dbseller "com.martdev.sellerhub/internal/database/seller"
	"com.martdev.sellerhub/internal/mail"
	"com.martdev.sellerhub/internal/util"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// User-facing failures of the signup/signin lifecycle. Handlers switch
// on these to pick a status code; the messages are safe to surface.
var (
	ErrMissingFields          = errors.New("please provide values for all required fields: first name, last name, email, and password")
	ErrMissingCredentials     = errors.New("please provide your email and password")
	ErrMissingOTP             = errors.New("please enter the verification code sent to your email to complete the activation process")
	ErrMissingActivationToken = errors.New("your activation link is missing or invalid, please request a new activation email")
	ErrEmailTaken             = errors.New("email is already taken, please use a different email address")
	ErrActivationInvalid      = errors.New("your activation link has expired or is invalid, please request a new activation email")
	ErrOTPMismatch            = errors.New("the OTP you entered is incorrect, please double-check the OTP and try again")
	ErrInvalidCredentials     = errors.New("incorrect email or password, please check your credentials and try again")
	ErrNotLoggedIn            = errors.New("please login to access this resource")
	ErrRefreshInvalid         = errors.New("your refresh token is invalid or has expired, please log in again to obtain a new token")
	ErrSessionNotFound        = errors.New("user session not found, please log in again to restore your session")
	ErrEmailSend              = errors.New("there was an error sending the email, please try again later")
)

type SellerStorer interface {
	CreateSeller(ctx context.Context, seller *dbseller.Seller) error
	GetSellerByEmail(ctx context.Context, email string) (*dbseller.Seller, error)
	GetSellerByEmailWithPassword(ctx context.Context, email string) (*dbseller.Seller, error)
	GetSellerByID(ctx context.Context, sellerID string) (*dbseller.Seller, error)
}

// SessionCache holds denormalized seller snapshots; it is never the
// canonical record (the persistent store is).
type SessionCache interface {
	Get(ctx context.Context, sellerID string) (*dbseller.Seller, error)
	Set(ctx context.Context, snapshot *dbseller.Seller) error
	SetIfAbsent(ctx context.Context, snapshot *dbseller.Seller) error
	Delete(ctx context.Context, sellerID string) error
}

type SignupRequest struct {
	Fname    string `json:"fname" validate:"required,max=100"`
	Lname    string `json:"lname" validate:"required,max=100"`
	Email    string `json:"email" validate:"required,email,max=255"`
	Password string `json:"password" validate:"required,min=8,max=72"`
}

type ActivationRequest struct {
	ActivationToken string `json:"activationToken" validate:"required"`
	OTP             string `json:"otp" validate:"required"`
}

type SigninRequest struct {
	Email    string `json:"email" validate:"required,email,max=255"`
	Password string `json:"password" validate:"required,max=72"`
}

// AuthSession is the result of a successful signin or refresh: the
// seller snapshot (password already stripped) plus both bearer tokens.
// The handler turns the tokens into cookies.
type AuthSession struct {
	Seller       *dbseller.Seller
	AccessToken  string
	RefreshToken string
}

type SellerService interface {
	Signup(ctx context.Context, req SignupRequest) (string, error)
	Activate(ctx context.Context, req ActivationRequest) (*dbseller.Seller, error)
	Signin(ctx context.Context, req SigninRequest) (*AuthSession, error)
	Logout(ctx context.Context, sellerID string) error
	RefreshSession(ctx context.Context, refreshToken string) (*AuthSession, error)
	Profile(ctx context.Context, sellerID string) (*dbseller.Seller, error)
	Authenticate(ctx context.Context, accessToken string) (*dbseller.Seller, error)
}

type AuthService struct {
	store        SellerStorer
	sessions     SessionCache
	tokens       auth.Authenticator
	codes        auth.ActivationIssuer
	mailer       mail.Mailer
	logger       *zap.SugaredLogger
	cryptoSecret string
}

func NewAuthService(store SellerStorer, sessions SessionCache, tokens auth.Authenticator, codes auth.ActivationIssuer, mailer mail.Mailer, logger *zap.SugaredLogger, cryptoSecret string) *AuthService {
	return &AuthService{
		store:        store,
		sessions:     sessions,
		tokens:       tokens,
		codes:        codes,
		mailer:       mailer,
		logger:       logger,
		cryptoSecret: cryptoSecret,
	}
}

// Signup starts a registration. Nothing is persisted: the returned
// activation token carries the whole pending signup, and the registrant
// must submit it back verbatim together with the emailed OTP.
func (s *AuthService) Signup(ctx context.Context, req SignupRequest) (string, error) {
	if req.Fname == "" || req.Lname == "" || req.Email == "" || req.Password == "" {
		return "", ErrMissingFields
	}

	email := strings.ToLower(req.Email)

	_, err := s.store.GetSellerByEmail(ctx, email)
	switch {
	case err == nil:
		// Uniform user-facing message; the storage layer enforces the
		// same invariant with its own duplicate-key error.
		return "", ErrEmailTaken
	case !errors.Is(err, util.ErrorNotFound):
		return "", err
	}

	encryptedPassword, err := crypto.Encrypt(req.Password, s.cryptoSecret)
	if err != nil {
		return "", err
	}

	pending := auth.PendingSeller{
		Fname:    req.Fname,
		Lname:    req.Lname,
		Email:    email,
		Password: encryptedPassword,
	}

	token, code, err := s.codes.Issue(pending)
	if err != nil {
		return "", err
	}

	if err := s.mailer.SendVerificationCode(ctx, email, capitalize(req.Fname), code); err != nil {
		s.logger.Errorw("verification email failed", "email", email, "error", err)
		return "", ErrEmailSend
	}

	return token, nil
}

// Activate completes a registration: it proves control of the email by
// comparing the submitted OTP against the one sealed inside the
// activation token, then creates the seller record.
func (s *AuthService) Activate(ctx context.Context, req ActivationRequest) (*dbseller.Seller, error) {
	if req.OTP == "" {
		return nil, ErrMissingOTP
	}
	if req.ActivationToken == "" {
		return nil, ErrMissingActivationToken
	}

	state, err := s.tokens.VerifyActivationToken(req.ActivationToken)
	if err != nil {
		return nil, ErrActivationInvalid
	}

	var expectedOTP int64
	if err := crypto.Decrypt(state.EncryptedOTP, s.cryptoSecret, &expectedOTP); err != nil {
		return nil, ErrActivationInvalid
	}

	submittedOTP, err := strconv.ParseInt(strings.TrimSpace(req.OTP), 10, 64)
	if err != nil || submittedOTP != expectedOTP {
		return nil, ErrOTPMismatch
	}

	pending := state.Payload

	// A second registrant with the same email may have activated first.
	_, err = s.store.GetSellerByEmail(ctx, pending.Email)
	switch {
	case err == nil:
		return nil, ErrEmailTaken
	case !errors.Is(err, util.ErrorNotFound):
		return nil, err
	}

	var plainPassword string
	if err := crypto.Decrypt(pending.Password, s.cryptoSecret, &plainPassword); err != nil {
		return nil, ErrActivationInvalid
	}

	hashed, err := password.HashPassword(plainPassword)
	if err != nil {
		return nil, err
	}

	created := &dbseller.Seller{
		Fname:      capitalize(pending.Fname),
		Lname:      capitalize(pending.Lname),
		Email:      pending.Email,
		Password:   hashed,
		IsVerified: true,
	}

	if err := s.store.CreateSeller(ctx, created); err != nil {
		if errors.Is(err, util.ErrorDuplicateEmail) {
			return nil, ErrEmailTaken
		}
		return nil, err
	}

	created.Password = ""

	return created, nil
}

// Signin never reveals whether the email or the password was wrong.
func (s *AuthService) Signin(ctx context.Context, req SigninRequest) (*AuthSession, error) {
	if req.Email == "" || req.Password == "" {
		return nil, ErrMissingCredentials
	}

	slr, err := s.store.GetSellerByEmailWithPassword(ctx, strings.ToLower(req.Email))
	if err != nil {
		if errors.Is(err, util.ErrorNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if err := password.ComparePasswords(slr.Password, req.Password); err != nil {
		return nil, ErrInvalidCredentials
	}

	return s.issueSession(ctx, slr)
}

// issueSession strips the password before anything is serialized, signs
// the token pair and caches the snapshot.
func (s *AuthService) issueSession(ctx context.Context, slr *dbseller.Seller) (*AuthSession, error) {
	slr.Password = ""

	accessToken, err := s.tokens.SignAccessToken(slr.ID)
	if err != nil {
		return nil, err
	}

	refreshToken, err := s.tokens.SignRefreshToken(slr.ID)
	if err != nil {
		return nil, err
	}

	if err := s.sessions.Set(ctx, slr); err != nil {
		return nil, err
	}

	return &AuthSession{
		Seller:       slr,
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
	}, nil
}

func (s *AuthService) Logout(ctx context.Context, sellerID string) error {
	return s.sessions.Delete(ctx, sellerID)
}

// Authenticate resolves an access token to a live seller record from
// the persistent store; every failure collapses into the same
// please-login error.
func (s *AuthService) Authenticate(ctx context.Context, accessToken string) (*dbseller.Seller, error) {
	sellerID, err := s.tokens.VerifyAccessToken(accessToken)
	if err != nil {
		return nil, ErrNotLoggedIn
	}

	if _, err := uuid.Parse(sellerID); err != nil {
		return nil, ErrNotLoggedIn
	}

	slr, err := s.store.GetSellerByID(ctx, sellerID)
	if err != nil {
		if errors.Is(err, util.ErrorNotFound) {
			return nil, ErrNotLoggedIn
		}
		return nil, err
	}

	return slr, nil
}

// RefreshSession rotates the token pair against the cached session. The
// cache is the refresh source of truth: an expired session means a new
// signin, with no fallback to the persistent store. The conditional
// re-write keeps whichever concurrent refresh landed first.
func (s *AuthService) RefreshSession(ctx context.Context, refreshToken string) (*AuthSession, error) {
	sellerID, err := s.tokens.VerifyRefreshToken(refreshToken)
	if err != nil {
		return nil, ErrRefreshInvalid
	}

	snapshot, err := s.sessions.Get(ctx, sellerID)
	if err != nil {
		if errors.Is(err, util.ErrorNotFound) {
			return nil, ErrSessionNotFound
		}
		return nil, err
	}

	accessToken, err := s.tokens.SignAccessToken(snapshot.ID)
	if err != nil {
		return nil, err
	}

	newRefreshToken, err := s.tokens.SignRefreshToken(snapshot.ID)
	if err != nil {
		return nil, err
	}

	if err := s.sessions.SetIfAbsent(ctx, snapshot); err != nil {
		return nil, err
	}

	return &AuthSession{
		Seller:       snapshot,
		AccessToken:  accessToken,
		RefreshToken: newRefreshToken,
	}, nil
}

// Profile reads the cached snapshot first and falls back to the
// persistent store on a miss, repopulating the cache without clobbering
// a concurrent writer.
func (s *AuthService) Profile(ctx context.Context, sellerID string) (*dbseller.Seller, error) {
	snapshot, err := s.sessions.Get(ctx, sellerID)
	if err == nil {
		return snapshot, nil
	}
	if !errors.Is(err, util.ErrorNotFound) {
		return nil, err
	}

	slr, err := s.store.GetSellerByID(ctx, sellerID)
	if err != nil {
		if errors.Is(err, util.ErrorNotFound) {
			return nil, ErrNotLoggedIn
		}
		return nil, err
	}

	if err := s.sessions.SetIfAbsent(ctx, slr); err != nil {
		s.logger.Warnw("failed to repopulate session cache", "sellerID", sellerID, "error", err)
	}

	return slr, nil
}

func capitalize(text string) string {
	if text == "" {
		return ""
	}

	r, size := utf8.DecodeRuneInString(text)
	return string(unicode.ToUpper(r)) + text[size:]
}

var _ SellerService = (*AuthService)(nil)
