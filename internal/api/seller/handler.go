package seller

import (
	"errors"
	"net/http"
	"time"

	dbseller "com.martdev.sellerhub/internal/database/seller"
	sellerservice "com.martdev.sellerhub/internal/service/seller"
	"com.martdev.sellerhub/internal/util"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
)

const (
	accessTokenCookie  = "seller_access_token"
	refreshTokenCookie = "seller_refresh_token"

	// The signin path hands out a day-long access cookie even though
	// the token inside expires sooner; the refresh flow uses the
	// configured minute-scale lifetime.
	signinAccessCookieAge = 24 * time.Hour
)

type Handler struct {
	service       sellerservice.SellerService
	logger        *zap.SugaredLogger
	isProduction  bool
	accessExpire  time.Duration
	refreshExpire time.Duration
}

func NewHandler(service sellerservice.SellerService, logger *zap.SugaredLogger, isProduction bool, accessExpire, refreshExpire time.Duration) *Handler {
	return &Handler{
		service:       service,
		logger:        logger,
		isProduction:  isProduction,
		accessExpire:  accessExpire,
		refreshExpire: refreshExpire,
	}
}

type SignupResponse struct {
	Message string `json:"message"`
	Token   string `json:"token"`
}

type ActivationResponse struct {
	Message string           `json:"message"`
	Seller  *dbseller.Seller `json:"newUser"`
}

type SigninResponse struct {
	Message     string           `json:"message"`
	Seller      *dbseller.Seller `json:"user"`
	AccessToken string           `json:"accessToken"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

type ProfileResponse struct {
	Message string           `json:"message"`
	Seller  *dbseller.Seller `json:"user"`
}

// Signup godoc
//
//	@summary	Start a seller registration
//	@tags		seller
//	@accept		json
//	@param		payload	body	seller.SignupRequest	true	"Signup info"
//	@success	200	{object}	seller.SignupResponse
//	@failure	400	{object}	util.ErrorResponse
//	@failure	500	{object}	util.ErrorResponse
//	@router		/seller/signup [post]
func (h *Handler) signup(w http.ResponseWriter, r *http.Request) {
	var req sellerservice.SignupRequest

	if err := util.ReadJSON(w, r, &req); err != nil {
		util.BadRequestErrorResponse(w, r, err, h.logger)
		return
	}

	if err := util.Validate.Struct(req); err != nil {
		h.validationErrorResponse(w, r, err, sellerservice.ErrMissingFields)
		return
	}

	token, err := h.service.Signup(r.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, sellerservice.ErrMissingFields),
			errors.Is(err, sellerservice.ErrEmailTaken):
			util.BadRequestErrorResponse(w, r, err, h.logger)
		default:
			util.InternalServerErrorResponse(w, r, err, h.logger)
		}
		return
	}

	response := SignupResponse{
		Message: "Verification code sent successfully to your email.",
		Token:   token,
	}
	if err := util.JSONResponse(w, http.StatusOK, response); err != nil {
		util.InternalServerErrorResponse(w, r, err, h.logger)
	}
}

// Activation godoc
//
//	@summary	Activate a pending registration with the emailed OTP
//	@tags		seller
//	@accept		json
//	@param		payload	body	seller.ActivationRequest	true	"Activation token and OTP"
//	@success	201	{object}	seller.ActivationResponse
//	@failure	400	{object}	util.ErrorResponse
//	@failure	500	{object}	util.ErrorResponse
//	@router		/seller/activation [post]
func (h *Handler) activation(w http.ResponseWriter, r *http.Request) {
	var req sellerservice.ActivationRequest

	if err := util.ReadJSON(w, r, &req); err != nil {
		util.BadRequestErrorResponse(w, r, err, h.logger)
		return
	}

	created, err := h.service.Activate(r.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, sellerservice.ErrMissingOTP),
			errors.Is(err, sellerservice.ErrMissingActivationToken),
			errors.Is(err, sellerservice.ErrActivationInvalid),
			errors.Is(err, sellerservice.ErrOTPMismatch),
			errors.Is(err, sellerservice.ErrEmailTaken):
			util.BadRequestErrorResponse(w, r, err, h.logger)
		default:
			util.InternalServerErrorResponse(w, r, err, h.logger)
		}
		return
	}

	response := ActivationResponse{
		Message: "Congratulations, " + created.Fname + "! Your account has been successfully activated.",
		Seller:  created,
	}
	if err := util.JSONResponse(w, http.StatusCreated, response); err != nil {
		util.InternalServerErrorResponse(w, r, err, h.logger)
	}
}

// Signin godoc
//
//	@summary	Sign in and receive the token cookies
//	@tags		seller
//	@accept		json
//	@param		payload	body	seller.SigninRequest	true	"Credentials"
//	@success	200	{object}	seller.SigninResponse
//	@failure	400	{object}	util.ErrorResponse
//	@failure	401	{object}	util.ErrorResponse
//	@router		/seller/signin [post]
func (h *Handler) signin(w http.ResponseWriter, r *http.Request) {
	var req sellerservice.SigninRequest

	if err := util.ReadJSON(w, r, &req); err != nil {
		util.BadRequestErrorResponse(w, r, err, h.logger)
		return
	}

	authSession, err := h.service.Signin(r.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, sellerservice.ErrMissingCredentials):
			util.BadRequestErrorResponse(w, r, err, h.logger)
		case errors.Is(err, sellerservice.ErrInvalidCredentials):
			util.UnauthorizedErrorResponse(w, r, err, h.logger)
		default:
			util.InternalServerErrorResponse(w, r, err, h.logger)
		}
		return
	}

	http.SetCookie(w, h.tokenCookie(accessTokenCookie, authSession.AccessToken, signinAccessCookieAge))
	http.SetCookie(w, h.tokenCookie(refreshTokenCookie, authSession.RefreshToken, h.refreshExpire))

	response := SigninResponse{
		Message:     "Welcome back " + authSession.Seller.Fname + ".",
		Seller:      authSession.Seller,
		AccessToken: authSession.AccessToken,
	}
	if err := util.JSONResponse(w, http.StatusOK, response); err != nil {
		util.InternalServerErrorResponse(w, r, err, h.logger)
	}
}

// Logout godoc
//
//	@summary	Log out and clear the token cookies
//	@tags		seller
//	@success	200	{object}	seller.MessageResponse
//	@failure	400	{object}	util.ErrorResponse
//	@router		/seller/logout [post]
func (h *Handler) logout(w http.ResponseWriter, r *http.Request) {
	slr, ok := sellerFromContext(r.Context())
	if !ok {
		util.BadRequestErrorResponse(w, r, sellerservice.ErrNotLoggedIn, h.logger)
		return
	}

	http.SetCookie(w, h.expiredCookie(accessTokenCookie))
	http.SetCookie(w, h.expiredCookie(refreshTokenCookie))

	if err := h.service.Logout(r.Context(), slr.ID); err != nil {
		util.InternalServerErrorResponse(w, r, err, h.logger)
		return
	}

	response := MessageResponse{Message: "You have been successfully logged out."}
	if err := util.JSONResponse(w, http.StatusOK, response); err != nil {
		util.InternalServerErrorResponse(w, r, err, h.logger)
	}
}

// Me godoc
//
//	@summary	Return the authenticated seller's profile
//	@tags		seller
//	@success	200	{object}	seller.ProfileResponse
//	@failure	400	{object}	util.ErrorResponse
//	@router		/seller/me [get]
func (h *Handler) me(w http.ResponseWriter, r *http.Request) {
	slr, ok := sellerFromContext(r.Context())
	if !ok {
		util.BadRequestErrorResponse(w, r, sellerservice.ErrNotLoggedIn, h.logger)
		return
	}

	profile, err := h.service.Profile(r.Context(), slr.ID)
	if err != nil {
		switch {
		case errors.Is(err, sellerservice.ErrNotLoggedIn):
			util.BadRequestErrorResponse(w, r, err, h.logger)
		default:
			util.InternalServerErrorResponse(w, r, err, h.logger)
		}
		return
	}

	response := ProfileResponse{
		Message: "Here is your account information.",
		Seller:  profile,
	}
	if err := util.JSONResponse(w, http.StatusOK, response); err != nil {
		util.InternalServerErrorResponse(w, r, err, h.logger)
	}
}

// validationErrorResponse keeps the endpoint contract: a missing
// required field is the caller's BadRequest with the canonical message,
// while format and length violations are schema errors.
func (h *Handler) validationErrorResponse(w http.ResponseWriter, r *http.Request, err error, missing error) {
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		for _, fieldErr := range validationErrs {
			if fieldErr.Tag() == "required" {
				util.BadRequestErrorResponse(w, r, missing, h.logger)
				return
			}
		}
		util.UnprocessableEntityErrorResponse(w, r, err, h.logger)
		return
	}

	util.BadRequestErrorResponse(w, r, err, h.logger)
}

func (h *Handler) tokenCookie(name, value string, maxAge time.Duration) *http.Cookie {
	cookie := &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		HttpOnly: true,
		Secure:   h.isProduction,
		SameSite: http.SameSiteLaxMode,
		Expires:  time.Now().Add(maxAge),
		MaxAge:   int(maxAge.Seconds()),
	}
	if h.isProduction {
		// Cross-site cookies need SameSite=None, which browsers only
		// accept over HTTPS.
		cookie.SameSite = http.SameSiteNoneMode
	}

	return cookie
}

func (h *Handler) expiredCookie(name string) *http.Cookie {
	cookie := h.tokenCookie(name, "", 0)
	cookie.MaxAge = -1
	cookie.Expires = time.Unix(0, 0)

	return cookie
}
