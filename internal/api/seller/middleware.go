package seller

import (
	"context"
	"errors"
	"net/http"

	dbseller "com.martdev.sellerhub/internal/database/seller"
	sellerservice "com.martdev.sellerhub/internal/service/seller"
	"com.martdev.sellerhub/internal/util"
)

type contextKey string

const sellerContextKey contextKey = "seller"

func sellerFromContext(ctx context.Context) (*dbseller.Seller, bool) {
	slr, ok := ctx.Value(sellerContextKey).(*dbseller.Seller)
	return slr, ok
}

// Authenticated resolves the access token cookie to a seller and
// stores it on the request context.
func (h *Handler) Authenticated(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		cookie, err := r.Cookie(accessTokenCookie)
		if err != nil {
			util.BadRequestErrorResponse(w, r, sellerservice.ErrNotLoggedIn, h.logger)
			return
		}

		slr, err := h.service.Authenticate(r.Context(), cookie.Value)
		if err != nil {
			switch {
			case errors.Is(err, sellerservice.ErrNotLoggedIn):
				util.BadRequestErrorResponse(w, r, err, h.logger)
			default:
				util.InternalServerErrorResponse(w, r, err, h.logger)
			}
			return
		}

		ctx := context.WithValue(r.Context(), sellerContextKey, slr)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RestrictTo rejects authenticated sellers whose role is not in the
// allowed set. It must run after Authenticated.
func (h *Handler) RestrictTo(roles ...string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			slr, ok := sellerFromContext(r.Context())
			if !ok {
				util.BadRequestErrorResponse(w, r, sellerservice.ErrNotLoggedIn, h.logger)
				return
			}

			for _, role := range roles {
				if slr.Role == role {
					next.ServeHTTP(w, r)
					return
				}
			}

			util.ForbiddenErrorResponse(w, r,
				errors.New("you do not have permission to perform this action"), h.logger)
		})
	}
}

// RefreshAccessToken rotates the token pair from the refresh cookie,
// rewrites both cookies and stores the cached seller on the request
// context before handing off to the next handler.
func (h *Handler) RefreshAccessToken(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		cookie, err := r.Cookie(refreshTokenCookie)
		if err != nil {
			util.BadRequestErrorResponse(w, r,
				errors.New("refresh token not found, please log in to access this resource"), h.logger)
			return
		}

		authSession, err := h.service.RefreshSession(r.Context(), cookie.Value)
		if err != nil {
			switch {
			case errors.Is(err, sellerservice.ErrRefreshInvalid),
				errors.Is(err, sellerservice.ErrSessionNotFound):
				util.BadRequestErrorResponse(w, r, err, h.logger)
			default:
				util.InternalServerErrorResponse(w, r, err, h.logger)
			}
			return
		}

		http.SetCookie(w, h.tokenCookie(accessTokenCookie, authSession.AccessToken, h.accessExpire))
		http.SetCookie(w, h.tokenCookie(refreshTokenCookie, authSession.RefreshToken, h.refreshExpire))

		ctx := context.WithValue(r.Context(), sellerContextKey, authSession.Seller)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
