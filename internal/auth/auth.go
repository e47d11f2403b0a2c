package auth

import "com.martdev.sellerhub/internal/crypto"

// PendingSeller is the signup payload carried inside an activation
// token. Nothing is persisted for a pending registration; the token is
// the only copy of this state until activation completes.
type PendingSeller struct {
	Fname    string                  `json:"fname"`
	Lname    string                  `json:"lname"`
	Email    string                  `json:"email"`
	Password crypto.EncryptedPayload `json:"password"`
}

// ActivationState is what an activation token proves: the pending
// signup plus the OTP the registrant must echo back, encrypted so the
// token holder cannot read it.
type ActivationState struct {
	Payload      PendingSeller           `json:"payload"`
	EncryptedOTP crypto.EncryptedPayload `json:"encryptedOtp"`
}

// Authenticator signs and verifies the three token kinds. Each kind has
// its own secret; a token of one kind never verifies as another.
type Authenticator interface {
	SignAccessToken(sellerID string) (string, error)
	SignRefreshToken(sellerID string) (string, error)
	SignActivationToken(state ActivationState) (string, error)
	VerifyAccessToken(token string) (string, error)
	VerifyRefreshToken(token string) (string, error)
	VerifyActivationToken(token string) (*ActivationState, error)
}

// ActivationIssuer mints the OTP and the activation token that carries
// it for a pending signup.
type ActivationIssuer interface {
	Issue(pending PendingSeller) (token string, code int64, err error)
}
