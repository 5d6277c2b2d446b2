package dto

// TokenRequest payload for token issuance.
type TokenRequest struct {
	Username string `json:"username"`
}

// TokenResponse carries the issued access token.
type TokenResponse struct {
	AccessToken string `json:"access_token"`
}
