package dto

// TokenRequest payload for POST /auth/token.
type TokenRequest struct {
	ClientID     string `json:"clientId" form:"clientId"`
	ClientSecret string `json:"clientSecret" form:"clientSecret"`
}

// TokenResponse is the OAuth-style issuance response.
type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int    `json:"expires_in"`
}

// IntrospectResponse reports the owner of a valid token.
type IntrospectResponse struct {
	Success  bool   `json:"success"`
	ClientID string `json:"clientId"`
}
