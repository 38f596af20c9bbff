package dto

import "time"

// RegisterClientRequest payload for POST /auth/clients.
type RegisterClientRequest struct {
	ClientID     string `json:"clientId" form:"clientId"`
	ClientSecret string `json:"clientSecret" form:"clientSecret"`
}

// ClientResponse describes a registered client. The secret is never echoed.
type ClientResponse struct {
	ClientID  string    `json:"clientId"`
	CreatedAt time.Time `json:"createdAt"`
}
