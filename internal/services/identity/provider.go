package identity

import (
	"golang.org/x/oauth2"
)

// LoginConfig is what a client needs to start the provider's login flow
type LoginConfig struct {
	Issuer      string `json:"issuer"`
	ClientID    string `json:"client_id"`
	RedirectURI string `json:"redirect_uri"`
	AuthURL     string `json:"auth_url"`
}

// Provider exposes the identity provider's client-facing configuration
type Provider struct {
	issuer      string
	clientID    string
	redirectURI string
}

// NewProvider creates a provider descriptor from configuration
func NewProvider(issuer, clientID, redirectURI string) *Provider {
	return &Provider{
		issuer:      issuer,
		clientID:    clientID,
		redirectURI: redirectURI,
	}
}

// GetLoginConfig builds the login configuration handed to clients
func (p *Provider) GetLoginConfig() *LoginConfig {
	cfg := &oauth2.Config{
		ClientID:    p.clientID,
		RedirectURL: p.redirectURI,
		Scopes:      []string{"openid", "email", "profile"},
		Endpoint: oauth2.Endpoint{
			AuthURL:  p.issuer + "/oauth2/authorize",
			TokenURL: p.issuer + "/oauth2/token",
		},
	}

	return &LoginConfig{
		Issuer:      p.issuer,
		ClientID:    p.clientID,
		RedirectURI: p.redirectURI,
		AuthURL:     cfg.AuthCodeURL(""),
	}
}
