package httpclient

import (
	"context"
	"strings"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"
)

// AuthConfig describes how requests obtain their bearer token.
type AuthConfig struct {
	AccessToken  string
	ClientID     string
	ClientSecret string
	TokenURL     string
	Scopes       []string
}

// TokenSource builds an oauth2.TokenSource from cfg. A static access token wins
// over client credentials. It returns nil when no credentials are configured.
func TokenSource(ctx context.Context, cfg AuthConfig) oauth2.TokenSource {
	if tok := strings.TrimSpace(cfg.AccessToken); tok != "" {
		return oauth2.StaticTokenSource(&oauth2.Token{AccessToken: tok, TokenType: "Bearer"})
	}
	if strings.TrimSpace(cfg.ClientID) == "" || strings.TrimSpace(cfg.TokenURL) == "" {
		return nil
	}
	cc := clientcredentials.Config{
		ClientID:     cfg.ClientID,
		ClientSecret: cfg.ClientSecret,
		TokenURL:     cfg.TokenURL,
		Scopes:       cfg.Scopes,
	}
	return cc.TokenSource(ctx)
}
