package gmail

import (
	"context"
	"encoding/json"
	"os"

	"golang.org/x/oauth2"

	"github.com/inboxpulse/inboxpulse/config"
	"github.com/inboxpulse/inboxpulse/interfaces"
)

// NewTokenProvider builds the credential source from config. A token file
// (refreshed out of band) takes precedence over a static token.
func NewTokenProvider(cfg *config.GmailConfig) interfaces.TokenProvider {
	if cfg.TokenFile != "" {
		return &fileTokenProvider{path: cfg.TokenFile}
	}
	return &staticTokenProvider{token: cfg.AccessToken}
}

type staticTokenProvider struct {
	token string
}

func (p *staticTokenProvider) AccessToken(ctx context.Context) (string, bool) {
	return p.token, p.token != ""
}

// fileTokenProvider reads an oauth2 token JSON file on every query so an
// external refresher can rotate it in place.
type fileTokenProvider struct {
	path string
}

func (p *fileTokenProvider) AccessToken(ctx context.Context) (string, bool) {
	f, err := os.Open(p.path)
	if err != nil {
		return "", false
	}
	defer f.Close()

	var tok oauth2.Token
	if err := json.NewDecoder(f).Decode(&tok); err != nil {
		return "", false
	}
	if !tok.Valid() {
		return "", false
	}
	return tok.AccessToken, true
}
