package config

import (
	"os"
	"strings"
	"time"

	"github.com/justpilot/billomat-go"
)

// ClientOptions are the command-line overrides applied on top of the stored
// profile and the defaults file.
type ClientOptions struct {
	Profile string
	Timeout time.Duration
}

// ResolveClientConfig merges credentials, the defaults file and overrides into
// the library configuration. BILLOMAT_BASE_URL beats the file's base_url.
func ResolveClientConfig(defaults Defaults, opts ClientOptions) (billomat.Config, error) {
	profile := opts.Profile
	if profile == "" {
		profile = defaults.Profile
	}
	account, err := LoadAccountFor(profile)
	if err != nil {
		return billomat.Config{}, err
	}

	cfg := billomat.Config{
		BillomatID:      account.BillomatID,
		APIKey:          account.APIKey,
		AppID:           account.AppID,
		AppSecret:       account.AppSecret,
		BaseURLTemplate: defaults.BaseURL,
		Timeout:         defaults.Timeout,
	}
	if envURL := strings.TrimSpace(os.Getenv(EnvBaseURL)); envURL != "" {
		cfg.BaseURLTemplate = envURL
	}
	if opts.Timeout > 0 {
		cfg.Timeout = opts.Timeout
	}
	if err := cfg.Validate(); err != nil {
		return billomat.Config{}, err
	}
	return cfg, nil
}
