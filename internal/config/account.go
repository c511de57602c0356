package config

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/99designs/keyring"
)

// Account holds the Billomat credentials of one profile
type Account struct {
	BillomatID string `json:"billomat_id"`
	APIKey     string `json:"api_key"`
	AppID      string `json:"app_id,omitempty"`
	AppSecret  string `json:"app_secret,omitempty"`
}

// ErrInvalidBillomatID is returned for IDs that cannot be the subdomain of
// https://<id>.billomat.net.
var ErrInvalidBillomatID = errors.New("invalid Billomat ID")

var billomatIDPattern = regexp.MustCompile(`^[a-z0-9]([a-z0-9-]{0,61}[a-z0-9])?$`)

// NormalizeBillomatID reduces what users paste from the browser, such as
// "https://Acme.billomat.net/app/invoices", to the account subdomain "acme".
func NormalizeBillomatID(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	if i := strings.Index(s, "://"); i >= 0 {
		s = s[i+3:]
	}
	if i := strings.IndexAny(s, "/?#"); i >= 0 {
		s = s[:i]
	}
	if i := strings.Index(s, ".billomat."); i >= 0 {
		s = s[:i]
	}
	return s
}

// Validate checks the account can address the API. The Billomat ID must
// already be normalized.
func (a Account) Validate() error {
	if a.BillomatID == "" {
		return fmt.Errorf("%w: empty", ErrInvalidBillomatID)
	}
	if !billomatIDPattern.MatchString(a.BillomatID) {
		return fmt.Errorf("%w %q: use the subdomain of <id>.billomat.net", ErrInvalidBillomatID, a.BillomatID)
	}
	if strings.TrimSpace(a.APIKey) == "" {
		return errors.New("API key is empty")
	}
	if (a.AppID == "") != (a.AppSecret == "") {
		return errors.New("app ID and app secret must be set together")
	}
	return nil
}

// keyringItem is how a profile shows up in the OS keychain UI.
func (a Account) keyringItem(profile string, data []byte) keyring.Item {
	return keyring.Item{
		Key:         profileKey(profile),
		Data:        data,
		Label:       fmt.Sprintf("Billomat API key (%s)", profile),
		Description: fmt.Sprintf("https://%s.billomat.net", a.BillomatID),
	}
}
