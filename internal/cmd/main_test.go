package cmd

import (
	"os"
	"testing"

	"github.com/99designs/keyring"

	"github.com/justpilot/billomat-go/internal/config"
	"github.com/justpilot/billomat-go/internal/update"
)

func TestMain(m *testing.M) {
	// A BILLOMAT_OUTPUT=json shell must not change what the tests see.
	_ = os.Setenv(envOutput, "text")
	_ = os.Setenv(update.EnvDisable, "1")

	cleanup := config.SetOpenKeyring(func(cfg keyring.Config) (keyring.Keyring, error) {
		return keyring.NewArrayKeyring(nil), nil
	})
	code := m.Run()
	cleanup()
	os.Exit(code)
}
