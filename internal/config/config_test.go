package config

import (
	"encoding/json"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/99designs/keyring"
)

// withMockKeyring sets up a mock keyring for the duration of a test
func withMockKeyring(t *testing.T, ring keyring.Keyring) {
	t.Helper()
	restore := SetOpenKeyring(func(cfg keyring.Config) (keyring.Keyring, error) {
		return ring, nil
	})
	t.Cleanup(restore)
}

// withFailingKeyring sets up a keyring that always fails to open
func withFailingKeyring(t *testing.T, err error) {
	t.Helper()
	restore := SetOpenKeyring(func(cfg keyring.Config) (keyring.Keyring, error) {
		return nil, err
	})
	t.Cleanup(restore)
}

// clearEnv unsets every credential variable so the keyring path is used.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{EnvBillomatID, EnvAPIKey, EnvAppID, EnvAppSecret, EnvProfile, EnvBaseURL} {
		t.Setenv(key, "")
	}
}

func TestProfileKey(t *testing.T) {
	tests := []struct {
		profile  string
		expected string
	}{
		{"", accountKey},
		{"default", accountKey},
		{"work", profilePrefix + "work"},
	}

	for _, tt := range tests {
		if got := profileKey(tt.profile); got != tt.expected {
			t.Errorf("profileKey(%q) = %q, want %q", tt.profile, got, tt.expected)
		}
	}
}

func TestNormalizeProfiles(t *testing.T) {
	got := normalizeProfiles([]string{" a ", "b", "", "a", "c", "b"})
	want := []string{"a", "b", "c"}
	if strings.Join(got, ",") != strings.Join(want, ",") {
		t.Errorf("normalizeProfiles() = %v, want %v", got, want)
	}
}

func TestLoadProfileIndex(t *testing.T) {
	ring := keyring.NewArrayKeyring(nil)
	profiles, err := loadProfileIndex(ring)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(profiles) != 0 {
		t.Errorf("expected empty index, got %v", profiles)
	}

	_ = ring.Set(keyring.Item{Key: profileIndexKey, Data: []byte("not json")})
	if _, err := loadProfileIndex(ring); err == nil {
		t.Error("expected error for corrupt index")
	}
}

func TestLoadAccountFromEnv(t *testing.T) {
	tests := []struct {
		name    string
		env     map[string]string
		want    Account
		wantErr string
	}{
		{
			name: "id and key",
			env:  map[string]string{EnvBillomatID: "acme", EnvAPIKey: "k"},
			want: Account{BillomatID: "acme", APIKey: "k"},
		},
		{
			name: "with app pair",
			env:  map[string]string{EnvBillomatID: "acme", EnvAPIKey: "k", EnvAppID: "i", EnvAppSecret: "s"},
			want: Account{BillomatID: "acme", APIKey: "k", AppID: "i", AppSecret: "s"},
		},
		{
			name: "host name is reduced to the subdomain",
			env:  map[string]string{EnvBillomatID: "https://Acme.billomat.net/app", EnvAPIKey: "k"},
			want: Account{BillomatID: "acme", APIKey: "k"},
		},
		{
			name:    "invalid id",
			env:     map[string]string{EnvBillomatID: "acme corp", EnvAPIKey: "k"},
			wantErr: "invalid Billomat ID",
		},
		{
			name:    "missing key",
			env:     map[string]string{EnvBillomatID: "acme"},
			wantErr: EnvAPIKey,
		},
		{
			name:    "half app pair",
			env:     map[string]string{EnvBillomatID: "acme", EnvAPIKey: "k", EnvAppID: "i"},
			wantErr: EnvAppSecret,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			withFailingKeyring(t, errors.New("keyring must not be used"))
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			got, err := LoadAccount()
			if tt.wantErr != "" {
				if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
					t.Fatalf("LoadAccount() error = %v, want mention of %s", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("LoadAccount() unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("LoadAccount() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestSaveAndLoadProfile(t *testing.T) {
	clearEnv(t)
	withMockKeyring(t, keyring.NewArrayKeyring(nil))

	work := Account{BillomatID: "work", APIKey: "wk"}
	home := Account{BillomatID: "home", APIKey: "hk", AppID: "a", AppSecret: "s"}
	if err := SaveProfile("work", work); err != nil {
		t.Fatalf("SaveProfile(work): %v", err)
	}
	if err := SaveProfile("home", home); err != nil {
		t.Fatalf("SaveProfile(home): %v", err)
	}

	current, err := CurrentProfile()
	if err != nil || current != "home" {
		t.Fatalf("CurrentProfile() = %q, %v; want home", current, err)
	}

	got, err := LoadAccount()
	if err != nil || got != home {
		t.Fatalf("LoadAccount() = %+v, %v; want %+v", got, err, home)
	}

	got, err = LoadAccountFor("work")
	if err != nil || got != work {
		t.Fatalf("LoadAccountFor(work) = %+v, %v", got, err)
	}

	t.Setenv(EnvProfile, "work")
	got, err = LoadAccount()
	if err != nil || got != work {
		t.Fatalf("LoadAccount() with %s = %+v, %v", EnvProfile, got, err)
	}

	profiles, err := ListProfiles()
	if err != nil {
		t.Fatalf("ListProfiles(): %v", err)
	}
	if strings.Join(profiles, ",") != "work,home" {
		t.Errorf("ListProfiles() = %v", profiles)
	}
}

func TestLoadProfile_NotConfigured(t *testing.T) {
	clearEnv(t)
	withMockKeyring(t, keyring.NewArrayKeyring(nil))

	_, err := LoadAccount()
	if !errors.Is(err, ErrNotConfigured) {
		t.Fatalf("LoadAccount() error = %v, want ErrNotConfigured", err)
	}
}

func TestLoadProfile_InvalidJSON(t *testing.T) {
	withMockKeyring(t, keyring.NewArrayKeyring([]keyring.Item{{Key: accountKey, Data: []byte("{")}}))

	_, err := LoadProfile("")
	if err == nil || !strings.Contains(err.Error(), "unmarshal") {
		t.Fatalf("LoadProfile() error = %v", err)
	}
}

func TestKeyringErrorsAreWrapped(t *testing.T) {
	boom := errors.New("locked")
	withFailingKeyring(t, boom)

	if err := SaveProfile("x", Account{BillomatID: "acme", APIKey: "k"}); !errors.Is(err, boom) {
		t.Errorf("SaveProfile error = %v", err)
	}
	if _, err := LoadProfile("x"); !errors.Is(err, boom) {
		t.Errorf("LoadProfile error = %v", err)
	}
	if err := DeleteProfile("x"); !errors.Is(err, boom) {
		t.Errorf("DeleteProfile error = %v", err)
	}
	if _, err := ListProfiles(); !errors.Is(err, boom) {
		t.Errorf("ListProfiles error = %v", err)
	}
	if _, err := CurrentProfile(); !errors.Is(err, boom) {
		t.Errorf("CurrentProfile error = %v", err)
	}
}

func TestDeleteProfileSwitchesCurrentProfile(t *testing.T) {
	clearEnv(t)
	ring := keyring.NewArrayKeyring(nil)
	withMockKeyring(t, ring)

	_ = SaveProfile("a", Account{BillomatID: "a", APIKey: "k"})
	_ = SaveProfile("b", Account{BillomatID: "b", APIKey: "k"})

	if err := DeleteProfile("b"); err != nil {
		t.Fatalf("DeleteProfile(b): %v", err)
	}
	current, _ := CurrentProfile()
	if current != "a" {
		t.Errorf("CurrentProfile() = %q, want a", current)
	}

	item, err := ring.Get(profileIndexKey)
	if err != nil {
		t.Fatalf("index missing: %v", err)
	}
	var index []string
	_ = json.Unmarshal(item.Data, &index)
	if len(index) != 1 || index[0] != "a" {
		t.Errorf("index = %v, want [a]", index)
	}
}

func TestListProfiles_LegacyDefault(t *testing.T) {
	withMockKeyring(t, keyring.NewArrayKeyring([]keyring.Item{{Key: accountKey, Data: []byte(`{}`)}}))

	profiles, err := ListProfiles()
	if err != nil {
		t.Fatalf("ListProfiles(): %v", err)
	}
	if len(profiles) != 1 || profiles[0] != defaultProfile {
		t.Errorf("ListProfiles() = %v, want [default]", profiles)
	}
}

func TestKeyringConfig_FileBackendOverride(t *testing.T) {
	t.Setenv(envKeyringBackend, "file")
	base := t.TempDir()
	t.Setenv(envCredentialsDir, base)

	cfg := keyringConfig()
	if len(cfg.AllowedBackends) != 1 || cfg.AllowedBackends[0] != keyring.FileBackend {
		t.Fatalf("AllowedBackends = %v, want [%s]", cfg.AllowedBackends, keyring.FileBackend)
	}
	if want := filepath.Join(base, "keyring"); cfg.FileDir != want {
		t.Fatalf("FileDir = %q, want %q", cfg.FileDir, want)
	}
	if cfg.ServiceName != "billomat-cli" {
		t.Errorf("ServiceName = %q", cfg.ServiceName)
	}
}

func TestKeyringConfig_SystemBackendOverride(t *testing.T) {
	t.Setenv(envKeyringBackend, "native")

	cfg := keyringConfig()
	if cfg.FileDir != "" || cfg.FilePasswordFunc != nil || len(cfg.AllowedBackends) != 0 {
		t.Fatalf("system backend should not configure file storage: %+v", cfg)
	}
}

func TestShouldForceFileBackend(t *testing.T) {
	tests := []struct {
		goos, backend, dbus string
		want                bool
	}{
		{"darwin", keyringBackendFile, "ignored", true},
		{"linux", keyringBackendAuto, "", true},
		{"linux", keyringBackendAuto, "unix:path=/run/user/1000/bus", false},
		{"linux", keyringBackendSystem, "", false},
		{"windows", keyringBackendAuto, "", false},
	}
	for _, tt := range tests {
		if got := shouldForceFileBackend(tt.goos, tt.backend, tt.dbus); got != tt.want {
			t.Errorf("shouldForceFileBackend(%q, %q, %q) = %v, want %v", tt.goos, tt.backend, tt.dbus, got, tt.want)
		}
	}
}

func TestKeyringFilePassword(t *testing.T) {
	t.Setenv(envKeyringPassword, "env-pass")
	password, err := keyringFilePassword("prompt")
	if err != nil || password != "env-pass" {
		t.Fatalf("keyringFilePassword() = %q, %v", password, err)
	}

	t.Setenv(envKeyringPassword, "")
	original := stdinHasTTY
	stdinHasTTY = func() bool { return false }
	t.Cleanup(func() { stdinHasTTY = original })

	_, err = keyringFilePassword("prompt")
	if err == nil || !strings.Contains(err.Error(), envKeyringPassword) {
		t.Fatalf("error = %v, want to mention %s", err, envKeyringPassword)
	}
}
