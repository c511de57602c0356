package cmd

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/justpilot/billomat-go"
	"github.com/justpilot/billomat-go/internal/config"
	"github.com/justpilot/billomat-go/internal/debug"
	"github.com/justpilot/billomat-go/internal/iocontext"
)

func newAuthCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "auth",
		Short: "Manage stored Billomat credentials",
		Long:  "Store, inspect and switch the Billomat ID and API key used by all other commands.",
	}

	cmd.AddCommand(newAuthLoginCmd())
	cmd.AddCommand(newAuthStatusCmd())
	cmd.AddCommand(newAuthLogoutCmd())
	cmd.AddCommand(newAuthUseCmd())
	cmd.AddCommand(newAuthProfilesCmd())

	return cmd
}

func newAuthLoginCmd() *cobra.Command {
	var (
		billomatID string
		apiKey     string
		appID      string
		appSecret  string
		profile    string
		envFile    string
		noVerify   bool
	)

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Save credentials to the OS keychain",
		Long: strings.TrimSpace(`
Save Billomat credentials securely to your OS keychain.

You'll need:
- Billomat ID: the subdomain of your account (acme for acme.billomat.net)
- API key: Settings > Administration > Users > API key

Optional:
- App ID and app secret of a registered Billomat app (higher rate limits)
- Profile: save multiple accounts and switch between them

Missing values are prompted for. The credentials are verified against the
API before they are stored unless --no-verify is set.
`),
		Example: strings.TrimSpace(`
  # Interactive login
  billomat auth login

  # Non-interactive login
  billomat auth login --id acme --api-key YOUR_KEY

  # Save to a named profile
  billomat auth login --id acme-test --api-key YOUR_KEY --profile test

  # Load BILLOMAT_* values from a .env file
  billomat auth login --env-file .env
`),
		Args: cobra.NoArgs,
		RunE: RunE(func(cmd *cobra.Command, _ []string) error {
			if envFile != "" {
				envVars, err := loadAuthEnvFile(envFile)
				if err != nil {
					return err
				}
				fill := func(target *string, key string) {
					if *target == "" {
						*target = strings.TrimSpace(envVars[key])
					}
				}
				fill(&billomatID, config.EnvBillomatID)
				fill(&apiKey, config.EnvAPIKey)
				fill(&appID, config.EnvAppID)
				fill(&appSecret, config.EnvAppSecret)
				if !cmd.Flags().Changed("profile") {
					if envProfile := strings.TrimSpace(envVars[config.EnvProfile]); envProfile != "" {
						profile = envProfile
					}
				}
			}

			ioStreams := iocontext.GetIO(cmd.Context())
			prompt := func(target *string, label string) error {
				if *target != "" {
					return nil
				}
				if isJSON(cmd) {
					return fmt.Errorf("--%s is required", label)
				}
				value, err := ioStreams.ReadLine(fmt.Sprintf("%s: ", label))
				if err != nil {
					return fmt.Errorf("--%s is required", label)
				}
				*target = value
				return nil
			}
			if err := prompt(&billomatID, "id"); err != nil {
				return err
			}
			if err := prompt(&apiKey, "api-key"); err != nil {
				return err
			}
			if billomatID == "" || apiKey == "" {
				return fmt.Errorf("--id and --api-key are required")
			}
			if (appID == "") != (appSecret == "") {
				return fmt.Errorf("--app-id and --app-secret must be set together")
			}

			account := config.Account{
				BillomatID: config.NormalizeBillomatID(billomatID),
				APIKey:     strings.TrimSpace(apiKey),
				AppID:      strings.TrimSpace(appID),
				AppSecret:  strings.TrimSpace(appSecret),
			}

			if err := account.Validate(); err != nil {
				return err
			}

			if !noVerify {
				if err := verifyAccount(cmd, account); err != nil {
					return err
				}
			}

			if err := config.SaveProfile(profile, account); err != nil {
				return fmt.Errorf("failed to save credentials: %w", err)
			}

			if isJSON(cmd) {
				return printJSON(cmd, map[string]any{
					"saved":       true,
					"profile":     profile,
					"billomat_id": account.BillomatID,
					"verified":    !noVerify,
				})
			}
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), "Authentication credentials saved successfully!")
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "  Billomat ID: %s\n", account.BillomatID)
			if profile != "" && profile != "default" {
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "  Profile: %s\n", profile)
			}
			return nil
		}),
	}

	cmd.Flags().StringVar(&billomatID, "id", "", "Billomat ID (account subdomain)")
	cmd.Flags().StringVar(&apiKey, "api-key", "", "API key")
	cmd.Flags().StringVar(&appID, "app-id", "", "App ID (optional)")
	cmd.Flags().StringVar(&appSecret, "app-secret", "", "App secret (optional)")
	cmd.Flags().StringVar(&profile, "profile", "default", "Profile name to save credentials under")
	cmd.Flags().StringVar(&envFile, "env-file", "", "Load BILLOMAT_* values from a .env file")
	cmd.Flags().BoolVar(&noVerify, "no-verify", false, "Save without checking the credentials against the API")
	flagAlias(cmd.Flags(), "api-key", "key")
	flagAlias(cmd.Flags(), "env-file", "env")

	return cmd
}

// verifyAccount fetches the account settings, which every valid key may read.
func verifyAccount(cmd *cobra.Command, account config.Account) error {
	cfg := billomat.Config{
		BillomatID:      account.BillomatID,
		APIKey:          account.APIKey,
		AppID:           account.AppID,
		AppSecret:       account.AppSecret,
		BaseURLTemplate: defaults.BaseURL,
		Timeout:         defaults.Timeout,
	}
	if envURL := strings.TrimSpace(os.Getenv(config.EnvBaseURL)); envURL != "" {
		cfg.BaseURLTemplate = envURL
	}
	if flags.Timeout > 0 {
		cfg.Timeout = flags.Timeout
	}

	opts := []billomat.Option{billomat.WithUserAgent(newClientFactory().userAgent)}
	if logger := debug.ClientLogger(cmd.Context()); logger != nil {
		opts = append(opts, billomat.WithLogger(logger))
	}
	client, err := billomat.NewFromConfig(cfg, opts...)
	if err != nil {
		return err
	}
	if _, err := client.Settings().Get(cmd.Context()); err != nil {
		if billomat.IsAuthenticationError(err) {
			return fmt.Errorf("credentials rejected by Billomat: %w", err)
		}
		return fmt.Errorf("failed to verify credentials: %w", err)
	}
	return nil
}

func loadAuthEnvFile(path string) (map[string]string, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, fmt.Errorf("--env-file requires a file path")
	}

	envVars, err := godotenv.Read(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read --env-file %q: %w", path, err)
	}
	return envVars, nil
}

func newAuthStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show current authentication configuration",
		Long:  "Display the credentials in use (the API key is masked).",
		Args:  cobra.NoArgs,
		RunE: RunE(func(cmd *cobra.Command, _ []string) error {
			usingEnv := strings.TrimSpace(os.Getenv(config.EnvBillomatID)) != ""

			profile := flags.Profile
			if profile == "" {
				profile = defaults.Profile
			}
			account, err := config.LoadAccountFor(profile)
			if err != nil {
				if errors.Is(err, config.ErrNotConfigured) {
					if isJSON(cmd) {
						return printJSON(cmd, map[string]any{
							"authenticated": false,
							"message":       "Not authenticated. Run 'billomat auth login' to configure credentials.",
						})
					}
					_, _ = fmt.Fprintln(cmd.OutOrStdout(), "Not authenticated.")
					_, _ = fmt.Fprintln(cmd.OutOrStdout(), "Run 'billomat auth login' to configure credentials.")
					return nil
				}
				return fmt.Errorf("failed to load credentials: %w", err)
			}

			if !usingEnv && profile == "" {
				if current, err := config.CurrentProfile(); err == nil {
					profile = current
				}
			}
			baseURL := billomat.Config{
				BillomatID:      account.BillomatID,
				BaseURLTemplate: firstNonEmpty(os.Getenv(config.EnvBaseURL), defaults.BaseURL),
			}.BaseURL()
			source := "keychain"
			if usingEnv {
				source = "env"
				profile = ""
			}

			if isJSON(cmd) {
				payload := map[string]any{
					"authenticated": true,
					"billomat_id":   account.BillomatID,
					"base_url":      baseURL,
					"api_key":       maskToken(account.APIKey),
					"app_id":        account.AppID,
					"source":        source,
				}
				if profile != "" {
					payload["profile"] = profile
				}
				return printJSON(cmd, payload)
			}

			out := cmd.OutOrStdout()
			_, _ = fmt.Fprintln(out, "Authenticated")
			_, _ = fmt.Fprintf(out, "  Billomat ID: %s\n", account.BillomatID)
			_, _ = fmt.Fprintf(out, "  Base URL: %s\n", baseURL)
			_, _ = fmt.Fprintf(out, "  API Key: %s\n", maskToken(account.APIKey))
			if account.AppID != "" {
				_, _ = fmt.Fprintf(out, "  App ID: %s\n", account.AppID)
			}
			if profile != "" {
				_, _ = fmt.Fprintf(out, "  Profile: %s\n", profile)
			}
			_, _ = fmt.Fprintf(out, "  Source: %s\n", source)
			return nil
		}),
	}
}

func newAuthLogoutCmd() *cobra.Command {
	var profile string

	cmd := &cobra.Command{
		Use:   "logout",
		Short: "Remove credentials from keychain",
		Args:  cobra.NoArgs,
		RunE: RunE(func(cmd *cobra.Command, _ []string) error {
			if profile == "" {
				current, err := config.CurrentProfile()
				if err != nil {
					return err
				}
				profile = current
			}

			if _, err := config.LoadProfile(profile); errors.Is(err, config.ErrNotConfigured) {
				_, _ = fmt.Fprintln(cmd.ErrOrStderr(), "No credentials found.")
				return nil
			}

			if err := config.DeleteProfile(profile); err != nil {
				return fmt.Errorf("failed to remove credentials: %w", err)
			}

			if isJSON(cmd) {
				return printJSON(cmd, map[string]any{"removed": true, "profile": profile})
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Profile %s removed successfully.\n", profile)
			return nil
		}),
	}

	cmd.Flags().StringVar(&profile, "profile", "", "Profile name to remove (defaults to current)")
	return cmd
}

func newAuthUseCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "use <profile>",
		Short: "Switch the current profile",
		Args:  cobra.ExactArgs(1),
		RunE: RunE(func(cmd *cobra.Command, args []string) error {
			profile := strings.TrimSpace(args[0])
			if _, err := config.LoadProfile(profile); err != nil {
				if errors.Is(err, config.ErrNotConfigured) {
					return fmt.Errorf("profile %q not found", profile)
				}
				return err
			}
			if err := config.SetCurrentProfile(profile); err != nil {
				return err
			}
			if isJSON(cmd) {
				return printJSON(cmd, map[string]any{"current_profile": profile})
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Switched to profile %s\n", profile)
			return nil
		}),
	}
}

func newAuthProfilesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "profiles",
		Short: "List stored profiles",
		Args:  cobra.NoArgs,
		RunE: RunE(func(cmd *cobra.Command, _ []string) error {
			profiles, err := config.ListProfiles()
			if err != nil {
				return err
			}
			current, err := config.CurrentProfile()
			if err != nil {
				return err
			}

			if isJSON(cmd) {
				if profiles == nil {
					profiles = []string{}
				}
				return printJSON(cmd, map[string]any{"current": current, "profiles": profiles})
			}

			f := newFormatter(cmd)
			if len(profiles) == 0 {
				f.Empty("No profiles stored. Run 'billomat auth login' first.")
				return nil
			}
			f.StartTable([]string{"PROFILE", "CURRENT"})
			for _, p := range profiles {
				mark := ""
				if p == current {
					mark = "*"
				}
				f.Row(p, mark)
			}
			return f.EndTable()
		}),
	}
}

// maskToken masks an API key for display, showing only first and last 4 characters
func maskToken(token string) string {
	if len(token) < 8 {
		return strings.Repeat("*", len(token))
	}
	return token[:4] + strings.Repeat("*", len(token)-8) + token[len(token)-4:]
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return ""
}
