package cmd

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/url"
	"strings"

	"github.com/spf13/cobra"

	"github.com/teemow/flow-vikunja/internal/config"
	"github.com/teemow/flow-vikunja/internal/flow"
	"github.com/teemow/flow-vikunja/internal/logging"
)

func newConfigureCmd() *cobra.Command {
	var (
		serviceURL string
		token      string
	)

	cmd := &cobra.Command{
		Use:   "configure",
		Short: "Set the Vikunja API URL and token",
		Long: `Write the Vikunja API URL and token to config.json in the plugin directory.
The default list is kept. A config.json that cannot be parsed is replaced.

Example:
  flow-vikunja configure --url https://vikunja.example.com/api/v1 --token tk_...`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("url") && !cmd.Flags().Changed("token") {
				return errors.New("nothing to configure: pass --url and/or --token")
			}
			if cmd.Flags().Changed("url") {
				if err := validateServiceURL(serviceURL); err != nil {
					return err
				}
			}

			a := newApp(cmd.Context(), pluginDir)
			defer func() { _ = a.Close() }()

			return runConfigure(a, cmd.OutOrStdout(), cmd.Flags().Changed("url"), serviceURL, cmd.Flags().Changed("token"), token)
		},
	}

	cmd.Flags().StringVar(&serviceURL, "url", "", "Vikunja API base URL, e.g. https://vikunja.example.com/api/v1")
	cmd.Flags().StringVar(&token, "token", "", "Vikunja API token")

	return cmd
}

func runConfigure(a *app, w io.Writer, setURL bool, serviceURL string, setToken bool, token string) error {
	settings, err := a.store.Load()
	if err != nil {
		if !errors.Is(err, config.ErrInvalid) {
			return err
		}
		a.logger.Warn("replacing unreadable settings file", logging.Err(err))
		settings = config.Default()
	}

	if setURL {
		settings.VikunjaURL = strings.TrimRight(strings.TrimSpace(serviceURL), "/")
	}
	if setToken {
		settings.APIToken = strings.TrimSpace(token)
	}

	if err := a.store.Save(settings); err != nil {
		return err
	}
	a.logger.Info("settings saved",
		slog.String("vikunja_url", settings.VikunjaURL),
		logging.Token(settings.APIToken),
	)

	status := "Ready to create tasks"
	switch {
	case !settings.Configured():
		status = "URL and token are both required"
	case !settings.HasDefaultList():
		status = "Use 'task lists' to choose a list."
	}

	return flow.Write(w, []flow.Item{{
		Title:    "Configuration Saved",
		Subtitle: fmt.Sprintf("%s (%s)", status, a.store.Path()),
		Icon:     a.options.IconPath,
	}})
}

func validateServiceURL(raw string) error {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return fmt.Errorf("invalid --url: %w", err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("invalid --url %q: expected an http(s) URL", raw)
	}
	return nil
}
