package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/churnvision/cvadmin/internal/api"
	"github.com/churnvision/cvadmin/internal/cli/auth"
	"github.com/churnvision/cvadmin/internal/cli/config"
	"github.com/churnvision/cvadmin/internal/cli/serverselect"
	"gopkg.in/yaml.v3"
)

// getSelectedServer loads the config and returns the selected server.
// This is common logic used by most commands.
func getSelectedServer(serverAlias string) (*config.Server, error) {
	cfg, err := config.LoadFromCurrentDir()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w\nRun 'cvadmin init' to create a configuration file", err)
	}

	server, err := serverselect.ResolveServer(cfg, serverAlias)
	if err != nil {
		return nil, err
	}

	if server.URL == "" {
		return nil, fmt.Errorf("server URL is empty. Please edit %s and add a valid URL", config.ConfigFileName)
	}

	return server, nil
}

// newClient builds an API client for the selected server without a credential.
func newClient(serverAlias string) (*api.Client, *config.Server, error) {
	server, err := getSelectedServer(serverAlias)
	if err != nil {
		return nil, nil, err
	}
	return api.New(server.URL), server, nil
}

// newAuthedClient builds an API client carrying the stored bearer token.
func newAuthedClient(serverAlias string) (*api.Client, *config.Server, error) {
	client, server, err := newClient(serverAlias)
	if err != nil {
		return nil, nil, err
	}

	token, err := auth.Default.LoadToken(server.URL)
	if err != nil {
		return nil, nil, err
	}
	client.SetToken(token)

	return client, server, nil
}

// withAuthHint maps a 401 to a re-login hint. The server does not
// distinguish expired from invalid tokens; either way the cure is the same.
func withAuthHint(err error) error {
	if api.IsUnauthorized(err) {
		return fmt.Errorf("%w\nYour session is expired or invalid. Run 'cvadmin login' to re-authenticate", err)
	}
	return err
}

// printResource renders a value as indented JSON or YAML. Table output is
// each command's own business.
func printResource(w io.Writer, v any, format string) error {
	switch format {
	case "json":
		data, err := json.MarshalIndent(v, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal output: %w", err)
		}
		fmt.Fprintln(w, string(data))
	case "yaml":
		data, err := yaml.Marshal(v)
		if err != nil {
			return fmt.Errorf("failed to marshal output: %w", err)
		}
		fmt.Fprint(w, string(data))
	default:
		return fmt.Errorf("unsupported output format '%s' (expected json or yaml)", format)
	}
	return nil
}

// fmtDay renders a timestamp as a calendar day for table output.
func fmtDay(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Format("2006-01-02")
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
