package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/suratku/suratku/internal/api"
	"github.com/suratku/suratku/internal/cache"
	"github.com/suratku/suratku/internal/config"
	"github.com/suratku/suratku/internal/letters"
	"github.com/suratku/suratku/internal/numbering"
	"github.com/suratku/suratku/internal/report"
	"github.com/suratku/suratku/internal/session"
)

// ExitCodeAuth is the exit status used when a command needs a fresh login.
const ExitCodeAuth = 2

// Output formats accepted by --output.
const (
	outputTable = "table"
	outputJSON  = "json"
)

// tabPadding is the minimum column padding for tabwriter output.
const tabPadding = 2

var errUnsupportedOutput = errors.New("unsupported output format")

// ExitError carries the process exit status for err.
type ExitError struct {
	Code int
	Err  error
}

func (e *ExitError) Error() string {
	return e.Err.Error()
}

func (e *ExitError) Unwrap() error {
	return e.Err
}

// app is what an authenticated command works with.
type app struct {
	cfg    *config.Config
	store  *session.Store
	sess   *session.Session
	client *api.Client
}

// sessionStore opens the configured session file.
func sessionStore() (*session.Store, error) {
	store, err := session.NewStore(config.GetGlobalConfig().Session.File)
	if err != nil {
		return nil, fmt.Errorf("opening session store: %w", err)
	}
	return store, nil
}

// newClient builds an API client from the global configuration.
func newClient(token string) (*api.Client, error) {
	cfg := config.GetGlobalConfig()
	client, err := api.New(cfg.API.BaseURL,
		api.WithTimeout(cfg.API.Timeout()),
		api.WithRateLimit(cfg.API.RateLimit, cfg.API.RateBurst),
		api.WithToken(token),
		api.WithLogger(baseLogger),
	)
	if err != nil {
		return nil, fmt.Errorf("creating API client: %w", err)
	}
	return client, nil
}

// requireSession loads the active session and an authenticated client. A
// missing or expired session maps to ExitCodeAuth.
func requireSession(cmd *cobra.Command) (*app, error) {
	store, err := sessionStore()
	if err != nil {
		return nil, err
	}
	sess, err := store.Active(time.Now())
	if err != nil {
		if errors.Is(err, session.ErrNotLoggedIn) ||
			errors.Is(err, session.ErrSessionExpired) ||
			errors.Is(err, session.ErrSessionCorrupted) {
			return nil, &ExitError{Code: ExitCodeAuth, Err: err}
		}
		return nil, fmt.Errorf("loading session: %w", err)
	}

	cfg := config.GetGlobalConfig()
	if sess.BaseURL != "" && sess.BaseURL != strings.TrimRight(cfg.API.BaseURL, "/") {
		logger.Warn().Ctx(cmd.Context()).
			Str("session_url", sess.BaseURL).
			Str("api_url", cfg.API.BaseURL).
			Msg("session was issued by a different server")
	}

	client, err := newClient(sess.Token)
	if err != nil {
		return nil, err
	}
	return &app{cfg: cfg, store: store, sess: sess, client: client}, nil
}

// requireSuperAdmin is requireSession for super-admin only commands.
func requireSuperAdmin(cmd *cobra.Command) (*app, error) {
	a, err := requireSession(cmd)
	if err != nil {
		return nil, err
	}
	if err = a.sess.RequireSuperAdmin(); err != nil {
		return nil, err
	}
	return a, nil
}

// wrap annotates an API failure with the action that failed. A rejected
// token clears the stored session.
func (a *app) wrap(err error, action string) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, api.ErrUnauthorized) {
		if clearErr := a.store.Clear(); clearErr != nil {
			logger.Warn().Err(clearErr).Msg("could not clear rejected session")
		}
		return &ExitError{Code: ExitCodeAuth, Err: fmt.Errorf("%s: %w", action, session.ErrSessionExpired)}
	}
	return fmt.Errorf("%s: %w", action, err)
}

// cache opens the reference-data cache. Failures disable caching.
func (a *app) cache() *cache.Store {
	c := a.cfg.Cache
	store, err := cache.NewStore(c.Directory, c.Enabled, time.Duration(c.TTLSeconds)*time.Second)
	if err != nil {
		logger.Warn().Err(err).Msg("reference cache disabled")
		return nil
	}
	return store
}

// cacheScope keys cached reference data by server and user.
func (a *app) cacheScope() []string {
	return []string{a.cfg.API.BaseURL, strconv.FormatInt(a.sess.User.ID, 10)}
}

// forgetOptions drops cached filter options after a change on the server.
func (a *app) forgetOptions(cmd *cobra.Command, names ...string) {
	if err := letters.ForgetOptions(a.cache(), a.cacheScope(), names...); err != nil {
		logger.Warn().Ctx(cmd.Context()).Err(err).Msg("could not drop cached filter options")
	}
}

// addOutputFlag registers --output on cmd.
func addOutputFlag(cmd *cobra.Command, output *string) {
	cmd.Flags().StringVarP(output, "output", "o", "",
		"Output format: table, json (default from config output.default_format)")
}

// resolveOutput applies the configured default to the --output value.
func resolveOutput(flagValue string) (string, error) {
	switch format := config.GetOutputFormat(flagValue); format {
	case outputTable, outputJSON:
		return format, nil
	default:
		return "", fmt.Errorf("%w: %s", errUnsupportedOutput, format)
	}
}

// writeJSON writes v as indented JSON.
func writeJSON(w io.Writer, v any) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(v); err != nil {
		return fmt.Errorf("encoding JSON: %w", err)
	}
	return nil
}

func newTabWriter(w io.Writer) *tabwriter.Writer {
	return tabwriter.NewWriter(w, 0, 0, tabPadding, ' ', 0)
}

// outputIsTerminal reports whether cmd writes to a terminal.
func outputIsTerminal(cmd *cobra.Command) bool {
	f, ok := cmd.OutOrStdout().(*os.File)
	return ok && isTerminal(f)
}

// dateFormatter formats dates in the configured locale and zone.
func dateFormatter() numbering.DateFormatter {
	out := config.GetGlobalConfig().Output
	return numbering.NewDateFormatter(out.Locale, out.Location())
}

// newRenderer returns a report renderer that styles output on a terminal.
func newRenderer(cmd *cobra.Command) *report.Renderer {
	out := config.GetGlobalConfig().Output
	return report.NewRenderer(report.Options{
		Styled:   outputIsTerminal(cmd),
		Locale:   out.Locale,
		Location: out.Location(),
	})
}

// parseID reads a positive record id argument.
func parseID(arg, what string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(arg), 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid %s id %q", what, arg)
	}
	return id, nil
}

// changedString returns a pointer to the flag's value when it was set.
func changedString(cmd *cobra.Command, name, value string) *string {
	if !cmd.Flags().Changed(name) {
		return nil
	}
	return &value
}
