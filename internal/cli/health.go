package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/suratku/suratku/internal/api"
	"github.com/suratku/suratku/internal/config"
	"github.com/suratku/suratku/pkg/version"
)

// healthOutput is the JSON form of health.
type healthOutput struct {
	api.Health

	Server        string `json:"server"`
	ClientVersion string `json:"client_version"`
	MinVersion    string `json:"min_server_version,omitempty"`
}

func newHealthCmd() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "health",
		Short: "Check that the API is reachable and recent enough",
		Long: `Calls the API health endpoint. When api.min_server_version is configured,
a server reporting an older version is an error.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			format, err := resolveOutput(output)
			if err != nil {
				return err
			}
			client, err := newClient("")
			if err != nil {
				return err
			}
			h, err := client.Health(cmd.Context())
			if err != nil {
				return fmt.Errorf("checking API health: %w", err)
			}

			minimum := config.GetGlobalConfig().API.MinServerVersion
			out := healthOutput{
				Health:        h,
				Server:        client.BaseURL(),
				ClientVersion: version.GetVersion(),
				MinVersion:    minimum,
			}
			if format == outputJSON {
				if err = writeJSON(cmd.OutOrStdout(), out); err != nil {
					return err
				}
			} else {
				tw := newTabWriter(cmd.OutOrStdout())
				fmt.Fprintf(tw, "Server:\t%s\n", out.Server)
				fmt.Fprintf(tw, "Status:\t%s\n", h.Status)
				if h.Version != "" {
					fmt.Fprintf(tw, "Versi server:\t%s\n", h.Version)
				}
				fmt.Fprintf(tw, "Versi klien:\t%s\n", out.ClientVersion)
				if err = tw.Flush(); err != nil {
					return err
				}
			}
			return api.CheckVersion(h, minimum)
		},
	}

	addOutputFlag(cmd, &output)
	return cmd
}
