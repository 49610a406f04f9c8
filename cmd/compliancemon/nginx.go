package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newNginxCmd(g *globals) *cobra.Command {
	return &cobra.Command{
		Use:   "nginx",
		Short: "Print a sample nginx reverse proxy configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, _, err := g.load(cmd)
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()

			bp := cfg.BasePath
			if bp == "/" {
				bp = "/gdpr"
				fmt.Fprintln(w, "# base_path is \"/\", using \"/gdpr\" as example.")
				fmt.Fprintln(w, "# Set base_path in config.yaml to match your desired location.")
				fmt.Fprintln(w)
			}

			fmt.Fprintf(w, `# nginx reverse proxy configuration for compliancemon
# Add this inside an http { server { ... } } block.

location %s/ {
    proxy_pass         http://%s/;
    proxy_http_version 1.1;

    # WebSocket support
    proxy_set_header   Upgrade $http_upgrade;
    proxy_set_header   Connection "upgrade";

    proxy_set_header   Host              $host;
    proxy_set_header   X-Real-IP         $remote_addr;
    proxy_set_header   X-Forwarded-For   $proxy_add_x_forwarded_for;
    proxy_set_header   X-Forwarded-Proto $scheme;

    proxy_buffering    off;
    proxy_read_timeout 86400s;
}
`, bp, cfg.Listen)

			fmt.Fprintln(w, "# config.yaml should have:")
			fmt.Fprintf(w, "#   base_path: \"%s\"\n", bp)
			return nil
		},
	}
}
