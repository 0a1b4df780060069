package watch

import (
	"fmt"
	"net"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/LegacyCodeHQ/projectimport/cmd/importcmd"
	"github.com/LegacyCodeHQ/projectimport/internal/ctxlog"
)

type watchOptions struct {
	importcmd.Options
	port int
}

// Cmd represents the watch command.
var Cmd = NewCommand()

// NewCommand returns a new watch command instance.
func NewCommand() *cobra.Command {
	opts := &watchOptions{}

	cmd := &cobra.Command{
		Use:   "watch [dir]",
		Short: "Re-import a project whenever its build files change",
		Long: `Watch imports the project in dir (default: the current directory), then
re-imports it whenever a build script, gradle.properties, a settings file
or a recorded snapshot changes, printing a summary after every import.

With --port the latest project graph is also served as DOT at / and streamed
as server-sent events at /events.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWatch(cmd, importcmd.ProjectDir(args), opts)
		},
	}

	opts.AddFlags(cmd)
	cmd.Flags().IntVarP(&opts.port, "port", "P", 0, "Serve the live project graph on this HTTP port (0 disables the server)")

	return cmd
}

func runWatch(cmd *cobra.Command, projectPath string, opts *watchOptions) error {
	absProjectPath, err := filepath.Abs(projectPath)
	if err != nil {
		return fmt.Errorf("failed to resolve project path: %w", err)
	}
	projectPath = absProjectPath

	ctx, cancel := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer cancel()
	cmd.SetContext(ctx)

	r := newRefresher(cmd, projectPath, &opts.Options, cmd.OutOrStdout())

	if opts.port > 0 {
		r.feed = newGraphFeed()
		srv := newServer(r.feed, opts.port)
		ln, err := net.Listen("tcp", srv.Addr)
		if err != nil {
			return fmt.Errorf("failed to listen on port %d: %w", opts.port, err)
		}
		go srv.Serve(ln)
		defer srv.Close()
	}

	r.refresh()

	fmt.Fprintf(cmd.OutOrStdout(), "Watching %s\n", projectPath)
	if opts.port > 0 {
		fmt.Fprintf(cmd.OutOrStdout(), "Serving at http://localhost:%d\n", opts.port)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Press Ctrl+C to stop\n")

	if err := watchAndReimport(ctx, projectPath, ctxlog.FromContext(ctx), r.refresh); err != nil {
		return fmt.Errorf("failed to watch build files: %w", err)
	}
	return nil
}
