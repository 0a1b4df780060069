package watch

import (
	"fmt"
	"io"
	"sync"

	"github.com/spf13/cobra"

	"github.com/LegacyCodeHQ/projectimport/cmd/importcmd"
	"github.com/LegacyCodeHQ/projectimport/cmd/importcmd/formatters"
)

// refresher runs one import at a time and reports each outcome.
type refresher struct {
	mu          sync.Mutex
	cmd         *cobra.Command
	projectPath string
	opts        *importcmd.Options
	out         io.Writer
	feed        *graphFeed
	imports     int
}

func newRefresher(cmd *cobra.Command, projectPath string, opts *importcmd.Options, out io.Writer) *refresher {
	return &refresher{cmd: cmd, projectPath: projectPath, opts: opts, out: out}
}

func (r *refresher) refresh() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if ctx := r.cmd.Context(); ctx != nil && ctx.Err() != nil {
		return
	}
	r.imports++

	result, err := r.opts.Import(r.cmd, r.projectPath)
	if err != nil {
		fmt.Fprintf(r.out, "[%d] import failed: %v\n", r.imports, err)
		return
	}

	view := formatters.NewView(result.Graph, result.Diagnostics)
	fmt.Fprintf(r.out, "[%d] %s\n", r.imports, summarize(view))
	for _, d := range view.Diagnostics {
		fmt.Fprintf(r.out, "    [%s] %s\n", d.Source, d.Message)
	}

	if r.feed == nil {
		return
	}
	dot, err := (&formatters.DOTFormatter{}).Format(view)
	if err != nil {
		fmt.Fprintf(r.out, "[%d] graph rendering failed: %v\n", r.imports, err)
		return
	}
	r.feed.publish(dot)
}

func summarize(v formatters.View) string {
	return fmt.Sprintf("imported %s: %s, %s, %s, %s",
		v.Project.Name,
		plural(len(v.Modules), "module"),
		plural(len(v.Libraries), "library"),
		plural(len(v.Tasks), "task"),
		plural(len(v.Diagnostics), "diagnostic"),
	)
}

func plural(n int, noun string) string {
	if n == 1 {
		return fmt.Sprintf("1 %s", noun)
	}
	if noun == "library" {
		return fmt.Sprintf("%d libraries", n)
	}
	return fmt.Sprintf("%d %ss", n, noun)
}
