package commands

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/TWRT/project-gantt/internal/service"
)

type renderOptions struct {
	out       string
	projectId int64
	from      string
	to        string
	mode      string
}

func addRender(topLevel *cobra.Command, o *rootOptions) {
	ro := &renderOptions{}

	cmd := &cobra.Command{
		Use:   "render",
		Short: "Write one SVG snapshot of the Gantt chart.",
		Example: `
project-gantt render --out march.svg --from 2024-03-01 --to 2024-03-31
project-gantt render --project 7 --mode Week > sprint.svg
`,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			if ro.out != "" && ro.out != "-" {
				f, err := os.Create(ro.out)
				if err != nil {
					return err
				}
				defer f.Close()
				out = f
			}
			return o.render(cmd.Context(), ro, out)
		},
	}
	cmd.Flags().StringVarP(&ro.out, "out", "o", "", "output file (default stdout)")
	cmd.Flags().Int64Var(&ro.projectId, "project", 0, "only tasks of this project id")
	cmd.Flags().StringVar(&ro.from, "from", "", "first day shown, YYYY-MM-DD (default start of this month)")
	cmd.Flags().StringVar(&ro.to, "to", "", "last day shown, YYYY-MM-DD (default end of this month)")
	cmd.Flags().StringVar(&ro.mode, "mode", "", "zoom: Quarter Day, Half Day, Day, Week, Month or Year")

	topLevel.AddCommand(cmd)
}

func (ro *renderOptions) update() (service.ViewUpdate, bool) {
	var u service.ViewUpdate
	changed := false
	if ro.projectId != 0 {
		u.ProjectId = &ro.projectId
		changed = true
	}
	if ro.from != "" {
		u.DateFrom = &ro.from
		changed = true
	}
	if ro.to != "" {
		u.DateTo = &ro.to
		changed = true
	}
	if ro.mode != "" {
		u.ViewMode = &ro.mode
		changed = true
	}
	return u, changed
}

func (o *rootOptions) render(ctx context.Context, ro *renderOptions, out io.Writer) error {
	a, err := o.newApp(false)
	if err != nil {
		return err
	}
	defer a.Close()

	if err := a.gantt.Init(ctx); err != nil {
		return err
	}
	if u, ok := ro.update(); ok {
		if err := a.gantt.UpdateView(ctx, u); err != nil {
			return err
		}
	}

	w := bufio.NewWriter(out)
	if err := a.gantt.RenderSVG(w); err != nil {
		return fmt.Errorf("render chart: %w", err)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	state := a.gantt.State()
	o.logger.Info("chart written", "tasks", len(state.Tasks), "from", state.DateFrom, "to", state.DateTo, "mode", state.ViewMode)
	return nil
}
