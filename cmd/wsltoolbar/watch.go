package wsltoolbar

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/arthur-debert/wsltoolbar/pkg/menu"
	"github.com/arthur-debert/wsltoolbar/pkg/ui"
	"github.com/arthur-debert/wsltoolbar/pkg/watch"
)

func newWatchCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:     "watch",
		Short:   MsgWatchShort,
		Long:    MsgWatchLong,
		Args:    cobra.NoArgs,
		GroupID: "core",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := newSession(cmd, flags)
			if err != nil {
				return err
			}
			// nobody is there to answer prompts once watching
			s.cfg.AssumeYes = true

			reinstall := func(context.Context) error {
				summary, err := s.install(cmd, uuid.NewString())
				if err != nil {
					return err
				}
				return ui.RenderSummary(cmd.OutOrStdout(), summary, s.format)
			}
			if err := reinstall(cmd.Context()); err != nil {
				return err
			}

			opts := menu.DefaultOptions()
			w := &watch.Watcher{
				Dirs:     watch.Dirs(s.cfg.MenuFile, opts.ApplicationDirs, opts.DirectoryDirs, opts.MergeDirs),
				OnChange: reinstall,
			}
			if err := w.Run(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), MsgWatchInterrupt)
			return nil
		},
	}
}
