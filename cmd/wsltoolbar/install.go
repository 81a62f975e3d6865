package wsltoolbar

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/arthur-debert/wsltoolbar/internal/version"
	"github.com/arthur-debert/wsltoolbar/pkg/filesystem"
	"github.com/arthur-debert/wsltoolbar/pkg/logging"
	"github.com/arthur-debert/wsltoolbar/pkg/menu"
	"github.com/arthur-debert/wsltoolbar/pkg/pipeline"
	"github.com/arthur-debert/wsltoolbar/pkg/ui"
)

func newInstallCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:     "install",
		Short:   MsgInstallShort,
		Long:    MsgInstallLong,
		Example: MsgInstallExample,
		Args:    cobra.NoArgs,
		GroupID: "core",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInstall(cmd, flags)
		},
	}
}

func runInstall(cmd *cobra.Command, flags *globalFlags) error {
	s, err := newSession(cmd, flags)
	if err != nil {
		return err
	}

	if !s.cfg.DryRun && filesystem.Exists(s.fs, s.cfg.InstallDirectory) {
		ok, err := ui.Confirm(fmt.Sprintf(MsgConfirmReplace, s.cfg.InstallDirectory), s.cfg.AssumeYes)
		if err != nil {
			return err
		}
		if !ok {
			fmt.Fprintln(cmd.OutOrStdout(), MsgAborted)
			return nil
		}
	}

	runID := uuid.NewString()
	logging.WithRunID(runID)
	summary, err := s.install(cmd, runID)
	if err != nil {
		return err
	}
	return ui.RenderSummary(cmd.OutOrStdout(), summary, s.format)
}

// install loads the menu and runs one pipeline pass
func (s *session) install(cmd *cobra.Command, runID string) (pipeline.Summary, error) {
	logger := logging.GetLogger("cmd.install").With().Str("run_id", runID).Logger()
	done := logging.LogOperationStart(logger, "install")
	defer done()

	root, err := menu.Load(s.fs, s.cfg.MenuFile, menu.DefaultOptions())
	if err != nil {
		return pipeline.Summary{}, fmt.Errorf(MsgErrReadMenu, err)
	}

	driver, err := pipeline.Build(s.cfg, s.env, s.fs, runID, version.Version)
	if err != nil {
		return pipeline.Summary{}, fmt.Errorf(MsgErrInstall, err)
	}
	summary, err := driver.Run(cmd.Context(), root)
	if err != nil {
		return summary, fmt.Errorf(MsgErrInstall, err)
	}
	return summary, nil
}
