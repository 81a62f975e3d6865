package wsltoolbar

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/arthur-debert/wsltoolbar/pkg/manifest"
	"github.com/arthur-debert/wsltoolbar/pkg/paths"
	"github.com/arthur-debert/wsltoolbar/pkg/ui"
)

func newStatusCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:     "status",
		Short:   MsgStatusShort,
		Long:    MsgStatusLong,
		Args:    cobra.NoArgs,
		GroupID: "core",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := newSession(cmd, flags)
			if err != nil {
				return err
			}
			m, err := manifest.Read(s.fs, paths.MetadataPrefix(s.cfg.MetadataDirectory, paths.ManifestName))
			if err != nil {
				return fmt.Errorf(MsgErrStatus, err)
			}
			return ui.RenderManifest(cmd.OutOrStdout(), m, s.format)
		},
	}
}
