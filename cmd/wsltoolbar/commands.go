package wsltoolbar

import (
	"context"
	"fmt"
	"os"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/arthur-debert/wsltoolbar/internal/version"
	"github.com/arthur-debert/wsltoolbar/pkg/config"
	"github.com/arthur-debert/wsltoolbar/pkg/filesystem"
	"github.com/arthur-debert/wsltoolbar/pkg/hostenv"
	"github.com/arthur-debert/wsltoolbar/pkg/logging"
	"github.com/arthur-debert/wsltoolbar/pkg/ui"
)

// globalFlags are the persistent flags shared by every command
type globalFlags struct {
	verbosity  int
	configFile string
	envFile    string
	format     string
}

// flagKeys maps flag names to the configuration keys they override.
// Only flags the user actually set are applied.
var flagKeys = map[string]string{
	"dry-run":            "dry_run",
	"yes":                "assume_yes",
	"strict":             "strict",
	"target-name":        "target_name",
	"distribution":       "distribution",
	"user":               "user",
	"install-directory":  "install_directory",
	"metadata-directory": "metadata_directory",
	"menu-file":          "menu_file",
	"theme":              "theme.preferred",
	"concurrency":        "concurrency",
	"persister":          "persister",
}

// probeHost is replaced in tests
var probeHost = func(ctx context.Context) (*hostenv.Environment, error) {
	return hostenv.NewProber().Probe(ctx)
}

// NewRootCmd creates and returns the root command
func NewRootCmd() *cobra.Command {
	initTemplateFormatting()

	flags := &globalFlags{}
	rootCmd := &cobra.Command{
		Use:     "wsltoolbar",
		Short:   MsgRootShort,
		Long:    MsgRootLong,
		Version: version.Version,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			logging.SetupLogger(flags.verbosity)
			log.Debug().Str("command", cmd.Name()).Msg("Command started")
		},
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInstall(cmd, flags)
		},
		SilenceUsage:      true,
		SilenceErrors:     true,
		DisableAutoGenTag: true,
	}

	pf := rootCmd.PersistentFlags()
	pf.CountVarP(&flags.verbosity, "verbose", "v", MsgFlagVerbose)
	pf.StringVar(&flags.configFile, "config", "", MsgFlagConfig)
	pf.StringVar(&flags.envFile, "env-file", "", MsgFlagEnvFile)
	pf.StringVar(&flags.format, "format", "auto", MsgFlagFormat)
	pf.Bool("dry-run", false, MsgFlagDryRun)
	pf.BoolP("yes", "y", false, MsgFlagYes)
	pf.Bool("strict", false, MsgFlagStrict)
	pf.String("target-name", "", MsgFlagTarget)
	pf.StringP("distribution", "d", "", MsgFlagDistro)
	pf.StringP("user", "u", "", MsgFlagUser)
	pf.String("install-directory", "", MsgFlagInstallDir)
	pf.String("metadata-directory", "", MsgFlagMetadataDir)
	pf.String("menu-file", "", MsgFlagMenuFile)
	pf.String("theme", "", MsgFlagTheme)
	pf.Int("concurrency", 0, MsgFlagConcurrency)
	pf.String("persister", "", MsgFlagPersister)

	rootCmd.AddGroup(&cobra.Group{ID: "core", Title: "COMMANDS:"})
	rootCmd.AddGroup(&cobra.Group{ID: "misc", Title: "MISC:"})
	rootCmd.SetUsageTemplate(MsgUsageTemplate)

	rootCmd.AddCommand(newInstallCmd(flags))
	rootCmd.AddCommand(newStatusCmd(flags))
	rootCmd.AddCommand(newWatchCmd(flags))
	rootCmd.AddCommand(newConfigCmd(flags))
	rootCmd.AddCommand(newVersionCmd())

	return rootCmd
}

// flagOverrides collects the changed flags as configuration overrides
func flagOverrides(fs *pflag.FlagSet) map[string]interface{} {
	out := make(map[string]interface{})
	fs.Visit(func(f *pflag.Flag) {
		if key, ok := flagKeys[f.Name]; ok {
			out[key] = f.Value.String()
		}
	})
	return out
}

// loadConfig merges every configuration layer with the flags of cmd
func loadConfig(cmd *cobra.Command, flags *globalFlags) (*config.Config, error) {
	cfg, err := config.LoadConfiguration(config.LoadOptions{
		ConfigFile: flags.configFile,
		EnvFile:    flags.envFile,
		Overrides:  flagOverrides(cmd.Flags()),
	})
	if err != nil {
		return nil, fmt.Errorf(MsgErrLoadConfig, err)
	}
	return cfg, nil
}

// session is the resolved configuration together with the probed host
type session struct {
	cfg    *config.Config
	env    *hostenv.Environment
	fs     filesystem.FS
	format ui.Format
}

func newSession(cmd *cobra.Command, flags *globalFlags) (*session, error) {
	format, err := ui.ParseFormat(flags.format)
	if err != nil {
		return nil, fmt.Errorf(MsgErrUnknownFormat, err)
	}
	cfg, err := loadConfig(cmd, flags)
	if err != nil {
		return nil, err
	}
	env, err := probeHost(cmd.Context())
	if err != nil {
		return nil, fmt.Errorf(MsgErrProbeHost, err)
	}
	if err := cfg.Resolve(env); err != nil {
		return nil, fmt.Errorf(MsgErrLoadConfig, err)
	}
	log.Debug().Str("config", cfg.String()).Msg("Configuration resolved")

	return &session{
		cfg:    cfg,
		env:    env,
		fs:     filesystem.NewOS(),
		format: ui.Resolve(format, os.Stdout),
	}, nil
}
