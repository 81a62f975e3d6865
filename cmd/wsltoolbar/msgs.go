package wsltoolbar

import (
	_ "embed"
	"strings"
)

// Short messages (one-liners)
const (
	// Command descriptions
	MsgRootShort    = "Windows shortcuts for the applications of a WSL distribution"
	MsgInstallShort = "Create or refresh the shortcuts"
	MsgStatusShort  = "Show the result of the last install"
	MsgWatchShort   = "Reinstall whenever the menu changes"
	MsgConfigShort  = "Print the effective configuration"
	MsgVersionShort = "Print version information"

	// Prompts and notices
	MsgConfirmReplace = "Replace the shortcuts in %s?"
	MsgAborted        = "Nothing changed."
	MsgVersionFormat  = "wsltoolbar %s\n"
	MsgWatchInterrupt = "Stopped watching."

	// Error messages
	MsgErrLoadConfig    = "failed to load configuration: %w"
	MsgErrProbeHost     = "failed to inspect the WSL host: %w"
	MsgErrReadMenu      = "failed to read the menu: %w"
	MsgErrInstall       = "install failed: %w"
	MsgErrStatus        = "failed to read the last run: %w"
	MsgErrUnknownFormat = "invalid --format: %w"

	// Flag descriptions
	MsgFlagVerbose     = "Increase verbosity (-v INFO, -vv DEBUG, -vvv TRACE)"
	MsgFlagConfig      = "Config file (default $XDG_CONFIG_HOME/wsltoolbar/config.toml)"
	MsgFlagEnvFile     = "Read WSLTOOLBAR_ variables from this dotenv file"
	MsgFlagDryRun      = "Preview the shortcuts without writing anything"
	MsgFlagYes         = "Do not ask for confirmation"
	MsgFlagFormat      = "Output format: auto, term, text, yaml or toml"
	MsgFlagStrict      = "Treat duplicate menu paths as fatal"
	MsgFlagTarget      = "Name of the shortcut folder (target_name)"
	MsgFlagDistro      = "Distribution the shortcuts launch (default: the current one)"
	MsgFlagUser        = "User the shortcuts launch as (default: the current one)"
	MsgFlagInstallDir  = "Parent directory of the shortcut folder"
	MsgFlagMetadataDir = "Parent directory of the generated launchers and icons"
	MsgFlagMenuFile    = "freedesktop .menu file to read"
	MsgFlagTheme       = "Preferred icon theme"
	MsgFlagConcurrency = "Entries processed in parallel"
	MsgFlagPersister   = "How shortcuts are written: lnk or powershell"
	MsgFlagDefaults    = "Print the built-in defaults instead"
)

// Long messages from embedded files
var (
	//go:embed msgs/root-long.txt
	msgRootLongRaw string
	MsgRootLong    = strings.TrimSpace(msgRootLongRaw)

	//go:embed msgs/install-long.txt
	msgInstallLongRaw string
	MsgInstallLong    = strings.TrimSpace(msgInstallLongRaw)

	//go:embed msgs/install-example.txt
	msgInstallExampleRaw string
	MsgInstallExample    = strings.TrimRight(msgInstallExampleRaw, "\n")

	//go:embed msgs/status-long.txt
	msgStatusLongRaw string
	MsgStatusLong    = strings.TrimSpace(msgStatusLongRaw)

	//go:embed msgs/watch-long.txt
	msgWatchLongRaw string
	MsgWatchLong    = strings.TrimSpace(msgWatchLongRaw)

	//go:embed msgs/config-long.txt
	msgConfigLongRaw string
	MsgConfigLong    = strings.TrimSpace(msgConfigLongRaw)

	//go:embed msgs/usage-template.txt
	msgUsageTemplateRaw string
	MsgUsageTemplate    = strings.TrimSpace(msgUsageTemplateRaw)
)
