package cli

import (
	_ "embed"
	"strings"
)

// Short messages (one-liners)
const (
	// Command descriptions
	MsgRootShort          = "OpenCode configuration profiles manager"
	MsgVersionShort       = "Print version information"
	MsgVersionLong        = "Print detailed version information including commit hash and build date"
	MsgProfileShort       = "Manage OpenCode configuration profiles"
	MsgProfileListShort   = "List discovered profiles"
	MsgProfileUseShort    = "Switch to a profile by name"
	MsgProfileShowShort   = "Show the effective files of a profile"
	MsgProfileCreateShort = "Create a new profile in the current repository"
	MsgRefreshShort       = "Pull latest changes for profile repositories"
	MsgRepositoryShort    = "Manage profile repositories"
	MsgRepoAddShort       = "Add a configuration repository"
	MsgRepoDeleteShort    = "Delete an added repository"
	MsgRepoListShort      = "List configured repositories"
	MsgRepoCreateShort    = "Create a profile repository in the current directory"
	MsgConfigShort        = "Inspect ocp settings"
	MsgConfigShowShort    = "Print the effective configuration as TOML"
	MsgConfigInitShort    = "Write the default configuration file"
	MsgTopicsShort        = "Display available documentation topics"
	MsgTopicsLong         = "Display a list of all available help topics that provide additional documentation beyond command help."
	MsgCompletionShort    = "Generate shell completion script"

	// Status messages
	MsgNoProfiles         = "No profiles available yet. Add a repository with `ocp repository add`."
	MsgCheckingVersions   = "Checking latest versions..."
	MsgProfileCreated     = "Created profile `%s` in %s."
	MsgRepoAdded          = "Added repository `%s`."
	MsgRepoDeleted        = "Deleted repository `%s`."
	MsgRepoCreated        = "Created repository at %s"
	MsgConfigWritten      = "Wrote default configuration to %s"
	MsgReactivated        = "Re-activated profile `%s`."
	MsgRefreshedProfile   = "Refreshed profile `%s`."
	MsgDiscardedProfile   = "Discarded local changes and refreshed profile `%s`."
	MsgForcePushedProfile = "Committed local changes, force-pushed, and refreshed profile `%s`."
	MsgRefreshedAll       = "Refreshed all repositories."
	MsgDiscardedAll       = "Discarded local changes where needed and refreshed all repositories."
	MsgForcePushedAll     = "Resolved local changes (including commit + force push) and refreshed all repositories."
	MsgDiscarding         = "Discarding local changes in repository `%s` and retrying refresh. This may take a moment..."
	MsgDiscarded          = "Local changes discarded in repository `%s`."
	MsgForcePushing       = "Committing local changes and force-pushing repository `%s`. This may take a moment..."
	MsgForcePushed        = "Local changes committed and force-pushed for repository `%s`."
	MsgRefreshCancelled   = "refresh cancelled. Local changes were left untouched"
	MsgConflictUnresolved = "local changes in repository `%s` are still present after `%s`"
	MsgErrOnConflict      = "invalid --on-conflict value %q (expected prompt, discard, commit or nothing)"

	// Version output
	MsgVersionFormat = "ocp version %s\n"
	MsgCommitFormat  = "Commit: %s\n"
	MsgBuiltFormat   = "Built:  %s\n"

	// Error messages
	MsgErrInitPaths  = "failed to initialize paths: %w"
	MsgErrLoadConfig = "failed to load configuration: %w"
	MsgErrNoCommand  = "no command specified"

	// Flag descriptions
	MsgFlagVerbose     = "Increase verbosity (-v INFO, -vv DEBUG, -vvv TRACE)"
	MsgFlagFormat      = "Output format: auto, term, text, json or yaml"
	MsgFlagTargetDir   = "Directory the active profile is linked into"
	MsgFlagOnConflict  = "What to do with local changes: prompt, discard, commit or nothing"
	MsgFlagDescription = "Description of the new profile"
	MsgFlagExtends     = "Name of the profile the new profile extends"
	MsgFlagProfileName = "Optional initial profile name"
	MsgFlagForce       = "Overwrite an existing configuration file"
)

// Long messages from embedded files
var (
	//go:embed msgs/root-long.txt
	msgRootLongRaw string
	MsgRootLong    = strings.TrimSpace(msgRootLongRaw)

	//go:embed msgs/use-long.txt
	msgUseLongRaw string
	MsgUseLong    = strings.TrimSpace(msgUseLongRaw)

	//go:embed msgs/use-example.txt
	msgUseExampleRaw string
	MsgUseExample    = strings.TrimSpace(msgUseExampleRaw)

	//go:embed msgs/refresh-long.txt
	msgRefreshLongRaw string
	MsgRefreshLong    = strings.TrimSpace(msgRefreshLongRaw)

	//go:embed msgs/refresh-example.txt
	msgRefreshExampleRaw string
	MsgRefreshExample    = strings.TrimSpace(msgRefreshExampleRaw)

	//go:embed msgs/repository-example.txt
	msgRepositoryExampleRaw string
	MsgRepositoryExample    = strings.TrimSpace(msgRepositoryExampleRaw)

	//go:embed msgs/completion-long.txt
	msgCompletionLongRaw string
	MsgCompletionLong    = strings.TrimSpace(msgCompletionLongRaw)
)
