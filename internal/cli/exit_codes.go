package cli

// Exit codes for the newsbuilder CLI
const (
	// ExitSuccess indicates successful command execution
	ExitSuccess = 0

	// ExitFailure indicates a usage error or a failed release. Nothing
	// distinguishes the two for callers; the message on stderr does.
	ExitFailure = 1
)
