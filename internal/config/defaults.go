package config

// GetDefaultConfigTemplate returns a fully commented config template
// that helps users understand all available options
func GetDefaultConfigTemplate() string {
	return `# Newsbuilder Configuration

# Fragment removal
vcs_tool: git                         # Executable run as '<vcs_tool> rm <fragment>'
remover: command                      # command | go-git (in-process git rm)
require_vcs: false                    # Refuse to release outside a git working tree

# Release headers
header_strategy: project              # project | fixed
header_prefix: ""                     # Prepended to project names, e.g. "Twisted"
fixed_title: Newsbuilder              # Title used by the fixed strategy
fixed_fragments_dir: newsbuilder/topfiles  # Fragments used by the fixed strategy

# Formatting
wrap_width: 70                        # Column at which NEWS entries wrap
`
}

// GetDefaults returns the default configuration values
func GetDefaults() map[string]interface{} {
	return map[string]interface{}{
		"vcs_tool":    "git",
		"remover":     RemoverCommand,
		"require_vcs": false,
		// header_strategy: "project" composes "<prefix> <Name> <version> (<date>)"
		// per discovered project; "fixed" builds a single fragments directory.
		"header_strategy":     "project",
		"header_prefix":       "",
		"fixed_title":         "Newsbuilder",
		"fixed_fragments_dir": "newsbuilder/topfiles",
		"wrap_width":          70,
	}
}
