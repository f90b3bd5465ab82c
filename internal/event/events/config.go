package events

import "github.com/dshills/pagecraft/internal/event/topic"

// TopicConfigChanged is published after the application configuration is
// reloaded.
const TopicConfigChanged topic.Topic = "config.changed"

// ConfigSource indicates where a configuration change came from.
type ConfigSource string

// Configuration sources in order of precedence.
const (
	ConfigSourceDefault ConfigSource = "default"
	ConfigSourceFile    ConfigSource = "file"
	ConfigSourceEnv     ConfigSource = "env"
	ConfigSourceFlag    ConfigSource = "flag"
)

// ConfigChanged is published when the configuration is reloaded.
type ConfigChanged struct {
	// Path is the file that was reloaded, if any.
	Path string

	// Source indicates where the new values came from.
	Source ConfigSource

	// Keys lists the dot-notation keys whose values changed
	// (e.g., "editor.historyLimit").
	Keys []string
}
