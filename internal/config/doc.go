// Package config loads the pagecraft configuration.
//
// Configuration is organized in layers with higher layers overriding lower:
//
//	┌─────────────────────────────┐
//	│  4. Command line flags      │  ← Highest priority
//	├─────────────────────────────┤
//	│  3. Environment (PAGECRAFT_)│
//	├─────────────────────────────┤
//	│  2. Config file (toml/yaml) │  ← ~/.config/pagecraft/config.toml
//	├─────────────────────────────┤
//	│  1. Built-in defaults       │  ← Lowest priority
//	└─────────────────────────────┘
//
// The merged layers are decoded into a typed Config:
//
//	snap, err := config.Load(config.Options{File: path})
//	if err != nil {
//	    return err
//	}
//	hist := history.NewHistory(snap.Config.Editor.HistoryLimit)
//
// A config file looks like:
//
//	[editor]
//	historyLimit = 200
//	defaultTextSize = "md"
//
//	[storage]
//	driver = "sqlite"
//	document = "home"
//
// The watcher sub-package reports edits of the file so the application can
// call Load again and apply the keys that changed.
package config
