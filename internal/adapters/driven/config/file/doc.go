// Package file provides the file-based configuration store.
//
// ConfigStore reads a TOML file from the padctl config directory, exposes
// its values by dotted key and maps them onto a domain.SessionConfig. Set
// and Unset validate the whole configuration before writing. Watch reports
// edits to the file so a running session can apply them.
package file
