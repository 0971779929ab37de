// Package config manages user-level settings stored at ~/.xcache/config.yaml.
//
// Values resolve in viper's usual order: explicit Set or bound flag, then
// XCODE_LINKS_* environment variables, then the config file, then the
// defaults registered here. Current turns the resolved values into a typed
// Settings value for one run.
package config
