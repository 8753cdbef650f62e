// Package cli provides command-line interface setup and configuration
// for the storysnippet application. It handles flag parsing, command
// creation, configuration management using cobra and viper, and console
// progress rendering.
package cli
