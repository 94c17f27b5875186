// Package cli defines the Cobra command tree for the widgetgen CLI. Each file
// in this package registers one top-level command (generate, inspect, config,
// etc.) with the root command. Commands wire the internal packages together
// and only handle flag parsing, I/O formatting, and user interaction.
package cli
