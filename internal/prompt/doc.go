// Package prompt implements the ways a run collects its answers: a Terminal
// prompter that asks the operator line by line, and a File prompter that reads
// a YAML or TOML answers file for unattended runs.
package prompt
