// Package runtime runs the external tools a generated project depends on: the
// npm installer and the grunt or gulp build. Commands run in the project
// directory with node_modules/.bin on PATH and stream their output to the
// configured writers.
package runtime
