// Package project classifies a destination directory as a new project or an
// existing one and recovers the configuration the existing project was
// generated with.
package project
