// Package scaffold materializes the embedded widget templates into a project
// directory. It powers "widgetgen generate": a declarative catalog decides
// which templates apply to a new or upgraded project, the render rules fill
// in the widget's name and metadata, and the Orchestrator removes stale build
// configuration before writing the fresh files.
package scaffold
