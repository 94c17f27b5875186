// Package manifest reads the metadata descriptors of a widget project: the
// root package.json and the src/package.xml module descriptor. It also
// validates a rendered package.json against the embedded JSON schema.
package manifest
