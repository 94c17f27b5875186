// Package config manages user-level settings stored at ~/.widgetgen/config.yaml.
// The settings seed the defaults of the new-project questions (author,
// copyright, license, builder) and control whether dependencies are installed
// after generation. Every key can be overridden by a WIDGETGEN_ environment
// variable.
package config
