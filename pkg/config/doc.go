// Package config loads the root pipeline configuration from YAML with
// ALPHA_* environment variable overrides. Section-specific configuration
// types live next to the packages they configure; this package composes
// them and supplies the defaults.
package config
