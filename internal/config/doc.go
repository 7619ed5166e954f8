// Package config loads the study server settings from an optional YAML file,
// a .env file and SCRY_* environment variables, in increasing precedence, and
// validates the result before any component is built from it.
package config
