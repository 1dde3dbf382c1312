// Package file provides file-based implementations of configuration
// storage using TOML format.
package file
