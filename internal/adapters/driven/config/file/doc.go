// Package file provides the TOML configuration store.
package file
