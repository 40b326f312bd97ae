// Package file reads and writes documents on the local filesystem for
// path-based load and save.
package file
