// Package filesystem provides a connector that reads policy documents
// from a local directory and watches it for changes.
package filesystem
