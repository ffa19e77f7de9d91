// Package connectors holds implementations of the driven Connector port.
// A connector knows how to list and read policy documents from one kind of
// source and how to report changes to them.
//
// The filesystem connector is the only source today.
package connectors
