// Package normalisers provides implementations of the Normaliser interface
// for policy document formats. Each normaliser turns the raw bytes of one
// MIME type into a domain.Document.
//
// Normalisers are handed to the policy service at startup, which selects
// one per document by MIME type.
package normalisers
