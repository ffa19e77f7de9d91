// Package tfidf provides an in-memory PolicyIndex backed by a TF-IDF
// vector space over word unigrams and bigrams.
//
// Rows are L2-normalised, so the dot product of a query vector with a row
// is their cosine similarity. Each score is multiplied by the chunk's
// retrieval weight before ranking.
//
// The index holds one immutable snapshot at a time. Build constructs a new
// snapshot off to the side and publishes it with a single atomic store;
// searches in flight keep using the snapshot they loaded.
package tfidf
