// Package storage writes scrape results to disk.
//
// WriteProfile encodes the profile document as JSON (two-space indent, keys
// in model order) or YAML and replaces the target file atomically through a
// temporary file and rename. Manager stores downloaded images for a single
// profile, one file per post id, and skips ids already on disk.
package storage
