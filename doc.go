// Package main provides the operalote command-line interface.
//
// operalote re-identifies lots of traffic-infraction evidence on disk. A lot
// is a directory named by its identifier (L03313, 0003313) holding a record
// directory, an evidence directory of images, a checksum manifest and
// semicolon-delimited record files. Migrating a lot renames every part of
// that tree that embeds the old identifier and rewrites the records to match,
// leaving manifests untouched.
//
// Subcommands:
//   - migrate: move a lot to a new identifier
//   - tally, edit-codes: inspect and edit infraction codes
//   - verify, scan: inspect a lot tree
//   - normalize, seed: preview renames and generate test lots
package main
