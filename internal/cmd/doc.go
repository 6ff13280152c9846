// Package cmd provides the command-line interface implementation for operalote.
//
// It uses the Cobra library for command structure and Fang for styling. Each
// command lives in its own file with a constructor returning a *cobra.Command:
//   - migrate: move a lot to a new identifier
//   - tally: count infraction codes
//   - edit-codes: replace one infraction code with another
//   - verify: check a lot against the post-migration invariants
//   - scan: classify and count the entries of a lot
//   - normalize: preview file name rewrites
//   - seed: write a synthetic legacy lot
//
// The root command loads the configuration and builds the logger before any
// subcommand runs; the subcommands share them through an app value.
package cmd
