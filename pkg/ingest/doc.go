// Package ingest turns the JSON report of `deno info --json` into a
// normalized [modmap.Map].
//
// [Parse] decodes and validates the report into a [RawGraph]; [Build]
// establishes the root node first, ingests every file in report order
// with the report's redirect table, and runs both normalization passes.
//
// Both the current report shape (roots, resolved code/type objects) and
// the older one (root, plain URL strings) are accepted.
//
// [modmap.Map]: github.com/cloudydeno/module-visualizer/pkg/modmap.Map
package ingest
