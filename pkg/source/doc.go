// Package source fetches raw module graph reports.
//
// [DenoInfo] runs `deno info --json` as a subprocess and returns its
// stdout. A failing run becomes a [ProcessError] carrying the first
// stderr line that looks like an error. [Cached] puts any [Source] behind
// a cache.Cache, keyed by module URL.
package source
