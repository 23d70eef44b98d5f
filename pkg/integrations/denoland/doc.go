// Package denoland reads module metadata from the deno.land/x CDN.
//
// Every published third-party module exposes a version listing at
// https://cdn.deno.land/<name>/meta/versions.json:
//
//	{"latest": "v12.6.1", "versions": ["v12.6.1", "v12.6.0", ...]}
//
// [Client.LatestVersion] backs the latest-version badge.
package denoland
