// Package integrations provides HTTP clients for the upstream APIs the
// front ends consult besides the module graph itself.
//
// # Overview
//
// Each upstream has its own subpackage:
//
//   - [github]: default branch lookup for gh/ slugs
//   - [denoland]: latest version listing for deno.land/x modules
//
// # Client Pattern
//
// Upstream clients embed [Client] and follow a consistent pattern:
//
//	client := denoland.NewClient(c, time.Hour)               // cache + TTL
//	latest, err := client.LatestVersion(ctx, "oak", false)  // false = use cache
//
// Clients handle:
//   - HTTP requests with retry on network errors and 5xx responses
//   - Response caching in any [cache.Cache] backend
//   - API-specific parsing
//
// Requests and responses are reported to the [observability] HTTP hooks.
//
// [github]: github.com/cloudydeno/module-visualizer/pkg/integrations/github
// [denoland]: github.com/cloudydeno/module-visualizer/pkg/integrations/denoland
// [cache.Cache]: github.com/cloudydeno/module-visualizer/pkg/cache.Cache
// [observability]: github.com/cloudydeno/module-visualizer/pkg/observability
package integrations
