// Package npm provides an HTTP client for the npm registry API.
//
// # Overview
//
// Modules served through npm CDNs (esm.sh, skypack, jspm, unpkg, jsdelivr)
// link to npm package pages. The updates badge uses this client to check
// those packages against their dist-tags and to run a security audit.
//
// # Usage
//
//	client := npm.NewClient(store, 15*time.Minute)
//
//	tags, err := client.DistTags(ctx, "react", false)
//	if err != nil {
//	    return err
//	}
//	fmt.Println(tags["latest"])
//
//	vulns, err := client.Audit(ctx, map[string]string{"lodash": "4.17.4"})
//	if err != nil {
//	    return err
//	}
//	fmt.Println(vulns.Worst())
//
// # Caching
//
// Dist-tags are cached per package, and audit results per set of
// packages. Pass refresh=true to bypass the cache.
package npm
