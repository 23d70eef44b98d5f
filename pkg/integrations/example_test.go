package integrations_test

import (
	"errors"
	"fmt"

	"github.com/cloudydeno/module-visualizer/pkg/cache"
	"github.com/cloudydeno/module-visualizer/pkg/integrations"
)

func ExamplePathEscape() {
	fmt.Println(integrations.PathEscape("deno_std"))
	fmt.Println(integrations.PathEscape("a b/c"))
	// Output:
	// deno_std
	// a%20b%2Fc
}

func Example_errors() {
	// Upstream misses are also cache misses for callers that only know the cache package.
	fmt.Println("ErrNotFound:", integrations.ErrNotFound)
	fmt.Println(errors.Is(integrations.ErrNotFound, cache.ErrNotFound))
	// Output:
	// ErrNotFound: resource not found
	// true
}
