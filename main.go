// skycatch searches astronomical survey archives for comets, asteroids
// and fixed sky positions, caching results for reuse.
package main

import (
	"os"

	"github.com/custodia-labs/skycatch/internal/adapters/driving/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
