// Command nodegraph loads, validates, runs and serves node graphs.
package main

import (
	"context"
	"fmt"
	"os"
)

func main() {
	err := newApp().Run(context.Background(), os.Args)
	if err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
