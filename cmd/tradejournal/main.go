// Command tradejournal records trades and journals and reports trading performance.
package main

import (
	"context"
	"fmt"
	"os"

	"tradejournal/internal/cli"
	"tradejournal/internal/logging"
)

func main() {
	logger := logging.NewLogger()
	if err := cli.Execute(context.Background(), logger); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
