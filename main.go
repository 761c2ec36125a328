// main - entry-point to the wasl payments commands through cobra
// individual commands are outlined in ./cmd/
package main

import (
	"github.com/wasl-app/payments/cmd"
	"github.com/wasl-app/payments/libs/logging"
)

var (
	// variables will be overwritten at build time
	version   string
	commit    string
	buildTime string
)

func main() {
	defer func() {
		if logging.Writer != nil {
			logging.Writer.Close()
		}
	}()
	cmd.Execute(version, commit, buildTime)
}
