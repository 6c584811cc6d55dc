// Command rcprobe reports which shader extension the render core selected
// and exercises the buffer layer against a memory or noop GPU device.
package main

import (
	"os"

	"github.com/gogpu/rendercore/cmd/rcprobe/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
