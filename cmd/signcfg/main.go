package main

import "github.com/rzbill/signcfg/pkg/cli/cmd"

func main() {
	cmd.Execute()
}
