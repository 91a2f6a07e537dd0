package main

import "github.com/rxops/pharmacy-cli/cmd"

func main() {
	cmd.Execute()
}
