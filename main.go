package main

import "github.com/ftl/desstv/cmd"

func main() {
	cmd.Execute()
}
