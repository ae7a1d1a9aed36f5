package main

import "github.com/tomschang/betabern/cmd/betabern/cmd"

func main() {
	cmd.Execute()
}
