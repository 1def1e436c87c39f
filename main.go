package main

import "github.com/oxleyk/meridian/cmd"

func main() {
	cmd.Execute()
}
