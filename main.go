package main

import "github.com/notargets/meshdeck/cmd"

func main() {
	cmd.Execute()
}
