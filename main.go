package main

import "github.com/xvierd/dailo/cmd"

func main() {
	cmd.Execute()
}
