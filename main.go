package main

import "github.com/gfscan/gfscan/cmd"

func main() {
	cmd.Execute()
}
