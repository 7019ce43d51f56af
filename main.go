package main

import "passkeep/cmd"

func main() {
	cmd.Execute()
}
