package main

import "odosight/cmd/odosight/cmd"

func main() {
	cmd.Execute()
}
