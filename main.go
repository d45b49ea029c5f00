// Package main is the entry point of the gradlemeta command.
package main

import "gradlemeta/cmd"

func main() {
	cmd.Execute()
}
