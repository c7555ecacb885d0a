package main

import "khunt/cmd"

func main() {
	cmd.Execute()
}
