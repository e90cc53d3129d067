package main

import "dat-matcher/cmd"

func main() {
	cmd.Execute()
}
