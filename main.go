package main

import "github.com/curaious/civicpulse/cmd"

func main() {
	cmd.Execute()
}
