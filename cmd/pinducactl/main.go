package main

import "pinduca/cmd/pinducactl/command"

func main() {
	command.Execute()
}
