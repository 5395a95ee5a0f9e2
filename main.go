package main

import "retirement-match/cmd"

func main() {
	cmd.Execute()
}
