package main

import "github.com/willay-edu/willay-cli/cmd"

func main() {
	cmd.Execute()
}
