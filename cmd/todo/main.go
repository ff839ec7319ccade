package main

import "github.com/modernice/todoapi/cli"

func main() {
	cli.Main()
}
