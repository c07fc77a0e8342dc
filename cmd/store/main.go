package main

import "github.com/frankwiles/store-cli/internal/cli"

func main() {
	cli.Execute()
}
