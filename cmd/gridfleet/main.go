package main

import "github.com/andrescamacho/gridfleet-go/internal/adapters/cli"

func main() {
	cli.Execute()
}
