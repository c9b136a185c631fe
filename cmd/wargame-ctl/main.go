package main

import "github.com/andrescamacho/wargame-go/internal/adapters/cli"

func main() {
	cli.Execute()
}
