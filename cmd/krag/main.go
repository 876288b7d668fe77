package main

import "krag/internal/cli"

func main() {
	cli.Execute()
}
