package main

import "github.com/ppiankov/contentgate/internal/cli"

func main() {
	cli.Execute()
}
