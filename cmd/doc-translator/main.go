package main

import "doc-translator/internal/cli"

func main() {
	cli.Execute()
}
