package main

import "vocalhire/interview/internal/cli"

func main() {
	cli.Execute()
}
