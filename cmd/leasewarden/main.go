package main

import "leasewarden/internal/cli"

func main() {
	cli.Execute()
}
