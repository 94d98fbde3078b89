package main

import "github.com/quillhq/paperchat/internal/adapters/driving/cli"

func main() {
	cli.Execute()
}
