package main

import "github.com/KaramelBytes/csvtype-cli/cmd"

func main() {
	cmd.Execute()
}
