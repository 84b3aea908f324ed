package main

import "github.com/markpast92/YT-Transcriber/cmd"

func main() {
	cmd.Execute()
}
