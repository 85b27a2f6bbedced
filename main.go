package main

import "github.com/kozaktomas/face-reader/cmd"

func main() {
	cmd.Execute()
}
