package main

import "github.com/Alturino/florist/cmd"

func main() {
	cmd.Start()
}
