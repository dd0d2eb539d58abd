package main

import "github.com/haarrywhiite/Farkle/cmd"

func main() {
	cmd.Execute()
}
