package main

import "github.com/OpenTraceLab/OpenTraceSpice/cmd/ots/cmd"

func main() {
	cmd.Execute()
}
