package main

import "github.com/gaurav-prasanna/filmdex/cmd"

func main() {
	cmd.Execute()
}
