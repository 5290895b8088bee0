package main

import "github.com/chriserin/rmd/cmd"

func main() {
	cmd.Execute()
}
