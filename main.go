package main

import "github.com/modelforge/pgmodel/cmd"

func main() {
	cmd.Execute()
}
