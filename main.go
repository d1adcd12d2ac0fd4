package main

import "github.com/chrisdamba/nutriparse/cmd"

func main() {
	cmd.Execute()
}
