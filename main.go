package main

import "github.com/budgetwise/bwise/cmd"

func main() {
	cmd.Execute()
}
