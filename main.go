package main

import "github.com/princinho/portfoliobackend/cmd"

func main() {
	cmd.Execute()
}
