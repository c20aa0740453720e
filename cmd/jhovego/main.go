package main

import (
	"fmt"

	"github.com/ostafen/digler/cmd/jhovego/cmd"
	"github.com/ostafen/digler/internal/env"
)

func main() {
	printBanner()

	_ = cmd.Execute()
}

func printBanner() {
	fmt.Println(" _ _                 ")
	fmt.Println("(_) |__   _____   ___")
	fmt.Println("| | '_ \\ / _ \\ \\ / / _ \\")
	fmt.Println("| | | | | (_) \\ V /  __/")
	fmt.Println("|_|_| |_|\\___/ \\_/ \\___|")
	fmt.Println()
	fmt.Println("Format identification, validation and characterization")
	fmt.Println()
	fmt.Printf("Version:    %s\n", env.Version)
	fmt.Printf("Commit:     %s\n", env.CommitHash)
	fmt.Printf("Build Time: %s\n", env.BuildTime)
	fmt.Println()
}
