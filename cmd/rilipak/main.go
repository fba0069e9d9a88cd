/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package main

import "github.com/ssargent/rilipak/cmd/rilipak/cmd"

func main() {
	cmd.Execute()
}
