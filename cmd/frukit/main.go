/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package main

import (
	"github.com/ssargent/frukit/cmd/frukit/cmd"
)

func main() {
	cmd.Execute()
}
