// Package main is the entry point for the genfix CLI.
package main

import "genfix.dev/pkg/genfix/cmd"

func main() {
	cmd.Execute()
}
