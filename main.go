package main

import (
	"os"

	"github.com/majwic/lisp-abstract-interpreter/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
