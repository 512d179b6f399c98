package main

import (
	"github.com/robotalks/wcan/pkg/cli/sh"
	"github.com/robotalks/wcan/pkg/env"
)

//go-build: CGO_ENABLED=0

func init() {
	env.SetupFlags()
}

func main() {
	sh.Main()
}
