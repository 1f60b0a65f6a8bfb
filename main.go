package main

import (
	"github.com/pthm-cable/molecule/cli"
	"github.com/pthm-cable/molecule/window"
)

func main() {
	cli.Execute(window.Run)
}
