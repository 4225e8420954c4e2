package main

import (
	"github.com/aulaplay/aulaplay-go/internal/cli"
)

func main() {
	cli.Execute()
}
