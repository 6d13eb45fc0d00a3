package main

import (
	_ "embed"

	"github.com/notefield/notebook-service/cmd"
)

//go:embed config/config.yaml
var configDefault string

func main() {
	cmd.Execute(configDefault)
}
