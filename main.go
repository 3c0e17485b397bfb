package main

import (
	"os"

	"github.com/MahdiIsse/project-management-sub001/cmd"
)

func main() {
	os.Exit(cmd.Execute())
}
