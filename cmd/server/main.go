package main

import "github.com/jobdeck/server/cmd/server/cmd"

func main() {
	cmd.Execute()
}
