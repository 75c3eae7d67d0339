package main

import "github.com/gabriel/reading-tracker/backend/internal/cli"

func main() {
	cli.Execute()
}
