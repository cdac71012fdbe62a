package main

import (
	"os"

	"github.com/gobookshelf/gobookshelf/app"
)

func main() {
	err := app.Execute()
	if err != nil {
		os.Exit(1)
	}
}
