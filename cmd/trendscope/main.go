package main

import (
	"os"

	"horse.fit/trendscope/internal/app"
)

func main() {
	os.Exit(app.Run(os.Args[1:]))
}
