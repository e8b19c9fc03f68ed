package main

import (
	"os"

	"github.com/fkie-cad/loadscan/app"
)

func main() {
	app.RunApp(os.Args)
}
