package main

import "github.com/iwtcode/printerPanel/internal/app"

func main() {
	app.New().Run()
}
