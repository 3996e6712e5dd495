package main

import "github.com/eyuppastirmaci/agenda-pulse/internal/app"

func main() {
	app.Run()
}
