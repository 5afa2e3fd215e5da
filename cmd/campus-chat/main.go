// Package main is the entry point for the Campus Chat Service.
package main

import (
	_ "go.uber.org/automaxprocs/maxprocs"

	"github.com/kart-io/campus-chat/cmd/campus-chat/app"
)

func main() {
	app.NewApp().Run()
}
