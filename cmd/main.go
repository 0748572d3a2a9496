package main

import (
	"os"

	"github.com/adanyl0v/go-todo-local/internal/app"
)

func main() {
	app.InitDefaultLogger(os.Stdout)
	app.MustReadEnv()
	app.MustInitApplicationLogger()

	app.MustInitTaskStore()
	defer app.CloseStorage()

	app.MustListenAndServeHTTP()
}
