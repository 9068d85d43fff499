package main

import (
	"techbrief/cmd/handlers"
	"techbrief/internal/logger"
)

func main() {
	logger.Init()
	handlers.Execute()
}
