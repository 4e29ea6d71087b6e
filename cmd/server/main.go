package main

import (
	"github.com/lumina-kb/backend/internal/server"
	"github.com/lumina-kb/backend/internal/util"
	"github.com/lumina-kb/backend/pkg/logger"
	"github.com/lumina-kb/backend/pkg/logger/console"

	_ "github.com/lib/pq"
)

func main() {
	util.LoadEnv()

	debug := util.GetEnvBool("DEBUG", false)

	consoleLogger := console.NewConsoleLogger(console.ConsoleLoggerParams{
		Debug: debug,
	})
	logger.Init(consoleLogger)

	server.Init()
}
