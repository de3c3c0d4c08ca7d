package main

import (
	"github.com/unitedtribes/culturegraph/internal/server"
	"github.com/unitedtribes/culturegraph/internal/util"
	"github.com/unitedtribes/culturegraph/pkg/logger"
	"github.com/unitedtribes/culturegraph/pkg/logger/console"

	_ "github.com/lib/pq"
)

func main() {
	util.LoadEnv()

	debug := util.GetEnvBool("DEBUG", false)

	consoleLogger := console.NewConsoleLogger(console.ConsoleLoggerParams{
		Debug:  debug,
		Prefix: "server",
	})
	logger.Init(consoleLogger)

	server.Init()
}
