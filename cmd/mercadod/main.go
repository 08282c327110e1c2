// Command mercadod runs the marketplace API server.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/emprendia/emprendia/config"
	"github.com/emprendia/emprendia/internal/api"
	"github.com/emprendia/emprendia/internal/app"
	"github.com/emprendia/emprendia/internal/webserver"
)

var (
	configFile = flag.String("c", "emprendia.yml", "config file")
	showVer    = flag.Bool("v", false, "print version and exit")
	initDb     = flag.Bool("x", false, "drop and recreate the database schema, then exit")
)

var version = "dev"

func main() {
	flag.Parse()
	if *showVer {
		fmt.Println("emprendia", version)
		return
	}

	_ = godotenv.Load()

	cfg := config.LoadConfig(*configFile)
	application := app.NewApplication(cfg)
	application.Init(cfg)
	defer application.Release()

	if *initDb {
		application.InitDb()
		zap.S().Info("database initialized")
		return
	}

	webserver.Init(application)
	api.Init()

	if err := webserver.Listen(); err != nil {
		zap.S().Errorf("web server stopped: %v", err)
		os.Exit(1)
	}
}
