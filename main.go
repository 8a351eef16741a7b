package main

import (
	"flag"
	"fmt"

	"github.com/gin-gonic/gin"

	"sales_tracker/api"
	"sales_tracker/internal/config"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to the configuration file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		panic(fmt.Errorf("error loading configuration: %v", err))
	}

	r := gin.Default()
	if err := api.InitRoutes(r, cfg); err != nil {
		panic(fmt.Errorf("error initializing routes: %v", err))
	}

	if err := r.Run(cfg.Server.Addr); err != nil {
		panic(fmt.Errorf("error trying to start server: %v", err))
	}
}
