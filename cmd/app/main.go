package main

import (
	"github.com/karimata/healthbook/internal/app"
	"github.com/karimata/healthbook/internal/config"
)

func main() {
	cfg := config.GetConfig()

	app.Run(cfg)
}
