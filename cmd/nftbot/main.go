package main

import (
	"log"

	"github.com/m3rciful/nftbot/core/cmd"
	"github.com/m3rciful/nftbot/internal/app"
)

func main() {
	err := cmd.Run(cmd.Options{
		ConfigEnvVar:      "CONFIG_PATH",
		DefaultConfigPath: "config.yml",
		LoadConfig: func(path string) (cmd.ConfigCarrier, error) {
			return app.LoadConfig(path)
		},
		Bootstrap: app.Bootstrap,
	})
	if err != nil {
		log.Fatal(err)
	}
}
