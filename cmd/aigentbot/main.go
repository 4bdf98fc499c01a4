package main

import (
	"log"

	"github.com/AigentLabsFramework/aigent-framework/core/cmd"
)

func main() {
	err := cmd.Run(cmd.Options{
		ConfigEnvVar:      "CONFIG_PATH",
		DefaultConfigPath: "config.yaml",
	})
	if err != nil {
		log.Fatalf("aigentbot: %v", err)
	}
}
