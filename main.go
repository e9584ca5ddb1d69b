package main

import (
	"github.com/joho/godotenv"

	"github.com/cooper-labs/cooper-video-analysis/cmd"
)

func main() {
	// .env is optional; API keys may also come from the environment or flags
	_ = godotenv.Load()

	cmd.Execute()
}
