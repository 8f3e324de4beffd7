/*
Copyright © 2025 pustakalab
*/
package main

import (
	"github.com/joho/godotenv"
	"github.com/pustakalab/pustaka-be/cmd"
)

func main() {
	cmd.Execute()
}

func init() {
	// Optional; container deployments set real environment variables.
	_ = godotenv.Load()
}
