package main

import (
	_ "github.com/joho/godotenv/autoload" // Autoload .env file.

	"github.com/festivapp/festival-api/cmd/app"
)

// @contact.name   API Support
// @contact.email  support@festivapp.dev
//
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Bearer token
//
// @securityDefinitions.apikey APIKeyAuth
// @in header
// @name X-API-Key
// @description Festival API key for the public API
func main() {
	if err := app.Start(); err != nil {
		panic(err)
	}
}
