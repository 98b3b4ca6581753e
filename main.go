package main

import (
	_ "github.com/joho/godotenv/autoload" // Autoload .env file.

	"github.com/loc/inventory-service/cmd/app"
)

// @title           Inventory Service API
// @version         1.0
// @description     Stock levels per SKU.
// @BasePath        /api/inventory
//
// @externalDocs.description  OpenAPI
// @externalDocs.url          https://swagger.io/resources/open-api/
func main() {
	if err := app.Start(); err != nil {
		panic(err)
	}
}
