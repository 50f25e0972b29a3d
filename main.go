package main

import "smart-schedule/core/cli"

// @title SmartSchedule API
// @version 1.0
// @description Meeting slot recommendations, availability checks and scheduling conflict detection.

// @contact.name API Support
// @contact.email support@smartschedule.com

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @host localhost:7070
// @BasePath /api/v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description JWT Bearer token. Example: "Bearer {token}"

func main() {
	cli.Execute()
}
