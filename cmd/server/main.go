package main

import "daygrid/internal/app"

// @title           DayGrid API
// @version         1.0
// @description     Priority-driven calendar with automatic slot placement.
// @BasePath        /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	app.Run()
}
