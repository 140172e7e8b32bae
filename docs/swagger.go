package docs

import "github.com/swaggo/swag"

// @title           Task Tracker API
// @version         1.0
// @description     API for tracking tasks with ownership, assignment, and status lifecycle

// @host      localhost:8080
// @BasePath  /

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token

// @tag.name Users
// @tag.description User registration and profile operations

// @tag.name Authentication
// @tag.description Login and token issuance

// @tag.name Tasks
// @tag.description Task management operations

var swaggerInfo = &swag.Spec{
	Version:     "1.0",
	Host:        "localhost:8080",
	BasePath:    "/",
	Title:       "Task Tracker API",
	Description: "API for tracking tasks with ownership, assignment, and status lifecycle",
}

func init() {
	swag.Register(swaggerInfo.InstanceName(), swaggerInfo)
}
