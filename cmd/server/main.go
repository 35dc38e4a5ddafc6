package main

import (
	"os"
)

// @title           Kanban API
// @version         1.0
// @description     Multi-tenant kanban boards with columns, prioritized cards, drag-and-drop reordering and board sharing.

// @host      localhost:8080
// @BasePath  /

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

// @schemes http
func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
