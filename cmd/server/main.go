package main

import (
	"log"

	"github.com/Ye-Yu-Mo/task-view/internal/config"
	"github.com/Ye-Yu-Mo/task-view/internal/server"
)

// @title           Task View API
// @version         1.0
// @description     Invite-based task assignment between creators and executors.

// @contact.name   Ye-Yu-Mo
// @contact.url    https://github.com/Ye-Yu-Mo/task-view

// @host      localhost:20000
// @BasePath  /

// @schemes http
func main() {
	cfg := config.Load()

	s, err := server.Init(cfg)
	if err != nil {
		log.Fatalf("❌ Server initialization failed: %v", err)
	}

	s.Run()
}
