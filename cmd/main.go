package main

import (
	"loginwatch/internal/handler"
	"loginwatch/internal/models"
	svr "loginwatch/internal/server"
	"loginwatch/internal/service"
	"loginwatch/internal/storage"
)

func main() {
	config, err := svr.NewConfig()
	if err != nil {
		models.ErrLog.Fatalln(err)
	}

	storage.InitRedis(config)
	defer storage.RDB.Close()

	db := storage.InitDB(config)
	defer db.Close()

	store := storage.NewStorage(db)
	sessions := service.NewRedisSessionStore(storage.RDB, config.SessionTTL())
	services := service.NewService(store, config, sessions)
	handlers := handler.NewHandler(services, config)

	server := new(svr.Server)
	if err := server.Run(config.Port, handlers.InitRoutes()); err != nil {
		models.ErrLog.Printf("Error running server: %s\n", err)
	}
}
