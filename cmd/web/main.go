package main

import (
	"log"
	"net/http"
	"os"
	"time"

	"github.com/gorilla/handlers"
	"github.com/joeshaw/envdecode"
	"github.com/joho/godotenv"

	"github.com/cardtable/bluff/server"
)

type config struct {
	Port      string        `env:"PORT,default=8000"`
	RoomTTL   time.Duration `env:"ROOM_TTL,default=1h"`
	StaticDir string        `env:"STATIC_DIR,default=./public"`
}

func main() {
	// .env is optional; real deployments set the environment directly.
	godotenv.Load()

	var cfg config
	if err := envdecode.Decode(&cfg); err != nil {
		log.Fatal(err.Error())
	}

	s := server.NewServer(cfg.RoomTTL, cfg.StaticDir)

	log.Printf("Listening on port %s...", cfg.Port)
	log.Fatal(http.ListenAndServe(":"+cfg.Port, handlers.LoggingHandler(os.Stdout, s)))
}
