package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/form3tech-oss/pact-consumer/internal/app/configuration"
	"github.com/form3tech-oss/pact-consumer/internal/app/engine"
	log "github.com/sirupsen/logrus"
)

func main() {
	config, err := configuration.NewFromEnv()
	if err != nil {
		log.Fatal(err)
	}
	if err := config.ConfigureLogging(); err != nil {
		log.Fatal(err)
	}

	log.Infof("serving pact engine on port %d", config.AdminPort)
	server := configuration.ServeEngineAPI(config.AdminPort, engine.New())

	c := make(chan os.Signal, 2)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)
	<-c

	if err := server.Close(); err != nil {
		panic(err)
	}
}
