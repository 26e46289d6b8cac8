package main

import (
	"os"
	_ "time/tzdata"

	"github.com/scrollcal/scrollcal/internal/app"
	log "github.com/sirupsen/logrus"
	"go.uber.org/automaxprocs/maxprocs"
)

func init() {
	level := os.Getenv("LOG_LEVEL")
	if level != "" {
		logrusLevel, err := log.ParseLevel(level)
		if err != nil {
			log.Fatal(err)
		}
		log.SetLevel(logrusLevel)
	} else {
		log.SetLevel(log.InfoLevel)
	}
}

func main() {
	if _, err := maxprocs.Set(maxprocs.Logger(log.Debugf)); err != nil {
		log.Warnf("failed to set GOMAXPROCS: %v", err)
	}

	application, err := app.NewApplication()
	if err != nil {
		log.Fatalf("failed to initialize application: %v", err)
	}
	if err := application.Run(); err != nil {
		log.Fatal(err)
	}
}
