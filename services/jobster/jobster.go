package main

import (
	"context"
	"net/http"
	"strings"

	"github.com/gorilla/mux"
	"github.com/joeshaw/envdecode"
	"github.com/sirupsen/logrus"

	"github.com/jobster/jobster/core/access"
	"github.com/jobster/jobster/core/backend"
	"github.com/jobster/jobster/core/credentials"
	"github.com/jobster/jobster/core/csql"
	"github.com/jobster/jobster/core/events"
	"github.com/jobster/jobster/core/logger"
)

// Service holds the configuration for this service
//
// use POSTGRES="host=localhost port=5432 user=postgres password=docker dbname=postgres sslmode=disable"
type Service struct {
	Postgres     string `env:"POSTGRES,required" description:"the connection string for the Postgres DB"`
	Port         string `env:"PORT,default=3000" description:"the port to listen on"`
	TokenSecret  string `env:"TOKEN_SECRET,required" description:"the shared secret for signing tokens; rotating it invalidates all tokens"`
	BcryptCost   int    `env:"BCRYPT_COST,default=0" description:"the bcrypt work factor, 0 selects the bcrypt default"`
	KafkaBrokers string `env:"KAFKA_BROKERS,default=" description:"comma-separated Kafka brokers for change events, empty disables publishing"`
	KafkaTopic   string `env:"KAFKA_TOPIC,default=jobster-events" description:"the Kafka topic for change events"`
}

func main() {
	logger.InitLogger(logrus.InfoLevel)
	rlog := logger.Default()

	service := &Service{}
	if err := envdecode.Decode(service); err != nil {
		panic(err)
	}

	db := csql.OpenWithSchema(service.Postgres, "jobster")
	defer db.Close()
	if err := db.Migrate(context.Background()); err != nil {
		panic(err)
	}

	var notifier *events.Notifier
	if len(service.KafkaBrokers) > 0 {
		notifier = events.NewNotifier(strings.Split(service.KafkaBrokers, ","), service.KafkaTopic)
		defer notifier.Close()
	}

	router := mux.NewRouter()
	backend.New(&backend.Builder{
		DB:       db,
		Router:   router,
		Tokens:   access.Tokens{Secret: []byte(service.TokenSecret)},
		Hasher:   credentials.Hasher{Cost: service.BcryptCost},
		Notifier: notifier,
	})

	rlog.Infoln("listen on port :" + service.Port)
	if err := http.ListenAndServe(":"+service.Port, router); err != nil {
		rlog.WithError(err).Fatalln("server stopped")
	}
}
