package main

import (
	"io"
	"os"
	"path/filepath"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/expensetrackr/backend/internal/auth"
	"github.com/expensetrackr/backend/internal/config"
	"github.com/expensetrackr/backend/internal/models"
	"github.com/expensetrackr/backend/internal/notifications"
	"github.com/expensetrackr/backend/internal/router"
)

func main() {
	// gin uses debug as the default mode, we use release for
	// security reasons
	ginMode, ok := os.LookupEnv("GIN_MODE")
	if !ok {
		gin.SetMode("release")
	} else {
		gin.SetMode(ginMode)
	}

	// Log format can be explicitly set.
	// If it is not set, it defaults to human readable for development
	// and JSON for release
	logFormat, ok := os.LookupEnv("LOG_FORMAT")
	output := io.Writer(os.Stdout)
	if (!ok && gin.IsDebugging()) || (ok && logFormat == "human") {
		output = zerolog.ConsoleWriter{Out: os.Stdout}
	}

	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	if gin.IsDebugging() {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}
	log.Logger = log.Output(output).With().Timestamp().Logger()

	cfg := config.Load()

	// Create the data directory for file backed databases
	if dir := filepath.Dir(cfg.DBConnString); dir != "." && cfg.DBConnString != ":memory:" {
		if err := os.MkdirAll(dir, os.ModePerm); err != nil {
			log.Fatal().Msg(err.Error())
		}
	}

	// Connect to the database and migrate the schema
	if err := models.Connect(cfg.DBConnString); err != nil {
		log.Fatal().Msg(err.Error())
	}

	signer := auth.NewSigner(cfg.SecretKey, cfg.AccessTokenTTL)

	r, err := router.New(cfg, signer, notifications.LogSender{})
	if err != nil {
		log.Fatal().Msg(err.Error())
	}

	if err := r.Run(); err != nil {
		log.Fatal().Msg(err.Error())
	}
}
