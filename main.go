package main

import (
	"errors"
	"fmt"
	"net/http"
	"os"

	"voicerelay/core"
	"voicerelay/factories"
	"voicerelay/server"
	"voicerelay/session"
	wstransport "voicerelay/transports/websocket"

	"github.com/joho/godotenv"
)

const version = "1.0.0"

func main() {
	logger := core.GetLogger()

	if err := godotenv.Load(".env"); err != nil {
		logger.With(map[string]interface{}{"error": err}).Warn("No .env file found or failed to load")
	}

	envConfig, err := factories.EnvFromProcess()
	if err != nil {
		logger.With(map[string]interface{}{"error": err}).Fatal("failed to parse environment")
	}

	settings, err := factories.SettingsFromFile(envConfig.SettingsPath)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			logger.With(map[string]interface{}{"path": envConfig.SettingsPath, "error": err}).Warn("failed to load settings, using defaults")
		}
		settings = factories.DefaultSettings()
	}
	settings.ApplyEnv(envConfig)

	chat, speech, err := factories.BuildServices(settings, envConfig, logger)
	if err != nil {
		logger.With(map[string]interface{}{"error": err}).Fatal("failed to build upstream clients")
	}

	gateway := wstransport.NewGateway(func() *session.Orchestrator {
		return session.NewOrchestrator(chat, speech, logger)
	}, wstransport.DefaultConfig(), logger)

	mux := http.NewServeMux()
	server.RegisterRoutes(mux, server.Dependencies{
		Gateway: gateway,
		Version: version,
	})

	addr := fmt.Sprintf("%s:%d", settings.Server.Host, settings.Server.Port)
	logger.Infof("listening on %s", addr)
	if err := http.ListenAndServe(addr, mux); err != nil {
		logger.With(map[string]interface{}{"error": err}).Fatal("server stopped")
	}
}
