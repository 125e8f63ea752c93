package main

import (
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/otel"

	"github.com/Aashish23092/financial-auditor/client"
	"github.com/Aashish23092/financial-auditor/config"
	"github.com/Aashish23092/financial-auditor/handler"
	"github.com/Aashish23092/financial-auditor/report"
	"github.com/Aashish23092/financial-auditor/service"
)

func main() {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	// Initialize configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		log.Fatal().Err(err).Str("level", cfg.LogLevel).Msg("invalid log level")
	}
	zerolog.SetGlobalLevel(level)
	gin.SetMode(cfg.GinMode)

	// Initialize Tesseract client
	tesseractClient := client.NewTesseractClient(cfg.TesseractDataPath, cfg.TesseractLanguage)
	defer tesseractClient.Close()
	log.Info().Str("tessdata", cfg.TesseractDataPath).Str("language", cfg.TesseractLanguage).Msg("tesseract configured")

	metrics, err := service.NewMetrics(otel.Meter("financial-auditor"))
	if err != nil {
		log.Fatal().Err(err).Msg("failed to create metrics")
	}

	// Initialize service layer
	auditService := service.NewAuditService(
		service.NewPDFProcessor(),
		tesseractClient,
		service.NewTableReader(),
		service.NewQRDecoder(),
		report.NewRenderer(),
		metrics,
		service.Options{
			MinPDFTextChars: cfg.MinPDFTextChars,
			BatchWorkers:    cfg.BatchWorkers,
		},
	)

	// Initialize handler layer
	auditHandler := handler.NewAuditHandler(auditService, cfg.MaxFileSize, cfg.MaxBatchFiles)

	// Batch uploads are held in memory up to the full batch size
	router := handler.NewRouter(auditHandler, cfg.MaxFileSize*int64(cfg.MaxBatchFiles))

	log.Info().Str("port", cfg.ServerPort).Msg("starting Financial Document Auditor")
	if err := router.Run(":" + cfg.ServerPort); err != nil {
		log.Fatal().Err(err).Msg("failed to start server")
	}
}
