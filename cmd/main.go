package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/IBM/sarama"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/HebaAhmedDahab/employee-data-pipeline/internal/config"
	"github.com/HebaAhmedDahab/employee-data-pipeline/internal/exchange/producer"
	"github.com/HebaAhmedDahab/employee-data-pipeline/internal/extract"
	"github.com/HebaAhmedDahab/employee-data-pipeline/internal/load"
	"github.com/HebaAhmedDahab/employee-data-pipeline/internal/pipeline"
	"github.com/HebaAhmedDahab/employee-data-pipeline/internal/quality"
	"github.com/HebaAhmedDahab/employee-data-pipeline/internal/storage"
	"github.com/HebaAhmedDahab/employee-data-pipeline/internal/transform"
	"github.com/HebaAhmedDahab/employee-data-pipeline/library/pg"
	"github.com/HebaAhmedDahab/employee-data-pipeline/library/yamlreader"
)

func main() {
	os.Exit(run())
}

func run() int {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg := MustNewConfig(parseFlags())

	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	zerolog.TimeFieldFormat = time.RFC3339

	pgClient, err := pg.NewPG(ctx, cfg.Postgres.Conn.Value, log.Logger)
	if err != nil {
		log.Error().Err(err).Msg("postgres init failed")
		return 1
	}
	defer pgClient.Close()

	dataDir := envStr(cfg.Storage.DataDir, "data")
	bronze, err := storage.NewLayer(filepath.Join(dataDir, "bronze"), log.Logger)
	if err != nil {
		log.Error().Err(err).Msg("bronze layer init failed")
		return 1
	}
	silver, err := storage.NewLayer(filepath.Join(dataDir, "silver"), log.Logger)
	if err != nil {
		log.Error().Err(err).Msg("silver layer init failed")
		return 1
	}
	gold, err := storage.NewLayer(filepath.Join(dataDir, "gold"), log.Logger)
	if err != nil {
		log.Error().Err(err).Msg("gold layer init failed")
		return 1
	}

	gate := quality.NewGate(envInt(cfg.Pipeline.MinRows, quality.DefaultMinRows), log.Logger)

	employees := extract.NewEmployeeExtractor(pgClient.Pool(), bronze, gate, log.Logger)
	departments := extract.NewDepartmentExtractor(pgClient.Pool(), bronze, gate, log.Logger)
	transformer := transform.NewTransformer(bronze, silver, gate, log.Logger)
	loader := load.NewLoader(silver, gold, gate, log.Logger)

	opts := transform.Options{FilterActive: envBool(cfg.Pipeline.FilterActive)}

	phases := []pipeline.Phase{
		{
			Name: "Extract",
			Run: func(ctx context.Context) error {
				now := time.Now().UTC()
				if _, _, err := employees.Run(ctx, now); err != nil {
					return err
				}
				_, _, err := departments.Run(ctx, now)
				return err
			},
		},
		{
			Name: "Transform",
			Run: func(ctx context.Context) error {
				// Reference clock is captured once at phase entry so every
				// date derivation in the run sees the same "now".
				now := time.Now().UTC()
				_, _, _, err := transformer.Run(now, opts)
				return err
			},
		},
		{
			Name: "Load",
			Run: func(ctx context.Context) error {
				_, _, err := loader.Run(ctx, time.Now().UTC())
				return err
			},
		},
	}

	var publisher pipeline.EventPublisher
	if bootstrap := envStr(cfg.Kafka.Bootstrap, ""); bootstrap != "" {
		runProducer, err := initRunProducer(bootstrap, cfg.Kafka)
		if err != nil {
			log.Error().Err(err).Msg("kafka producer init failed")
			return 1
		}
		defer func() { _ = runProducer.Close() }()
		publisher = runProducer
	}

	p := pipeline.New(pipeline.Deps{
		Name:      envStr(cfg.Pipeline.Name, "Employee Data Pipeline"),
		Pinger:    pgClient,
		Phases:    phases,
		Publisher: publisher,
	}, log.Logger)

	summary := p.Run(ctx)
	return summary.ExitCode()
}

func initRunProducer(bootstrap string, kafkaConfig config.KafkaConfig) (*producer.PipelineProducer, error) {
	sCfg := sarama.NewConfig()
	sCfg.Version = sarama.V3_3_2_0
	sCfg.Producer.Return.Successes = true
	sCfg.Producer.RequiredAcks = sarama.WaitForAll
	sCfg.Producer.Idempotent = true
	sCfg.Net.MaxOpenRequests = 1
	sCfg.Producer.Retry.Max = 5
	sCfg.Producer.Retry.Backoff = 200 * time.Millisecond
	if kafkaConfig.ProducerClientID != nil {
		sCfg.ClientID = kafkaConfig.ProducerClientID.Value
	}

	sp, err := sarama.NewSyncProducer([]string{bootstrap}, sCfg)
	if err != nil {
		return nil, err
	}

	return producer.NewPipelineProducer(
		sp,
		producer.Config{
			TopicRuns: envStr(kafkaConfig.Topics.Runs, "hr.pipeline.runs"),
			Source:    "employee-data-pipeline",
		},
		log.Logger,
	), nil
}

func MustNewConfig(path string) *config.Config {
	cfg, err := yamlreader.NewConfig[config.Config](path)
	if err != nil {
		log.Fatal().Str("path", path).Err(err).Msg("failed to read application config")
		return nil
	}

	return cfg
}

func parseFlags() string {
	var configPath string

	flag.StringVar(&configPath, "config", "", "path to config file")
	flag.Parse()

	godotenv.Load(".env")

	if configPath == "" {
		configPath = os.Getenv("CONFIG_PATH")
	}
	if configPath == "" {
		configPath = "config/application-local.yaml"
	}
	return configPath
}
