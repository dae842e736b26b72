package config

import (
	"github.com/HebaAhmedDahab/employee-data-pipeline/library/pg"
	"github.com/HebaAhmedDahab/employee-data-pipeline/library/yamlenv"
)

type Config struct {
	Postgres pg.PostgresConfig `yaml:"postgres"`
	Kafka    KafkaConfig       `yaml:"kafka"`
	Pipeline PipelineConfig    `yaml:"pipeline"`
	Storage  StorageConfig     `yaml:"storage"`
}

type KafkaConfig struct {
	Bootstrap        *yamlenv.Env[string] `yaml:"bootstrap"`
	ProducerClientID *yamlenv.Env[string] `yaml:"producer_client_id"`
	Topics           struct {
		Runs *yamlenv.Env[string] `yaml:"runs"`
	} `yaml:"topics"`
}

type PipelineConfig struct {
	Name         *yamlenv.Env[string] `yaml:"name"`
	MinRows      *yamlenv.Env[int]    `yaml:"min_rows"`
	FilterActive *yamlenv.Env[bool]   `yaml:"filter_active"`
}

type StorageConfig struct {
	DataDir *yamlenv.Env[string] `yaml:"data_dir"`
}
