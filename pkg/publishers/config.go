package publishers

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	jsoniter "github.com/json-iterator/go"
	"gopkg.in/yaml.v3"
)

// Supported sink types.
const (
	TypeHTTP   = "http"
	TypeSQS    = "sqs"
	TypeSNS    = "sns"
	TypePubSub = "pubsub"
)

// PublisherConfig is one sink entry of the publishers file. Only the block
// matching Type is read.
type PublisherConfig struct {
	ID      string                 `json:"id" yaml:"id"`
	Type    string                 `json:"type" yaml:"type"`
	Enabled *bool                  `json:"enabled" yaml:"enabled"`
	HTTP    *HTTPPublisherConfig   `json:"http" yaml:"http"`
	SQS     *SQSPublisherConfig    `json:"sqs" yaml:"sqs"`
	SNS     *SNSPublisherConfig    `json:"sns" yaml:"sns"`
	PubSub  *PubSubPublisherConfig `json:"pubsub" yaml:"pubsub"`
}

// HTTPPublisherConfig points room events at a webhook.
type HTTPPublisherConfig struct {
	URL            string            `json:"url" yaml:"url"`
	Method         string            `json:"method" yaml:"method"`
	Headers        map[string]string `json:"headers" yaml:"headers"`
	TimeoutSeconds int               `json:"timeout_seconds" yaml:"timeout_seconds"`
}

// AWSCredentials pins static credentials instead of the default chain.
type AWSCredentials struct {
	AccessKeyID     string `json:"access_key_id" yaml:"access_key_id"`
	SecretAccessKey string `json:"secret_access_key" yaml:"secret_access_key"`
	SessionToken    string `json:"session_token" yaml:"session_token"`
}

type SQSPublisherConfig struct {
	QueueURL    string          `json:"uri" yaml:"uri"`
	Region      string          `json:"region" yaml:"region"`
	Credentials *AWSCredentials `json:"credentials" yaml:"credentials"`
}

type SNSPublisherConfig struct {
	TopicARN    string          `json:"topic_arn" yaml:"topic_arn"`
	Region      string          `json:"region" yaml:"region"`
	Credentials *AWSCredentials `json:"credentials" yaml:"credentials"`
}

type PubSubPublisherConfig struct {
	ProjectID       string `json:"project_id" yaml:"project_id"`
	Topic           string `json:"topic" yaml:"topic"`
	CredentialsFile string `json:"credentials_file" yaml:"credentials_file"`
}

// IsEnabled reports the enabled flag; entries without one are enabled.
func (cfg PublisherConfig) IsEnabled() bool {
	return cfg.Enabled == nil || *cfg.Enabled
}

// Load reads the publishers file at path (YAML, or JSON for .json files) and
// checks every entry against sinks. Entries come back normalized and in file
// order.
func Load(path string, sinks Sinks) ([]PublisherConfig, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, errors.New("publishers file path is empty")
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read publishers file: %w", err)
	}

	var file struct {
		Publishers []PublisherConfig `json:"publishers" yaml:"publishers"`
	}
	if strings.EqualFold(filepath.Ext(path), ".json") {
		err = jsoniter.ConfigCompatibleWithStandardLibrary.Unmarshal(raw, &file)
	} else {
		err = yaml.Unmarshal(raw, &file)
	}
	if err != nil {
		return nil, fmt.Errorf("decode publishers file %s: %w", filepath.Base(path), err)
	}
	if len(file.Publishers) == 0 {
		return nil, errors.New("publishers file declares no publishers")
	}

	out := make([]PublisherConfig, 0, len(file.Publishers))
	seen := make(map[string]bool, len(file.Publishers))
	for i, cfg := range file.Publishers {
		cfg.ID = strings.TrimSpace(cfg.ID)
		cfg.Type = strings.ToLower(strings.TrimSpace(cfg.Type))
		if cfg.ID == "" {
			return nil, fmt.Errorf("publishers[%d]: id is required", i)
		}
		if seen[cfg.ID] {
			return nil, fmt.Errorf("publishers[%d]: duplicate id %q", i, cfg.ID)
		}
		seen[cfg.ID] = true
		if err := sinks.check(&cfg); err != nil {
			return nil, fmt.Errorf("publishers[%d] %q: %w", i, cfg.ID, err)
		}
		out = append(out, cfg)
	}
	return out, nil
}

// Enabled keeps the entries that are switched on.
func Enabled(cfgs []PublisherConfig) []PublisherConfig {
	var out []PublisherConfig
	for _, cfg := range cfgs {
		if cfg.IsEnabled() {
			out = append(out, cfg)
		}
	}
	return out
}
