package publishers

import (
	"context"
	"fmt"
	"net/http"
	"sort"
	"strings"
)

const httpDefaultTimeoutSeconds = 5

// Builder creates a Publisher from a normalized config entry.
type Builder func(ctx context.Context, cfg PublisherConfig, log Logger) (Publisher, error)

// setting is one required value of a sink block, named by its file key.
type setting struct {
	key   string
	value string
}

// Sink describes one publisher type.
type Sink struct {
	Build Builder
	// normalize trims and defaults the type's block in place and reports
	// whether the block is present.
	normalize func(cfg *PublisherConfig) bool
	required  func(cfg PublisherConfig) []setting
}

// Sinks maps a type name to its Sink.
type Sinks map[string]Sink

// DefaultSinks knows every sink shipped with this package.
func DefaultSinks() Sinks {
	return Sinks{
		TypeHTTP: {
			Build:     newHTTPPublisher,
			normalize: normalizeHTTP,
			required: func(c PublisherConfig) []setting {
				return []setting{{"url", c.HTTP.URL}}
			},
		},
		TypeSQS: {
			Build:     newSQSPublisher,
			normalize: normalizeSQS,
			required: func(c PublisherConfig) []setting {
				return []setting{{"uri", c.SQS.QueueURL}, {"region", c.SQS.Region}}
			},
		},
		TypeSNS: {
			Build:     newSNSPublisher,
			normalize: normalizeSNS,
			required: func(c PublisherConfig) []setting {
				return []setting{{"topic_arn", c.SNS.TopicARN}, {"region", c.SNS.Region}}
			},
		},
		TypePubSub: {
			Build:     newPubSubPublisher,
			normalize: normalizePubSub,
			required: func(c PublisherConfig) []setting {
				return []setting{{"project_id", c.PubSub.ProjectID}, {"topic", c.PubSub.Topic}}
			},
		},
	}
}

// Types lists the known type names in sorted order.
func (s Sinks) Types() []string {
	out := make([]string, 0, len(s))
	for typ := range s {
		out = append(out, typ)
	}
	sort.Strings(out)
	return out
}

// check normalizes cfg in place and reports every missing required setting.
func (s Sinks) check(cfg *PublisherConfig) error {
	if cfg.Type == "" {
		return fmt.Errorf("type is required (one of %s)", strings.Join(s.Types(), ", "))
	}
	sk, ok := s[cfg.Type]
	if !ok {
		return fmt.Errorf("unknown type %q (one of %s)", cfg.Type, strings.Join(s.Types(), ", "))
	}
	if sk.normalize != nil && !sk.normalize(cfg) {
		return fmt.Errorf("%s block is required", cfg.Type)
	}
	if sk.required == nil {
		return nil
	}
	var missing []string
	for _, st := range sk.required(*cfg) {
		if st.value == "" {
			missing = append(missing, cfg.Type+"."+st.key)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing %s", strings.Join(missing, ", "))
	}
	return nil
}

// Build creates one publisher per entry. When an entry fails, the publishers
// built before it are closed.
func (s Sinks) Build(ctx context.Context, cfgs []PublisherConfig, log Logger) ([]Publisher, error) {
	pubs := make([]Publisher, 0, len(cfgs))
	for _, cfg := range cfgs {
		sk, ok := s[cfg.Type]
		if !ok || sk.Build == nil {
			_ = closeAll(pubs)
			return nil, fmt.Errorf("publisher %q: no sink for type %q", cfg.ID, cfg.Type)
		}
		pub, err := sk.Build(ctx, cfg, log)
		if err != nil {
			_ = closeAll(pubs)
			return nil, fmt.Errorf("build publisher %q: %w", cfg.ID, err)
		}
		pubs = append(pubs, pub)
	}
	return pubs, nil
}

func normalizeHTTP(cfg *PublisherConfig) bool {
	if cfg.HTTP == nil {
		return false
	}
	c := *cfg.HTTP
	c.URL = strings.TrimSpace(c.URL)
	c.Method = strings.ToUpper(strings.TrimSpace(c.Method))
	if c.Method == "" {
		c.Method = http.MethodPost
	}
	if c.TimeoutSeconds <= 0 {
		c.TimeoutSeconds = httpDefaultTimeoutSeconds
	}
	headers := make(map[string]string, len(c.Headers))
	for k, v := range c.Headers {
		if k, v = strings.TrimSpace(k), strings.TrimSpace(v); k != "" && v != "" {
			headers[k] = v
		}
	}
	c.Headers = headers
	cfg.HTTP = &c
	return true
}

func normalizeSQS(cfg *PublisherConfig) bool {
	if cfg.SQS == nil {
		return false
	}
	c := *cfg.SQS
	c.QueueURL = strings.TrimSpace(c.QueueURL)
	c.Region = strings.TrimSpace(c.Region)
	cfg.SQS = &c
	return true
}

func normalizeSNS(cfg *PublisherConfig) bool {
	if cfg.SNS == nil {
		return false
	}
	c := *cfg.SNS
	c.TopicARN = strings.TrimSpace(c.TopicARN)
	c.Region = strings.TrimSpace(c.Region)
	cfg.SNS = &c
	return true
}

func normalizePubSub(cfg *PublisherConfig) bool {
	if cfg.PubSub == nil {
		return false
	}
	c := *cfg.PubSub
	c.ProjectID = strings.TrimSpace(c.ProjectID)
	c.Topic = strings.TrimSpace(c.Topic)
	c.CredentialsFile = strings.TrimSpace(c.CredentialsFile)
	cfg.PubSub = &c
	return true
}
