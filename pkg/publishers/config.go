package publishers

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/samvad-hq/samvad-projects-client/internal/fileconf"
)

// Supported publisher types.
const (
	TypeHTTP   = "http"
	TypeSQS    = "sqs"
	TypeSNS    = "sns"
	TypePubSub = "pubsub"
)

const (
	httpDefaultTimeoutSeconds = 5
	httpMaxRetries            = 5
)

type fileConfig struct {
	Publishers []PublisherConfig `json:"publishers" yaml:"publishers"`
}

// PublisherConfig is one entry of the publishers file. Exactly the block
// matching Type is read.
type PublisherConfig struct {
	ID      string               `json:"id" yaml:"id"`
	Type    string               `json:"type" yaml:"type"`
	Enabled *bool                `json:"enabled" yaml:"enabled"`
	HTTP    *HTTPPublisherConfig `json:"http" yaml:"http"`
	SQS     *SQSPublisherConfig  `json:"sqs" yaml:"sqs"`
	SNS     *SNSPublisherConfig  `json:"sns" yaml:"sns"`
	PubSub  *GCPQueueConfig      `json:"pubsub" yaml:"pubsub"`
}

// HTTPPublisherConfig posts each event as JSON to URL.
type HTTPPublisherConfig struct {
	URL            string            `json:"url" yaml:"url"`
	Method         string            `json:"method" yaml:"method"`
	Headers        map[string]string `json:"headers" yaml:"headers"`
	TimeoutSeconds int               `json:"timeout_seconds" yaml:"timeout_seconds"`
	// Retries is the number of extra attempts on transport errors and 5xx responses.
	Retries int `json:"retries" yaml:"retries"`
}

// AWSCredentials pins static credentials instead of the default AWS chain.
type AWSCredentials struct {
	AccessKeyID     string `json:"access_key_id" yaml:"access_key_id"`
	SecretAccessKey string `json:"secret_access_key" yaml:"secret_access_key"`
	SessionToken    string `json:"session_token" yaml:"session_token"`
}

// SQSPublisherConfig targets an SQS queue. FIFO queues (".fifo") get a
// message group per project.
type SQSPublisherConfig struct {
	QueueURL    string          `json:"uri" yaml:"uri"`
	Region      string          `json:"region" yaml:"region"`
	Credentials *AWSCredentials `json:"credentials" yaml:"credentials"`
}

// SNSPublisherConfig targets an SNS topic.
type SNSPublisherConfig struct {
	TopicARN    string          `json:"topic_arn" yaml:"topic_arn"`
	Region      string          `json:"region" yaml:"region"`
	Credentials *AWSCredentials `json:"credentials" yaml:"credentials"`
}

// GCPQueueConfig targets a Pub/Sub topic.
type GCPQueueConfig struct {
	ProjectID       string `json:"project_id" yaml:"project_id"`
	Topic           string `json:"topic" yaml:"topic"`
	CredentialsFile string `json:"credentials_file" yaml:"credentials_file"`
}

// Set is the validated content of a publishers file.
type Set struct {
	entries []PublisherConfig
	byID    map[string]int
}

// LoadConfig reads and validates a YAML/JSON publishers file.
func LoadConfig(path string) (*Set, error) {
	var file fileConfig
	if err := fileconf.Load("publishers", path, &file); err != nil {
		return nil, err
	}
	if len(file.Publishers) == 0 {
		return nil, errors.New("publishers file contains no publishers entries")
	}
	return NewSet(file.Publishers)
}

// NewSet normalizes and validates cfgs. Ids must be unique.
func NewSet(cfgs []PublisherConfig) (*Set, error) {
	set := &Set{
		entries: make([]PublisherConfig, 0, len(cfgs)),
		byID:    make(map[string]int, len(cfgs)),
	}
	for i, raw := range cfgs {
		cfg := raw.normalized()
		if err := cfg.Validate(); err != nil {
			return nil, fmt.Errorf("publishers[%d]: %w", i, err)
		}
		if _, dup := set.byID[cfg.ID]; dup {
			return nil, fmt.Errorf("duplicate publisher id %q", cfg.ID)
		}
		set.byID[cfg.ID] = len(set.entries)
		set.entries = append(set.entries, cfg)
	}
	return set, nil
}

// ByID looks up a publisher entry.
func (s *Set) ByID(id string) (PublisherConfig, bool) {
	if s == nil {
		return PublisherConfig{}, false
	}
	i, ok := s.byID[strings.TrimSpace(id)]
	if !ok {
		return PublisherConfig{}, false
	}
	return s.entries[i], true
}

// All returns every entry in file order.
func (s *Set) All() []PublisherConfig {
	if s == nil {
		return nil
	}
	return append([]PublisherConfig(nil), s.entries...)
}

// Enabled returns the entries not switched off with enabled: false.
func (s *Set) Enabled() []PublisherConfig {
	var out []PublisherConfig
	for _, cfg := range s.All() {
		if cfg.IsEnabled() {
			out = append(out, cfg)
		}
	}
	return out
}

// IsEnabled reports the enabled flag; entries are enabled unless stated otherwise.
func (cfg PublisherConfig) IsEnabled() bool {
	return cfg.Enabled == nil || *cfg.Enabled
}

// Validate checks that the block for cfg.Type is present and complete.
func (cfg PublisherConfig) Validate() error {
	if cfg.ID == "" {
		return errors.New("id is required")
	}

	var err error
	switch cfg.Type {
	case "":
		return fmt.Errorf("type is required for publisher %q", cfg.ID)
	case TypeHTTP:
		err = requireBlock(cfg.HTTP != nil, TypeHTTP, func() error { return cfg.HTTP.validate() })
	case TypeSQS:
		err = requireBlock(cfg.SQS != nil, TypeSQS, func() error { return cfg.SQS.validate() })
	case TypeSNS:
		err = requireBlock(cfg.SNS != nil, TypeSNS, func() error { return cfg.SNS.validate() })
	case TypePubSub:
		err = requireBlock(cfg.PubSub != nil, TypePubSub, func() error { return cfg.PubSub.validate() })
	default:
		return fmt.Errorf("unsupported type %q for publisher %q", cfg.Type, cfg.ID)
	}
	if err != nil {
		return fmt.Errorf("publisher %q: %w", cfg.ID, err)
	}
	return nil
}

func requireBlock(present bool, typ string, validate func() error) error {
	if !present {
		return fmt.Errorf("%s config block is required", typ)
	}
	return validate()
}

func (cfg PublisherConfig) normalized() PublisherConfig {
	cfg.ID = strings.TrimSpace(cfg.ID)
	cfg.Type = strings.ToLower(strings.TrimSpace(cfg.Type))
	if cfg.HTTP != nil {
		c := cfg.HTTP.normalized()
		cfg.HTTP = &c
	}
	if cfg.SQS != nil {
		c := *cfg.SQS
		c.QueueURL = strings.TrimSpace(c.QueueURL)
		c.Region = strings.TrimSpace(c.Region)
		c.Credentials = c.Credentials.normalized()
		cfg.SQS = &c
	}
	if cfg.SNS != nil {
		c := *cfg.SNS
		c.TopicARN = strings.TrimSpace(c.TopicARN)
		c.Region = strings.TrimSpace(c.Region)
		c.Credentials = c.Credentials.normalized()
		cfg.SNS = &c
	}
	if cfg.PubSub != nil {
		c := *cfg.PubSub
		c.ProjectID = strings.TrimSpace(c.ProjectID)
		c.Topic = strings.TrimSpace(c.Topic)
		c.CredentialsFile = strings.TrimSpace(c.CredentialsFile)
		cfg.PubSub = &c
	}
	return cfg
}

func (c HTTPPublisherConfig) normalized() HTTPPublisherConfig {
	c.URL = strings.TrimSpace(c.URL)
	c.Method = strings.ToUpper(strings.TrimSpace(c.Method))
	if c.Method == "" {
		c.Method = http.MethodPost
	}
	if c.TimeoutSeconds <= 0 {
		c.TimeoutSeconds = httpDefaultTimeoutSeconds
	}
	if c.Retries < 0 {
		c.Retries = 0
	}
	if c.Retries > httpMaxRetries {
		c.Retries = httpMaxRetries
	}

	headers := make(map[string]string, len(c.Headers))
	for k, v := range c.Headers {
		k, v = strings.TrimSpace(k), strings.TrimSpace(v)
		if k != "" && v != "" {
			headers[k] = v
		}
	}
	c.Headers = nil
	if len(headers) > 0 {
		c.Headers = headers
	}
	return c
}

func (c *HTTPPublisherConfig) validate() error {
	if c.URL == "" {
		return errors.New("http.url is required")
	}
	return nil
}

func (c *SQSPublisherConfig) validate() error {
	switch {
	case c.QueueURL == "":
		return errors.New("sqs.uri is required")
	case c.Region == "":
		return errors.New("sqs.region is required")
	}
	return nil
}

func (c *SNSPublisherConfig) validate() error {
	switch {
	case c.TopicARN == "":
		return errors.New("sns.topic_arn is required")
	case c.Region == "":
		return errors.New("sns.region is required")
	}
	return nil
}

func (c *GCPQueueConfig) validate() error {
	switch {
	case c.ProjectID == "":
		return errors.New("pubsub.project_id is required")
	case c.Topic == "":
		return errors.New("pubsub.topic is required")
	}
	return nil
}

// normalized drops credential blocks without a full key pair, so the default
// AWS chain applies.
func (c *AWSCredentials) normalized() *AWSCredentials {
	if c == nil {
		return nil
	}
	out := AWSCredentials{
		AccessKeyID:     strings.TrimSpace(c.AccessKeyID),
		SecretAccessKey: strings.TrimSpace(c.SecretAccessKey),
		SessionToken:    strings.TrimSpace(c.SessionToken),
	}
	if out.AccessKeyID == "" || out.SecretAccessKey == "" {
		return nil
	}
	return &out
}
