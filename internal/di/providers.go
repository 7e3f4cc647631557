package di

import (
	"context"
	"fmt"
	"time"

	"MarketBrief/internal/domain/repository"
	"MarketBrief/internal/feeds"
	"MarketBrief/internal/handler/api"
	"MarketBrief/internal/narrative"
	"MarketBrief/internal/pulse"
	internalrepo "MarketBrief/internal/repository"
	"MarketBrief/internal/snapshot"
	"MarketBrief/internal/usecase"
	"MarketBrief/pkg/cache"
	pkgch "MarketBrief/pkg/clickhouse"
	"MarketBrief/pkg/config"
	xhttp "MarketBrief/pkg/http"
	pkgkafka "MarketBrief/pkg/kafka"
	"MarketBrief/pkg/logger"
	"MarketBrief/pkg/metrics"
	"MarketBrief/pkg/server"
)

// policySeriesID is the daily US economic policy uncertainty index on FRED.
const policySeriesID = "USEPUINDXD"

// ProvideLogger creates the application logger. When no format is configured,
// development runs get console output and everything else gets JSON.
func ProvideLogger(cfg *config.Config) (*logger.Logger, error) {
	format := cfg.Logging.Format
	if format == "" {
		format = "json"
		if cfg.IsDev() {
			format = "console"
		}
	}
	return logger.New(&logger.Config{
		Level:  cfg.Logging.Level,
		Format: format,
		Output: cfg.Logging.Output,
	})
}

// ProvideMetrics creates a Prometheus metrics recorder.
func ProvideMetrics() repository.Metrics {
	return metrics.New()
}

// ProvideCache selects the cache backend from config.
func ProvideCache(cfg *config.Config) (cache.Service, error) {
	switch cfg.Cache.Backend {
	case "redis":
		return cache.NewRedisCache(
			cache.WithRedisAddr(cfg.Cache.Redis.Addr),
			cache.WithRedisPassword(cfg.Cache.Redis.Password),
			cache.WithRedisDB(cfg.Cache.Redis.DB),
		)
	case "mirrored":
		return cache.NewMirroredCache(cfg.Cache.MirrorDir,
			cache.WithMemoryMaxSize(cfg.Cache.MaxEntries),
		)
	default:
		return cache.NewMemoryCache(
			cache.WithMemoryMaxSize(cfg.Cache.MaxEntries),
		), nil
	}
}

// ProvideHTTPClient creates the shared outbound HTTP client.
func ProvideHTTPClient(cfg *config.Config) *xhttp.Client {
	opts := []xhttp.ClientOption{}
	if cfg.Feeds.RequestTimeout > 0 {
		opts = append(opts, xhttp.WithTimeout(cfg.Feeds.RequestTimeout))
	}
	if cfg.Feeds.UserAgent != "" {
		opts = append(opts, xhttp.WithUserAgent(cfg.Feeds.UserAgent))
	}
	return xhttp.NewClient(opts...)
}

// ProvidePulseSources builds the four indicator feeds.
func ProvidePulseSources(cfg *config.Config, client *xhttp.Client) pulse.Sources {
	return pulse.Sources{
		Policy:      feeds.NewFREDClient(client, cfg.Feeds.FREDBaseURL, cfg.Feeds.FREDAPIKey, policySeriesID),
		Regulatory:  feeds.NewRegisterClient(client, cfg.Feeds.RegisterURL),
		Trade:       feeds.NewTPUClient(client, cfg.Feeds.TradeCSVURL),
		Geopolitics: feeds.NewGPRClient(client, cfg.Feeds.GeoCSVURL),
	}
}

// ProvideClassifier creates the risk pulse classifier.
func ProvideClassifier(cfg *config.Config, sources pulse.Sources, c cache.Service, log *logger.Logger, m repository.Metrics) *pulse.Classifier {
	ttls := pulse.TTLs{
		Policy:      cfg.Pulse.PolicyTTL,
		Regulatory:  cfg.Pulse.RegulatoryTTL,
		Trade:       cfg.Pulse.TradeTTL,
		Geopolitics: cfg.Pulse.GeoTTL,
	}
	return pulse.NewClassifier(sources, ttls, c, log, m)
}

// ProvideAggregator creates the market snapshot aggregator.
func ProvideAggregator(cfg *config.Config, client *xhttp.Client, c cache.Service, log *logger.Logger, m repository.Metrics) *snapshot.Aggregator {
	quotes := feeds.NewQuoteClient(client, cfg.Feeds.QuoteBaseURL)

	opts := []snapshot.Option{}
	if cfg.Snapshot.TTL > 0 {
		opts = append(opts, snapshot.WithTTL(cfg.Snapshot.TTL))
	}
	if cfg.Snapshot.IncludeMovers && cfg.Feeds.ScreenURL != "" {
		opts = append(opts, snapshot.WithMovers(feeds.NewScreenClient(client, cfg.Feeds.ScreenURL)))
	}
	if cfg.Feeds.HeadlinesURL != "" {
		opts = append(opts, snapshot.WithHeadlines(feeds.NewHeadlineClient(client, cfg.Feeds.HeadlinesURL, cfg.Narrative.MaxHeadlines)))
	}
	return snapshot.NewAggregator(quotes, c, log, m, opts...)
}

// ProvideSynthesizer creates the narrative synthesizer.
func ProvideSynthesizer() *narrative.Synthesizer {
	return narrative.NewSynthesizer()
}

// ProvideKafkaProducer creates a Kafka producer, or nil when disabled.
func ProvideKafkaProducer(cfg *config.Config) (*pkgkafka.Producer, error) {
	if !cfg.Kafka.Enabled {
		return nil, nil
	}
	producer, err := pkgkafka.NewProducer(
		pkgkafka.WithBrokers(cfg.Kafka.Brokers),
		pkgkafka.WithCompression(cfg.Kafka.Compression),
		pkgkafka.WithRequiredAcks(cfg.Kafka.RequiredAcks),
		pkgkafka.WithBatchSize(cfg.Kafka.Producer.BatchSize),
		pkgkafka.WithBatchBytes(cfg.Kafka.Producer.BatchBytes),
		pkgkafka.WithBatchTimeout(cfg.Kafka.Producer.Linger),
		pkgkafka.WithTimeouts(cfg.Kafka.Producer.WriteTimeout, cfg.Kafka.Producer.ReadTimeout),
		pkgkafka.WithMaxAttempts(cfg.Kafka.Producer.MaxAttempts),
		pkgkafka.WithAsync(cfg.Kafka.Producer.Async),
	)
	if err != nil {
		return nil, fmt.Errorf("kafka producer: %w", err)
	}
	return producer, nil
}

// ProvideClickHouseClient creates a ClickHouse client, or nil when disabled.
func ProvideClickHouseClient(cfg *config.Config) (*pkgch.Client, error) {
	if !cfg.ClickHouse.Enabled {
		return nil, nil
	}
	client, err := pkgch.NewClient(
		pkgch.WithHost(cfg.ClickHouse.Host),
		pkgch.WithPort(cfg.ClickHouse.Port),
		pkgch.WithDatabase(cfg.ClickHouse.Database),
		pkgch.WithCredentials(cfg.ClickHouse.User, cfg.ClickHouse.Password),
		pkgch.WithHTTP(cfg.ClickHouse.UseHTTP),
		pkgch.WithAsyncInsert(cfg.ClickHouse.AsyncInsert, cfg.ClickHouse.WaitForAsync),
		pkgch.WithTimeouts(cfg.ClickHouse.DialTimeout, cfg.ClickHouse.ReadTimeout, cfg.ClickHouse.WriteTimeout),
		pkgch.WithMaxExecutionTime(cfg.ClickHouse.MaxExecutionTime),
	)
	if err != nil {
		return nil, fmt.Errorf("clickhouse client: %w", err)
	}
	return client, nil
}

// ProvideBriefUseCase assembles the brief use case with optional archive and
// event publishing.
func ProvideBriefUseCase(
	cfg *config.Config,
	agg *snapshot.Aggregator,
	classifier *pulse.Classifier,
	synth *narrative.Synthesizer,
	c cache.Service,
	log *logger.Logger,
	m repository.Metrics,
	producer *pkgkafka.Producer,
	chClient *pkgch.Client,
) (*usecase.BriefUseCase, error) {
	opts := []usecase.Option{}
	if cfg.Cache.DefaultTTL > 0 {
		opts = append(opts, usecase.WithBriefTTL(cfg.Cache.DefaultTTL))
	}
	if producer != nil {
		opts = append(opts, usecase.WithEvents(internalrepo.NewKafkaPublisher(producer), cfg.Kafka.EventsTopic))
	}
	if chClient != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		archive, err := internalrepo.NewClickHouseArchive(ctx, chClient, log)
		if err != nil {
			return nil, err
		}
		opts = append(opts, usecase.WithArchive(archive))
	}
	return usecase.NewBriefUseCase(agg, classifier, synth, c, log, m, opts...), nil
}

// ProvideHandler creates the HTTP handler.
func ProvideHandler(cfg *config.Config, log *logger.Logger, uc *usecase.BriefUseCase) *api.BriefEchoHandler {
	return api.NewBriefEchoHandler(log, uc, api.RateLimits{
		Enabled: cfg.RateLimit.Enabled,
		Rate:    cfg.RateLimit.Rate,
		Burst:   float64(cfg.RateLimit.Burst),
	})
}

// ProvideApp creates the application server.
func ProvideApp(
	cfg *config.Config,
	handler *api.BriefEchoHandler,
	log *logger.Logger,
	c cache.Service,
	producer *pkgkafka.Producer,
	chClient *pkgch.Client,
) *server.App {
	return server.New(cfg, handler, log, c, producer, chClient)
}
