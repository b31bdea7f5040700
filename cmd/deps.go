package cmd

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/text/language"

	"github.com/spigell/staffmatch/internal/ai"
	"github.com/spigell/staffmatch/internal/ai/gemini"
	"github.com/spigell/staffmatch/internal/ai/openai"
	"github.com/spigell/staffmatch/internal/candidate"
	"github.com/spigell/staffmatch/internal/documents"
	"github.com/spigell/staffmatch/internal/enrichment"
	"github.com/spigell/staffmatch/internal/ranking"
	"github.com/spigell/staffmatch/internal/repository"
	"github.com/spigell/staffmatch/internal/scoring"
	"github.com/spigell/staffmatch/internal/secrets"
)

type store interface {
	ranking.CandidateRepository
	ranking.TargetRepository
	Candidate(ctx context.Context, id string) (*candidate.Profile, error)
}

// openRepository returns the configured store and a function releasing it.
func openRepository(ctx context.Context, cfg *RepositoryConfig) (store, func(), error) {
	switch strings.ToLower(strings.TrimSpace(cfg.Driver)) {
	case "", "file":
		repo, err := repository.LoadFile(cfg.File)
		if err != nil {
			return nil, nil, err
		}
		return repo, func() {}, nil
	case "postgres":
		dsn, err := secrets.Load(secrets.Source{Name: "postgres dsn", Value: cfg.DSN, File: cfg.DSNFile, Env: "DATABASE_URL"})
		if err != nil {
			return nil, nil, err
		}
		repo, err := repository.ConnectPostgres(ctx, dsn)
		if err != nil {
			return nil, nil, err
		}
		return repo, repo.Close, nil
	default:
		return nil, nil, fmt.Errorf("unknown repository driver %q", cfg.Driver)
	}
}

// documentStack wires the extractor, the optional Redis cache and the enricher.
func documentStack(ctx context.Context, cfg *DocumentsConfig, logger *zap.Logger) (*enrichment.Enricher, documents.Extractor, func(), error) {
	httpExtractor := documents.NewHTTPExtractor(logger)
	if cfg.MaxBytes > 0 {
		httpExtractor.MaxBytes = cfg.MaxBytes
	}
	if ua := strings.TrimSpace(cfg.UserAgent); ua != "" {
		httpExtractor.UserAgent = ua
	}

	var extractor documents.Extractor = httpExtractor
	closer := func() {}

	if cfg.Redis != nil && strings.TrimSpace(cfg.Redis.Addr) != "" {
		password, err := secrets.LoadOptional(secrets.Source{
			Name:  "redis password",
			Value: cfg.Redis.Password,
			File:  cfg.Redis.PasswordFile,
		})
		if err != nil {
			return nil, nil, nil, err
		}
		redisStore, err := documents.NewRedisStore(ctx, cfg.Redis.Addr, password, cfg.Redis.DB)
		if err != nil {
			// The cache is an optimisation; run without it.
			logger.Warn("document cache unavailable", zap.String("addr", cfg.Redis.Addr), zap.Error(err))
		} else {
			extractor = documents.NewCachedExtractor(httpExtractor, redisStore, cfg.Redis.TTL, logger)
			closer = func() { _ = redisStore.Close() }
		}
	}

	enricher := enrichment.New(extractor, logger)
	if cfg.Timeout > 0 {
		enricher.Timeout = cfg.Timeout
	}
	if cfg.MaxChars > 0 {
		enricher.MaxChars = cfg.MaxChars
	}
	return enricher, extractor, closer, nil
}

func reasoningClient(ctx context.Context, cfg *AIConfig) (ai.ReasoningClient, error) {
	switch provider := strings.ToLower(strings.TrimSpace(cfg.Provider)); provider {
	case "", "gemini":
		g := cfg.Gemini
		if g == nil {
			g = &GeminiConfig{}
		}
		key, err := secrets.Load(secrets.Source{Name: "gemini api key", Value: g.APIKey, File: g.APIKeyFile, Env: "GEMINI_API_KEY"})
		if err != nil {
			return nil, err
		}
		return gemini.NewGenerator(ctx, key, g.Model)
	case "openai":
		o := cfg.OpenAI
		if o == nil {
			o = &OpenAIConfig{}
		}
		key, err := secrets.Load(secrets.Source{Name: "openai api key", Value: o.APIKey, File: o.APIKeyFile, Env: "OPENAI_API_KEY"})
		if err != nil {
			return nil, err
		}
		return openai.NewClient(key, o.Model, o.BaseURL)
	default:
		return nil, fmt.Errorf("unknown ai provider %q", cfg.Provider)
	}
}

func newReranker(ctx context.Context, cfg *AIConfig, docMaxChars int, logger *zap.Logger) (*ai.Reranker, error) {
	client, err := reasoningClient(ctx, cfg)
	if err != nil {
		return nil, err
	}

	provider := strings.ToLower(strings.TrimSpace(cfg.Provider))
	if provider == "" {
		provider = "gemini"
	}
	reranker := ai.NewReranker(client, provider, logger)
	if cfg.Timeout > 0 {
		reranker.Timeout = cfg.Timeout
	}
	if cfg.MaxLogLength > 0 {
		reranker.MaxLogLen = cfg.MaxLogLength
	}
	reranker.DocMaxRunes = docMaxChars
	return reranker, nil
}

// customProfiles builds the weight profiles declared under matching.profiles.
func customProfiles(raw map[string]map[string]any) (map[string]scoring.Profile, error) {
	out := make(map[string]scoring.Profile, len(raw))
	for name, values := range raw {
		override, err := scoring.DecodeOverride(values)
		if err != nil {
			return nil, fmt.Errorf("profile %s: %w", name, err)
		}
		p, err := override.Build(name)
		if err != nil {
			return nil, fmt.Errorf("profile %s: %w", name, err)
		}
		out[name] = p
	}
	return out, nil
}

func sortedProfileNames(custom map[string]scoring.Profile) []string {
	names := make([]string, 0, len(custom))
	for name := range custom {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func parseLocale(raw string) language.Tag {
	tag, err := language.Parse(strings.TrimSpace(raw))
	if err != nil {
		return language.German
	}
	return tag
}
