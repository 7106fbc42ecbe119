package cmd

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"

	corpusreader "github.com/bnema/codextendo/internal/adapters/corpus"
	"github.com/bnema/codextendo/internal/adapters/render/results"
	"github.com/bnema/codextendo/internal/adapters/store/jsonstore"
	"github.com/bnema/codextendo/internal/adapters/store/summaries"
	openaiclient "github.com/bnema/codextendo/internal/adapters/summarize/openai"
	"github.com/bnema/codextendo/internal/application"
	"github.com/bnema/codextendo/internal/domain"
	"github.com/bnema/codextendo/internal/ports"
	"github.com/bnema/codextendo/internal/tokens"
)

const (
	configDirName  = ".codextendo"
	corpusDirName  = ".codex"
	configFileName = "config"
)

type app struct {
	cfg       *viper.Viper
	configDir string

	corpus ports.CorpusReader
	labels ports.LabelStore
	cache  ports.ResultCache
	index  ports.SummaryIndex
	writer ports.SummaryWriter

	searchService *application.SearchService
	labelService  *application.LabelService

	newSummarizer   func() (ports.Summarizer, error)
	newTokenCounter func() ports.TokenCounter
	renderResults   func(pattern string, entries []domain.MatchEntry) string
	now             func() time.Time
}

func wireApp() (*app, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("resolve home directory: %w", err)
	}

	configDir := filepath.Join(homeDir, configDirName)

	cfg, err := loadConfig(homeDir, configDir)
	if err != nil {
		return nil, err
	}

	summariesDir := cfg.GetString("summaries.dir")
	indexPath := cfg.GetString("index.path")
	if indexPath == "" {
		indexPath = filepath.Join(summariesDir, "index.json")
	}

	corpus := corpusreader.NewReader()
	labels := jsonstore.NewLabelStore(cfg.GetString("labels.path"))
	cache := jsonstore.NewCacheStore(cfg.GetString("cache.path"))
	index := jsonstore.NewIndexStore(indexPath)
	writer := summaries.NewWriter(summariesDir)

	return &app{
		cfg:       cfg,
		configDir: configDir,

		corpus: corpus,
		labels: labels,
		cache:  cache,
		index:  index,
		writer: writer,

		searchService: application.NewSearchService(corpus, labels, cache),
		labelService:  application.NewLabelService(labels, cache),

		newSummarizer: func() (ports.Summarizer, error) {
			return openaiclient.NewClient(os.Getenv("OPENAI_API_KEY"), os.Getenv("OPENAI_API_BASE"))
		},
		newTokenCounter: func() ports.TokenCounter {
			return tokens.NewCounter()
		},
		renderResults: results.Render,
		now:           time.Now,
	}, nil
}

func loadConfig(homeDir, configDir string) (*viper.Viper, error) {
	cfg := viper.New()
	cfg.SetConfigName(configFileName)
	cfg.SetConfigType("toml")
	cfg.AddConfigPath(configDir)

	cfg.SetEnvPrefix("codextendo")
	cfg.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	cfg.AutomaticEnv()
	// The label file predates this tool; honor its original variable too.
	_ = cfg.BindEnv("labels.path", "CODEXTENDO_LABELS_PATH", "CODEX_LABEL_FILE")

	cfg.SetDefault("sessions.dir", filepath.Join(homeDir, corpusDirName, "sessions"))
	cfg.SetDefault("summaries.dir", filepath.Join(configDir, "summaries"))
	cfg.SetDefault("index.path", "")
	cfg.SetDefault("labels.path", filepath.Join(homeDir, corpusDirName, "search_labels.json"))
	cfg.SetDefault("cache.path", filepath.Join(configDir, "last_search.json"))
	cfg.SetDefault("search.limit", application.DefaultSearchLimit)
	cfg.SetDefault("search.skip_phrases", []string{"codextendo search", "codexsearch"})
	cfg.SetDefault("summary.model", application.DefaultSummaryModel)
	cfg.SetDefault("summary.token_limit", application.DefaultSummaryTokenLimit)
	cfg.SetDefault("resume.command", "codex")
	cfg.SetDefault("resume.prompt", "")
	cfg.SetDefault("resume.disabled", false)

	if err := cfg.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config file: %w", err)
		}
	}

	return cfg, nil
}

func (a *app) refreshService(summarizer ports.Summarizer, counter ports.TokenCounter) *application.RefreshService {
	return application.NewRefreshService(a.corpus, a.index, a.labels, summarizer, a.writer, counter, ports.SystemClock{})
}
