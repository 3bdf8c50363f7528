package cmd

import (
	"errors"
	"log/slog"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/viper"
	"gopkg.in/natefinch/lumberjack.v2"

	m "genfix.dev/pkg/genfix/internal/model"
)

const (
	configVersionKey     = "version"
	currentConfigVersion = 1

	configBaseName   = "genfix"
	configFileName   = configBaseName + ".yaml"
	configFolderPath = "."

	outputFlagName      = "output"
	nameFlagName        = "name"
	verboseFlagName     = "verbose"
	logFileFlagName     = "log-file"
	metricsFlagName     = "metrics"
	populationFlagName  = "population"
	generationsFlagName = "generations"
	mutationFlagName    = "mutation-rate"
	seedFlagName        = "seed"
	localizerFlagName   = "localizer"
	crossoverFlagName   = "crossover"
	mutatorFlagName     = "mutator"
	crossTypeFlagName   = "cross-type"
	posWeightFlagName   = "pos-weight"
	negWeightFlagName   = "neg-weight"
	parallelFlagName    = "parallel"
	testTimeoutFlagName = "test-timeout"
	topFlagName         = "top"

	populationKey    = "search.population"
	generationsKey   = "search.generations"
	mutationRateKey  = "search.mutation_rate"
	seedKey          = "search.seed"
	localizerKey     = "search.localizer"
	crossoverKey     = "search.crossover"
	mutatorKey       = "search.mutator"
	crossTypeKey     = "search.cross_type_donors"
	retriesKey       = "search.mutation_retries"
	attemptsKey      = "search.crossover_attempts"
	posWeightKey     = "fitness.positive_weight"
	negWeightKey     = "fitness.negative_weight"
	parallelKey      = "run.parallel"
	testTimeoutKey   = "run.test_timeout"
	metricsKey       = "metrics.enabled"
	metricsPeriodKey = "metrics.interval"

	defaultOutputDir     = ".genfix"
	defaultTop           = 10
	defaultMetrics       = false
	defaultMetricsPeriod = 10 * time.Second

	envPrefix = "GENFIX"

	logFilenameKey   = "log.filename"
	logLevelKey      = "log.level"
	logVerboseKey    = "log.verbose"
	logMaxSizeKey    = "log.max_size"
	logMaxBackupsKey = "log.max_backups"
	logMaxAgeKey     = "log.max_age"
	logCompressKey   = "log.compress"

	defaultLogFilename   = ".genfix.log"
	defaultLogLevel      = int(slog.LevelInfo)
	defaultLogVerbose    = false
	defaultLogMaxSize    = 10
	defaultLogMaxBackups = 3
	defaultLogMaxAge     = 28
	defaultLogCompress   = true
)

var globalLogger *slog.Logger

// logOutput is the rotating log file, also used by the metrics exporter.
var logOutput *lumberjack.Logger

func init() {
	viper.SetConfigName(configBaseName)
	viper.SetConfigType("yaml")
	viper.AddConfigPath(configFolderPath)
	viper.SetConfigFile(filepath.Join(configFolderPath, configFileName))
	viper.AutomaticEnv()
	viper.SetEnvPrefix(envPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))

	setSearchDefaults(m.DefaultSearchConfig())

	viper.SetDefault(configVersionKey, currentConfigVersion)
	viper.SetDefault(outputFlagName, defaultOutputDir)
	viper.SetDefault(metricsKey, defaultMetrics)
	viper.SetDefault(metricsPeriodKey, defaultMetricsPeriod.String())

	// Logging defaults (used by config/env and as fallbacks for flags).
	viper.SetDefault(logFilenameKey, defaultLogFilename)
	viper.SetDefault(logLevelKey, defaultLogLevel)
	viper.SetDefault(logVerboseKey, defaultLogVerbose)
	viper.SetDefault(logMaxSizeKey, defaultLogMaxSize)
	viper.SetDefault(logMaxBackupsKey, defaultLogMaxBackups)
	viper.SetDefault(logMaxAgeKey, defaultLogMaxAge)
	viper.SetDefault(logCompressKey, defaultLogCompress)

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			return
		}

		return
	}
}

func setSearchDefaults(cfg m.SearchConfig) {
	viper.SetDefault(populationKey, cfg.PopulationSize)
	viper.SetDefault(generationsKey, cfg.MaxGenerations)
	viper.SetDefault(mutationRateKey, cfg.MutationRate)
	viper.SetDefault(seedKey, cfg.Seed)
	viper.SetDefault(localizerKey, cfg.Localizer)
	viper.SetDefault(crossoverKey, cfg.Crossover)
	viper.SetDefault(mutatorKey, cfg.Mutator)
	viper.SetDefault(crossTypeKey, cfg.CrossTypeDonors)
	viper.SetDefault(retriesKey, cfg.MutationRetries)
	viper.SetDefault(attemptsKey, cfg.CrossoverAttempts)
	viper.SetDefault(posWeightKey, cfg.PositiveWeight)
	viper.SetDefault(negWeightKey, cfg.NegativeWeight)
	viper.SetDefault(parallelKey, cfg.Parallel)
	viper.SetDefault(testTimeoutKey, cfg.TestTimeout.String())
}

// searchConfig reads the search tunables from flags, env and genfix.yaml.
func searchConfig() m.SearchConfig {
	return m.SearchConfig{
		PopulationSize:    viper.GetInt(populationKey),
		MaxGenerations:    viper.GetInt(generationsKey),
		MutationRate:      viper.GetFloat64(mutationRateKey),
		PositiveWeight:    viper.GetFloat64(posWeightKey),
		NegativeWeight:    viper.GetFloat64(negWeightKey),
		Localizer:         viper.GetString(localizerKey),
		Crossover:         viper.GetString(crossoverKey),
		Mutator:           viper.GetString(mutatorKey),
		CrossTypeDonors:   viper.GetBool(crossTypeKey),
		Seed:              viper.GetInt64(seedKey),
		Parallel:          viper.GetInt(parallelKey),
		MutationRetries:   viper.GetInt(retriesKey),
		CrossoverAttempts: viper.GetInt(attemptsKey),
		TestTimeout:       viper.GetDuration(testTimeoutKey),
	}
}

func parseSlogLevel(value string, defaultLevel slog.Level) slog.Level {
	level := strings.ToLower(strings.TrimSpace(value))
	if level == "" {
		return defaultLevel
	}

	switch level {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	}

	// Allow numeric slog levels as well (e.g. -4 for debug).
	if n, err := strconv.Atoi(level); err == nil {
		return slog.Level(n)
	}

	return defaultLevel
}

// configureLogger configures the global slog logger.
//
// By default it logs at Info; if verbose is true it logs at Debug.
func configureLogger(logPath string, verbose bool) {
	if strings.TrimSpace(logPath) == "" {
		logPath = viper.GetString(logFilenameKey)
	}

	if strings.TrimSpace(logPath) == "" {
		logPath = defaultLogFilename
	}

	var logLevel slog.Level
	if verbose {
		logLevel = slog.LevelDebug
	} else {
		logLevel = parseSlogLevel(viper.GetString(logLevelKey), slog.LevelInfo)
	}

	logOutput = &lumberjack.Logger{
		Filename:   logPath,
		MaxSize:    viper.GetInt(logMaxSizeKey),
		MaxBackups: viper.GetInt(logMaxBackupsKey),
		MaxAge:     viper.GetInt(logMaxAgeKey),
		Compress:   viper.GetBool(logCompressKey),
	}

	handler := slog.NewTextHandler(logOutput, &slog.HandlerOptions{
		AddSource: true,
		Level:     logLevel,
	})

	globalLogger = slog.New(handler)
	slog.SetDefault(globalLogger)
}
