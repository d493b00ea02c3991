package config

import (
	"encoding/json"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"
)

const (
	defaultPort                     = "8080"
	defaultOpenAPISpec              = "api/openapi.yaml"
	defaultShutdownTimeout          = 10 * time.Second
	defaultDBReadinessTimeout       = 30 * time.Second
	defaultDBReadinessRetryInterval = 2 * time.Second
	defaultMigrationsPath           = "internal/adapters/outbound/persistence/postgresql/migrations"

	defaultChainID         = int64(8453)
	defaultBlockTimeSecs   = int64(2)
	defaultFinalityDepth   = int64(10)
	defaultIndexBatch      = int64(1000)
	defaultIndexPoll       = 2 * time.Second
	defaultIndexTimeout    = 30 * time.Second
	defaultRPCTimeout      = 10 * time.Second
	defaultClientTimeout   = 10 * time.Second
	defaultAccountStore    = "account.json"
	defaultRecommendedJSON = `[{"title":"Deposit from an exchange","url":"https://bridge.base.org"}]`
)

const (
	homeCoinAddressEnv = "HOME_COIN_ADDRESS"
	chainRPCURLEnv     = "CHAIN_RPC_URL"
	gasConstantsEnv    = "CHAIN_GAS_CONSTANTS_JSON"
	exchangesEnv       = "RECOMMENDED_EXCHANGES_JSON"
	historyBaseURLEnv  = "HISTORY_API_BASE_URL"
)

type ConfigError struct {
	Code     string
	Message  string
	Metadata map[string]string
}

func (e *ConfigError) Error() string {
	if e == nil {
		return ""
	}

	return e.Message
}

// GasConstants mirrors the chain fee parameters served to clients on
// every history response. Values are strings to survive JSON round-trips
// without precision loss.
type GasConstants struct {
	MaxFeePerGas         string `json:"maxFeePerGas"`
	MaxPriorityFeePerGas string `json:"maxPriorityFeePerGas"`
	EstimatedFee         int64  `json:"estimatedFee"`
	PaymasterAddress     string `json:"paymasterAddress"`
	PreVerificationGas   string `json:"preVerificationGas"`
}

type RecommendedExchange struct {
	Title string `json:"title"`
	URL   string `json:"url"`
}

// APIConfig configures the history API server and its index pipeline.
type APIConfig struct {
	Port            string
	OpenAPISpecPath string
	ShutdownTimeout time.Duration

	DatabaseURL              string
	DatabaseTarget           string
	DBReadinessTimeout       time.Duration
	DBReadinessRetryInterval time.Duration
	MigrationsPath           string

	ChainID          int64
	HomeCoinAddress  string
	GenesisTimestamp int64
	BlockTimeSecs    int64
	FinalityDepth    int64

	ChainRPCURL string
	RPCTimeout  time.Duration

	IndexEnabled       bool
	IndexStartBlock    int64
	IndexBatchBlocks   int64
	IndexPollInterval  time.Duration
	IndexWindowTimeout time.Duration

	PushEnabled     bool
	PushEndpointURL string
	PushHMACSecret  string

	GasConstants         GasConstants
	RecommendedExchanges []RecommendedExchange
}

// ClientConfig configures the on-device sync daemon.
type ClientConfig struct {
	HistoryAPIBaseURL string
	HistoryTimeout    time.Duration
	AccountStorePath  string
	SyncEnabled       bool
}

func LoadAPIConfig() (APIConfig, *ConfigError) {
	databaseURL := strings.TrimSpace(os.Getenv("DATABASE_URL"))
	if databaseURL == "" {
		return APIConfig{}, &ConfigError{
			Code:    "CONFIG_DATABASE_URL_REQUIRED",
			Message: "DATABASE_URL is required",
		}
	}

	databaseTarget, parseErr := parseDatabaseTarget(databaseURL)
	if parseErr != nil {
		return APIConfig{}, parseErr
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = defaultPort
	}

	openAPISpecPath := os.Getenv("OPENAPI_SPEC_PATH")
	if openAPISpecPath == "" {
		openAPISpecPath = defaultOpenAPISpec
	}

	homeCoinAddress := strings.ToLower(strings.TrimSpace(os.Getenv(homeCoinAddressEnv)))
	if homeCoinAddress == "" {
		return APIConfig{}, &ConfigError{
			Code:    "CONFIG_HOME_COIN_ADDRESS_REQUIRED",
			Message: homeCoinAddressEnv + " is required",
		}
	}

	chainID, cfgErr := int64Env("CHAIN_ID", defaultChainID)
	if cfgErr != nil {
		return APIConfig{}, cfgErr
	}
	genesisTimestamp, cfgErr := int64Env("GENESIS_TIMESTAMP", 0)
	if cfgErr != nil {
		return APIConfig{}, cfgErr
	}
	blockTimeSecs, cfgErr := int64Env("BLOCK_TIME_SECS", defaultBlockTimeSecs)
	if cfgErr != nil {
		return APIConfig{}, cfgErr
	}
	if blockTimeSecs <= 0 {
		return APIConfig{}, &ConfigError{
			Code:    "CONFIG_BLOCK_TIME_INVALID",
			Message: "BLOCK_TIME_SECS must be greater than zero",
		}
	}
	finalityDepth, cfgErr := int64Env("FINALITY_DEPTH", defaultFinalityDepth)
	if cfgErr != nil {
		return APIConfig{}, cfgErr
	}
	if finalityDepth < 0 {
		return APIConfig{}, &ConfigError{
			Code:    "CONFIG_FINALITY_DEPTH_INVALID",
			Message: "FINALITY_DEPTH must not be negative",
		}
	}

	indexEnabled, cfgErr := boolEnv("INDEX_ENABLED", true)
	if cfgErr != nil {
		return APIConfig{}, cfgErr
	}
	indexStartBlock, cfgErr := int64Env("INDEX_START_BLOCK", 0)
	if cfgErr != nil {
		return APIConfig{}, cfgErr
	}
	indexBatchBlocks, cfgErr := int64Env("INDEX_BATCH_BLOCKS", defaultIndexBatch)
	if cfgErr != nil {
		return APIConfig{}, cfgErr
	}
	if indexBatchBlocks <= 0 {
		return APIConfig{}, &ConfigError{
			Code:    "CONFIG_INDEX_BATCH_INVALID",
			Message: "INDEX_BATCH_BLOCKS must be greater than zero",
		}
	}
	indexPollInterval, cfgErr := durationSecsEnv("INDEX_POLL_INTERVAL_SECS", defaultIndexPoll)
	if cfgErr != nil {
		return APIConfig{}, cfgErr
	}
	indexWindowTimeout, cfgErr := durationSecsEnv("INDEX_WINDOW_TIMEOUT_SECS", defaultIndexTimeout)
	if cfgErr != nil {
		return APIConfig{}, cfgErr
	}

	chainRPCURL := strings.TrimSpace(os.Getenv(chainRPCURLEnv))
	if chainRPCURL == "" {
		return APIConfig{}, &ConfigError{
			Code:    "CONFIG_CHAIN_RPC_URL_REQUIRED",
			Message: chainRPCURLEnv + " is required",
		}
	}
	rpcTimeout, cfgErr := durationSecsEnv("CHAIN_RPC_TIMEOUT_SECS", defaultRPCTimeout)
	if cfgErr != nil {
		return APIConfig{}, cfgErr
	}

	pushEnabled, cfgErr := boolEnv("PUSH_ENABLED", false)
	if cfgErr != nil {
		return APIConfig{}, cfgErr
	}
	pushEndpointURL := strings.TrimSpace(os.Getenv("PUSH_ENDPOINT_URL"))
	pushHMACSecret := strings.TrimSpace(os.Getenv("PUSH_HMAC_SECRET"))
	if pushEnabled && (pushEndpointURL == "" || pushHMACSecret == "") {
		return APIConfig{}, &ConfigError{
			Code:    "CONFIG_PUSH_DELIVERY_INCOMPLETE",
			Message: "PUSH_ENDPOINT_URL and PUSH_HMAC_SECRET are required when PUSH_ENABLED is true",
		}
	}

	gasConstants, cfgErr := loadGasConstants()
	if cfgErr != nil {
		return APIConfig{}, cfgErr
	}
	exchanges, cfgErr := loadRecommendedExchanges()
	if cfgErr != nil {
		return APIConfig{}, cfgErr
	}

	return APIConfig{
		Port:                     port,
		OpenAPISpecPath:          openAPISpecPath,
		ShutdownTimeout:          defaultShutdownTimeout,
		DatabaseURL:              databaseURL,
		DatabaseTarget:           databaseTarget,
		DBReadinessTimeout:       defaultDBReadinessTimeout,
		DBReadinessRetryInterval: defaultDBReadinessRetryInterval,
		MigrationsPath:           defaultMigrationsPath,
		ChainID:                  chainID,
		HomeCoinAddress:          homeCoinAddress,
		GenesisTimestamp:         genesisTimestamp,
		BlockTimeSecs:            blockTimeSecs,
		FinalityDepth:            finalityDepth,
		ChainRPCURL:              chainRPCURL,
		RPCTimeout:               rpcTimeout,
		IndexEnabled:             indexEnabled,
		IndexStartBlock:          indexStartBlock,
		IndexBatchBlocks:         indexBatchBlocks,
		IndexPollInterval:        indexPollInterval,
		IndexWindowTimeout:       indexWindowTimeout,
		PushEnabled:              pushEnabled,
		PushEndpointURL:          pushEndpointURL,
		PushHMACSecret:           pushHMACSecret,
		GasConstants:             gasConstants,
		RecommendedExchanges:     exchanges,
	}, nil
}

func LoadClientConfig() (ClientConfig, *ConfigError) {
	baseURL := strings.TrimSpace(os.Getenv(historyBaseURLEnv))
	if baseURL == "" {
		return ClientConfig{}, &ConfigError{
			Code:    "CONFIG_HISTORY_API_BASE_URL_REQUIRED",
			Message: historyBaseURLEnv + " is required",
		}
	}
	parsed, err := url.Parse(baseURL)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return ClientConfig{}, &ConfigError{
			Code:    "CONFIG_HISTORY_API_BASE_URL_INVALID",
			Message: historyBaseURLEnv + " must be an absolute URL",
		}
	}

	timeout, cfgErr := durationSecsEnv("HISTORY_HTTP_TIMEOUT_SECS", defaultClientTimeout)
	if cfgErr != nil {
		return ClientConfig{}, cfgErr
	}

	storePath := strings.TrimSpace(os.Getenv("ACCOUNT_STORE_PATH"))
	if storePath == "" {
		storePath = defaultAccountStore
	}

	syncEnabled, cfgErr := boolEnv("SYNC_ENABLED", true)
	if cfgErr != nil {
		return ClientConfig{}, cfgErr
	}

	return ClientConfig{
		HistoryAPIBaseURL: baseURL,
		HistoryTimeout:    timeout,
		AccountStorePath:  storePath,
		SyncEnabled:       syncEnabled,
	}, nil
}

func (c APIConfig) Address() string {
	return ":" + c.Port
}

func parseDatabaseTarget(databaseURL string) (string, *ConfigError) {
	parsed, err := url.Parse(databaseURL)
	if err != nil {
		return "", &ConfigError{
			Code:    "CONFIG_DATABASE_URL_INVALID",
			Message: "DATABASE_URL is invalid",
		}
	}

	switch parsed.Scheme {
	case "postgres", "postgresql":
	default:
		return "", &ConfigError{
			Code:    "CONFIG_DATABASE_URL_SCHEME_INVALID",
			Message: "DATABASE_URL must use postgres or postgresql scheme",
		}
	}

	if parsed.Host == "" {
		return "", &ConfigError{
			Code:    "CONFIG_DATABASE_URL_HOST_MISSING",
			Message: "DATABASE_URL host is required",
		}
	}

	databaseName := strings.TrimPrefix(parsed.Path, "/")
	if databaseName == "" {
		return "", &ConfigError{
			Code:    "CONFIG_DATABASE_NAME_MISSING",
			Message: "DATABASE_URL database name is required",
		}
	}

	return parsed.Host + "/" + databaseName, nil
}

func loadGasConstants() (GasConstants, *ConfigError) {
	raw := strings.TrimSpace(os.Getenv(gasConstantsEnv))
	if raw == "" {
		return GasConstants{
			MaxFeePerGas:         "1000000",
			MaxPriorityFeePerGas: "1000000",
			EstimatedFee:         1,
			PreVerificationGas:   "0",
		}, nil
	}

	constants := GasConstants{}
	if err := json.Unmarshal([]byte(raw), &constants); err != nil {
		return GasConstants{}, &ConfigError{
			Code:    "CONFIG_GAS_CONSTANTS_INVALID",
			Message: gasConstantsEnv + " must be a JSON object",
		}
	}
	if constants.PreVerificationGas == "" {
		constants.PreVerificationGas = "0"
	}
	return constants, nil
}

func loadRecommendedExchanges() ([]RecommendedExchange, *ConfigError) {
	raw := strings.TrimSpace(os.Getenv(exchangesEnv))
	if raw == "" {
		raw = defaultRecommendedJSON
	}

	exchanges := []RecommendedExchange{}
	if err := json.Unmarshal([]byte(raw), &exchanges); err != nil {
		return nil, &ConfigError{
			Code:    "CONFIG_RECOMMENDED_EXCHANGES_INVALID",
			Message: exchangesEnv + " must be a JSON array",
		}
	}
	return exchanges, nil
}

func int64Env(name string, fallback int64) (int64, *ConfigError) {
	raw := strings.TrimSpace(os.Getenv(name))
	if raw == "" {
		return fallback, nil
	}
	parsed, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, &ConfigError{
			Code:     "CONFIG_INT_INVALID",
			Message:  name + " must be a base-10 integer",
			Metadata: map[string]string{"name": name, "value": raw},
		}
	}
	return parsed, nil
}

func boolEnv(name string, fallback bool) (bool, *ConfigError) {
	raw := strings.TrimSpace(os.Getenv(name))
	if raw == "" {
		return fallback, nil
	}
	parsed, err := strconv.ParseBool(raw)
	if err != nil {
		return false, &ConfigError{
			Code:     "CONFIG_BOOL_INVALID",
			Message:  name + " must be a boolean",
			Metadata: map[string]string{"name": name, "value": raw},
		}
	}
	return parsed, nil
}

func durationSecsEnv(name string, fallback time.Duration) (time.Duration, *ConfigError) {
	raw := strings.TrimSpace(os.Getenv(name))
	if raw == "" {
		return fallback, nil
	}
	parsed, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || parsed <= 0 {
		return 0, &ConfigError{
			Code:     "CONFIG_DURATION_INVALID",
			Message:  name + " must be a positive integer of seconds",
			Metadata: map[string]string{"name": name, "value": raw},
		}
	}
	return time.Duration(parsed) * time.Second, nil
}
