package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/btcsuite/btcd/btcutil"
	"github.com/spf13/viper"
	"github.com/stegos/walletd/internal/core/application"
)

const (
	// NodeAddrKey is the websocket url of the node API, ie. ws://localhost:3145
	NodeAddrKey = "NODE_ADDR"
	// NodeAPITokenKey is the token used to authenticate with the node API
	NodeAPITokenKey = "NODE_API_TOKEN"
	// NodeAPITokenFileKey is the path of the file containing the node API
	// token. It's used only if NodeAPITokenKey is not set
	NodeAPITokenFileKey = "NODE_API_TOKEN_FILE"
	// ReconnectAttemptsKey is the number of consecutive failed connections to
	// the node after which the daemon gives up
	ReconnectAttemptsKey = "RECONNECT_ATTEMPTS"
	// ReconnectIntervalKey is the interval in seconds between reconnections
	ReconnectIntervalKey = "RECONNECT_INTERVAL"
	// RequestRateKey is the max number of requests per second sent to the node
	// while bootstrapping accounts
	RequestRateKey = "REQUEST_RATE"
	// HistoryDepthDaysKey is how far back in days the account history is
	// requested
	HistoryDepthDaysKey = "HISTORY_DEPTH_DAYS"
	// HistoryLimitKey is the max number of history entries requested per
	// account
	HistoryLimitKey = "HISTORY_LIMIT"
	// ListeningPortKey is the port where the HTTP interface will listen on
	ListeningPortKey = "LISTENING_PORT"
	// APITokenKey is the bearer token required by the HTTP interface. If not
	// set, one is generated into the datadir
	APITokenKey = "API_TOKEN"
	// NoAuthKey is used to start the daemon without authenticating HTTP
	// requests
	NoAuthKey = "NO_AUTH"
	// CORSAllowedOriginsKey is the list of origins allowed to call the HTTP
	// interface and to open the stream websocket. "*" allows any origin
	CORSAllowedOriginsKey = "CORS_ALLOWED_ORIGINS"
	// DatadirKey is the local data directory to store the internal state of daemon
	DatadirKey = "DATADIR"
	// DBTypeKey is used to switch database type between those supported
	DBTypeKey = "DB_TYPE"
	// LogLevelKey are the different logging levels. For reference on the values https://godoc.org/github.com/sirupsen/logrus#Level
	LogLevelKey = "LOG_LEVEL"
	// StatsIntervalKey defines interval for printing basic daemon statistics
	StatsIntervalKey = "STATS_INTERVAL"
	// EnableProfilerKey enables profiler that can be used to investigate performance issues
	EnableProfilerKey = "ENABLE_PROFILER"
	// WebhookTimeoutKey is the timeout in seconds of webhook requests
	WebhookTimeoutKey = "WEBHOOK_TIMEOUT"

	DbLocation       = "db"
	PubSubLocation   = "pubsub"
	ProfilerLocation = "stats"
)

var (
	vip            *viper.Viper
	defaultDatadir = btcutil.AppDataDir("walletd", false)
)

func InitConfig() error {
	vip = viper.New()
	vip.SetEnvPrefix("WALLET")
	vip.AutomaticEnv()

	vip.SetDefault(NodeAddrKey, "ws://localhost:3145")
	vip.SetDefault(ReconnectAttemptsKey, 10)
	vip.SetDefault(ReconnectIntervalKey, 5)
	vip.SetDefault(RequestRateKey, 10)
	vip.SetDefault(HistoryDepthDaysKey, 365)
	vip.SetDefault(HistoryLimitKey, 1000)
	vip.SetDefault(ListeningPortKey, 3155)
	vip.SetDefault(NoAuthKey, false)
	vip.SetDefault(CORSAllowedOriginsKey, []string{"http://localhost"})
	vip.SetDefault(DatadirKey, defaultDatadir)
	vip.SetDefault(DBTypeKey, application.DBBadger)
	vip.SetDefault(LogLevelKey, 4)
	vip.SetDefault(StatsIntervalKey, 600)
	vip.SetDefault(EnableProfilerKey, false)
	vip.SetDefault(WebhookTimeoutKey, 15)

	if err := validate(); err != nil {
		return fmt.Errorf("error while validating config: %s", err)
	}

	if err := initDatadir(); err != nil {
		return fmt.Errorf("error while creating datadir: %s", err)
	}

	return nil
}

func GetString(key string) string {
	return vip.GetString(key)
}

func GetInt(key string) int {
	return vip.GetInt(key)
}

func GetBool(key string) bool {
	return vip.GetBool(key)
}

// GetStringSlice also accepts comma separated values, as set through env vars.
func GetStringSlice(key string) []string {
	values := make([]string, 0)
	for _, v := range vip.GetStringSlice(key) {
		for _, s := range strings.Split(v, ",") {
			if s = strings.TrimSpace(s); s != "" {
				values = append(values, s)
			}
		}
	}
	return values
}

// GetSeconds returns the value of key, expressed in seconds, as a duration.
func GetSeconds(key string) time.Duration {
	return time.Duration(vip.GetInt(key)) * time.Second
}

func GetDatadir() string {
	return GetString(DatadirKey)
}

func GetDbDatadir() string {
	return filepath.Join(GetDatadir(), DbLocation)
}

func GetPubSubDatadir() string {
	return filepath.Join(GetDatadir(), PubSubLocation)
}

func GetProfilerDatadir() string {
	return filepath.Join(GetDatadir(), ProfilerLocation)
}

func validate() error {
	datadir := GetString(DatadirKey)
	if len(datadir) <= 0 {
		return fmt.Errorf("missing datadir")
	}

	nodeAddr, err := url.Parse(GetString(NodeAddrKey))
	if err != nil {
		return fmt.Errorf("invalid node address: %s", err)
	}
	if nodeAddr.Scheme != "ws" && nodeAddr.Scheme != "wss" {
		return fmt.Errorf("node address must be a ws:// or wss:// url")
	}

	if _, ok := application.SupportedDBType[GetString(DBTypeKey)]; !ok {
		return fmt.Errorf("unsupported db type %s", GetString(DBTypeKey))
	}

	for _, key := range []string{
		ReconnectAttemptsKey, ReconnectIntervalKey, RequestRateKey,
		HistoryDepthDaysKey, HistoryLimitKey, WebhookTimeoutKey, StatsIntervalKey,
	} {
		if GetInt(key) <= 0 {
			return fmt.Errorf("%s must be a positive number", key)
		}
	}

	port := GetInt(ListeningPortKey)
	if port <= 1024 || port > 65535 {
		return fmt.Errorf("%s must be in range (1024, 65535]", ListeningPortKey)
	}

	return nil
}

func initDatadir() error {
	if err := makeDirectoryIfNotExists(GetPubSubDatadir()); err != nil {
		return err
	}

	if GetString(DBTypeKey) == application.DBBadger {
		if err := makeDirectoryIfNotExists(GetDbDatadir()); err != nil {
			return err
		}
	}

	profilerEnabled := GetBool(EnableProfilerKey)
	if profilerEnabled {
		if err := makeDirectoryIfNotExists(GetProfilerDatadir()); err != nil {
			return err
		}
	}
	return nil
}

func makeDirectoryIfNotExists(path string) error {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return os.MkdirAll(path, os.ModeDir|0755)
	}
	return nil
}
