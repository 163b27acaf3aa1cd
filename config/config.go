package config

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/url"
	"os"
	"strings"
	"time"
)

const (
	// MaxDifficulty is the length of a hex encoded sha256 digest.
	MaxDifficulty        = 64
	GenesisProof         = 100
	GenesisPreviousHash  = "Genesis block."
	MiningRewardSender   = "0"
	MiningRewardAmount   = 1
	DefaultChainEndpoint = "/chain"
)

const (
	defaultConfigFile = "config.json"
)

var (
	Version          string
	ConfigFile       string
	LogPath          string
	SeedList         string
	NodeIdentifier   string
	Difficulty       = -1
	HttpJsonPort     int
	GenesisTimestamp = time.Date(2018, time.January, 1, 0, 0, 0, 0, time.UTC).Unix()
	Parameters       = &Configuration{
		Version:              1,
		Hostname:             "127.0.0.1",
		HttpJsonPort:         5000,
		HttpWsPort:           5001,
		Difficulty:           4,
		MiningInterval:       0,
		ResolveInterval:      0,
		FetchTimeout:         10,
		ParallelFetch:        true,
		MaxChainResponseSize: 32,
		GenesisTimestamp:     GenesisTimestamp,
		LogLevel:             1,
		LogPath:              "",
		MaxLogFileSize:       20,
		RPCIPRateLimit:       10,
		RPCIPRateBurst:       100,
		WsIPRateLimit:        10,
		WsIPRateBurst:        100,
	}
)

type Configuration struct {
	Version              int      `json:"Version"`
	Hostname             string   `json:"Hostname"`
	HttpJsonPort         uint16   `json:"HttpJsonPort"`
	HttpWsPort           uint16   `json:"HttpWsPort"`
	Difficulty           uint32   `json:"Difficulty"`
	NodeIdentifier       string   `json:"NodeIdentifier"`
	SeedList             []string `json:"SeedList"`
	MiningInterval       uint32   `json:"MiningInterval"`
	ResolveInterval      uint32   `json:"ResolveInterval"`
	FetchTimeout         uint32   `json:"FetchTimeout"`
	ParallelFetch        bool     `json:"ParallelFetch"`
	MaxChainResponseSize uint32   `json:"MaxChainResponseSize"`
	GenesisTimestamp     int64    `json:"GenesisTimestamp"`
	LogLevel             int      `json:"LogLevel"`
	LogPath              string   `json:"LogPath"`
	MaxLogFileSize       uint32   `json:"MaxLogFileSize"`
	RPCIPRateLimit       float64  `json:"RPCIPRateLimit"`
	RPCIPRateBurst       uint32   `json:"RPCIPRateBurst"`
	WsIPRateLimit        float64  `json:"WsIPRateLimit"`
	WsIPRateBurst        uint32   `json:"WsIPRateBurst"`
}

// Init loads the config file into Parameters, applies command line
// overrides and verifies the result.
func Init() error {
	file, err := OpenConfigFile()
	if err == nil {
		err = json.Unmarshal(file, Parameters)
		if err != nil {
			return fmt.Errorf("parse config file %s error: %v", GetConfigFile(), err)
		}
	} else {
		log.Println("Config file not exists, use default parameters.")
	}

	if len(LogPath) > 0 {
		Parameters.LogPath = LogPath
	}

	if len(SeedList) > 0 {
		Parameters.SeedList = strings.Split(SeedList, ",")
	}

	if len(NodeIdentifier) > 0 {
		Parameters.NodeIdentifier = NodeIdentifier
	}

	if Difficulty >= 0 {
		Parameters.Difficulty = uint32(Difficulty)
	}

	if HttpJsonPort > 0 {
		Parameters.HttpJsonPort = uint16(HttpJsonPort)
	}

	return Parameters.verify()
}

func (config *Configuration) verify() error {
	if config.Difficulty > MaxDifficulty {
		return fmt.Errorf("Difficulty cannot be greater than %d", MaxDifficulty)
	}

	if config.HttpJsonPort == 0 {
		return errors.New("HttpJsonPort should not be 0")
	}

	if config.FetchTimeout == 0 {
		return errors.New("FetchTimeout should be >= 1 (second)")
	}

	if config.MaxChainResponseSize == 0 {
		return errors.New("MaxChainResponseSize should be >= 1 (MB)")
	}

	if config.MaxLogFileSize <= 0 {
		return errors.New("MaxLogFileSize should be >= 1 (MB)")
	}

	for _, seed := range config.SeedList {
		if _, err := NormalizeAddress(seed); err != nil {
			return fmt.Errorf("invalid seed %q: %v", seed, err)
		}
	}

	return nil
}

func (config *Configuration) GetFetchTimeout() time.Duration {
	return time.Duration(config.FetchTimeout) * time.Second
}

func (config *Configuration) GetMiningInterval() time.Duration {
	return time.Duration(config.MiningInterval) * time.Second
}

func (config *Configuration) GetResolveInterval() time.Duration {
	return time.Duration(config.ResolveInterval) * time.Second
}

func (config *Configuration) GetMaxChainResponseBytes() int64 {
	return int64(config.MaxChainResponseSize) * 1024 * 1024
}

// NormalizeAddress turns a peer address into "scheme://host[:port]". A bare
// "host:port" is treated as http.
func NormalizeAddress(address string) (string, error) {
	address = strings.TrimSpace(address)
	if len(address) == 0 {
		return "", errors.New("empty address")
	}
	if !strings.Contains(address, "://") {
		address = "http://" + address
	}

	u, err := url.Parse(address)
	if err != nil {
		return "", err
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return "", fmt.Errorf("unsupported scheme %q", u.Scheme)
	}
	if len(u.Host) == 0 || len(u.Hostname()) == 0 {
		return "", fmt.Errorf("no host in %q", address)
	}

	return u.Scheme + "://" + u.Host, nil
}

func GetConfigFile() string {
	configFile := ConfigFile
	if configFile == "" {
		configFile = defaultConfigFile
	}
	return configFile
}

func OpenConfigFile() ([]byte, error) {
	configFile := GetConfigFile()
	_, err := os.Stat(configFile)
	if err != nil {
		return nil, err
	}
	file, err := os.ReadFile(configFile)
	if err != nil {
		return nil, err
	}

	// Remove the UTF-8 Byte Order Mark
	file = bytes.TrimPrefix(file, []byte("\xef\xbb\xbf"))
	return file, nil
}
