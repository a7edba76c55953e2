// Package config provides functionality for managing configuration options
// for the application using command-line flags and environment variables.
package config

import (
	"encoding/json"
	"flag"
	"log"
	"os"
	"time"
)

// Options holds the configuration values for the application.
type Options struct {
	// Port defines the server's listening address (ip:port).
	Port string

	// DatabaseDSN holds the database connection string for the directory store.
	DatabaseDSN string

	// CoreAPIURL is the base URL of the ledger node RPC endpoint.
	CoreAPIURL string

	// ContractAddress is the principal that deployed the records contract.
	ContractAddress string

	// ContractName is the name of the records contract.
	ContractName string

	// Network selects the ledger network ("testnet" or "mainnet").
	Network string

	// ReadSender is the sender identity used for read-only calls when no
	// session is active. Defaults to ContractAddress, which makes reads
	// effectively public; deployments that want to restrict unauthenticated
	// reads should set this to a dedicated service address or leave the
	// fallback disabled at the call site.
	ReadSender string

	// TokenSecret is the process-held secret for signing verification tokens.
	TokenSecret string

	// TokenTTL is the default validity window for verification tokens.
	TokenTTL time.Duration

	// BaseURL is the public base URL used when building share links.
	BaseURL string

	// Config is the path to the Config file.
	Config string
}

// options holds the current configuration values.
var options = &Options{}

// init initializes command-line flags and sets default values.
func init() {
	flag.StringVar(&options.Port, "a", "localhost:8080", "run on ip:port server")
	flag.StringVar(&options.DatabaseDSN, "d", "", "db address")
	flag.StringVar(&options.CoreAPIURL, "node", "https://api.testnet.hiro.so", "ledger node RPC base URL")
	flag.StringVar(&options.ContractAddress, "contract-address", "ST1PQHQKV0RJXZFY1DGX8MNSNYVE3VGZJSRTPGZGM", "records contract deployer address")
	flag.StringVar(&options.ContractName, "contract-name", "edu-chain", "records contract name")
	flag.StringVar(&options.Network, "network", "testnet", "ledger network (testnet or mainnet)")
	flag.StringVar(&options.ReadSender, "read-sender", "", "sender address for unauthenticated read-only calls (defaults to the contract address)")
	flag.StringVar(&options.TokenSecret, "token-secret", "", "secret for signing verification tokens")
	flag.DurationVar(&options.TokenTTL, "token-ttl", 24*time.Hour, "default validity of verification tokens")
	flag.StringVar(&options.BaseURL, "base-url", "http://localhost:8080", "public base URL for share links")
	flag.StringVar(&options.Config, "config", "config.json", "path to config file")
	flag.StringVar(&options.Config, "c", "config.json", "path to config file (shorthand)")
}

// Parse parses the command-line flags and environment variables to set
// configuration values. It returns a pointer to the Options struct containing
// the parsed configuration values.
func Parse() *Options {
	flag.Parse()

	// Override flags with environment variables if set
	if configPath := os.Getenv("CONFIG"); configPath != "" {
		options.Config = configPath
	}

	if options.Config != "" {
		if _, err := os.Stat(options.Config); err == nil {
			data, err := os.ReadFile(options.Config)
			if err != nil {
				log.Fatalf("error while reading config file: %v", err)
			}
			if err := json.Unmarshal(data, options); err != nil {
				log.Fatalf("error while parsing config file: %v", err)
			}
		}
	}

	if serverAddress := os.Getenv("SERVER_ADDRESS"); serverAddress != "" {
		options.Port = serverAddress
	}
	if dsn := os.Getenv("DATABASE_DSN"); dsn != "" {
		options.DatabaseDSN = dsn
	}
	if node := os.Getenv("CORE_API_URL"); node != "" {
		options.CoreAPIURL = node
	}
	if addr := os.Getenv("CONTRACT_ADDRESS"); addr != "" {
		options.ContractAddress = addr
	}
	if name := os.Getenv("CONTRACT_NAME"); name != "" {
		options.ContractName = name
	}
	if network := os.Getenv("NETWORK"); network != "" {
		options.Network = network
	}
	if sender := os.Getenv("READ_SENDER"); sender != "" {
		options.ReadSender = sender
	}
	if secret := os.Getenv("TOKEN_SECRET"); secret != "" {
		options.TokenSecret = secret
	}
	if baseURL := os.Getenv("BASE_URL"); baseURL != "" {
		options.BaseURL = baseURL
	}

	if options.ReadSender == "" {
		options.ReadSender = options.ContractAddress
	}

	return options
}
