// internal/config/config.go
package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	Environment string
	Server      ServerConfig
	Database    DatabaseConfig
	JWT         JWTConfig
	Blockchain  BlockchainConfig
}

type ServerConfig struct {
	Port         string
	Host         string
	ReadTimeout  int
	WriteTimeout int
	IdleTimeout  int
}

type DatabaseConfig struct {
	Host         string
	Port         string
	User         string
	Password     string
	Database     string
	SSLMode      string
	MaxOpenConns int
	MaxIdleConns int
	MaxLifetime  int
	LogLevel     string
}

type JWTConfig struct {
	SecretKey string
}

type BlockchainConfig struct {
	Network          string
	RPCURL           string
	PrivateKey       string
	ContractAddress  string
	ChainID          int64
	GasLimitMint     uint64
	GasLimitTransfer uint64
}

func Load() (*Config, error) {
	// Load .env file if it exists
	godotenv.Load()

	config := &Config{
		Environment: getEnv("ENVIRONMENT", "development"),
		Server: ServerConfig{
			Port:        getEnv("SERVER_PORT", "8080"),
			Host:        getEnv("SERVER_HOST", "localhost"),
			ReadTimeout: getEnvAsInt("SERVER_READ_TIMEOUT", 15),
			// Chain-writing endpoints block until the transaction is mined,
			// so the write timeout has to outlast block confirmation.
			WriteTimeout: getEnvAsInt("SERVER_WRITE_TIMEOUT", 120),
			IdleTimeout:  getEnvAsInt("SERVER_IDLE_TIMEOUT", 60),
		},
		Database: DatabaseConfig{
			Host:         getEnv("DB_HOST", "localhost"),
			Port:         getEnv("DB_PORT", "5432"),
			User:         getEnv("DB_USER", "postgres"),
			Password:     getEnv("DB_PASSWORD", ""),
			Database:     getEnv("DB_NAME", "veritas"),
			SSLMode:      getEnv("DB_SSL_MODE", "disable"),
			MaxOpenConns: getEnvAsInt("DB_MAX_OPEN_CONNS", 25),
			MaxIdleConns: getEnvAsInt("DB_MAX_IDLE_CONNS", 25),
			MaxLifetime:  getEnvAsInt("DB_MAX_LIFETIME", 300),
			LogLevel:     getEnv("DB_LOG_LEVEL", "silent"),
		},
		JWT: JWTConfig{
			SecretKey: getEnv("JWT_SECRET", "your-secret-key-change-in-production"),
		},
		Blockchain: BlockchainConfig{
			Network:          getEnv("BLOCKCHAIN_NETWORK", "sepolia"),
			RPCURL:           getEnv("BLOCKCHAIN_RPC_URL", ""),
			PrivateKey:       getEnv("BLOCKCHAIN_PRIVATE_KEY", ""),
			ContractAddress:  getEnv("BLOCKCHAIN_CONTRACT_ADDRESS", ""),
			ChainID:          getEnvAsInt64("BLOCKCHAIN_CHAIN_ID", 11155111),
			GasLimitMint:     uint64(getEnvAsInt64("BLOCKCHAIN_GAS_LIMIT_MINT", 300000)),
			GasLimitTransfer: uint64(getEnvAsInt64("BLOCKCHAIN_GAS_LIMIT_TRANSFER", 200000)),
		},
	}

	return config, config.Validate()
}

func (c *Config) Validate() error {
	if c.JWT.SecretKey == "your-secret-key-change-in-production" && c.Environment == "production" {
		return fmt.Errorf("JWT secret key must be changed in production")
	}

	if c.Database.Password == "" && c.Environment == "production" {
		return fmt.Errorf("database password is required in production")
	}

	if c.Blockchain.RPCURL == "" {
		return fmt.Errorf("blockchain RPC URL is required")
	}

	if c.Blockchain.PrivateKey == "" {
		return fmt.Errorf("blockchain signing key is required")
	}

	if c.Blockchain.ContractAddress == "" {
		return fmt.Errorf("blockchain contract address is required")
	}

	return nil
}

// Helper functions
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvAsInt64(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.ParseInt(value, 10, 64); err == nil {
			return intValue
		}
	}
	return defaultValue
}
