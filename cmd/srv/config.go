package main

import (
	"os"

	"github.com/BurntSushi/toml"
	"github.com/questparty/backend/config"
)

// loadConfig reads the TOML configuration file, then lets the environment
// override the secrets so they never need to live on disk.
func (s *srv) loadConfig(configPath string) {
	configs := config.Configs{}
	if _, err := toml.DecodeFile(configPath, &configs); err != nil {
		panic(err)
	}

	overrideFromEnv(&configs.Database.User, "DATABASE_USER")
	overrideFromEnv(&configs.Database.Password, "DATABASE_PASSWORD")
	overrideFromEnv(&configs.Redis.Addr, "REDIS_ADDR")
	overrideFromEnv(&configs.Auth.AccessToken.Secret, "ACCESS_TOKEN_SECRET")
	overrideFromEnv(&configs.Auth.RefreshToken.Secret, "REFRESH_TOKEN_SECRET")

	s.configs = &configs
}

func overrideFromEnv(target *string, name string) {
	if value, ok := os.LookupEnv(name); ok {
		*target = value
	}
}
