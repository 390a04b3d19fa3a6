package config

import (
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server      ServerConfig      `mapstructure:"server"`
	Database    DatabaseConfig    `mapstructure:"database"`
	Cache       CacheConfig       `mapstructure:"cache"`
	Security    SecurityConfig    `mapstructure:"security"`
	Progression ProgressionConfig `mapstructure:"progression"`
}

type ServerConfig struct {
	Port     int    `mapstructure:"port"`
	Debug    bool   `mapstructure:"debug"`
	AdminKey string `mapstructure:"admin_key"`
}

type DatabaseConfig struct {
	Mode         string        `mapstructure:"mode"` // sqlite | sqlite_memory | mysql
	SQLitePath   string        `mapstructure:"sqlite_path"`
	MySQLDSN     string        `mapstructure:"mysql_dsn"`
	MySQLMaxOpen int           `mapstructure:"mysql_max_open"`
	MySQLMaxIdle int           `mapstructure:"mysql_max_idle"`
	MySQLMaxLife time.Duration `mapstructure:"mysql_max_life"`
}

type CacheConfig struct {
	RedisAddr       string        `mapstructure:"redis_addr"`
	RedisPassword   string        `mapstructure:"redis_password"`
	RedisDB         int           `mapstructure:"redis_db"`
	LocalGCInterval time.Duration `mapstructure:"local_gc_interval"`
}

type SecurityConfig struct {
	JWTSecret      string        `mapstructure:"jwt_secret"`
	JWTTTLH        time.Duration `mapstructure:"jwt_ttl_h"`
	RateLimitRPS   float64       `mapstructure:"rate_limit_rps"`
	RateLimitBurst int           `mapstructure:"rate_limit_burst"`
}

// ProgressionConfig tunes the XP, leveling, quest and reward engine.
type ProgressionConfig struct {
	LevelXPBase      int    `mapstructure:"level_xp_base"`
	WeeklyTargetXP   int    `mapstructure:"weekly_target_xp"`
	MinActivityXP    int    `mapstructure:"min_activity_xp"`
	MaxActivityXP    int    `mapstructure:"max_activity_xp"`
	RecommendTopN    int    `mapstructure:"recommend_top_n"`
	DailyQuestBatch  int    `mapstructure:"daily_quest_batch"`
	WeeklyQuestBatch int    `mapstructure:"weekly_quest_batch"`
	BatchHour        int    `mapstructure:"batch_hour"` // local hour the scheduled jobs run at
	LeaderboardTopN  int    `mapstructure:"leaderboard_top_n"`
	Timezone         string `mapstructure:"timezone"`
}

// Load reads config from the given YAML file path.
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	// Defaults
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.debug", false)
	v.SetDefault("database.mode", "sqlite")
	v.SetDefault("database.sqlite_path", "./data/lifequest.db")
	v.SetDefault("database.mysql_max_open", 50)
	v.SetDefault("database.mysql_max_idle", 10)
	v.SetDefault("database.mysql_max_life", "1h")
	v.SetDefault("cache.local_gc_interval", "30s")
	v.SetDefault("security.jwt_ttl_h", "72h")
	v.SetDefault("security.rate_limit_rps", 100)
	v.SetDefault("security.rate_limit_burst", 200)
	v.SetDefault("progression.level_xp_base", 100)
	v.SetDefault("progression.weekly_target_xp", 60)
	v.SetDefault("progression.min_activity_xp", 1)
	v.SetDefault("progression.max_activity_xp", 50)
	v.SetDefault("progression.recommend_top_n", 5)
	v.SetDefault("progression.daily_quest_batch", 5)
	v.SetDefault("progression.weekly_quest_batch", 3)
	v.SetDefault("progression.batch_hour", 4)
	v.SetDefault("progression.leaderboard_top_n", 100)
	v.SetDefault("progression.timezone", "Local")

	if err := v.ReadInConfig(); err != nil {
		return nil, err
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Location resolves the configured timezone, falling back to time.Local.
func (p ProgressionConfig) Location() *time.Location {
	if p.Timezone == "" || p.Timezone == "Local" {
		return time.Local
	}
	loc, err := time.LoadLocation(p.Timezone)
	if err != nil {
		return time.Local
	}
	return loc
}
