package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func validConfig() Config {
	c := New()
	c.Postgres.User = "postgres"
	c.Postgres.Password = "postgres"
	c.Auth.JWTSecret = "0123456789abcdef0123"
	c.Momo.PartnerCode = "MOMO"
	c.Momo.AccessKey = "access"
	c.Momo.SecretKey = "secret"
	return c
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		modify  func(c *Config)
		wantErr bool
	}{
		{name: "defaults with credentials", modify: func(c *Config) {}},
		{name: "missing jwt secret", modify: func(c *Config) { c.Auth.JWTSecret = "" }, wantErr: true},
		{name: "unknown driver", modify: func(c *Config) { c.Storage.Driver = "sqlite" }, wantErr: true},
		{
			name: "mongo driver ignores postgres credentials",
			modify: func(c *Config) {
				c.Storage.Driver = DriverMongo
				c.Postgres.User = ""
				c.Postgres.Password = ""
			},
		},
		{
			name: "postgres driver ignores mongo uri",
			modify: func(c *Config) {
				c.Mongo.URI = ""
			},
		},
		{name: "zero sweeper interval", modify: func(c *Config) { c.Sweeper.Interval = 0 }, wantErr: true},
		{name: "bad momo endpoint", modify: func(c *Config) { c.Momo.Endpoint = "not a url" }, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := validConfig()
			tt.modify(&c)
			err := c.Validate()
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestNew_ReadsEnv(t *testing.T) {
	t.Setenv("SWEEPER_DEADLINE", "45m")
	t.Setenv("SWEEPER_BATCH_SIZE", "7")
	t.Setenv("KAFKA_BROKERS", "k1:9092,k2:9092")
	t.Setenv("CACHE_TTL", "not-a-duration")
	t.Setenv("POSTGRES_AUTO_MIGRATE", "false")

	c := New()
	assert.Equal(t, 45*time.Minute, c.Sweeper.Deadline)
	assert.Equal(t, 7, c.Sweeper.BatchSize)
	assert.Equal(t, []string{"k1:9092", "k2:9092"}, c.Kafka.Brokers)
	assert.Equal(t, 10*time.Minute, c.Cache.TTL)
	assert.False(t, c.Postgres.AutoMigrate)
}
