package internal_test

import (
	"time"

	"github.com/frahmantamala/pos-backoffice/internal"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func validConfig() *internal.Config {
	cfg := &internal.Config{
		Environment: "development",
		Server: internal.ServerConfig{
			Port:              8080,
			AllowedOrigins:    "http://localhost:3000, *",
			ReadHeaderTimeout: 5 * time.Second,
			ReadTimeout:       15 * time.Second,
		},
		Database: internal.DatabaseConfig{
			Driver:       "sqlite",
			Source:       "file::memory:",
			MaxOpenConns: 5,
			MaxIdleConns: 2,
		},
		Security: internal.SecurityConfig{
			JWTSecret: internal.DefaultJWTSecret,
		},
	}
	cfg.ApplyDefaults()
	return cfg
}

var _ = Describe("Config", func() {
	Describe("ApplyDefaults", func() {
		It("fills every zero value", func() {
			cfg := &internal.Config{}
			cfg.ApplyDefaults()

			Expect(cfg.Environment).To(Equal("development"))
			Expect(cfg.Server.Port).To(Equal(8080))
			Expect(cfg.Database.Driver).To(Equal("postgres"))
			Expect(cfg.Security.AccessTokenDuration).To(Equal("24h"))
			Expect(cfg.Security.RefreshTokenDuration).To(Equal(7 * 24 * time.Hour))
			Expect(cfg.Security.BCryptCost).To(Equal(10))
			Expect(cfg.RateLimit.Login).To(Equal("20-M"))
			Expect(cfg.Observability.Metrics.Path).To(Equal("/metrics"))
		})

		It("keeps explicit values", func() {
			cfg := &internal.Config{Server: internal.ServerConfig{Port: 9000}, Security: internal.SecurityConfig{AccessTokenDuration: "7d"}}
			cfg.ApplyDefaults()

			Expect(cfg.Server.Port).To(Equal(9000))
			Expect(cfg.Security.AccessTokenDuration).To(Equal("7d"))
		})
	})

	Describe("UsesDefaultJWTSecret", func() {
		It("flags the built-in development secret", func() {
			Expect(validConfig().UsesDefaultJWTSecret()).To(BeTrue())
		})

		It("is false for a configured secret", func() {
			cfg := validConfig()
			cfg.Security.JWTSecret = "a-deployment-secret-of-at-least-32-chars"
			Expect(cfg.UsesDefaultJWTSecret()).To(BeFalse())
		})
	})

	Describe("Validate", func() {
		It("accepts a complete development config", func() {
			Expect(validConfig().Validate()).To(Succeed())
		})

		It("refuses the development secret in production", func() {
			cfg := validConfig()
			cfg.Environment = internal.EnvProduction

			err := cfg.Validate()
			Expect(err).To(HaveOccurred())
			Expect(err.Error()).To(ContainSubstring("jwt_secret"))
		})

		It("requires a long secret in production", func() {
			cfg := validConfig()
			cfg.Environment = internal.EnvProduction
			cfg.Security.JWTSecret = "short"

			Expect(cfg.Validate()).To(MatchError(ContainSubstring("at least 32 characters")))
		})

		It("rejects an unknown database driver", func() {
			cfg := validConfig()
			cfg.Database.Driver = "mysql"

			Expect(cfg.Validate()).To(MatchError(ContainSubstring("Driver")))
		})

		It("rejects more idle than open connections", func() {
			cfg := validConfig()
			cfg.Database.MaxIdleConns = 10

			Expect(cfg.Validate()).To(MatchError(ContainSubstring("max_idle_conns")))
		})

		It("rejects an unparsable access token lifetime", func() {
			cfg := validConfig()
			cfg.Security.AccessTokenDuration = "soon"

			Expect(cfg.Validate()).To(MatchError(ContainSubstring("access_token_duration")))
		})

		It("requires a redis address when redis is enabled", func() {
			cfg := validConfig()
			cfg.Redis.Enabled = true

			Expect(cfg.Validate()).To(MatchError(ContainSubstring("Addr")))
		})
	})

	DescribeTable("ParseTokenLifetime",
		func(literal string, want time.Duration, ok bool) {
			got, err := internal.ParseTokenLifetime(literal)
			if !ok {
				Expect(err).To(HaveOccurred())
				return
			}
			Expect(err).NotTo(HaveOccurred())
			Expect(got).To(Equal(want))
		},
		Entry("hours", "24h", 24*time.Hour, true),
		Entry("minutes", "15m", 15*time.Minute, true),
		Entry("days", "7d", 7*24*time.Hour, true),
		Entry("padded", " 1h ", time.Hour, true),
		Entry("empty", "", time.Duration(0), false),
		Entry("zero days", "0d", time.Duration(0), false),
		Entry("negative", "-1h", time.Duration(0), false),
		Entry("garbage", "forever", time.Duration(0), false),
	)
})
