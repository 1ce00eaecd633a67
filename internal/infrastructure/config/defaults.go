package config

import (
	"time"

	"github.com/spf13/viper"
)

// setDefaults registers every key. Keys without a default are registered
// empty so that STORE_* variables reach Unmarshal.
func setDefaults(v *viper.Viper) {
	for key, value := range map[string]any{
		"app.name":     "storefront",
		"app.env":      "development",
		"app.port":     "8080",
		"app.site_url": "",
		"app.currency": "GHS",

		"database.host":               "localhost",
		"database.port":               5432,
		"database.user":               "postgres",
		"database.password":           "",
		"database.dbname":             "storefront",
		"database.sslmode":            "disable",
		"database.max_open_conns":     25,
		"database.max_idle_conns":     5,
		"database.conn_max_lifetime":  time.Hour,
		"database.conn_max_idle_time": 30 * time.Minute,
		"database.connect_attempts":   5,
		"database.connect_backoff":    2 * time.Second,

		"redis.enabled":  false,
		"redis.host":     "localhost",
		"redis.port":     6379,
		"redis.password": "",
		"redis.db":       0,

		"jwt.secret":                  "",
		"jwt.access_token_expiration": 24 * time.Hour,
		"jwt.issuer":                  "storefront",

		"session.cookie_name": "sf_session",
		"session.header":      "X-Session-ID",
		"session.cart_ttl":    14 * 24 * time.Hour,
		"session.secure":      false,

		"log.level":  "info",
		"log.format": "console",
		"log.output": "stdout",

		"http.read_timeout":             15 * time.Second,
		"http.write_timeout":            45 * time.Second,
		"http.idle_timeout":             60 * time.Second,
		"http.max_header_bytes":         1 << 20,
		"http.max_body_size":            int64(2 << 20),
		"http.rate_limit_enabled":       false,
		"http.rate_limit_requests":      100,
		"http.rate_limit_window":        time.Minute,
		"http.auth_rate_limit_enabled":  false,
		"http.auth_rate_limit_requests": 5,
		"http.auth_rate_limit_window":   time.Minute,
		// no origin default: cross-origin requests stay blocked until configured
		"http.cors_allow_origins": []string{},
		"http.cors_allow_methods": []string{"GET", "POST", "PUT", "DELETE", "PATCH", "OPTIONS"},
		"http.cors_allow_headers": []string{"Content-Type", "Authorization", "X-Request-ID", "X-Session-ID"},
		"http.trusted_proxies":    []string{},

		"paystack.secret_key":   "",
		"paystack.public_key":   "",
		"paystack.base_url":     "https://api.paystack.co",
		"paystack.callback_url": "",
		"paystack.timeout":      30 * time.Second,

		"checkout.ttl":                 30 * time.Minute,
		"checkout.low_stock_threshold": 5,
		"checkout.purge_interval":      15 * time.Minute,

		"mail.enabled":    false,
		"mail.host":       "",
		"mail.port":       587,
		"mail.username":   "",
		"mail.password":   "",
		"mail.from":       "orders@mbvogue.local",
		"mail.store_name": "MB Vogue",

		"storage.enabled":         false,
		"storage.bucket":          "",
		"storage.region":          "us-east-1",
		"storage.endpoint":        "",
		"storage.access_key":      "",
		"storage.secret_key":      "",
		"storage.use_path_style":  false,
		"storage.presign_expiry":  15 * time.Minute,
		"storage.public_base_url": "",

		"telemetry.enabled":                 false,
		"telemetry.collector_endpoint":      "localhost:4317",
		"telemetry.sampling_ratio":          1.0,
		"telemetry.service_name":            "",
		"telemetry.insecure":                false,
		"telemetry.db_trace_enabled":        false,
		"telemetry.db_slow_query_threshold": 200 * time.Millisecond,
		"telemetry.metrics_enabled":         false,
	} {
		v.SetDefault(key, value)
	}
}
