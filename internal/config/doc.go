// Package config loads shaker's TOML configuration.
//
// Load reads ~/.config/shaker/config.toml unless a path is given. A missing
// file is not an error: Default values are used so shaker runs without any
// setup. Fields left empty in the file also keep their defaults. Paths
// starting with ~ are expanded.
//
// Example config.toml:
//
//	api_base_url = "https://www.thecocktaildb.com/api/json/v1/1"
//	request_timeout = "10s"
//	data_dir = "~/.local/share/shaker"
//	history_limit = 10
//	log_level = "info"
//
//	[storage]
//	backend = "file"          # file, redis or memory
//	redis_addr = "127.0.0.1:6379"
//	redis_db = 0
//	redis_prefix = "shaker"
//
//	[pricing]
//	default_price = 10.0
//
//	[pricing.overrides]
//	"11007" = 12.5
//
// Load returns an error for unreadable or malformed files and for values
// that cannot be used, such as an unknown storage backend or a negative
// price.
package config
