// Package config loads gqltable configuration with viper, from a YAML, JSON or
// TOML file plus GQLTABLE_* environment variables, and supports hot reloading.
//
// Sections:
//   - server: listen address, timeouts, metrics endpoint
//   - logger: level, format, output
//   - table: page size, debounce window, timezone, default sort
//   - snapshot: driver (memory, redis, badger) and its settings
//   - data.search: default engine, index prefix, Elasticsearch, OpenSearch, Meilisearch
//
// Example YAML:
//
//	app_name: gqltable
//	server:
//	  host: 0.0.0.0
//	  port: 8080
//	table:
//	  page_size: 20
//	  debounce: 1s
//	  timezone: Asia/Shanghai
//	  default_sort: createdAt DESC
//	snapshot:
//	  driver: redis
//	  redis:
//	    addr: 127.0.0.1:6379
//	data:
//	  search:
//	    default_engine: opensearch
//	    opensearch:
//	      addresses: ["https://localhost:9200"]
//
// Load and watch:
//
//	cfg, err := config.LoadConfig("./config.yaml")
//	config.Watch(func(c *config.Config) { ... })
package config
