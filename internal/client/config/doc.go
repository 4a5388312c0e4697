// Package config loads runtime configuration for the billed client.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. BILLED_* environment variables, after loading the dotenv file given
//     with -env, or ./.env when it exists.
//  3. Optional config file selected with -c or -config; JSON, or YAML when
//     the name ends in .yaml or .yml.
//  4. Command-line flags -a, -i, -t and -d.
//
// # File schema
//
// Durations are strings like "3s" or integer nanoseconds:
//
//	{
//	  "server_endpoint_addr": "127.0.0.1:50051",
//	  "transport": "grpc",
//	  "online_check_interval": "3s",
//	  "request_timeout": "10s",
//	  "db_path": "billed.db",
//	  "log_level": "info",
//	  "log_format": "text",
//	  "s3": {"endpoint": "http://localhost:9000", "region": "us-east-1", "bucket": "receipts"}
//	}
package config
