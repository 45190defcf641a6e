// Package config provides configuration loading, merging, and validation
// facilities for the sync server and client.
//
// Configuration is assembled from multiple sources in the following priority
// order (earlier sources win for non-zero fields):
//  1. Environment variables (optionally seeded from a .env file)
//  2. Command-line flags
//  3. JSON or YAML config file
//
// The main entry points are [GetServerConfig] and [GetClientConfig], which
// return validated per-binary views of [StructuredConfig].
package config
