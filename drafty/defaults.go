package drafty

// Process-wide defaults shared by the config loader, the CLI and the server.
const (
	DefaultAppName       = "drafty-mcp"
	DefaultServerName    = "drafty"
	DefaultServerVersion = "1.0.0"

	DefaultBaseURL   = "https://www.drafty.com"
	DefaultUserAgent = DefaultAppName + "/" + DefaultServerVersion

	// APIKeyEnv is the only credential the process needs.
	APIKeyEnv = "DRAFTY_API_KEY"
	// APIKeyHeader carries the credential on every outbound request.
	APIKeyHeader = "X-Drafty-API-Key"

	DefaultConfigPath = "/etc/" + DefaultAppName
)
