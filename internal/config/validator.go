package config

import (
	"fmt"
	"os"
	"strings"
)

// ExpectedEnvSchemaVersion is the schema version that the application expects
const ExpectedEnvSchemaVersion = "1.0"

// RequiredEnvVars lists the environment variables every binary needs
var RequiredEnvVars = []string{
	EnvSchemaVersion,
	EnvDBUser,
	EnvDBPassword,
	EnvDBHost,
	EnvDBPort,
	EnvDBName,
}

// binaryEnvVars lists the extra variables needed per binary
var binaryEnvVars = map[Binary][]string{
	BinaryApp:     {EnvAPIKey},
	BinaryDiscord: {EnvDiscordToken, EnvDiscordAppID},
}

// RequiredEnvVarsFor returns every variable the binary needs, shared ones first
func RequiredEnvVarsFor(binary Binary) []string {
	vars := make([]string, 0, len(RequiredEnvVars)+len(binaryEnvVars[binary]))
	vars = append(vars, RequiredEnvVars...)
	return append(vars, binaryEnvVars[binary]...)
}

// ValidateEnv checks that all required environment variables are set
// and that the schema version matches expectations
func ValidateEnv(binary Binary) error {
	schemaVersion := os.Getenv(EnvSchemaVersion)
	if schemaVersion == "" {
		return fmt.Errorf("ENV_SCHEMA_VERSION is not set - please update your .env file to include this field (expected: %s)", ExpectedEnvSchemaVersion)
	}

	if schemaVersion != ExpectedEnvSchemaVersion {
		return fmt.Errorf("ENV_SCHEMA_VERSION mismatch: expected %s, got %s - your .env file may be outdated", ExpectedEnvSchemaVersion, schemaVersion)
	}

	var missing []string
	for _, envVar := range RequiredEnvVarsFor(binary) {
		if os.Getenv(envVar) == "" {
			missing = append(missing, envVar)
		}
	}

	if len(missing) > 0 {
		return fmt.Errorf("missing required environment variables for %s: %s", binary, strings.Join(missing, ", "))
	}

	return nil
}

// ValidateEnvWithWarnings checks environment variables and returns warnings
// for non-critical issues (like using example values)
func ValidateEnvWithWarnings(binary Binary) ([]string, error) {
	if err := ValidateEnv(binary); err != nil {
		return nil, err
	}

	var warnings []string

	if os.Getenv(EnvDBPassword) == exampleDBPassword {
		warnings = append(warnings, "DB_PASSWORD appears to be using the example value - please use a secure password")
	}

	if binary == BinaryApp && os.Getenv(EnvAPIKey) == exampleAPIKey {
		warnings = append(warnings, "API_KEY appears to be using the example value - generate a secure key with: openssl rand -hex 32")
	}

	if binary == BinaryDiscord && os.Getenv(EnvDiscordToken) == exampleDiscordToken {
		warnings = append(warnings, "DISCORD_TOKEN appears to be using the example value - copy the bot token from the developer portal")
	}

	return warnings, nil
}
