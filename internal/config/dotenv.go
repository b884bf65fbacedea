package config

import "github.com/joho/godotenv"

// LoadDotEnv loads variables from the given .env files without overriding
// values already present in the environment. Missing files are reported to
// the caller, which usually ignores the error outside local development.
func LoadDotEnv(paths ...string) error {
	return godotenv.Load(paths...)
}
