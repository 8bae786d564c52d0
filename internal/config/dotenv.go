package config

import (
	"os"

	"github.com/joho/godotenv"
)

// dotenvFiles in override order: the local file wins over the shared one.
var dotenvFiles = []string{".env.local", ".env"}

// LoadDotEnv layers env files into the process environment before Load
// reads it. godotenv never overwrites variables that are already set, so
// the OS environment keeps the last word. Returns the files it found,
// for the startup log.
func LoadDotEnv() []string {
	var found []string
	for _, name := range dotenvFiles {
		if _, err := os.Stat(name); err == nil {
			found = append(found, name)
		}
	}
	if len(found) == 0 {
		return nil
	}
	_ = godotenv.Load(found...)
	return found
}
