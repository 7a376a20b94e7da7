package config // package config loads application configuration from environment variables

import (
	"log"     // log is used to report configuration errors and halt execution
	"os"      // os provides access to environment variables
	"strconv" // strconv converts strings to other types
	"strings" // strings normalizes boolean-ish values

	"github.com/acutialens/photo-marketplace/internal/storage"
)

// Config holds all runtime configuration values.  Each field corresponds to
// an environment variable.  The types reflect how the values are used in
// the application: strings for identifiers and secrets, ints for durations and costs.
// StorageBackend is resolved exactly once here; the rest of the program only
// ever sees the enum, never the raw environment.
type Config struct {
	Env            string          // application environment (e.g. "dev", "prod")
	Port           string          // HTTP port to listen on
	DBUser         string          // database username
	DBPass         string          // database password (optional)
	DBHost         string          // database host address
	DBPort         string          // database port number
	DBName         string          // database name
	JWTSecret      string          // secret used to sign JWTs
	AccessTTLMin   int             // access token time-to-live in minutes
	RefreshTTLDays int             // refresh token time-to-live in days
	BcryptCost     int             // bcrypt cost for password hashing
	StorageBackend storage.Backend // LOCAL or OBJECT_STORAGE, resolved at startup
	UploadDir      string          // root directory for the local storage strategy
	ObjectStorage  storage.ObjectConfig // credentials for the object storage strategy
}

// Load reads configuration values from environment variables and returns a
// Config.  Required variables are enforced by must() and missing values
// cause the program to exit with a fatal log message.  The storage backend
// is OBJECT_STORAGE when all four STORAGE_* credentials are present and
// LOCAL otherwise.
func Load() Config {
	cfg := Config{
		Env:            must("APP_ENV"),                   // environment (dev/test/prod)
		Port:           must("APP_PORT"),                  // port to bind the HTTP server
		DBUser:         must("DB_USER"),                   // database user
		DBPass:         os.Getenv("DB_PASS"),              // database password (empty allowed)
		DBHost:         must("DB_HOST"),                   // database host
		DBPort:         must("DB_PORT"),                   // database port
		DBName:         must("DB_NAME"),                   // database name
		JWTSecret:      must("JWT_SECRET"),                // secret used for signing JWTs
		AccessTTLMin:   mustInt("ACCESS_TOKEN_TTL_MIN"),   // TTL for access tokens in minutes
		RefreshTTLDays: mustInt("REFRESH_TOKEN_TTL_DAYS"), // TTL for refresh tokens in days
		BcryptCost:     mustInt("BCRYPT_COST"),            // bcrypt cost factor
		UploadDir:      getenvDefault("UPLOAD_DIR", "uploads"),
		ObjectStorage: storage.ObjectConfig{
			Endpoint:  os.Getenv("STORAGE_ENDPOINT"),
			Bucket:    os.Getenv("STORAGE_BUCKET"),
			AccessKey: os.Getenv("STORAGE_ACCESS_KEY"),
			SecretKey: os.Getenv("STORAGE_SECRET_KEY"),
			UseSSL:    boolEnv("STORAGE_USE_SSL"),
		},
	}
	cfg.StorageBackend = resolveStorageBackend(cfg.ObjectStorage)
	return cfg
}

// resolveStorageBackend chooses the storage strategy from the presence of
// object storage credentials.  Partial credentials are a configuration
// mistake and abort startup rather than silently falling back to disk.
func resolveStorageBackend(o storage.ObjectConfig) storage.Backend {
	set := 0
	for _, v := range []string{o.Endpoint, o.Bucket, o.AccessKey, o.SecretKey} {
		if v != "" {
			set++
		}
	}
	switch set {
	case 0:
		return storage.BackendLocal
	case 4:
		return storage.BackendObjectStorage
	default:
		log.Fatalf("partial object storage config: all of STORAGE_ENDPOINT, STORAGE_BUCKET, STORAGE_ACCESS_KEY, STORAGE_SECRET_KEY must be set together")
		return ""
	}
}

// must retrieves the value of a required environment variable.  If the
// variable is unset or empty, the application logs a fatal error and exits.
func must(key string) string {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		log.Fatalf("missing required env var: %s", key)
	}
	return v
}

// mustInt is like must() but converts the retrieved string into an integer.
// If conversion fails, the application logs a fatal error and exits.
func mustInt(key string) int {
	s := must(key)
	n, err := strconv.Atoi(s)
	if err != nil {
		log.Fatalf("invalid int for %s: %q", key, s)
	}
	return n
}

// getenvDefault returns the variable's value or def when unset.
func getenvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

// boolEnv interprets common truthy spellings of an env variable.
func boolEnv(key string) bool {
	v := strings.ToLower(os.Getenv(key))
	return v == "1" || v == "true" || v == "yes" || v == "on"
}
