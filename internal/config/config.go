package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/ini.v1"
)

// ErrMissingCredentials is returned when object-store settings needed for
// sync are absent.
var ErrMissingCredentials = errors.New("missing object store configuration")

const (
	appName       = "tock"
	defaultBucket = "tock"
	defaultRegion = "us-east-1"
)

// Config is built once at process start and passed down explicitly.
type Config struct {
	DataDir  string
	DBPath   string
	LogPath  string
	LogLevel string
	Storage  Storage
}

// Storage holds the S3-compatible endpoint settings used by sync.
type Storage struct {
	Endpoint        string
	AccessKeyID     string
	SecretAccessKey string
	Region          string
	Bucket          string
	UseSSL          bool
}

// SnapshotKey is the fixed object key of the remote database snapshot.
func (c Config) SnapshotKey() string {
	return filepath.Base(c.DBPath)
}

// Validate fails when a setting required to reach the object store is
// missing. It does not contact the store.
func (s Storage) Validate() error {
	var missing []string
	if s.Endpoint == "" {
		missing = append(missing, "S3_ENDPOINT")
	}
	if s.AccessKeyID == "" {
		missing = append(missing, "S3_ACCESS_KEY")
	}
	if s.SecretAccessKey == "" {
		missing = append(missing, "S3_SECRET_KEY")
	}
	if s.Bucket == "" {
		missing = append(missing, "S3_BUCKET")
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: %s", ErrMissingCredentials, strings.Join(missing, ", "))
	}
	return nil
}

// Env abstracts the process environment so loading can be tested.
type Env interface {
	Getenv(key string) string
}

type osEnv struct{}

func (osEnv) Getenv(key string) string { return os.Getenv(key) }

// Load reads configuration from the process environment, falling back to
// the .env file in the data directory.
func Load() (Config, error) {
	home := os.Getenv("TOCK_HOME")
	if home == "" {
		userHome, err := os.UserHomeDir()
		if err != nil {
			return Config{}, fmt.Errorf("failed to resolve home directory: %w", err)
		}
		home = filepath.Join(userHome, "."+appName)
	}
	return LoadFromEnv(osEnv{}, home)
}

// LoadFromEnv builds a Config rooted at dataDir. Values from env win over
// KEY=VALUE lines in dataDir/.env.
func LoadFromEnv(env Env, dataDir string) (Config, error) {
	dotenv, err := loadDotenv(filepath.Join(dataDir, ".env"))
	if err != nil {
		return Config{}, err
	}

	lookup := func(key, fallback string) string {
		if v := strings.TrimSpace(env.Getenv(key)); v != "" {
			return v
		}
		if v := strings.TrimSpace(dotenv[key]); v != "" {
			return v
		}
		return fallback
	}

	cfg := Config{
		DataDir:  dataDir,
		DBPath:   filepath.Join(dataDir, appName+".db"),
		LogPath:  filepath.Join(dataDir, appName+".log"),
		LogLevel: strings.ToLower(lookup("TOCK_LOG_LEVEL", "info")),
		Storage: Storage{
			Endpoint:        lookup("S3_ENDPOINT", ""),
			AccessKeyID:     lookup("S3_ACCESS_KEY", ""),
			SecretAccessKey: lookup("S3_SECRET_KEY", ""),
			Region:          lookup("S3_REGION", defaultRegion),
			Bucket:          lookup("S3_BUCKET", defaultBucket),
			UseSSL:          true,
		},
	}

	if raw := lookup("S3_USE_SSL", ""); raw != "" {
		useSSL, err := strconv.ParseBool(raw)
		if err != nil {
			return Config{}, fmt.Errorf("invalid S3_USE_SSL %q", raw)
		}
		cfg.Storage.UseSSL = useSSL
	}

	return cfg, nil
}

// loadDotenv parses a .env file. A missing file yields an empty map.
func loadDotenv(path string) (map[string]string, error) {
	values := make(map[string]string)

	f, err := ini.LoadSources(ini.LoadOptions{
		Loose:                     true,
		IgnoreInlineComment:       true,
		UnescapeValueDoubleQuotes: true,
	}, path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	for _, key := range f.Section(ini.DefaultSection).Keys() {
		values[strings.TrimPrefix(key.Name(), "export ")] = key.String()
	}
	return values, nil
}
