// Package pypirc resolves upload destinations the way the Python packaging
// tools do: a repository alias is looked up in the user's `.pypirc` file,
// falling back to the well-known defaults for the "pypi" and "testpypi"
// aliases, with credentials overridable from the environment.
//
// https://packaging.python.org/en/latest/specifications/pypirc/
package pypirc

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/pydist/pydist/pkg/python"
)

// Repository is a resolved upload destination: exactly one endpoint, plus
// whatever credentials were configured for it.  Authentication itself is the
// index's business; this layer only carries the values.
type Repository struct {
	Name     string // alias; "" when resolved from a bare URL
	URL      string
	Username string
	Password string
}

// The built-in aliases, present even without a .pypirc.
const (
	DefaultRepository = "pypi"

	pypiURL     = "https://upload.pypi.org/legacy/"
	testpypiURL = "https://test.pypi.org/legacy/"
)

// Credential environment overrides, honored by both Repository and
// RepositoryFromURL.
const (
	EnvUsername = "PYDIST_USERNAME"
	EnvPassword = "PYDIST_PASSWORD"
)

type Config struct {
	Repositories map[string]Repository
}

// DefaultPath returns the conventional location of the user's .pypirc.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".pypirc"), nil
}

// Load reads a .pypirc file and merges it over the built-in aliases.  A
// missing file is not an error; the built-in aliases alone are returned.
func Load(path string) (*Config, error) {
	cfg := &Config{
		Repositories: map[string]Repository{
			"pypi":     {Name: "pypi", URL: pypiURL},
			"testpypi": {Name: "testpypi", URL: testpypiURL},
		},
	}

	fp, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, err
	}
	defer func() {
		_ = fp.Close()
	}()

	ini, err := python.NewConfigParser().Parse(fp)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	for sectName, sect := range ini {
		if sectName == "distutils" {
			// [distutils] index-servers is only an enumeration; the
			// per-repository sections carry the actual settings.
			continue
		}
		repo := cfg.Repositories[sectName]
		repo.Name = sectName
		if url := sect["repository"]; url != "" {
			repo.URL = url
		}
		if username := sect["username"]; username != "" {
			repo.Username = username
		}
		if password := sect["password"]; password != "" {
			repo.Password = password
		}
		cfg.Repositories[sectName] = repo
	}

	return cfg, nil
}

// Repository resolves an alias to exactly one destination, applying the
// environment credential overrides.
func (cfg *Config) Repository(name string) (*Repository, error) {
	repo, ok := cfg.Repositories[name]
	if !ok {
		known := make([]string, 0, len(cfg.Repositories))
		for alias := range cfg.Repositories {
			known = append(known, alias)
		}
		sort.Strings(known)
		return nil, fmt.Errorf("unknown repository alias %q (known: %s)",
			name, strings.Join(known, ", "))
	}
	if repo.URL == "" {
		return nil, fmt.Errorf("repository alias %q has no repository URL configured", name)
	}
	applyEnv(&repo)
	return &repo, nil
}

// RepositoryFromURL makes a destination out of a bare URL (the
// --repository-url path); credentials can only come from the environment.
func RepositoryFromURL(url string) *Repository {
	repo := Repository{URL: url}
	applyEnv(&repo)
	return &repo
}

func applyEnv(repo *Repository) {
	if username := os.Getenv(EnvUsername); username != "" {
		repo.Username = username
	}
	if password := os.Getenv(EnvPassword); password != "" {
		repo.Password = password
	}
}
