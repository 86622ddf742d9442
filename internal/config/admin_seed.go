package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// AdminSeed is one administrator account the bootstrap ensures exists.
// Any role in the source is ignored; seeded accounts are always admins.
type AdminSeed struct {
	Name     string `koanf:"name"`
	Email    string `koanf:"email"`
	Password string `koanf:"password"`
}

type adminSeedFile struct {
	Admins []AdminSeed `koanf:"admins"`
}

// LoadAdminSeeds reads the admin list from a YAML file of the form
//
//	admins:
//	  - name: admin
//	    email: ops@example.com
//	    password: change-me
//
// An empty path yields no seeds.
func LoadAdminSeeds(path string) ([]AdminSeed, error) {
	if strings.TrimSpace(path) == "" {
		return nil, nil
	}

	k := koanf.New(".")
	if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
		return nil, fmt.Errorf("load admin seed file: %w", err)
	}

	var parsed adminSeedFile
	if err := k.Unmarshal("", &parsed); err != nil {
		return nil, fmt.Errorf("unmarshal admin seed file: %w", err)
	}

	seeds := make([]AdminSeed, 0, len(parsed.Admins))
	for _, s := range parsed.Admins {
		s.Email = strings.TrimSpace(s.Email)
		if s.Email == "" {
			return nil, fmt.Errorf("admin seed file %s: entry without email", path)
		}
		seeds = append(seeds, s)
	}
	return seeds, nil
}

func adminFromEnv() (AdminSeed, bool) {
	email := strings.TrimSpace(os.Getenv("ADMIN_EMAIL"))
	if email == "" {
		return AdminSeed{}, false
	}
	return AdminSeed{
		Name:     getEnv("ADMIN_NAME", "admin"),
		Email:    email,
		Password: os.Getenv("ADMIN_PASSWORD"),
	}, true
}
