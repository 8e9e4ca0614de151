package guard

import (
	_ "embed"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed routes.yaml
var defaultRoutes []byte

// Class is the access class of a path.
type Class int

const (
	Public Class = iota
	UserOnly
	AuthOnly
)

func (c Class) String() string {
	switch c {
	case UserOnly:
		return "user-only"
	case AuthOnly:
		return "auth-only"
	}
	return "public"
}

// Routes lists path patterns per class.
type Routes struct {
	Public      []string `yaml:"public"`
	UserOnly    []string `yaml:"user_only"`
	AuthOnly    []string `yaml:"auth_only"`
	VerifyEmail []string `yaml:"verify_email"`
}

// LoadRoutes reads the route table from path, or the built-in table when
// path is empty.
func LoadRoutes(path string) (Routes, error) {
	data := defaultRoutes
	if path != "" {
		var err error
		data, err = os.ReadFile(path)
		if err != nil {
			return Routes{}, fmt.Errorf("read routes: %w", err)
		}
	}
	return ParseRoutes(data)
}

func ParseRoutes(data []byte) (Routes, error) {
	var rt Routes
	if err := yaml.Unmarshal(data, &rt); err != nil {
		return Routes{}, fmt.Errorf("parse routes: %w", err)
	}
	for _, list := range [][]string{rt.Public, rt.UserOnly, rt.AuthOnly, rt.VerifyEmail} {
		for _, p := range list {
			if !strings.HasPrefix(p, "/") {
				return Routes{}, fmt.Errorf("route pattern %q must start with /", p)
			}
		}
	}
	return rt, nil
}

// Match reports whether path matches pattern.
func Match(pattern, path string) bool {
	if prefix, ok := strings.CutSuffix(pattern, "*"); ok {
		return strings.HasPrefix(path, prefix)
	}
	return pattern == path
}

func matchAny(patterns []string, path string) bool {
	for _, p := range patterns {
		if Match(p, path) {
			return true
		}
	}
	return false
}

func normalize(path string) string {
	if path == "" {
		return "/"
	}
	if len(path) > 1 {
		path = strings.TrimRight(path, "/")
		if path == "" {
			return "/"
		}
	}
	return path
}

// Classify returns the class of path.
func (rt Routes) Classify(path string) Class {
	path = normalize(path)
	switch {
	case matchAny(rt.UserOnly, path):
		return UserOnly
	case matchAny(rt.AuthOnly, path):
		return AuthOnly
	}
	return Public
}

// IsVerifyEmail reports whether path is an email verification page.
func (rt Routes) IsVerifyEmail(path string) bool {
	return matchAny(rt.VerifyEmail, normalize(path))
}
