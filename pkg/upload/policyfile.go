package upload

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// ErrInvalidPolicyFile indicates a policy document that could not be
// parsed or failed validation.
var ErrInvalidPolicyFile = errors.New("upload: invalid policy file")

// DefaultPolicyName is the fallback entry PolicySet.Get resolves when
// the requested name is not registered.
const DefaultPolicyName = "default"

// PolicySet maps upload type names to their acceptance policies.
type PolicySet map[string]Policy

// Get returns the policy registered under name. Unknown names fall back
// to the "default" entry when one exists.
func (s PolicySet) Get(name string) (Policy, bool) {
	if p, ok := s[name]; ok {
		return p, true
	}
	p, ok := s[DefaultPolicyName]
	return p, ok
}

// policyFile mirrors the YAML document shape:
//
//	policies:
//	  avatar:
//	    max_file_size: 10485760
//	    allowed_extensions: [jpg, jpeg, png]
//	    allowed_mime_types: ["image/*"]
type policyFile struct {
	Policies map[string]policyEntry `yaml:"policies"`
}

type policyEntry struct {
	MaxFileSize       int64    `yaml:"max_file_size"`
	AllowedExtensions []string `yaml:"allowed_extensions"`
	AllowedMIMETypes  []string `yaml:"allowed_mime_types"`
}

// LoadPolicies parses a YAML policy document into a PolicySet.
// Extensions are lower-cased with leading dots stripped and MIME
// patterns are lower-cased, so the document may use any casing.
func LoadPolicies(data []byte) (PolicySet, error) {
	var file policyFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrInvalidPolicyFile, err)
	}

	if len(file.Policies) == 0 {
		return nil, fmt.Errorf("%w: no policies defined", ErrInvalidPolicyFile)
	}

	set := make(PolicySet, len(file.Policies))
	for name, entry := range file.Policies {
		name = strings.TrimSpace(name)
		if name == "" {
			return nil, fmt.Errorf("%w: policy with empty name", ErrInvalidPolicyFile)
		}
		if entry.MaxFileSize < 0 {
			return nil, fmt.Errorf("%w: policy %q has negative max_file_size", ErrInvalidPolicyFile, name)
		}

		set[name] = Policy{
			MaxFileSize:       entry.MaxFileSize,
			AllowedExtensions: normalizeExtensions(entry.AllowedExtensions),
			AllowedMIMETypes:  normalizeMIMEList(entry.AllowedMIMETypes),
		}
	}

	return set, nil
}

// LoadPoliciesFile reads and parses a YAML policy file from disk.
func LoadPoliciesFile(path string) (PolicySet, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: reading %q: %s", ErrInvalidPolicyFile, path, err)
	}
	return LoadPolicies(data)
}
