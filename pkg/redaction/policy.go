package redaction

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sync"
)

// policyNamePattern enforces the sanitization rule for policy names loaded
// from disk, so a name can't escape the policies directory.
var policyNamePattern = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)

// policyFile is the on-disk JSON shape of a policy:
// {"identifiers": {"<TYPE>": <config|null>, ...}}. Unknown TYPE keys are
// ignored rather than rejected.
type policyFile struct {
	Identifiers map[string]*policyFileEntry `json:"identifiers"`
}

type policyFileEntry struct {
	Enabled  *bool  `json:"enabled,omitempty"`
	Strategy string `json:"strategy,omitempty"`
}

// PolicyProvider loads and caches Policy objects from
// redaction/policies/<name>.json: a process-wide map, single-flight load
// per key, invalidate-on-demand.
type PolicyProvider struct {
	dir string

	mu       sync.Mutex
	cache    map[string]*Policy
	inflight map[string]*sync.WaitGroup
}

// NewPolicyProvider returns a provider rooted at dir (typically
// "redaction/policies").
func NewPolicyProvider(dir string) *PolicyProvider {
	return &PolicyProvider{
		dir:      dir,
		cache:    make(map[string]*Policy),
		inflight: make(map[string]*sync.WaitGroup),
	}
}

// Load returns the named policy, loading and caching it on first use. A
// second caller for the same name while a load is in flight waits for that
// load rather than reading the file twice (single-flight).
func (p *PolicyProvider) Load(name string) (*Policy, error) {
	if !policyNamePattern.MatchString(name) {
		return nil, newError(CodePolicyValidation, fmt.Sprintf("invalid policy name %q", name))
	}

	p.mu.Lock()
	if cached, ok := p.cache[name]; ok {
		p.mu.Unlock()
		return cached, nil
	}
	if wg, ok := p.inflight[name]; ok {
		p.mu.Unlock()
		wg.Wait()
		p.mu.Lock()
		cached := p.cache[name]
		p.mu.Unlock()
		return cached, nil
	}
	wg := &sync.WaitGroup{}
	wg.Add(1)
	p.inflight[name] = wg
	p.mu.Unlock()

	policy, err := p.loadFromDisk(name)

	p.mu.Lock()
	if err == nil {
		p.cache[name] = policy
	}
	delete(p.inflight, name)
	p.mu.Unlock()
	wg.Done()

	return policy, err
}

// Invalidate drops name from the cache so the next Load re-reads the file.
func (p *PolicyProvider) Invalidate(name string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	delete(p.cache, name)
}

func (p *PolicyProvider) loadFromDisk(name string) (*Policy, error) {
	path := filepath.Join(p.dir, name+".json")
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, wrapError(CodePolicyLoad, "reading policy file "+path, err)
	}
	return ParsePolicy(name, data)
}

// ParsePolicy parses raw JSON into a Policy, enforcing the schema rules:
// invalid JSON -> POLICY_LOAD_ERROR; missing "identifiers" ->
// POLICY_VALIDATION_ERROR; unknown TYPE keys are ignored.
func ParsePolicy(name string, data []byte) (*Policy, error) {
	var raw policyFile
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, wrapError(CodePolicyLoad, "invalid policy JSON", err)
	}
	if raw.Identifiers == nil {
		return nil, newError(CodePolicyValidation, "policy missing required \"identifiers\" key")
	}

	policy := &Policy{Name: name, Identifiers: make(map[FilterType]*IdentifierConfig)}
	for key, entry := range raw.Identifiers {
		t := FilterType(key)
		if !IsValidFilterType(t) {
			continue // unknown TYPE keys are ignored, not rejected
		}
		if entry == nil {
			policy.Identifiers[t] = nil
			continue
		}
		cfg := &IdentifierConfig{Strategy: StrategyRedact}
		if entry.Enabled != nil {
			cfg.Enabled = *entry.Enabled
		} else {
			cfg.Enabled = true
		}
		if entry.Strategy != "" {
			cfg.Strategy = Strategy(entry.Strategy)
		}
		policy.Identifiers[t] = cfg
	}
	return policy, nil
}
