package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
)

// LayoutKeyOpts identifies everything besides the graph that influences a
// layout result.
type LayoutKeyOpts struct {
	Algorithm string `json:"algorithm"`
	Params    any    `json:"params"`
}

// ArtifactKeyOpts identifies a rendered artifact of a layout.
type ArtifactKeyOpts struct {
	Format string `json:"format"`
	Params any    `json:"params,omitempty"`
}

// Keyer maps content hashes to cache keys. Layout keys derive from the graph
// hash; artifact keys derive from the hash of the serialized layout, so a
// layout uploaded through the API and one computed locally share artifacts.
type Keyer interface {
	LayoutKey(graphHash string, opts LayoutKeyOpts) string
	ArtifactKey(layoutHash string, opts ArtifactKeyOpts) string
}

// DefaultKeyer produces "layout:<sha256>" and "artifact:<sha256>" keys.
type DefaultKeyer struct{}

// NewDefaultKeyer returns the standard keyer.
func NewDefaultKeyer() Keyer {
	return DefaultKeyer{}
}

func (DefaultKeyer) LayoutKey(graphHash string, opts LayoutKeyOpts) string {
	return "layout:" + digest(graphHash, opts)
}

func (DefaultKeyer) ArtifactKey(layoutHash string, opts ArtifactKeyOpts) string {
	return "artifact:" + digest(layoutHash, opts)
}

// ScopedKeyer prefixes every key of an inner Keyer. Deployments sharing one
// Redis instance use distinct scopes, e.g. "staging:".
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer wraps inner, or the default keyer when inner is nil.
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{inner: inner, prefix: prefix}
}

func (k *ScopedKeyer) LayoutKey(graphHash string, opts LayoutKeyOpts) string {
	return k.prefix + k.inner.LayoutKey(graphHash, opts)
}

func (k *ScopedKeyer) ArtifactKey(layoutHash string, opts ArtifactKeyOpts) string {
	return k.prefix + k.inner.ArtifactKey(layoutHash, opts)
}

// Hash returns the hex SHA-256 of data. The pipeline hashes serialized graphs
// and layouts with it.
func Hash(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// digest hashes a content hash together with its JSON-encoded options.
// encoding/json sorts map keys, so equal option maps give equal digests.
// Options JSON cannot represent (NaN, channels) are hashed through their Go
// syntax instead so that they never collide with the empty encoding.
func digest(contentHash string, opts any) string {
	data, err := json.Marshal(opts)
	if err != nil {
		data = fmt.Appendf(nil, "!%#v", opts)
	}
	h := sha256.New()
	h.Write([]byte(contentHash))
	h.Write([]byte{0})
	h.Write(data)
	return hex.EncodeToString(h.Sum(nil))
}
