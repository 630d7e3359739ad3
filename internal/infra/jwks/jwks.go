// Package jwks fetches and caches the public signing keys Supabase Auth
// publishes for asymmetric access tokens.
package jwks

import (
	"context"
	"crypto"
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rsa"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"math/big"
	"net/http"
	"strings"
	"sync"
	"time"
)

const (
	cacheTTL = time.Hour
	// minRefresh bounds refetches triggered by unknown key ids.
	minRefresh = time.Minute
)

var ErrUnknownKey = errors.New("jwks: unknown key id")

type keySet struct {
	Keys []jwk `json:"keys"`
}

type jwk struct {
	Kid string `json:"kid"`
	Kty string `json:"kty"`
	Alg string `json:"alg"`
	Use string `json:"use"`
	N   string `json:"n"`
	E   string `json:"e"`
	Crv string `json:"crv"`
	X   string `json:"x"`
	Y   string `json:"y"`
}

// Cache serves keys from a JWKS endpoint, typically
// <SUPABASE_URL>/auth/v1/.well-known/jwks.json.
type Cache struct {
	url        string
	httpClient *http.Client
	now        func() time.Time

	mu      sync.RWMutex
	keys    map[string]crypto.PublicKey
	fetched time.Time
}

func New(url string) *Cache {
	return &Cache{
		url:        url,
		httpClient: &http.Client{Timeout: 10 * time.Second},
		now:        time.Now,
		keys:       make(map[string]crypto.PublicKey),
	}
}

// Key returns the key for kid, refreshing the set when it is stale or the kid
// is unknown.
func (c *Cache) Key(ctx context.Context, kid string) (crypto.PublicKey, error) {
	c.mu.RLock()
	key, ok := c.keys[kid]
	fetched := c.fetched
	c.mu.RUnlock()
	age := c.now().Sub(fetched)
	if ok && age < cacheTTL {
		return key, nil
	}
	if !ok && !fetched.IsZero() && age < minRefresh {
		return nil, ErrUnknownKey
	}

	if err := c.refresh(ctx); err != nil {
		if ok {
			// stale key outlives a failed refresh
			return key, nil
		}
		return nil, err
	}

	c.mu.RLock()
	defer c.mu.RUnlock()
	if key, ok := c.keys[kid]; ok {
		return key, nil
	}
	return nil, ErrUnknownKey
}

func (c *Cache) refresh(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
	if err != nil {
		return err
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("jwks: fetch: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("jwks: fetch: status %d", resp.StatusCode)
	}
	var set keySet
	if err := json.NewDecoder(resp.Body).Decode(&set); err != nil {
		return fmt.Errorf("jwks: decode: %w", err)
	}

	keys := make(map[string]crypto.PublicKey, len(set.Keys))
	for _, k := range set.Keys {
		if k.Use != "" && k.Use != "sig" {
			continue
		}
		pub, err := parseKey(k)
		if err != nil {
			continue
		}
		keys[k.Kid] = pub
	}
	if len(keys) == 0 {
		return errors.New("jwks: no usable keys")
	}

	c.mu.Lock()
	c.keys = keys
	c.fetched = c.now()
	c.mu.Unlock()
	return nil
}

func parseKey(k jwk) (crypto.PublicKey, error) {
	switch strings.ToUpper(k.Kty) {
	case "RSA":
		return rsaKey(k)
	case "EC":
		return ecKey(k)
	}
	return nil, fmt.Errorf("unsupported key type %q", k.Kty)
}

func rsaKey(k jwk) (*rsa.PublicKey, error) {
	n, err := base64.RawURLEncoding.DecodeString(k.N)
	if err != nil {
		return nil, err
	}
	eBytes, err := base64.RawURLEncoding.DecodeString(k.E)
	if err != nil {
		return nil, err
	}
	e := 0
	for _, b := range eBytes {
		e = e<<8 + int(b)
	}
	if e == 0 {
		return nil, errors.New("invalid exponent")
	}
	return &rsa.PublicKey{N: new(big.Int).SetBytes(n), E: e}, nil
}

func ecKey(k jwk) (*ecdsa.PublicKey, error) {
	if k.Crv != "P-256" {
		return nil, fmt.Errorf("unsupported curve %q", k.Crv)
	}
	x, err := base64.RawURLEncoding.DecodeString(k.X)
	if err != nil {
		return nil, err
	}
	y, err := base64.RawURLEncoding.DecodeString(k.Y)
	if err != nil {
		return nil, err
	}
	pub := &ecdsa.PublicKey{Curve: elliptic.P256(), X: new(big.Int).SetBytes(x), Y: new(big.Int).SetBytes(y)}
	if !pub.Curve.IsOnCurve(pub.X, pub.Y) {
		return nil, errors.New("point not on curve")
	}
	return pub, nil
}
