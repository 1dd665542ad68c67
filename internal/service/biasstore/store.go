// Package biasstore holds the process-wide asset→bias mapping. State lives
// only in memory and resets to neutral on restart.
package biasstore

import (
	"fmt"
	"sync"

	"BiasDesk/internal/domain/models"
)

// Store is an RWMutex-guarded bias map. Every supported asset is present at
// all times; concurrent writers are last-write-wins.
type Store struct {
	mu sync.RWMutex
	m  map[models.AssetSymbol]models.BiasValue
}

// New creates a Store with every asset set to neutral.
func New() *Store {
	m := make(map[models.AssetSymbol]models.BiasValue, len(models.AllAssets))
	for _, a := range models.AllAssets {
		m[a] = models.BiasNeutral
	}
	return &Store{m: m}
}

// Get returns the bias for asset, neutral if unknown.
func (s *Store) Get(asset models.AssetSymbol) models.BiasValue {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if b, ok := s.m[asset]; ok {
		return b
	}
	return models.BiasNeutral
}

// Set mutates a manually-managed asset. BTC and SPX are owned by the
// periodic refresh and are rejected here.
func (s *Store) Set(asset models.AssetSymbol, bias models.BiasValue) error {
	if !models.IsManualBiasAsset(asset) {
		return fmt.Errorf("asset %s is not manually adjustable", asset)
	}
	s.mu.Lock()
	s.m[asset] = bias
	s.mu.Unlock()
	return nil
}

// ApplyRefresh stores the refreshed BTC bias and mirrors it onto SPX in the
// same critical section, so readers never observe the two diverging.
func (s *Store) ApplyRefresh(bias models.BiasValue) {
	s.mu.Lock()
	s.m[models.AssetBTC] = bias
	s.m[models.AssetSPX] = bias
	s.mu.Unlock()
}

// Snapshot returns a copy of the full mapping.
func (s *Store) Snapshot() map[models.AssetSymbol]models.BiasValue {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[models.AssetSymbol]models.BiasValue, len(s.m))
	for k, v := range s.m {
		out[k] = v
	}
	return out
}
