// Copyright 2021-2022
// SPDX-License-Identifier: Apache-2.0
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package session

import (
	"context"
	"time"

	"github.com/google/uuid"
	lru "github.com/hashicorp/golang-lru"
	"github.com/penny-vault/pv-statements/data"
	"github.com/rs/zerolog/log"
)

const DefaultMaxSessions = 1024

// Store holds the live dashboards. When full, the least recently used
// dashboard is evicted.
type Store struct {
	cache    *lru.Cache
	provider data.Provider
	now      func() time.Time
}

type Option func(*Store)

// WithClock replaces the clock used for access times
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		s.now = now
	}
}

// NewStore creates a store holding at most size dashboards backed by provider
func NewStore(size int, provider data.Provider, opts ...Option) (*Store, error) {
	if size <= 0 {
		return nil, ErrNoSessions
	}

	cache, err := lru.NewWithEvict(size, func(key, _ interface{}) {
		log.Debug().Interface("SessionID", key).Msg("dashboard session evicted")
	})
	if err != nil {
		log.Error().Err(err).Int("Size", size).Msg("could not create LRU cache")
		return nil, err
	}

	s := &Store{
		cache:    cache,
		provider: provider,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Create starts a dashboard for ticker and loads its statements
func (s *Store) Create(ctx context.Context, ticker string) (*Dashboard, error) {
	if _, err := data.NormalizeTicker(ticker); err != nil {
		return nil, err
	}

	d := newDashboard(uuid.New().String(), s.provider, s.now)
	if _, err := d.Load(ctx, ticker); err != nil {
		return nil, err
	}

	s.cache.Add(d.ID(), d)
	log.Info().Str("SessionID", d.ID()).Str("Ticker", d.Ticker()).Msg("created dashboard session")
	return d, nil
}

// Get returns the dashboard stored under id and marks it as used
func (s *Store) Get(id string) (*Dashboard, error) {
	v, ok := s.cache.Get(id)
	if !ok {
		return nil, ErrSessionNotFound
	}
	d := v.(*Dashboard)
	d.Touch()
	return d, nil
}

// Delete discards a dashboard; it reports whether one was stored under id
func (s *Store) Delete(id string) bool {
	if !s.cache.Contains(id) {
		return false
	}
	s.cache.Remove(id)
	return true
}

// Len returns the number of live dashboards
func (s *Store) Len() int {
	return s.cache.Len()
}

// Sweep discards dashboards that have not been used for longer than maxIdle
// and returns how many were removed
func (s *Store) Sweep(maxIdle time.Duration) int {
	now := s.now()
	removed := 0
	for _, key := range s.cache.Keys() {
		v, ok := s.cache.Peek(key)
		if !ok {
			continue
		}
		d := v.(*Dashboard)
		if now.Sub(d.LastAccess()) > maxIdle {
			s.cache.Remove(key)
			removed++
		}
	}
	if removed > 0 {
		log.Info().Int("Removed", removed).Int("Remaining", s.cache.Len()).Msg("swept idle dashboard sessions")
	}
	return removed
}
