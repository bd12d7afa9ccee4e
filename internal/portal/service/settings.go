package service

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/aussiebroadwan/borrowsmart/internal/portal/domain"
	"github.com/aussiebroadwan/borrowsmart/internal/portal/store"
	"github.com/hashicorp/golang-lru/v2/expirable"
)

const settingsCacheSize = 32

// SettingsService reads portal settings through a short-lived cache, since the
// maintenance flag is consulted on every request.
type SettingsService struct {
	Store store.Store
	Now   func() time.Time

	// ForceMaintenance keeps maintenance mode on regardless of the stored
	// setting.
	ForceMaintenance bool

	cache *expirable.LRU[string, string]
}

// NewSettingsService creates the service. A ttl of zero disables caching.
func NewSettingsService(st store.Store, ttl time.Duration, now func() time.Time) *SettingsService {
	s := &SettingsService{Store: st, Now: now}
	if ttl > 0 {
		s.cache = expirable.NewLRU[string, string](settingsCacheSize, nil, ttl)
	}
	return s
}

func (s *SettingsService) get(ctx context.Context, key string) (string, error) {
	if s.cache != nil {
		if v, ok := s.cache.Get(key); ok {
			return v, nil
		}
	}
	v, err := s.Store.Settings().GetSetting(ctx, key)
	if errors.Is(err, store.ErrNotFound) {
		v, err = "", nil
	}
	if err != nil {
		return "", err
	}
	if s.cache != nil {
		s.cache.Add(key, v)
	}
	return v, nil
}

func (s *SettingsService) put(ctx context.Context, key, value string) error {
	if err := s.Store.Settings().PutSetting(ctx, key, value, clockNow(s.Now)); err != nil {
		return err
	}
	if s.cache != nil {
		s.cache.Remove(key)
	}
	return nil
}

// MaintenanceMode reports whether the portal is in maintenance mode.
func (s *SettingsService) MaintenanceMode(ctx context.Context) (bool, error) {
	if s.ForceMaintenance {
		return true, nil
	}
	v, err := s.get(ctx, domain.SettingMaintenanceMode)
	if err != nil {
		return false, err
	}
	on, _ := strconv.ParseBool(v)
	return on, nil
}

// SetMaintenanceMode stores the maintenance flag.
func (s *SettingsService) SetMaintenanceMode(ctx context.Context, on bool) error {
	return s.put(ctx, domain.SettingMaintenanceMode, strconv.FormatBool(on))
}
