package cache

import (
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

type CachedRate struct {
	Rate      float64
	Timestamp time.Time
	TTL       time.Duration
}

var (
	cachedRates     = make(map[string]CachedRate)
	defaultDuration = 10 * time.Minute
	mu              sync.Mutex
)

// GetCachedRate возвращает курс из кэша или false, если его нет или он устарел
func GetCachedRate(key string) (float64, bool) {
	mu.Lock()
	defer mu.Unlock()

	rateData, ok := cachedRates[key]
	if !ok {
		return 0, false
	}

	if time.Since(rateData.Timestamp) > rateData.TTL {
		return 0, false
	}

	logrus.Infof("Курс взят из кэша: %s", key)
	return rateData.Rate, true
}

// SetCachedRate сохраняет курс в кэш со стандартным TTL (10 минут)
func SetCachedRate(key string, rate float64) {
	SetCachedRateTTL(key, rate, defaultDuration)
}

// SetCachedRateTTL сохраняет курс с явным TTL. Исторические цены не меняются,
// поэтому их кладём на сутки.
func SetCachedRateTTL(key string, rate float64, ttl time.Duration) {
	mu.Lock()
	defer mu.Unlock()

	cachedRates[key] = CachedRate{
		Rate:      rate,
		Timestamp: time.Now(),
		TTL:       ttl,
	}

	logrus.Infof("Курс сохранён в кэш: %s", key)
}
