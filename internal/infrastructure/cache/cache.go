package cache

import (
	"encoding/json"
	"strings"
	"sync"
	"time"
)

const cleanupInterval = 5 * time.Minute

type item struct {
	value      []byte
	expiration int64
}

// Cache caché en memoria con TTL por clave. Los valores se guardan serializados en JSON
// para que cada lectura devuelva una copia independiente.
type Cache struct {
	items map[string]item
	mu    sync.RWMutex
	ttl   time.Duration
	stop  chan struct{}
	once  sync.Once
	now   func() time.Time
}

// New crea un caché con TTL por defecto y arranca la limpieza periódica de expirados.
// Llamar Close al terminar.
func New(defaultTTL time.Duration) *Cache {
	c := &Cache{
		items: make(map[string]item),
		ttl:   defaultTTL,
		stop:  make(chan struct{}),
		now:   time.Now,
	}
	go c.cleanupExpired(cleanupInterval)
	return c
}

// Close detiene la limpieza periódica.
func (c *Cache) Close() {
	c.once.Do(func() { close(c.stop) })
}

// Marshal serializa value y lo guarda en key. ttl opcional reemplaza el TTL por defecto.
func (c *Cache) Marshal(key string, value interface{}, ttl ...time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	duration := c.ttl
	if len(ttl) > 0 && ttl[0] > 0 {
		duration = ttl[0]
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.items[key] = item{value: data, expiration: c.now().Add(duration).UnixNano()}
	return nil
}

// Unmarshal lee key en target. found es false si la clave no existe o expiró.
func (c *Cache) Unmarshal(key string, target interface{}) (bool, error) {
	c.mu.RLock()
	it, found := c.items[key]
	c.mu.RUnlock()
	if !found || c.now().UnixNano() > it.expiration {
		return false, nil
	}
	if err := json.Unmarshal(it.value, target); err != nil {
		return false, err
	}
	return true, nil
}

// Delete elimina key.
func (c *Cache) Delete(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.items, key)
}

// DeleteByPrefix elimina todas las claves que empiecen con prefix.
func (c *Cache) DeleteByPrefix(prefix string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for key := range c.items {
		if strings.HasPrefix(key, prefix) {
			delete(c.items, key)
		}
	}
}

// Size número de claves guardadas (incluye expiradas aún no limpiadas).
func (c *Cache) Size() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.items)
}

func (c *Cache) cleanupExpired(every time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()
	for {
		select {
		case <-c.stop:
			return
		case <-ticker.C:
			c.purge()
		}
	}
}

func (c *Cache) purge() {
	c.mu.Lock()
	defer c.mu.Unlock()
	now := c.now().UnixNano()
	for key, it := range c.items {
		if now > it.expiration {
			delete(c.items, key)
		}
	}
}
