package storage

// PrefixDB wraps a DB and prepends a fixed prefix to all keys, giving each
// record type its own namespace inside one underlying database.
type PrefixDB struct {
	inner  DB
	prefix []byte
}

// NewPrefixDB creates a new PrefixDB wrapping inner with the given prefix.
func NewPrefixDB(inner DB, prefix []byte) *PrefixDB {
	p := make([]byte, len(prefix))
	copy(p, prefix)
	return &PrefixDB{inner: inner, prefix: p}
}

func (p *PrefixDB) key(k []byte) []byte {
	out := make([]byte, 0, len(p.prefix)+len(k))
	out = append(out, p.prefix...)
	return append(out, k...)
}

// Get retrieves a value by key.
func (p *PrefixDB) Get(key []byte) ([]byte, error) {
	return p.inner.Get(p.key(key))
}

// Put stores a key-value pair.
func (p *PrefixDB) Put(key, value []byte) error {
	return p.inner.Put(p.key(key), value)
}

// Delete removes a key.
func (p *PrefixDB) Delete(key []byte) error {
	return p.inner.Delete(p.key(key))
}

// Has checks if a key exists.
func (p *PrefixDB) Has(key []byte) (bool, error) {
	return p.inner.Has(p.key(key))
}

// ForEach iterates over keys under prefix inside this namespace. Keys passed
// to fn have the namespace prefix stripped.
func (p *PrefixDB) ForEach(prefix []byte, fn func(key, value []byte) error) error {
	return p.inner.ForEach(p.key(prefix), func(key, value []byte) error {
		return fn(key[len(p.prefix):], value)
	})
}

// DeleteAll removes every key in this namespace from the inner DB.
func (p *PrefixDB) DeleteAll() error {
	if d, ok := p.inner.(PrefixDropper); ok {
		return d.DropPrefix(p.prefix)
	}
	var keys [][]byte
	err := p.inner.ForEach(p.prefix, func(key, _ []byte) error {
		keys = append(keys, key)
		return nil
	})
	if err != nil {
		return err
	}
	for _, key := range keys {
		if err := p.inner.Delete(key); err != nil {
			return err
		}
	}
	return nil
}

// Close is a no-op. The inner DB owns its lifecycle.
func (p *PrefixDB) Close() error {
	return nil
}
