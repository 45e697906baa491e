package password

import (
	"bufio"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// Blacklist es el set de passwords comunes rechazadas en el alta. Compara en
// minúsculas y sin espacios alrededor.
type Blacklist struct {
	mu   sync.RWMutex
	data map[string]struct{}
}

// LoadBlacklist lee una password por línea; ignora vacías y comentarios (#).
// path vacío = lista vacía.
func LoadBlacklist(path string) (*Blacklist, error) {
	if strings.TrimSpace(path) == "" {
		return &Blacklist{data: map[string]struct{}{}}, nil
	}
	f, err := os.Open(filepath.Clean(path))
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ReadBlacklist(f)
}

func ReadBlacklist(r io.Reader) (*Blacklist, error) {
	bl := &Blacklist{data: map[string]struct{}{}}
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		line := normalize(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		bl.data[line] = struct{}{}
	}
	return bl, sc.Err()
}

// Contains es nil-safe: una lista nil no contiene nada.
func (b *Blacklist) Contains(pwd string) bool {
	if b == nil {
		return false
	}
	key := normalize(pwd)
	b.mu.RLock()
	_, ok := b.data[key]
	b.mu.RUnlock()
	return ok
}

func (b *Blacklist) Len() int {
	if b == nil {
		return 0
	}
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.data)
}

func normalize(s string) string { return strings.ToLower(strings.TrimSpace(s)) }
