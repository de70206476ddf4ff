package store

import (
	"bufio"
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

const (
	RepoDir    = ".gbmsynth"
	ObjectsDir = "objects"
	RefsDir    = "refs"
)

var (
	ErrNotFound    = errors.New("store: object not found")
	ErrBadHash     = errors.New("store: malformed hash")
	ErrAmbiguous   = errors.New("store: ambiguous hash prefix")
	ErrInvalidName = errors.New("store: invalid ref name")
)

type Store struct {
	Root string
}

func New(projectRoot string) *Store {
	return &Store{
		Root: filepath.Join(projectRoot, RepoDir),
	}
}

// Open returns the store rooted in the current working directory.
func Open() (*Store, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("could not determine working directory: %w", err)
	}
	return New(cwd), nil
}

func (s *Store) Init() error {
	paths := []string{
		filepath.Join(s.Root, ObjectsDir),
		filepath.Join(s.Root, RefsDir),
	}

	for _, p := range paths {
		if err := os.MkdirAll(p, 0o755); err != nil {
			return fmt.Errorf("failed to init store at %s: %w", p, err)
		}
	}
	return nil
}

func (s *Store) Exists() bool {
	info, err := os.Stat(s.Root)
	return err == nil && info.IsDir()
}

func (s *Store) objectPath(hash string) (string, error) {
	if len(hash) != sha256.Size*2 {
		return "", fmt.Errorf("%w: %q", ErrBadHash, hash)
	}
	return filepath.Join(s.Root, ObjectsDir, hash[:2], hash[2:]), nil
}

// Put writes data under its sha256 and returns the hex hash. Writing the same
// bytes twice is a no-op.
func (s *Store) Put(data []byte) (string, error) {
	hash := s.hash(data)
	path, _ := s.objectPath(hash)

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", fmt.Errorf("shard creation failed: %w", err)
	}

	if _, err := os.Stat(path); err == nil {
		return hash, nil
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return "", err
	}
	defer f.Close()

	if _, err := f.Write(data); err != nil {
		return "", err
	}

	if err := f.Sync(); err != nil {
		return "", fmt.Errorf("fsync failed: %w", err)
	}

	return hash, nil
}

func (s *Store) Get(hash string) ([]byte, error) {
	path, err := s.objectPath(hash)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, hash)
	}
	if err != nil {
		return nil, fmt.Errorf("read object %s: %w", hash, err)
	}
	return data, nil
}

func (s *Store) Delete(hash string) error {
	path, err := s.objectPath(hash)
	if err != nil {
		return err
	}
	return os.Remove(path)
}

func (s *Store) List() ([]string, error) {
	var hashes []string
	objRoot := filepath.Join(s.Root, ObjectsDir)

	err := filepath.Walk(objRoot, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if !info.IsDir() {
			shard := filepath.Base(filepath.Dir(path))
			hashes = append(hashes, shard+info.Name())
		}
		return nil
	})

	return hashes, err
}

func (s *Store) hash(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// Resolve expands a unique hash prefix (at least 3 characters) to the full hash.
func (s *Store) Resolve(prefix string) (string, error) {
	if len(prefix) < 3 {
		return "", fmt.Errorf("%w: prefix %q too short", ErrBadHash, prefix)
	}

	shard := prefix[:2]
	files, err := os.ReadDir(filepath.Join(s.Root, ObjectsDir, shard))
	if err != nil {
		return "", fmt.Errorf("%w: %s", ErrNotFound, prefix)
	}

	var match string
	for _, f := range files {
		if strings.HasPrefix(f.Name(), prefix[2:]) {
			if match != "" {
				return "", fmt.Errorf("%w: %s", ErrAmbiguous, prefix)
			}
			match = shard + f.Name()
		}
	}
	if match == "" {
		return "", fmt.Errorf("%w: no object matching prefix %s", ErrNotFound, prefix)
	}
	return match, nil
}

func (s *Store) refPath(name string) (string, error) {
	if name == "" || strings.ContainsAny(name, `/\`) || name == "." || name == ".." {
		return "", fmt.Errorf("%w: %q", ErrInvalidName, name)
	}
	return filepath.Join(s.Root, RefsDir, name), nil
}

// WriteRef records ordered entries under name, one per line. An entry is
// usually one hash or several space-separated hashes.
func (s *Store) WriteRef(name string, entries []string) error {
	path, err := s.refPath(name)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}

	var buf bytes.Buffer
	for _, e := range entries {
		buf.WriteString(e)
		buf.WriteByte('\n')
	}

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, buf.Bytes(), 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}

func (s *Store) ReadRef(name string) ([]string, error) {
	path, err := s.refPath(name)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("%w: ref %s", ErrNotFound, name)
	}
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var entries []string
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		if line := strings.TrimSpace(sc.Text()); line != "" {
			entries = append(entries, line)
		}
	}
	return entries, sc.Err()
}
