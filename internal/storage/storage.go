package storage

import (
	"errors"
	"os"
	"path/filepath"
	"strings"

	"github.com/gosimple/slug"
)

// Файловое хранилище фото с объектов. Ключ — относительный путь вида
// jobs/<id>/<имя>. Наружу отдаём только URL через /uploads/.
type Store struct {
	dir string
}

var ErrBadKey = errors.New("некорректный ключ файла")

func New(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &Store{dir: dir}, nil
}

func (s *Store) Dir() string { return s.dir }

// Key собирает ключ из префикса и исходного имени файла.
// Имя прогоняем через slug, чтобы не тащить в ФС произвольные символы.
func Key(prefix, filename string) string {
	ext := filepath.Ext(filename)
	base := strings.TrimSuffix(filepath.Base(filename), ext)
	return prefix + "/" + slug.Make(base) + strings.ToLower(ext)
}

func (s *Store) Upload(data []byte, key string) error {
	path, err := s.resolve(key)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// List возвращает ключи всех файлов под префиксом, отсортированные по имени.
func (s *Store) List(prefix string) ([]string, error) {
	root, err := s.resolve(prefix)
	if err != nil {
		return nil, err
	}

	var keys []string
	err = filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			if os.IsNotExist(err) {
				return nil
			}
			return err
		}
		if d.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(s.dir, path)
		if err != nil {
			return err
		}
		keys = append(keys, filepath.ToSlash(rel))
		return nil
	})
	if err != nil && !os.IsNotExist(err) {
		return nil, err
	}
	return keys, nil
}

// PublicURL — путь, по которому файл раздаёт роутер (r.Static("/uploads", ...)).
func (s *Store) PublicURL(key string) string {
	return "/uploads/" + key
}

// resolve запрещает выход из корня хранилища через "..".
func (s *Store) resolve(key string) (string, error) {
	if key == "" || strings.Contains(key, "..") || strings.HasPrefix(key, "/") {
		return "", ErrBadKey
	}
	return filepath.Join(s.dir, filepath.FromSlash(key)), nil
}
