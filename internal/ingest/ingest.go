package ingest

import (
	"bufio"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"fitai/internal/search"
)

// allowedExtensions mirrors the upload contract: document formats plus the
// structured menu formats.
var allowedExtensions = map[string]bool{
	".txt":   true,
	".md":    true,
	".pdf":   true,
	".docx":  true,
	".doc":   true,
	".html":  true,
	".xhtml": true,
	".csv":   true,
	".json":  true,
	".jsonl": true,
}

var ErrNoFiles = errors.New("no files uploaded")

func Allowed(filename string) bool {
	return allowedExtensions[strings.ToLower(filepath.Ext(filename))]
}

// SaveUploads writes multipart files into a fresh uuid-named directory
// under baseDir and returns its path. Rejecting any file removes the
// directory again.
func SaveUploads(baseDir string, files []*multipart.FileHeader) (string, error) {
	if len(files) == 0 {
		return "", ErrNoFiles
	}
	dir := filepath.Join(baseDir, uuid.NewString())
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}
	for _, header := range files {
		if header.Filename == "" || !Allowed(header.Filename) {
			os.RemoveAll(dir)
			return "", fmt.Errorf("invalid file type: %s", header.Filename)
		}
		if err := saveOne(dir, header); err != nil {
			os.RemoveAll(dir)
			return "", err
		}
	}
	return dir, nil
}

func saveOne(dir string, header *multipart.FileHeader) error {
	src, err := header.Open()
	if err != nil {
		return err
	}
	defer src.Close()

	dst, err := os.Create(filepath.Join(dir, filepath.Base(header.Filename)))
	if err != nil {
		return err
	}
	defer dst.Close()

	_, err = io.Copy(dst, src)
	return err
}

// Load reads one uploaded file into index-ready chunks. CSV rows become
// formatted menu sentences with entity metadata; every other format is
// chunked one line at a time.
func Load(path string) ([]search.Document, error) {
	if strings.EqualFold(filepath.Ext(path), ".csv") {
		return readCSV(path)
	}
	return readLines(path)
}

// LoadDir chunks every file in an upload directory.
func LoadDir(dir string) ([]search.Document, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	var docs []search.Document
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		chunk, err := Load(filepath.Join(dir, entry.Name()))
		if err != nil {
			return nil, err
		}
		docs = append(docs, chunk...)
	}
	if len(docs) == 0 {
		return nil, errors.New("no chunks loaded")
	}
	return docs, nil
}

func readLines(path string) ([]search.Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var docs []search.Document
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1<<20)
	for i := 0; scanner.Scan(); i++ {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		docs = append(docs, search.Document{
			ID:   fmt.Sprintf("%d-%s", i, uuid.NewString()),
			Text: line,
		})
	}
	return docs, scanner.Err()
}

func readCSV(path string) ([]search.Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	reader := csv.NewReader(f)
	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("read csv header: %w", err)
	}
	columns := map[string]int{}
	for i, name := range header {
		columns[strings.TrimSpace(name)] = i
	}

	var docs []search.Document
	for i := 0; ; i++ {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read csv row %d: %w", i, err)
		}
		row := func(name string) string {
			idx, ok := columns[name]
			if !ok || idx >= len(record) {
				return ""
			}
			return strings.TrimSpace(record[idx])
		}
		docs = append(docs, search.Document{
			ID:       fmt.Sprintf("%d-%s", i, uuid.NewString()),
			Text:     formatFoodItem(row),
			Entities: parseEntityList(row("entities")),
		})
	}
	return docs, nil
}

// formatFoodItem renders one menu row as the retrieval sentence the
// prompts consume.
func formatFoodItem(row func(string) string) string {
	return fmt.Sprintf("%s's %s for %s is %s with %s calories. It contains %sg of fat, %sg of saturated fat, %smg of cholesterol, %smg of sodium, %sg of carbs, %sg of sugar, %sg of fiber, and %sg of protein.",
		row("provider"), row("name"), row("category"), row("serving_size"),
		row("calories"), row("fat_g"), row("sat_fat_g"), row("cholesterol_mg"),
		row("sodium_mg"), row("carbohydrates_g"), row("sugar_g"), row("fiber_g"),
		row("protein_g"))
}

// parseEntityList decodes the entities column, a bracketed list of quoted
// tags in either quote style.
func parseEntityList(raw string) []string {
	raw = strings.TrimSpace(raw)
	raw = strings.TrimPrefix(raw, "[")
	raw = strings.TrimSuffix(raw, "]")
	if raw == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(raw, ",") {
		tag := strings.TrimSpace(part)
		tag = strings.Trim(tag, `'"`)
		if tag != "" {
			out = append(out, tag)
		}
	}
	return out
}
