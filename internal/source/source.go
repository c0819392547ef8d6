// Package source loads validated course records for the knowledge-base
// build. Records arrive as JSON written by the scraping pipeline;
// extraction and repair happen upstream.
package source

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog/log"

	"course-rag/internal/models"
)

// LoadCourses reads every .json file in dir. A file may hold a single
// course record or an array of them. Records without a source URL
// violate the record invariant and are skipped with a warning.
func LoadCourses(dir string) ([]models.CourseRecord, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read course data dir: %v", err)
	}

	var records []models.CourseRecord
	for _, entry := range entries {
		if entry.IsDir() || !strings.EqualFold(filepath.Ext(entry.Name()), ".json") {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		loaded, err := loadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to load %s: %v", path, err)
		}
		for _, rec := range loaded {
			if rec.SourceURL == "" {
				log.Warn().Str("file", path).Msg("Skipping course record without source_url")
				continue
			}
			records = append(records, rec)
		}
	}

	log.Info().Int("courses", len(records)).Str("dir", dir).Msg("Loaded course records")
	return records, nil
}

func loadFile(path string) ([]models.CourseRecord, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var many []models.CourseRecord
	if err := json.Unmarshal(data, &many); err == nil {
		return many, nil
	}

	var one models.CourseRecord
	if err := json.Unmarshal(data, &one); err != nil {
		return nil, err
	}
	return []models.CourseRecord{one}, nil
}
