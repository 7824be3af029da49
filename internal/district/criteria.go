// Package district loads the externally maintained closure criteria and
// district settings that ground the agents' analysis.
package district

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

// Criteria file locations, checked in order. The misc data path is kept for
// installations that predate the config directory layout.
var criteriaLocations = []string{
	filepath.Join("config", "district", "closure_criteria.txt"),
	filepath.Join("misc data", "snowday_criteria.txt"),
}

// DefaultCriteria is used when no criteria file exists, so a first run works
// before the district customizes anything.
const DefaultCriteria = `Default School Closure Criteria:
- Consider student and staff safety as the primary factor
- Monitor weather conditions including temperature, precipitation, and wind
- Evaluate road conditions and transportation safety
- Account for building and facility operations
Please replace this with your district's specific criteria in config/district/closure_criteria.txt`

// LoadCriteria reads the district's closure criteria relative to baseDir,
// falling back through the known locations and finally to DefaultCriteria.
// A missing file is normal; unreadable or empty files are skipped with a
// warning.
func LoadCriteria(baseDir string, logger *slog.Logger) string {
	if logger == nil {
		logger = slog.Default()
	}

	for _, loc := range criteriaLocations {
		path := filepath.Join(baseDir, loc)
		data, err := os.ReadFile(path)
		if err != nil {
			if !os.IsNotExist(err) {
				logger.Warn("criteria file unreadable", "path", path, "error", err)
			}
			continue
		}
		content := strings.TrimSpace(string(data))
		if content == "" {
			logger.Warn("criteria file is empty", "path", path)
			continue
		}
		logger.Info("loaded district criteria", "path", path)
		return content
	}

	logger.Warn("no district criteria file found, using defaults")
	return DefaultCriteria
}
