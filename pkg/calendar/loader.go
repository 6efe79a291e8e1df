package calendar

import (
	"fmt"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	log "github.com/sirupsen/logrus"
)

type fileConfig struct {
	Periods            []filePeriod `koanf:"periods"`
	NonCollectionDates []string     `koanf:"nonCollectionDates"`
}

type filePeriod struct {
	ID         string `koanf:"id"`
	SchoolYear string `koanf:"schoolYear"`
	Start      string `koanf:"start"`
	End        string `koanf:"end"`
}

// Load reads the academic calendar from a YAML file, e.g.:
//
//	periods:
//	  - id: "SY 22-23 P1"
//	    schoolYear: "SY 22-23"
//	    start: "2022-09-06"
//	    end: "2022-12-22"
//	nonCollectionDates:
//	  - "2022-11-24"
//	  - "2022-11-25"
//
// The returned Config has already passed structural validation.
func Load(path string) (Config, error) {
	var k = koanf.New(".")

	if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
		log.Errorf("error loading calendar config from YAML: %v", err)
		return Config{}, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}

	var fc fileConfig
	if err := k.Unmarshal("", &fc); err != nil {
		return Config{}, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}

	cfg, err := fc.toConfig()
	if err != nil {
		return Config{}, err
	}

	// Structural validation happens in NewClassifier; run it here so a broken
	// file is rejected at load time rather than on first classification.
	if _, err := NewClassifier(cfg); err != nil {
		return Config{}, err
	}

	log.Infof("Loaded calendar configuration from %s: %d periods, %d non-collection dates",
		path, len(cfg.Periods), len(cfg.NonCollectionDates))
	return cfg, nil
}

func (fc fileConfig) toConfig() (Config, error) {
	cfg := Config{
		NonCollectionDates: make(map[time.Time]struct{}, len(fc.NonCollectionDates)),
	}

	for _, fp := range fc.Periods {
		start, err := parseDate(fp.Start)
		if err != nil {
			return Config{}, fmt.Errorf("%w: period %q start: %v", ErrInvalidConfig, fp.ID, err)
		}
		end, err := parseDate(fp.End)
		if err != nil {
			return Config{}, fmt.Errorf("%w: period %q end: %v", ErrInvalidConfig, fp.ID, err)
		}
		cfg.Periods = append(cfg.Periods, Period{
			ID:         fp.ID,
			SchoolYear: fp.SchoolYear,
			Start:      start,
			End:        end,
		})
	}

	for _, s := range fc.NonCollectionDates {
		d, err := parseDate(s)
		if err != nil {
			return Config{}, fmt.Errorf("%w: non-collection date %q: %v", ErrInvalidConfig, s, err)
		}
		cfg.NonCollectionDates[d] = struct{}{}
	}

	return cfg, nil
}

func parseDate(s string) (time.Time, error) {
	d, err := time.Parse(time.DateOnly, s)
	if err != nil {
		return time.Time{}, err
	}
	return DateOnly(d), nil
}
