package config

import (
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env/v2"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
	log "github.com/sirupsen/logrus"
)

type Application struct {
	Listen   string   `koanf:"listen"`
	Calendar Calendar `koanf:"calendar"`
	Report   Report   `koanf:"report"`
	Database Database `koanf:"db"`
}

type Calendar struct {
	// Path points to the academic calendar YAML (periods and non-collection dates).
	Path string `koanf:"path"`
}

type Report struct {
	// FillPolicy is the default gap-fill policy: "all_days_zero_filled" or "collection_days_only".
	FillPolicy      string `koanf:"fillpolicy"`
	MaxLag          int    `koanf:"maxlag"`
	ExcludeOutliers bool   `koanf:"excludeoutliers"`
}

type Database struct {
	Host   string `koanf:"host"`
	Port   int    `koanf:"port"`
	User   string `koanf:"user"`
	Pass   string `koanf:"pass"`
	Name   string `koanf:"name"`
	Schema string `koanf:"schema"`
}

func Load(path string) (Application, error) {
	var k = koanf.New(".")

	err := k.Load(structs.Provider(Application{
		Listen: ":8181",
		Calendar: Calendar{
			Path: "./config/calendar.yaml",
		},
		Report: Report{
			FillPolicy:      "all_days_zero_filled",
			MaxLag:          10,
			ExcludeOutliers: true,
		},
		Database: Database{
			Host:   "localhost",
			Port:   5432,
			User:   "mediatally",
			Pass:   "",
			Name:   "mediatally",
			Schema: "mediatally",
		},
	}, "koanf"), nil)
	if err != nil {
		log.Errorf("error loading config from structs: %v", err)
		return Application{}, err
	}

	if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
		if os.IsNotExist(err) {
			log.Infof("Config file not found at %s, using defaults and environment variables", path)
		} else {
			log.Errorf("error loading config from YAML: %v", err)
			return Application{}, err
		}
	} else {
		log.Infof("Loaded configuration from file: %s", path)
	}

	err = k.Load(env.Provider(".", env.Opt{
		Prefix: "MEDIATALLY_",
		TransformFunc: func(k, v string) (string, any) {
			// Transform the key.
			k = strings.ReplaceAll(strings.ToLower(strings.TrimPrefix(k, "MEDIATALLY_")), "_", ".")
			return k, v
		},
	}), nil)
	if err != nil {
		log.Errorf("error loading config from envs: %v", err)
		return Application{}, err
	}

	var app Application
	if err := k.Unmarshal("", &app); err != nil {
		return Application{}, err
	}

	return app, nil
}
