package config

import (
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds the settings embedded into generated CMDI records
type Config struct {
	// CollectionDisplayName goes into the MdCollectionDisplayName header
	CollectionDisplayName string
	// LandingPageURL is the target of the landing_page resource proxy
	LandingPageURL string
	// RecordsBaseURL is where generated records are published; self links
	// and collection proxies are {RecordsBaseURL}/{collection id}/{file}
	RecordsBaseURL string
	// DumpBaseURL is the root of the EDM and ALTO archive dumps
	DumpBaseURL string
	// PrettyXML indents serialized records
	PrettyXML bool
	// HTTPTimeout bounds a single IIIF manifest request
	HTTPTimeout time.Duration
}

// Default returns the configuration used when no environment overrides exist
func Default() Config {
	return Config{
		CollectionDisplayName: "Europeana newspapers full text",
		LandingPageURL:        "https://pro.europeana.eu/page/iiif#download",
		RecordsBaseURL:        "http://localhost:8888",
		DumpBaseURL:           "ftp://download.europeana.eu/newspapers/fulltext",
		PrettyXML:             false,
		HTTPTimeout:           30 * time.Second,
	}
}

// FromEnv builds a Config from environment variables, falling back to Default
func FromEnv() Config {
	cfg := Default()

	cfg.CollectionDisplayName = getEnv("COLLECTION_DISPLAY_NAME", cfg.CollectionDisplayName)
	cfg.LandingPageURL = getEnv("LANDING_PAGE_URL", cfg.LandingPageURL)
	cfg.RecordsBaseURL = strings.TrimSuffix(getEnv("CMDI_RECORDS_BASE_URL", cfg.RecordsBaseURL), "/")
	cfg.DumpBaseURL = strings.TrimSuffix(getEnv("DUMP_BASE_URL", cfg.DumpBaseURL), "/")

	if v := os.Getenv("PRETTY_CMDI_XML"); v != "" {
		pretty, err := strconv.ParseBool(v)
		if err != nil {
			slog.Warn("Ignoring invalid PRETTY_CMDI_XML value", "value", v, "err", err)
		} else {
			cfg.PrettyXML = pretty
		}
	}

	if v := os.Getenv("IIIF_HTTP_TIMEOUT"); v != "" {
		timeout, err := time.ParseDuration(v)
		if err != nil {
			slog.Warn("Ignoring invalid IIIF_HTTP_TIMEOUT value", "value", v, "err", err)
		} else {
			cfg.HTTPTimeout = timeout
		}
	}

	return cfg
}

func getEnv(name, fallback string) string {
	if v := os.Getenv(name); v != "" {
		return v
	}
	return fallback
}
