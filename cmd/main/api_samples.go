package main

import (
	"bytes"
	"fmt"
	"log/slog"
	"net/http"
	"os"

	"github.com/natefinch/atomic"
	"gopkg.in/yaml.v3"
)

// SampleSet is a named group of example sentences the frontend can load
// into the demo with one click.
type SampleSet struct {
	Name        string   `json:"name" yaml:"name"`
	Description string   `json:"description" yaml:"description"`
	Sentences   []string `json:"sentences" yaml:"sentences"`
}

// SampleAPI serves the bundled sample sentence sets.
type SampleAPI struct {
	cm     *ConfigManager
	logger *slog.Logger
	sets   []SampleSet
}

func defaultSampleSets() []SampleSet {
	return []SampleSet{
		{
			Name:        "weather",
			Description: "Short weather observations with repeated bigrams.",
			Sentences: []string{
				"the sun is shining today.",
				"the sun is bright.",
				"the rain is falling again.",
				"the rain is cold today.",
			},
		},
		{
			Name:        "animals",
			Description: "Simple sentences about animals.",
			Sentences: []string{
				"the cat sat on the mat.",
				"the dog sat on the rug.",
				"the cat ran to the door.",
				"the dog ran to the park.",
			},
		},
		{
			Name:        "programming",
			Description: "Sentences about writing software.",
			Sentences: []string{
				"the function returns a value.",
				"the function returns an error.",
				"the test checks the value.",
				"the test checks the error path.",
			},
		},
	}
}

// LoadSamples reads the sample sets from the configured YAML file, writing
// the defaults first if the file does not exist yet.
func LoadSamples(path string) ([]SampleSet, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		sets := defaultSampleSets()
		out, err := yaml.Marshal(sets)
		if err != nil {
			return nil, fmt.Errorf("could not marshal default samples: %w", err)
		}
		if err := atomic.WriteFile(path, bytes.NewReader(out)); err != nil {
			return nil, fmt.Errorf("could not write default samples file: %w", err)
		}
		return sets, nil
	}
	if err != nil {
		return nil, fmt.Errorf("could not read samples file: %w", err)
	}

	var sets []SampleSet
	if err := yaml.Unmarshal(data, &sets); err != nil {
		return nil, fmt.Errorf("could not parse samples file: %w", err)
	}
	return sets, nil
}

func NewSampleAPI(cm *ConfigManager, logger *slog.Logger) *SampleAPI {
	api := &SampleAPI{
		cm:     cm,
		logger: logger,
	}

	cfg := cm.Get()
	sets, err := LoadSamples(cfg.Server.SamplesPath)
	if err != nil {
		logger.Warn("Failed to load sample sets, serving built-in defaults", "path", cfg.Server.SamplesPath, "error", err)
		sets = defaultSampleSets()
	}
	api.sets = sets
	return api
}

func (s *SampleAPI) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/api/samples", s.handleSamples)
}

func (s *SampleAPI) handleSamples(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", "GET")
		respondWithError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}
	respondWithJSON(w, http.StatusOK, s.sets)
}
