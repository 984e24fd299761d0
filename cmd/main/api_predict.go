package main

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/nextword/nextword/pkg/ngram"
	"github.com/nextword/nextword/pkg/tokenize"
	"github.com/nextword/nextword/pkg/vocab"
)

// PredictAPI holds the dependencies for the n-gram prediction handlers.
type PredictAPI struct {
	tokenizer tokenize.Tokenizer
	cm        *ConfigManager
	logger    *slog.Logger
}

// NewPredictAPI creates a new instance of the PredictAPI.
func NewPredictAPI(tokenizer tokenize.Tokenizer, cm *ConfigManager, logger *slog.Logger) *PredictAPI {
	return &PredictAPI{
		tokenizer: tokenizer,
		cm:        cm,
		logger:    logger,
	}
}

// RegisterRoutes sets up the routing for all /api/ngram endpoints.
func (p *PredictAPI) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/api/ngram/process", p.handleProcess)
	mux.HandleFunc("/api/ngram/context_options/", p.handleContextOptions)
	mux.HandleFunc("/api/ngram/predictions/", p.handlePredictions)
	mux.HandleFunc("/api/ngram/vocab", p.handleVocab)
}

// SentencesRequest is the common JSON body carrying the request's corpus.
type SentencesRequest struct {
	Sentences []string `json:"sentences"`
}

// TokenizedSentence echoes one input sentence with its sub-word tokens.
type TokenizedSentence struct {
	Original string   `json:"original"`
	Tokens   []string `json:"tokens"`
	TokenIDs []int    `json:"token_ids"`
}

// PredictionResult is one per-sentence prediction entry in a process response.
type PredictionResult struct {
	Context           string             `json:"context"`
	Probabilities     map[string]float64 `json:"probabilities"`
	CompletedSentence string             `json:"completed_sentence"`
}

// ProcessResponse is the full payload for /api/ngram/process.
type ProcessResponse struct {
	TokenizedSentences   []TokenizedSentence `json:"tokenized_sentences"`
	OneWordPredictions   []PredictionResult  `json:"one_word_predictions"`
	TwoWordPredictions   []PredictionResult  `json:"two_word_predictions"`
	ThreeWordPredictions []PredictionResult  `json:"three_word_predictions"`
	FourWordPredictions  []PredictionResult  `json:"four_word_predictions"`
}

// ContextOptionsResponse pairs the enumerated options with the predictions
// for the first (lowest-sorted) one.
type ContextOptionsResponse struct {
	ContextOptions []ngram.Option     `json:"context_options"`
	Predictions    []ngram.Prediction `json:"predictions"`
}

// VocabRequest asks for corpus words matching a prefix.
type VocabRequest struct {
	Sentences []string `json:"sentences"`
	Prefix    string   `json:"prefix"`
	Limit     int      `json:"limit"`
}

// VocabResponse lists the matching corpus words for a prefix lookup.
type VocabResponse struct {
	Prefix string       `json:"prefix"`
	Words  []vocab.Word `json:"words"`
}

// cleanSentences trims surrounding whitespace and drops empty entries,
// preserving the order of what remains.
func cleanSentences(sentences []string) []string {
	cleaned := make([]string, 0, len(sentences))
	for _, s := range sentences {
		if s = strings.TrimSpace(s); s != "" {
			cleaned = append(cleaned, s)
		}
	}
	return cleaned
}

// handleProcess tokenizes the sentences and computes predictions plus greedy
// completions for the leading k words of every sentence, at orders 1-4.
func (p *PredictAPI) handleProcess(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", "POST")
		respondWithError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}
	var req SentencesRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid JSON request body")
		return
	}

	sentences := cleanSentences(req.Sentences)
	maxWords := p.cm.Get().Server.MaxCompletionWords

	resp := ProcessResponse{
		TokenizedSentences:   make([]TokenizedSentence, 0, len(sentences)),
		OneWordPredictions:   make([]PredictionResult, 0, len(sentences)),
		TwoWordPredictions:   make([]PredictionResult, 0, len(sentences)),
		ThreeWordPredictions: make([]PredictionResult, 0, len(sentences)),
		FourWordPredictions:  make([]PredictionResult, 0, len(sentences)),
	}

	for _, sentence := range sentences {
		tokens, ids, err := p.tokenizer.Tokenize(sentence)
		if err != nil {
			p.logger.Error("Tokenization failed", "sentence", sentence, "error", err)
			respondWithError(w, http.StatusInternalServerError, fmt.Sprintf("Tokenization failed: %v", err))
			return
		}
		resp.TokenizedSentences = append(resp.TokenizedSentences, TokenizedSentence{
			Original: sentence,
			Tokens:   tokens,
			TokenIDs: ids,
		})
	}

	// One table per order; all four are rebuilt from scratch on every request.
	perOrder := [...]*[]PredictionResult{
		1: &resp.OneWordPredictions,
		2: &resp.TwoWordPredictions,
		3: &resp.ThreeWordPredictions,
		4: &resp.FourWordPredictions,
	}
	for order := 1; order <= 4; order++ {
		table := ngram.BuildModel(sentences, order)
		for _, sentence := range sentences {
			words := strings.Fields(sentence)
			if len(words) < order {
				continue
			}
			context := words[:order]
			*perOrder[order] = append(*perOrder[order], PredictionResult{
				Context:           ngram.ContextKey(context),
				Probabilities:     table.Probabilities(context),
				CompletedSentence: ngram.Complete(context, table, maxWords),
			})
		}
	}

	respondWithJSON(w, http.StatusOK, resp)
}

// handleContextOptions enumerates every (prefix, highlighted span) option of
// the span length given in the URL, plus predictions for the first option.
func (p *PredictAPI) handleContextOptions(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", "POST")
		respondWithError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}
	nWords, ok := spanLengthFromPath(w, r.URL.Path, "/api/ngram/context_options/")
	if !ok {
		return
	}
	var req SentencesRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid JSON request body")
		return
	}
	sentences := cleanSentences(req.Sentences)

	options := ngram.EnumerateOptions(sentences, nWords)
	predictions := ngram.FirstOptionPredictions(sentences, nWords)

	if options == nil {
		options = []ngram.Option{}
	}
	if predictions == nil {
		predictions = []ngram.Prediction{}
	}
	respondWithJSON(w, http.StatusOK, ContextOptionsResponse{
		ContextOptions: options,
		Predictions:    predictions,
	})
}

// handlePredictions returns the descending prediction list for the trailing
// n words of the context query parameter.
func (p *PredictAPI) handlePredictions(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", "POST")
		respondWithError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}
	nWords, ok := spanLengthFromPath(w, r.URL.Path, "/api/ngram/predictions/")
	if !ok {
		return
	}
	var req SentencesRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid JSON request body")
		return
	}
	sentences := cleanSentences(req.Sentences)

	table := ngram.BuildModel(sentences, nWords)
	context := strings.Fields(r.URL.Query().Get("context"))
	if len(context) > nWords {
		context = context[len(context)-nWords:]
	}

	predictions := ngram.Predictions(table.Probabilities(context))
	respondWithJSON(w, http.StatusOK, predictions)
}

// handleVocab looks up corpus words by prefix for the frontend's type-ahead.
func (p *PredictAPI) handleVocab(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", "POST")
		respondWithError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}
	var req VocabRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid JSON request body")
		return
	}

	index := vocab.NewIndex(cleanSentences(req.Sentences))
	words := index.Lookup(req.Prefix, req.Limit)
	if words == nil {
		words = []vocab.Word{}
	}
	respondWithJSON(w, http.StatusOK, VocabResponse{
		Prefix: req.Prefix,
		Words:  words,
	})
}

// spanLengthFromPath parses the trailing span length of an /api/ngram path,
// writing the error response itself when the segment is missing or invalid.
func spanLengthFromPath(w http.ResponseWriter, path, prefix string) (int, bool) {
	segment := strings.TrimSuffix(strings.TrimPrefix(path, prefix), "/")
	nWords, err := strconv.Atoi(segment)
	if err != nil || nWords < 1 {
		respondWithError(w, http.StatusBadRequest, "Span length must be a positive integer")
		return 0, false
	}
	return nWords, true
}
