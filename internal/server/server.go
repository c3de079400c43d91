package server

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"
	"github.com/vmihailenco/msgpack/v5"

	"github.com/wizenheimer/lexis"
	"github.com/wizenheimer/lexis/internal/config"
	"github.com/wizenheimer/lexis/internal/metrics"
)

var (
	// ErrUnknownOp is returned for a request op the server does not handle.
	ErrUnknownOp = errors.New("unknown op")

	// ErrMissingKey is returned for insert and remove requests without a key.
	ErrMissingKey = errors.New("missing key")

	// ErrNotIndexed is returned when removing a key the server never indexed.
	ErrNotIndexed = errors.New("key not indexed")

	// ErrTooLong is returned for queries or texts over the configured limits.
	ErrTooLong = errors.New("input too long")
)

// Server owns an index and answers msgpack requests about it.
//
// The server keeps the text of every record it indexed, so clients can
// remove or overwrite a key without sending the old text again.
type Server struct {
	index   *lexis.Index[string]
	records map[string]string
	config  config.ServerConfig
	metrics *metrics.Metrics

	decoder *msgpack.Decoder
	encoder *msgpack.Encoder
}

// NewServer creates a server reading requests from r and writing responses
// to w. A nil m disables metrics.
func NewServer(index *lexis.Index[string], cfg config.ServerConfig, m *metrics.Metrics, r io.Reader, w io.Writer) *Server {
	return &Server{
		index:   index,
		records: make(map[string]string),
		config:  cfg,
		metrics: m,
		decoder: msgpack.NewDecoder(r),
		encoder: msgpack.NewEncoder(w),
	}
}

// Load indexes text under key the way an insert request does.
func (s *Server) Load(key, text string) {
	s.insert(key, text)
}

// Start sends a ready status and then serves requests until the input ends
// or ctx is cancelled. Cancellation is noticed between requests.
func (s *Server) Start(ctx context.Context) error {
	log.Debug("Starting server.")
	s.metrics.SetIndexSize(s.index.Len(), s.index.KeywordCount())

	if err := s.send(Response{Status: "ready"}); err != nil {
		return err
	}

	for {
		if err := ctx.Err(); err != nil {
			return nil
		}

		var req Request
		if err := s.decoder.Decode(&req); err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			log.Errorf("Reading request: %v", err)
			return fmt.Errorf("decoding request: %w", err)
		}

		if err := s.send(s.handleRequest(req)); err != nil {
			return err
		}
	}
}

// handleRequest runs one request and builds its response.
func (s *Server) handleRequest(req Request) Response {
	start := time.Now()
	resp := Response{ID: req.ID}

	var err error
	switch req.Op {
	case OpInsert:
		err = s.handleInsert(req)
	case OpRemove:
		err = s.handleRemove(req)
	case OpSearch:
		err = s.handleSearch(req, &resp)
	case OpAutocomplete:
		err = s.handleAutocomplete(req, &resp)
	case OpStats:
		stats := s.index.Stats()
		resp.Stats = &stats
	case OpHealth:
		resp.Status = "ok"
	default:
		err = fmt.Errorf("%w %q", ErrUnknownOp, req.Op)
	}

	elapsed := time.Since(start)
	resp.TimeTaken = elapsed.Microseconds()
	if err != nil {
		log.Debugf("Request %s (%s) failed: %v", req.ID, req.Op, err)
		resp.Error = err.Error()
	}
	s.metrics.Observe(req.Op, elapsed, err)
	return resp
}

func (s *Server) handleInsert(req Request) error {
	if req.Key == "" {
		return ErrMissingKey
	}
	if s.config.MaxTextLength > 0 && len(req.Text) > s.config.MaxTextLength {
		return fmt.Errorf("%w: text has %d bytes, limit is %d", ErrTooLong, len(req.Text), s.config.MaxTextLength)
	}
	s.insert(req.Key, req.Text)
	return nil
}

func (s *Server) insert(key, text string) {
	if old, ok := s.records[key]; ok {
		s.index.Replace(key, lexis.Text(old), lexis.Text(text))
	} else {
		s.index.Insert(key, lexis.Text(text))
	}
	s.records[key] = text
	s.metrics.SetIndexSize(s.index.Len(), s.index.KeywordCount())
}

func (s *Server) handleRemove(req Request) error {
	if req.Key == "" {
		return ErrMissingKey
	}
	text, ok := s.records[req.Key]
	if !ok {
		return fmt.Errorf("%w: %q", ErrNotIndexed, req.Key)
	}
	s.index.Remove(req.Key, lexis.Text(text))
	delete(s.records, req.Key)
	s.metrics.SetIndexSize(s.index.Len(), s.index.KeywordCount())
	return nil
}

func (s *Server) checkQuery(query string) error {
	if s.config.MaxQueryLength > 0 && len(query) > s.config.MaxQueryLength {
		return fmt.Errorf("%w: query has %d bytes, limit is %d", ErrTooLong, len(query), s.config.MaxQueryLength)
	}
	return nil
}

func (s *Server) handleSearch(req Request, resp *Response) error {
	if err := s.checkQuery(req.Query); err != nil {
		return err
	}
	search := s.index.NewSearch().WithQuery(req.Query).WithK(req.K)
	if req.Kind != "" {
		search.WithKind(lexis.SearchKind(req.Kind))
	}
	if req.Conjunction != "" {
		search.WithConjunction(lexis.ConjunctionKind(req.Conjunction))
	}

	results, err := search.Execute()
	if err != nil {
		return err
	}
	resp.Results = make([]Result, len(results))
	for i, r := range results {
		resp.Results[i] = Result{Key: r.Key, Score: r.Score}
	}
	resp.Count = len(results)
	s.metrics.ObserveResults(OpSearch, resp.Count)
	return nil
}

func (s *Server) handleAutocomplete(req Request, resp *Response) error {
	if err := s.checkQuery(req.Query); err != nil {
		return err
	}
	autocomplete := s.index.NewAutocomplete().WithQuery(req.Query).WithK(req.K)
	if req.Kind != "" {
		autocomplete.WithKind(lexis.AutocompleteKind(req.Kind))
	}

	completions, err := autocomplete.Execute()
	if err != nil {
		return err
	}
	resp.Completions = make([]Completion, len(completions))
	for i, c := range completions {
		resp.Completions[i] = Completion{Keyword: c.Keyword, Text: c.Text, Keys: c.Keys}
	}
	resp.Count = len(completions)
	s.metrics.ObserveResults(OpAutocomplete, resp.Count)
	return nil
}

func (s *Server) send(resp Response) error {
	if err := s.encoder.Encode(resp); err != nil {
		log.Errorf("Encoding response: %v", err)
		return fmt.Errorf("encoding response: %w", err)
	}
	return nil
}
