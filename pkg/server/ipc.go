package server

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/bastiangx/morphindex/internal/logger"
	"github.com/charmbracelet/log"
	"github.com/vmihailenco/msgpack/v5"
)

// IPCServer handles msgpack queries over a reader/writer pair, normally
// stdin and stdout.
type IPCServer struct {
	service *Service
	dec     *msgpack.Decoder
	enc     *msgpack.Encoder
	log     *log.Logger
}

// NewIPCServer creates a server reading requests from r and writing
// responses to w.
func NewIPCServer(service *Service, r io.Reader, w io.Writer) *IPCServer {
	return &IPCServer{
		service: service,
		dec:     msgpack.NewDecoder(r),
		enc:     msgpack.NewEncoder(w),
		log:     logger.Default("ipc"),
	}
}

// Start announces readiness and serves requests until the reader is
// exhausted or ctx is cancelled. A clean EOF returns nil.
func (s *IPCServer) Start(ctx context.Context) error {
	s.log.Debug("Starting IPC server.")
	s.send(StatusResponse{Status: "ready", Corpora: s.service.Corpora()})

	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		raw, err := s.dec.DecodeRaw()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			s.log.Errorf("Reading request: %v", err)
			return err
		}
		s.handleRequest(raw)
	}
}

// handleRequest decodes one message and dispatches on its action. A message
// that is not a request is answered with an error and the loop goes on.
func (s *IPCServer) handleRequest(raw msgpack.RawMessage) {
	var req Request
	if err := msgpack.Unmarshal(raw, &req); err != nil {
		s.log.Errorf("Unmarshaling request: %v", err)
		s.sendError("", "invalid msgpack request", http.StatusBadRequest)
		return
	}

	start := time.Now()
	switch req.Action {
	case ActionNgram:
		words, total, err := s.service.Ngram(req.Corpus, req.Pattern, req.Limit)
		if s.failed(req, err) {
			return
		}
		s.send(WordsResponse{ID: req.ID, Words: words, Count: len(words), Total: total, TimeTaken: since(start)})
	case ActionMorphNgram:
		words, total, err := s.service.MorphNgram(req.Corpus, req.Segments, req.Limit)
		if s.failed(req, err) {
			return
		}
		s.send(WordsResponse{ID: req.ID, Words: words, Count: len(words), Total: total, TimeTaken: since(start)})
	case ActionMorpheme:
		words, total, err := s.service.Morpheme(req.Corpus, req.Pattern, req.Limit)
		if s.failed(req, err) {
			return
		}
		s.send(RankedResponse{ID: req.ID, Words: words, Count: len(words), Total: total, TimeTaken: since(start)})
	case ActionTop:
		words, err := s.service.Top(req.Corpus, req.Pattern, req.Limit)
		if s.failed(req, err) {
			return
		}
		s.send(RankedResponse{ID: req.ID, Words: words, Count: len(words), TimeTaken: since(start)})
	case ActionWord:
		info, err := s.service.Word(req.Corpus, req.Pattern)
		if s.failed(req, err) {
			return
		}
		s.send(WordResponse{ID: req.ID, Info: info, Segmentation: info.Segmentation(), TimeTaken: since(start)})
	case ActionStats:
		report, err := s.service.Stats(req.Corpus)
		if s.failed(req, err) {
			return
		}
		s.send(StatsResponse{ID: req.ID, Report: report})
	case ActionCorpora:
		s.send(StatusResponse{ID: req.ID, Status: "ok", Corpora: s.service.Corpora()})
	case ActionHealth:
		s.send(StatusResponse{ID: req.ID, Status: "ok"})
	default:
		s.sendError(req.ID, fmt.Sprintf("unknown action: %q", req.Action), http.StatusBadRequest)
	}
}

func (s *IPCServer) failed(req Request, err error) bool {
	if err == nil {
		return false
	}
	s.log.Debug("Request failed", "id", req.ID, "action", req.Action, "err", err)
	s.sendError(req.ID, err.Error(), StatusCode(err))
	return true
}

func (s *IPCServer) send(response any) {
	if err := s.enc.Encode(response); err != nil {
		s.log.Errorf("Writing response: %v", err)
	}
}

func (s *IPCServer) sendError(id, message string, code int) {
	s.send(ErrorResponse{ID: id, Error: message, Code: code})
}

func since(start time.Time) int64 {
	return time.Since(start).Microseconds()
}
