package main

import (
	"net/http"

	"github.com/lychee-technology/reaper"
	"go.uber.org/zap"
)

// relationJSON is the wire shape of a ConcreteRelation:
// `{ name, columns, values }`.
type relationJSON struct {
	Name    string    `json:"name"`
	Columns []string  `json:"columns"`
	Values  [][]int64 `json:"values"`
}

// synthRequest is the wire shape of a /synth request body:
// `{ input: [ConcreteRelation], output: ConcreteRelation, constants: [int] }`.
type synthRequest struct {
	Input     []relationJSON `json:"input"`
	Output    relationJSON   `json:"output"`
	Constants []int64        `json:"constants"`
}

func toRelation(r relationJSON) reaper.ConcreteRelation {
	return reaper.ConcreteRelation{Name: r.Name, Columns: r.Columns, Values: r.Values}
}

func toRelations(rs []relationJSON) []reaper.ConcreteRelation {
	out := make([]reaper.ConcreteRelation, len(rs))
	for i, r := range rs {
		out[i] = toRelation(r)
	}
	return out
}

// handleSynth implements the POST /synth route: synthesize a query from the
// request's example and return its rendered SQL, or the literal
// "Unable to synthesize" when no candidate matches.
func (s *Server) handleSynth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	requestID := newRequestID()
	logger := zap.S().With("request_id", requestID)

	var req synthRequest
	if err := readJSONBody(r, &req); err != nil {
		logger.Warnw("invalid request body", "err", err)
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	example := reaper.Example{
		Input:    toRelations(req.Input),
		Output:   toRelation(req.Output),
		Constant: req.Constants,
	}

	candidates, err := reaper.Synthesize(r.Context(), example, s.cfg)
	if err != nil {
		if reaper.IsNoQueriesFound(err) {
			logger.Infow("no queries found")
			writePlainText(w, http.StatusOK, "Unable to synthesize")
			return
		}
		logger.Errorw("synthesis failed", "err", err)
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	sql := reaper.RenderSQL(candidates[0])
	logger.Infow("synthesis succeeded", "candidates", len(candidates))
	writePlainText(w, http.StatusOK, sql)
}
