package search

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"sort"
	"strings"

	"github.com/TuftsBCB/seq"
)

// seqQuery is the JSON body of an RCSB sequence search. Identity is a
// fraction in [0, 1].
type seqQuery struct {
	Query struct {
		Type       string `json:"type"`
		Service    string `json:"service"`
		Parameters struct {
			EvalueCutoff   float64 `json:"evalue_cutoff"`
			IdentityCutoff float64 `json:"identity_cutoff"`
			Target         string  `json:"target"`
			Value          string  `json:"value"`
		} `json:"parameters"`
	} `json:"query"`
	ReturnType     string `json:"return_type"`
	RequestOptions struct {
		Pager struct {
			Start int `json:"start"`
			Rows  int `json:"rows"`
		} `json:"pager"`
		ScoringStrategy string `json:"scoring_strategy"`
		Sort            []struct {
			SortBy    string `json:"sort_by"`
			Direction string `json:"direction"`
		} `json:"sort"`
	} `json:"request_options"`
}

func newSeqQuery(sequence string, identity int) seqQuery {
	var q seqQuery
	q.Query.Type = "terminal"
	q.Query.Service = "sequence"
	q.Query.Parameters.EvalueCutoff = 1
	q.Query.Parameters.IdentityCutoff = float64(identity) / 100
	q.Query.Parameters.Target = "pdb_protein_sequence"
	q.Query.Parameters.Value = sequence
	q.ReturnType = "polymer_entity"
	q.RequestOptions.Pager.Rows = 100
	q.RequestOptions.ScoringStrategy = "sequence"
	q.RequestOptions.Sort = append(q.RequestOptions.Sort, struct {
		SortBy    string `json:"sort_by"`
		Direction string `json:"direction"`
	}{SortBy: "score", Direction: "desc"})
	return q
}

type searchResponse struct {
	ResultSet []struct {
		Identifier string `json:"identifier"`
	} `json:"result_set"`
}

// SimilarChains finds chains whose deposited sequence matches the sequence
// of the given chain with at least the given percent identity. The results
// are sorted, one representative chain per matching entity.
func (c *Client) SimilarChains(
	ctx context.Context,
	code, chain string,
	identity int,
) ([]ChainID, error) {
	s, err := c.Sequence(ctx, code, chain)
	if err != nil {
		return nil, fmt.Errorf("similar chains to %s %s: %w", code, chain, err)
	}
	return c.SimilarToSequence(ctx, s, identity)
}

// SimilarToSequence is like SimilarChains for a sequence from any source.
func (c *Client) SimilarToSequence(
	ctx context.Context,
	s seq.Sequence,
	identity int,
) ([]ChainID, error) {
	residues := make([]byte, len(s.Residues))
	for i, r := range s.Residues {
		residues[i] = byte(r)
	}
	entities, err := c.searchSequence(ctx, string(residues), identity)
	if err != nil {
		return nil, err
	}
	return c.entityChains(ctx, entities)
}

// searchSequence runs the RCSB sequence search, returning polymer entity
// identifiers of the form CODE_N.
func (c *Client) searchSequence(
	ctx context.Context,
	sequence string,
	identity int,
) ([]string, error) {
	if err := c.wait(ctx); err != nil {
		return nil, err
	}

	body, err := json.Marshal(newSeqQuery(sequence, identity))
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, "GET",
		c.SearchURL+"?json="+url.QueryEscape(string(body)), nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.HTTP.Do(req)
	if err != nil {
		return nil, fmt.Errorf("sequence search: %w", err)
	}
	defer resp.Body.Close()

	// The service answers an empty match set with 204.
	if resp.StatusCode == http.StatusNoContent {
		return nil, nil
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("sequence search: %s", resp.Status)
	}
	var sr searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&sr); err != nil {
		return nil, fmt.Errorf("sequence search: decoding response: %w", err)
	}
	identifiers := make([]string, len(sr.ResultSet))
	for i, el := range sr.ResultSet {
		identifiers[i] = el.Identifier
	}
	return identifiers, nil
}

// entityChains translates polymer entity identifiers to chains through the
// Solr entry_entity field, keeping one representative chain per entity.
func (c *Client) entityChains(
	ctx context.Context,
	entities []string,
) ([]ChainID, error) {
	if len(entities) == 0 {
		return nil, nil
	}
	terms := make([]string, len(entities))
	terms[0] = entities[0]
	for i, e := range entities[1:] {
		terms[i+1] = strings.ToLower(e)
	}
	docs, err := c.solr(ctx,
		joinOR([]selector{
			{"entry_entity", "(" + strings.Join(terms, " OR ") + ")"},
		}),
		"pdb_id,entity_id,chain_id,assembly_composition")
	if err != nil {
		return nil, err
	}

	var chains []ChainID
	for _, doc := range docs {
		if ch, ok := firstChain(doc.ChainID); ok {
			chains = append(chains, ChainID{
				PDBCode: strings.ToUpper(doc.PDBID),
				Chain:   ch,
			})
		}
	}
	sort.Slice(chains, func(i, j int) bool {
		if chains[i].PDBCode != chains[j].PDBCode {
			return chains[i].PDBCode < chains[j].PDBCode
		}
		return chains[i].Chain < chains[j].Chain
	})
	return chains, nil
}
