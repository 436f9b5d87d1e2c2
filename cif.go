package spyprot

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/Zedelghem/spyProt/filter"
)

// DownloadCIF fetches the PDBx/mmCIF file of an entry without filtering it
// and returns the path of <code>.cif.
func (c *Client) DownloadCIF(ctx context.Context, req Request) (string, error) {
	if !validCode(req.Code) {
		return "", fmt.Errorf("invalid PDB code %q", req.Code)
	}
	if err := os.MkdirAll(req.Dir, 0755); err != nil {
		return "", err
	}
	out := filepath.Join(req.Dir, strings.ToLower(req.Code)+".cif")
	if err := c.download(ctx, cifURL(c.CIFURL, req.Code), out); err != nil {
		return "", err
	}
	return out, nil
}

// CIF fetches the PDBx/mmCIF file of an entry and applies the request's
// chain and atom filters, with the same naming scheme as PDB. The
// unfiltered download is kept as <code>.cif.
func (c *Client) CIF(ctx context.Context, req Request) (string, error) {
	out, err := c.DownloadCIF(ctx, req)
	if err != nil {
		return "", err
	}
	if req.Chain != "" {
		if out, err = c.filterChain(out, req.Chain); err != nil {
			return "", err
		}
	}
	if req.Atom != "" {
		if out, err = c.filterAtom(out, req.Chain, req.Atom); err != nil {
			return "", err
		}
	}
	return out, nil
}

// ChainResidues fetches an entry's mmCIF file if needed and lists the
// residues of the given chain. See filter.ChainResidues.
func (c *Client) ChainResidues(
	ctx context.Context,
	req Request,
) ([]filter.Residue, error) {
	path := filepath.Join(req.Dir, strings.ToLower(req.Code)+".cif")
	if _, err := os.Stat(path); err != nil {
		if path, err = c.DownloadCIF(ctx, req); err != nil {
			return nil, err
		}
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return filter.ChainResidues(f, req.Chain)
}

// FirstResidueNumber fetches an entry's mmCIF file if needed and returns
// the sequence number of the first residue of the given chain, or 0 if the
// chain is absent.
func (c *Client) FirstResidueNumber(
	ctx context.Context,
	req Request,
) (int, error) {
	residues, err := c.ChainResidues(ctx, req)
	if err != nil {
		return 0, err
	}
	if len(residues) == 0 {
		return 0, nil
	}
	return residues[0].SeqNum, nil
}
