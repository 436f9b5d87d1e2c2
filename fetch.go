package spyprot

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/Zedelghem/spyProt/bundle"
	"github.com/Zedelghem/spyProt/filter"
)

// ErrNotFound is returned when neither the archive nor its bundle fallback
// has the requested entry.
var ErrNotFound = errors.New("entry not found")

// A Request names a structure file to fetch.
type Request struct {
	// The directory to store downloaded and filtered files in. Created if
	// it does not exist.
	Dir string

	// The four-character PDB identifier, in either case.
	Code string

	// When non-empty, the output is reduced to this chain. Required for
	// entries only available as bundles.
	Chain string

	// When non-empty, the output is further reduced to atoms with this
	// name, e.g. "CA" for an alpha-carbon trace.
	Atom string
}

// Client fetches structure files. The zero value is not usable; call
// NewClient, then override fields for testing or alternate mirrors.
type Client struct {
	// The HTTP client used for downloads.
	HTTP *http.Client

	// Where progress and fallback decisions are logged. When nil, the
	// client is silent.
	Log *log.Logger

	// Base URLs of the archive endpoints.
	ViewURL   string
	BundleURL string
	CIFURL    string
}

// NewClient returns a Client talking to the public RCSB and PDBe archives.
func NewClient() *Client {
	return &Client{
		HTTP:      http.DefaultClient,
		ViewURL:   rcsbViewURL,
		BundleURL: rcsbBundleURL,
		CIFURL:    pdbeEntryURL,
	}
}

func (c *Client) logf(format string, v ...interface{}) {
	if c.Log != nil {
		c.Log.Printf(format, v...)
	}
}

// PDB fetches a legacy PDB file and returns the path of the resulting
// file. The unfiltered download is kept as <code>.pdb; the chain filter
// appends _<chain> to the name and the atom filter _<atom>, matching what
// the request asked for.
//
// When the entry has no legacy file, the PDB bundle is fetched instead.
// This path requires a chain: the bundle's mapping is consulted for the
// member file holding it, and when the bundle reassigned the identifier,
// the member is rewritten so the output carries the requested one again.
func (c *Client) PDB(ctx context.Context, req Request) (string, error) {
	if !validCode(req.Code) {
		return "", fmt.Errorf("invalid PDB code %q", req.Code)
	}
	if err := os.MkdirAll(req.Dir, 0755); err != nil {
		return "", err
	}

	out := filepath.Join(req.Dir, strings.ToLower(req.Code)+".pdb")
	err := c.download(ctx, viewURL(c.ViewURL, req.Code), out)
	switch {
	case err == nil:
		if req.Chain != "" {
			out, err = c.filterChain(out, req.Chain)
			if err != nil {
				return "", err
			}
		}
	case errors.Is(err, ErrNotFound):
		c.logf("%s %s: no legacy file, trying the PDB bundle",
			req.Code, req.Chain)
		out, err = c.fromBundle(ctx, req)
		if err != nil {
			return "", err
		}
	default:
		return "", err
	}

	if req.Atom != "" {
		out, err = c.filterAtom(out, req.Chain, req.Atom)
		if err != nil {
			return "", err
		}
	}
	return out, nil
}

// fromBundle fetches the entry's bundle archive and produces
// <code>_<chain>.pdb from the member file holding the requested chain.
func (c *Client) fromBundle(ctx context.Context, req Request) (string, error) {
	if req.Chain == "" {
		return "", fmt.Errorf(
			"%s: entry is only available as a bundle, a chain is required",
			req.Code)
	}

	archive := filepath.Join(req.Dir, strings.ToLower(req.Code)+".tar.gz")
	if err := c.download(ctx, bundleURL(c.BundleURL, req.Code), archive); err != nil {
		return "", fmt.Errorf("fetching bundle for %s: %w", req.Code, err)
	}
	defer os.Remove(archive)

	members, err := extractArchive(req.Dir, archive)
	if err != nil {
		return "", err
	}
	defer removeMembers(req.Dir, members)

	m, err := readMappingFile(filepath.Join(req.Dir, mappingFile(req.Code)))
	if err != nil {
		return "", err
	}
	memberFile, legacy, err := m.Lookup(req.Chain)
	if err != nil {
		return "", fmt.Errorf("%s chain %s: %w", req.Code, req.Chain, err)
	}
	member := filepath.Join(req.Dir, memberFile)

	if len(req.Chain) == 1 && req.Chain[0] == legacy {
		// The bundle kept the original identifier; the member is a normal
		// legacy file and goes through the usual chain filter.
		out := filepath.Join(req.Dir, strings.ToLower(req.Code)+".pdb")
		if err := os.Rename(member, out); err != nil {
			return "", err
		}
		return c.filterChain(out, req.Chain)
	}

	out := filepath.Join(req.Dir,
		fmt.Sprintf("%s_%s.pdb", strings.ToLower(req.Code), req.Chain))
	if err := remapFile(out, member, req.Chain, legacy); err != nil {
		return "", err
	}
	return out, nil
}

// filterChain writes the single-chain reduction of the file at path,
// appending _<chain> to the name. The input file is kept.
func (c *Client) filterChain(path, chain string) (string, error) {
	out := suffixName(path, chain)
	err := filterFile(out, path, filter.NewChainSelect(chain))
	return out, err
}

// filterAtom writes the single-atom-name reduction of the file at path,
// appending _<atom> to the name. The chain predicate applies only to
// single-character identifiers: an empty chain keeps every chain, and a
// multi-character one comes from the bundle path, whose output already
// holds just the requested chain packed into columns no record-level read
// can match.
func (c *Client) filterAtom(path, chain, atom string) (string, error) {
	var sel filter.Selector = filter.NewChainAtomSelect(chain, atom)
	if len(chain) != 1 {
		sel = anyChain{filter.NewChainAtomSelect(chain, atom)}
	}
	out := suffixName(path, atom)
	err := filterFile(out, path, sel)
	return out, err
}

// anyChain widens a chain selector to accept every chain.
type anyChain struct {
	*filter.ChainSelect
}

func (anyChain) Chain(string) bool { return true }

func (c *Client) download(ctx context.Context, url, path string) error {
	req, err := http.NewRequestWithContext(ctx, "GET", url, nil)
	if err != nil {
		return err
	}
	resp, err := c.HTTP.Do(req)
	if err != nil {
		return fmt.Errorf("fetching %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return fmt.Errorf("fetching %s: %w", url, ErrNotFound)
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("fetching %s: %s", url, resp.Status)
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if _, err := io.Copy(f, resp.Body); err != nil {
		f.Close()
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return f.Close()
}

func extractArchive(dir, archive string) ([]string, error) {
	f, err := os.Open(archive)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return extractBundle(dir, f)
}

// removeMembers deletes extracted bundle files that are still lying
// around. The produced output never matches a member name, so it survives.
func removeMembers(dir string, members []string) {
	for _, name := range members {
		os.Remove(filepath.Join(dir, name))
	}
}

func readMappingFile(path string) (*bundle.Mapping, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("reading chain-id mapping: %w", err)
	}
	defer f.Close()
	m, err := bundle.ReadMapping(f)
	if err != nil {
		return nil, fmt.Errorf("reading chain-id mapping: %w", err)
	}
	return m, nil
}

func remapFile(out, in, chain string, legacy byte) error {
	src, err := os.Open(in)
	if err != nil {
		return err
	}
	defer src.Close()
	dst, err := os.Create(out)
	if err != nil {
		return err
	}
	if err := bundle.Remap(dst, src, chain, legacy); err != nil {
		dst.Close()
		return fmt.Errorf("remapping %s: %w", in, err)
	}
	return dst.Close()
}

func filterFile(out, in string, sel filter.Selector) error {
	src, err := os.Open(in)
	if err != nil {
		return err
	}
	defer src.Close()
	dst, err := os.Create(out)
	if err != nil {
		return err
	}
	if err := filterPath(dst, src, sel, in); err != nil {
		dst.Close()
		os.Remove(out)
		return err
	}
	return dst.Close()
}

// filterPath dispatches on the file extension: .cif files go through the
// mmCIF filter, everything else through the legacy fixed-column one.
func filterPath(w io.Writer, r io.Reader, sel filter.Selector, path string) error {
	if strings.HasSuffix(path, ".cif") {
		return filter.FilterCIF(w, r, sel)
	}
	return filter.FilterPDB(w, r, sel)
}

// suffixName inserts _<part> before the extension of path.
func suffixName(path, part string) string {
	ext := filepath.Ext(path)
	return strings.TrimSuffix(path, ext) + "_" + part + ext
}
