// Command pdbfetch downloads protein structure files and queries structure
// metadata from the command line.
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	spyprot "github.com/Zedelghem/spyProt"
	"github.com/Zedelghem/spyProt/search"
)

var (
	outDir   string
	chain    string
	atom     string
	asCIF    bool
	identity int
	onlyRNA  bool
	anyMol   bool
	codes    bool
)

var rootCmd = &cobra.Command{
	Use:           "pdbfetch",
	Short:         "Fetch and filter protein structure files",
	SilenceUsage:  true,
	SilenceErrors: true,
}

var getCmd = &cobra.Command{
	Use:   "get <code>",
	Short: "Download a structure file, optionally reduced to one chain",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c := spyprot.NewClient()
		c.Log = log.New(os.Stderr, "", log.LstdFlags)
		req := spyprot.Request{
			Dir:   outDir,
			Code:  args[0],
			Chain: chain,
			Atom:  atom,
		}
		fetch := c.PDB
		if asCIF {
			fetch = c.CIF
		}
		out, err := fetch(context.Background(), req)
		if err != nil {
			return err
		}
		cmd.Println(out)
		return nil
	},
}

var chainsCmd = &cobra.Command{
	Use:   "chains <code>",
	Short: "List one representative chain per entity of an entry",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		chains, err := search.NewClient().UniqueChains(
			context.Background(), args[0], moleculeFilter())
		if err != nil {
			return err
		}
		for _, ch := range chains {
			cmd.Println(ch)
		}
		return nil
	},
}

var identicalCmd = &cobra.Command{
	Use:   "identical <code> <chain>",
	Short: "List chains identical to the given one within its entry",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		chains, err := search.NewClient().IdenticalChains(
			context.Background(), args[0], args[1])
		if err != nil {
			return err
		}
		for _, ch := range chains {
			cmd.Println(ch)
		}
		return nil
	},
}

var similarCmd = &cobra.Command{
	Use:   "similar <code> <chain>",
	Short: "List chains with a similar sequence across the archive",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		chains, err := search.NewClient().SimilarChains(
			context.Background(), args[0], args[1], identity)
		if err != nil {
			return err
		}
		for _, ch := range chains {
			cmd.Println(ch)
		}
		return nil
	},
}

var releasedCmd = &cobra.Command{
	Use:   "released <from> [to]",
	Short: "List entries released in a date range (YYYY-MM-DD)",
	Args:  cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		from, err := time.Parse("2006-01-02", args[0])
		if err != nil {
			return fmt.Errorf("bad date %q: %w", args[0], err)
		}
		var to time.Time
		if len(args) == 2 {
			if to, err = time.Parse("2006-01-02", args[1]); err != nil {
				return fmt.Errorf("bad date %q: %w", args[1], err)
			}
		}

		c := search.NewClient()
		ctx := context.Background()
		if codes {
			ids, err := c.ReleasedCodes(ctx, from, to, moleculeFilter())
			if err != nil {
				return err
			}
			cmd.Println(strings.Join(ids, "\n"))
			return nil
		}
		chains, err := c.Released(ctx, from, to, moleculeFilter())
		if err != nil {
			return err
		}
		for _, ch := range chains {
			cmd.Println(ch)
		}
		return nil
	},
}

func moleculeFilter() search.MoleculeFilter {
	switch {
	case onlyRNA:
		return search.RNA
	case anyMol:
		return search.ProteinOrRNA
	}
	return search.Protein
}

func init() {
	getCmd.Flags().StringVarP(&outDir, "dir", "d", ".", "output directory")
	getCmd.Flags().StringVarP(&chain, "chain", "c", "", "chain to keep")
	getCmd.Flags().StringVarP(&atom, "atom", "a", "", "atom name to keep, e.g. CA")
	getCmd.Flags().BoolVar(&asCIF, "cif", false, "fetch PDBx/mmCIF instead of legacy PDB")

	similarCmd.Flags().IntVarP(&identity, "identity", "i", 40,
		"minimum percent sequence identity")

	for _, cmd := range []*cobra.Command{chainsCmd, releasedCmd} {
		cmd.Flags().BoolVar(&onlyRNA, "rna", false, "RNA entities only")
		cmd.Flags().BoolVar(&anyMol, "any", false, "protein and RNA entities")
	}
	releasedCmd.Flags().BoolVar(&codes, "codes", false,
		"print entry codes instead of chains")

	rootCmd.AddCommand(getCmd, chainsCmd, identicalCmd, similarCmd, releasedCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "pdbfetch:", err)
		os.Exit(1)
	}
}
